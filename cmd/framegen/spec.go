package main

import (
	"fmt"
	"text/tabwriter"

	"davitframe/internal/config"
	"davitframe/internal/domain"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newSpecCmd(flags *globalFlags) *cobra.Command {
	var write string

	cmd := &cobra.Command{
		Use:   "spec",
		Short: "Print the effective frame specification as YAML",
		Long: `Print the frame specification after the variant, the config file's
frame overrides and --variant have been applied.

With --write the full spec is stored as the frame section of a config
file, creating it if needed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, spec, err := flags.loadSpec()
			if err != nil {
				return err
			}

			if write != "" {
				if err := cfg.SetFrame(spec); err != nil {
					return err
				}
				if err := cfg.Save(write); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", write)
				return nil
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(spec); err != nil {
				return fmt.Errorf("encode spec: %w", err)
			}
			return enc.Close()
		},
	}

	cmd.Flags().StringVar(&write, "write", "", fmt.Sprintf("save the frame spec into this config file (e.g. %s)", config.ConfigFileName))
	return cmd
}

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that the configured frame can be built",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := flags.loadConfig()
			if err != nil {
				return err
			}
			spec, err := flags.specFor(cfg)
			if err != nil {
				return err
			}
			frame, err := domain.BuildFrame(spec)
			if err != nil {
				return err
			}

			if flags.specFile != "" {
				path = flags.specFile
			} else if path == "" {
				path = "(defaults)"
			}
			counts := frame.Counts()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config: %s\n%s\n", path, cfg.Summary())
			fmt.Fprintf(out, "OK: %d verticals, %d horizontals, %d braces, %d ring segments, %d cleat, %d support bars\n",
				counts.Verticals, counts.Horizontals, counts.Braces, counts.RingSegments, counts.Cleats, counts.SupportBars)
			return nil
		},
	}
}

func newCutListCmd(flags *globalFlags) *cobra.Command {
	var notes bool

	cmd := &cobra.Command{
		Use:   "cutlist",
		Short: "Print the tube cut list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, spec, err := flags.loadSpec()
			if err != nil {
				return err
			}
			frame, err := domain.BuildFrame(spec)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PART\tQTY\tLENGTH\tOD\tWALL")
			for _, item := range domain.CutList(frame) {
				fmt.Fprintf(tw, "%s\t%d\t%.3f\"\t%.3f\"\t%.3f\"-%.3f\"\n",
					item.Part, item.Quantity, item.Length, item.OuterDiameter, item.WallMin, item.WallMax)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if notes {
				fmt.Fprintln(cmd.OutOrStdout())
				for _, note := range domain.FabricationNotes(spec) {
					fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", note)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&notes, "notes", true, "print the fabrication notes after the table")
	return cmd
}
