package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"davitframe/internal/codec"
	"davitframe/internal/config"
	"davitframe/internal/render"
	"davitframe/internal/service"
	"davitframe/internal/watcher"

	"github.com/spf13/cobra"
)

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	var (
		outDir  string
		formats []string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write every configured export and render",
		Long: `Build the frame and write the configured formats, the still and the
rotating animation into the output directory.

With --watch the config file is watched and everything is regenerated
whenever it changes, until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			run := func(ctx context.Context) error {
				cfg, spec, err := flags.loadSpec()
				if err != nil {
					return err
				}
				opts := generateOptions(cfg)
				if outDir != "" {
					opts.Dir = outDir
				}
				if len(formats) > 0 {
					opts.Formats = formats
				}

				gen := service.NewGenerator(render.New(cfg.RenderOptions()), nil)
				artifacts, err := gen.GenerateSpec(ctx, spec, opts)
				if err != nil {
					return err
				}
				for _, a := range artifacts {
					fmt.Fprintf(cmd.OutOrStdout(), "%-5s %s %s\n", a.Format, a.SHA256[:12], a.Path)
				}
				return nil
			}

			if err := run(ctx); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			cfg, path, err := flags.loadConfig()
			if err != nil {
				return err
			}
			if path = flags.watchPath(path); path == "" {
				return fmt.Errorf("--watch needs a config file: pass --config or create %s", config.ConfigFileName)
			}

			w := watcher.New(path, run).WithDebounce(cfg.Watch.Debounce.Duration())
			if err := w.Watch(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (overrides output.dir)")
	cmd.Flags().StringSliceVarP(&formats, "formats", "f", nil, fmt.Sprintf("formats to write, any of %s", strings.Join(codec.Formats(), ",")))
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "regenerate when the config file changes")
	return cmd
}

func generateOptions(cfg *config.Config) service.GenerateOptions {
	return service.GenerateOptions{
		Dir:       cfg.Output.Dir,
		BaseName:  cfg.Output.BaseName,
		Formats:   cfg.Output.Formats,
		Still:     cfg.StillEnabled(),
		Animation: cfg.AnimationEnabled(),
	}
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:       "export <format>",
		Short:     "Write the frame in one format",
		Long:      fmt.Sprintf("Write the frame in one of %s to a file or stdout.", strings.Join(codec.Formats(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: codec.Formats(),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Reject the format before building anything
			if _, err := codec.Lookup(args[0]); err != nil {
				return err
			}

			_, gen, frame, err := flags.buildFrame(nil)
			if err != nil {
				return err
			}

			w, closeFn, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			if err := gen.Export(frame, args[0], w); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newRenderCmd(flags *globalFlags) *cobra.Command {
	var (
		output    string
		azimuth   float64
		elevation float64
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a PNG still of the frame",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gen, frame, err := flags.buildFrame(nil)
			if err != nil {
				return err
			}

			opts := gen.Renderer().Options()
			if !cmd.Flags().Changed("azim") {
				azimuth = opts.Azimuth
			}
			if !cmd.Flags().Changed("elev") {
				elevation = opts.Elevation
			}
			if output == "" {
				output = cfg.Output.BaseName + ".png"
			}

			w, closeFn, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			if err := gen.RenderPNG(frame, azimuth, elevation, w); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	d := render.DefaultOptions()
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default <base_name>.png)")
	cmd.Flags().Float64Var(&azimuth, "azim", d.Azimuth, "camera azimuth in degrees")
	cmd.Flags().Float64Var(&elevation, "elev", d.Elevation, "camera elevation in degrees")
	return cmd
}

func newAnimateCmd(flags *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "animate",
		Short: "Render the rotating GIF animation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, gen, frame, err := flags.buildFrame(nil)
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.Output.BaseName + "_rotation.gif"
			}

			w, closeFn, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			if err := gen.RenderGIF(cmd.Context(), frame, w); err != nil {
				closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file, - for stdout (default <base_name>_rotation.gif)")
	return cmd
}
