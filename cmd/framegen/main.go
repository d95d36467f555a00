package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"davitframe/internal/codec"
	"davitframe/internal/config"
	"davitframe/internal/domain"
	"davitframe/internal/render"
	"davitframe/internal/service"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath string
	variant    string
	specFile   string
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// A missing .env is normal
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "framegen",
		Short: "Parametric davit frame generator",
		Long: `Generate a welded tube frame from a small set of dimensions and
export it as DXF, STEP, OBJ, JSON and YAML, with a rendered still
and a rotating animation.

The frame is read from davitframe.yaml (see --config); without a config
file the davit variant defaults are used.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default: search $DAVITFRAME_CONFIG, ./davitframe.yaml, XDG dirs)")
	root.PersistentFlags().StringVar(&flags.variant, "variant", "", fmt.Sprintf("frame variant %v, overrides the config file", domain.Variants()))
	root.PersistentFlags().StringVar(&flags.specFile, "spec", "", "read the frame spec from a .json or .yaml file instead of the config")

	root.AddCommand(
		newGenerateCmd(flags),
		newExportCmd(flags),
		newRenderCmd(flags),
		newAnimateCmd(flags),
		newSpecCmd(flags),
		newValidateCmd(flags),
		newCutListCmd(flags),
		newServeCmd(flags),
	)
	return root
}

// loadConfig reads the config file selected by the flags. path is empty when
// running on defaults.
func (f *globalFlags) loadConfig() (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if f.configPath != "" {
		cfg, path, err = config.LoadFromPath(f.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	if f.variant != "" {
		cfg.Variant = f.variant
	}
	return cfg, path, nil
}

// loadSpec loads the config and returns its effective frame spec. A --spec
// file replaces the config's frame section.
func (f *globalFlags) loadSpec() (*config.Config, domain.FrameSpec, error) {
	cfg, _, err := f.loadConfig()
	if err != nil {
		return nil, domain.FrameSpec{}, err
	}
	spec, err := f.specFor(cfg)
	if err != nil {
		return nil, domain.FrameSpec{}, err
	}
	return cfg, spec, nil
}

func (f *globalFlags) specFor(cfg *config.Config) (domain.FrameSpec, error) {
	if f.specFile != "" {
		return readSpecFile(f.specFile)
	}
	return cfg.FrameSpec()
}

// watchPath is the file whose changes alter the frame: the --spec file when
// given, otherwise the config file in use
func (f *globalFlags) watchPath(configPath string) string {
	if f.specFile != "" {
		return f.specFile
	}
	return configPath
}

// readSpecFile parses a spec document, choosing the codec by extension
func readSpecFile(path string) (domain.FrameSpec, error) {
	importer, err := codec.LookupImporter(filepath.Ext(path))
	if err != nil {
		return domain.FrameSpec{}, fmt.Errorf("spec file %s: %w", path, err)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.FrameSpec{}, err
	}
	defer file.Close()

	spec, err := importer.Parse(file)
	if err != nil {
		return domain.FrameSpec{}, fmt.Errorf("spec file %s: %w", path, err)
	}
	return *spec, nil
}

// buildFrame loads the config and builds the frame it describes
func (f *globalFlags) buildFrame(eventBus *service.EventBus) (*config.Config, *service.Generator, *domain.FrameAssembly, error) {
	cfg, spec, err := f.loadSpec()
	if err != nil {
		return nil, nil, nil, err
	}

	gen := service.NewGenerator(render.New(cfg.RenderOptions()), eventBus)
	frame, err := gen.Build(spec)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, gen, frame, nil
}

// openOutput opens path for writing, or the command's stdout for "" and "-"
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, file.Close, nil
}
