package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"davitframe/internal/codec"
	"davitframe/internal/domain"
	"davitframe/internal/render"

	"golang.org/x/sync/errgroup"
)

// Artifact formats produced by the renderer rather than a codec
const (
	FormatPNG = "png"
	FormatGIF = "gif"
)

// Artifact describes one written output file
type Artifact struct {
	Format string `json:"format"`
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// GenerateOptions selects what Generate writes and where
type GenerateOptions struct {
	Dir       string
	BaseName  string
	Formats   []string
	Still     bool
	Animation bool
}

// Generator builds frame assemblies and fans them out to the exporters and
// the renderer
type Generator struct {
	renderer *render.Renderer
	eventBus *EventBus
}

// NewGenerator creates a new generator
func NewGenerator(renderer *render.Renderer, eventBus *EventBus) *Generator {
	if renderer == nil {
		renderer = render.New(render.DefaultOptions())
	}
	return &Generator{
		renderer: renderer,
		eventBus: eventBus,
	}
}

// Renderer returns the generator's renderer
func (g *Generator) Renderer() *render.Renderer {
	return g.renderer
}

// Build validates spec and constructs the assembly
func (g *Generator) Build(spec domain.FrameSpec) (*domain.FrameAssembly, error) {
	frame, err := domain.BuildFrame(spec)
	if err != nil {
		return nil, err
	}

	g.eventBus.Publish(Event{
		Type:    EventFrameBuilt,
		Payload: frame.Counts(),
	})

	return frame, nil
}

// Export writes frame in format to w
func (g *Generator) Export(frame *domain.FrameAssembly, format string, w io.Writer) error {
	exporter, err := codec.Lookup(format)
	if err != nil {
		return err
	}
	return exporter.Export(frame, w)
}

// RenderPNG writes a still from the given camera angle
func (g *Generator) RenderPNG(frame *domain.FrameAssembly, azimuth, elevation float64, w io.Writer) error {
	img, err := g.renderer.View(frame, azimuth, elevation)
	if err != nil {
		return err
	}
	return render.WritePNG(w, img)
}

// RenderGIF writes the rotating animation
func (g *Generator) RenderGIF(ctx context.Context, frame *domain.FrameAssembly, w io.Writer) error {
	anim, err := g.renderer.Animation(ctx, frame)
	if err != nil {
		return err
	}
	return render.WriteGIF(w, anim)
}

// task writes one artifact
type task struct {
	format string
	path   string
	write  func(ctx context.Context, w io.Writer) error
}

// Generate writes every requested output for frame concurrently. Unknown
// formats are rejected before anything is written. Artifacts are returned in
// request order: codec formats, then the still, then the animation.
func (g *Generator) Generate(ctx context.Context, frame *domain.FrameAssembly, opts GenerateOptions) ([]Artifact, error) {
	if opts.Dir == "" {
		opts.Dir = "."
	}
	if opts.BaseName == "" {
		opts.BaseName = "davit_frame"
	}

	tasks, err := g.plan(frame, opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	g.eventBus.Publish(Event{
		Type:    EventGenerationStarted,
		Payload: map[string]any{"dir": opts.Dir, "outputs": len(tasks)},
	})

	artifacts := make([]Artifact, len(tasks))
	eg, ctx := errgroup.WithContext(ctx)
	for i, t := range tasks {
		eg.Go(func() error {
			a, err := writeArtifact(ctx, t)
			if err != nil {
				return fmt.Errorf("%s: %w", t.format, err)
			}
			artifacts[i] = a
			log.Printf("Wrote %s (%d bytes)", a.Path, a.Size)
			g.eventBus.Publish(Event{Type: EventArtifactWritten, Payload: a})
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		g.eventBus.Publish(Event{
			Type:    EventGenerationFailed,
			Payload: map[string]string{"error": err.Error()},
		})
		return nil, fmt.Errorf("generate: %w", err)
	}

	g.eventBus.Publish(Event{Type: EventGenerationCompleted, Payload: artifacts})
	return artifacts, nil
}

// GenerateSpec builds spec and generates its outputs
func (g *Generator) GenerateSpec(ctx context.Context, spec domain.FrameSpec, opts GenerateOptions) ([]Artifact, error) {
	frame, err := g.Build(spec)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, frame, opts)
}

func (g *Generator) plan(frame *domain.FrameAssembly, opts GenerateOptions) ([]task, error) {
	if frame == nil {
		return nil, fmt.Errorf("generate: nil frame")
	}
	base := opts.BaseName

	var tasks []task
	seen := make(map[string]bool)
	for _, format := range opts.Formats {
		exporter, err := codec.Lookup(format)
		if err != nil {
			return nil, err
		}
		if seen[exporter.Format()] {
			continue
		}
		seen[exporter.Format()] = true
		tasks = append(tasks, task{
			format: exporter.Format(),
			path:   filepath.Join(opts.Dir, base+exporter.Extension()),
			write: func(_ context.Context, w io.Writer) error {
				return exporter.Export(frame, w)
			},
		})
	}

	if opts.Still {
		elevation := g.renderer.Options().Elevation
		azimuth := g.renderer.Options().Azimuth
		tasks = append(tasks, task{
			format: FormatPNG,
			path:   filepath.Join(opts.Dir, base+".png"),
			write: func(_ context.Context, w io.Writer) error {
				return g.RenderPNG(frame, azimuth, elevation, w)
			},
		})
	}
	if opts.Animation {
		tasks = append(tasks, task{
			format: FormatGIF,
			path:   filepath.Join(opts.Dir, base+"_rotation.gif"),
			write: func(ctx context.Context, w io.Writer) error {
				return g.RenderGIF(ctx, frame, w)
			},
		})
	}

	if len(tasks) == 0 {
		return nil, fmt.Errorf("generate: nothing to write")
	}
	return tasks, nil
}

// writeArtifact writes to a temp file in the target directory and renames
// it into place, so readers never see a partial file
func writeArtifact(ctx context.Context, t task) (Artifact, error) {
	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	dir := filepath.Dir(t.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(t.path)+".*")
	if err != nil {
		return Artifact{}, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hash := sha256.New()
	counter := &countingWriter{}
	if err := t.write(ctx, io.MultiWriter(tmp, hash, counter)); err != nil {
		tmp.Close()
		return Artifact{}, err
	}
	if err := tmp.Close(); err != nil {
		return Artifact{}, fmt.Errorf("close %s: %w", t.path, err)
	}
	if err := os.Rename(tmp.Name(), t.path); err != nil {
		return Artifact{}, fmt.Errorf("rename %s: %w", t.path, err)
	}

	return Artifact{
		Format: t.format,
		Path:   t.path,
		Size:   counter.n,
		SHA256: hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
