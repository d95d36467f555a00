// Package render draws frame assemblies as shaded PNG stills and rotating
// GIF animations.
//
// Triangles from the shared mesh are projected with an orthographic camera
// placed by elevation and azimuth in degrees, following the usual 3D plot
// convention: azimuth 0 looks down -X, elevation 20 tilts the view above the
// horizon. The image is rasterized at a supersampled
// size with a z-buffer and downscaled before the title and legend are drawn.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"time"

	"davitframe/internal/domain"
	"davitframe/internal/geom"
	"davitframe/internal/mesh"
)

// Options controls image size, camera and animation timing
type Options struct {
	Width       int
	Height      int
	Elevation   float64
	Azimuth     float64
	Supersample int
	Frames      int
	FrameDelay  time.Duration
	Legend      bool
}

// DefaultOptions returns the still and animation defaults
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      640,
		Elevation:   20,
		Azimuth:     45,
		Supersample: 2,
		Frames:      24,
		FrameDelay:  200 * time.Millisecond,
		Legend:      true,
	}
}

// withDefaults fills zero fields from DefaultOptions
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Supersample <= 0 {
		o.Supersample = d.Supersample
	}
	if o.Frames <= 0 {
		o.Frames = d.Frames
	}
	if o.FrameDelay <= 0 {
		o.FrameDelay = d.FrameDelay
	}
	return o
}

// Renderer draws frame assemblies. It holds no per-frame state and is safe
// for concurrent use.
type Renderer struct {
	opts Options
}

// New creates a renderer; zero option fields take their defaults
func New(opts Options) *Renderer {
	return &Renderer{opts: opts.withDefaults()}
}

// Options returns the effective options
func (r *Renderer) Options() Options {
	return r.opts
}

// Image renders frame at the given azimuth and the configured elevation
func (r *Renderer) Image(frame *domain.FrameAssembly, azimuth float64) (*image.RGBA, error) {
	return r.View(frame, azimuth, r.opts.Elevation)
}

// View renders frame from an arbitrary camera angle
func (r *Renderer) View(frame *domain.FrameAssembly, azimuth, elevation float64) (*image.RGBA, error) {
	if frame == nil {
		return nil, fmt.Errorf("render: nil frame")
	}
	return r.draw(newScene(frame), azimuth, elevation), nil
}

// scene is the part of a render shared by every view of one assembly
type scene struct {
	mesh     *mesh.Mesh
	center   geom.Point3D
	radius   float64
	title    string
	subtitle string
}

func newScene(frame *domain.FrameAssembly) *scene {
	m := mesh.Build(frame)
	b := m.Bounds()
	spec := frame.Spec
	subtitle := fmt.Sprintf("%.3f\"H x %.3f\"W - Bottom Rail at %g\" Height",
		spec.TubeHeight, spec.TubeSeparation, spec.BottomTubeOffset)

	return &scene{
		mesh:     m,
		center:   b.Center(),
		radius:   b.Size().Norm() / 2,
		title:    spec.Name,
		subtitle: subtitle,
	}
}

func (r *Renderer) draw(s *scene, azimuth, elevation float64) *image.RGBA {
	img := rasterize(s, newCamera(azimuth, elevation), r.opts)
	annotate(img, s, r.opts.Legend)
	return img
}

// WritePNG encodes img as PNG
func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
