package render

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"runtime"
	"time"

	"davitframe/internal/domain"

	"golang.org/x/sync/errgroup"
)

// Animation renders a full turn around the frame, one frame per
// 360/Frames degrees of azimuth. Frames are rendered concurrently and
// dithered to the Plan 9 palette.
func (r *Renderer) Animation(ctx context.Context, frame *domain.FrameAssembly) (*gif.GIF, error) {
	if frame == nil {
		return nil, fmt.Errorf("render: nil frame")
	}

	n := r.opts.Frames
	s := newScene(frame)
	images := make([]*image.Paletted, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			azimuth := float64(i) * 360 / float64(n)
			img := r.draw(s, azimuth, r.opts.Elevation)

			p := image.NewPaletted(img.Bounds(), palette.Plan9)
			draw.FloydSteinberg.Draw(p, img.Bounds(), img, image.Point{})
			images[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to render animation: %w", err)
	}

	delay := int(r.opts.FrameDelay / (10 * time.Millisecond))
	anim := &gif.GIF{
		Image:     images,
		Delay:     make([]int, n),
		LoopCount: 0,
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}
	return anim, nil
}

// WriteGIF encodes an animation
func WriteGIF(w io.Writer, anim *gif.GIF) error {
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("failed to encode GIF: %w", err)
	}
	return nil
}
