package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"davitframe/internal/geom"
	"davitframe/internal/mesh"

	"github.com/anthonynsimon/bild/transform"
)

var background = color.RGBA{255, 255, 255, 255}

// Part colors
var kindColors = map[mesh.Kind]color.RGBA{
	mesh.KindVertical:   {255, 0, 0, 255},     // red
	mesh.KindHorizontal: {255, 215, 0, 255},   // gold
	mesh.KindBrace:      {0, 128, 0, 255},     // green
	mesh.KindRing:       {128, 0, 128, 255},   // purple
	mesh.KindCleat:      {0, 255, 255, 255},   // cyan
	mesh.KindSupport:    {70, 130, 180, 255},  // steel blue
	mesh.KindPlate:      {112, 128, 144, 255}, // slate gray
}

// Fraction of the light that reaches faces turned away from it
const ambient = 0.35

// camera is an orthographic view basis. eye points from the target toward
// the viewer, so larger depth is nearer.
type camera struct {
	right, up, eye geom.Point3D
	light          geom.Point3D
}

func newCamera(azimuthDeg, elevationDeg float64) camera {
	a, e := geom.Radians(azimuthDeg), geom.Radians(elevationDeg)
	ca, sa := math.Cos(a), math.Sin(a)
	ce, se := math.Cos(e), math.Sin(e)

	c := camera{
		eye:   geom.Pt(ce*ca, ce*sa, se),
		right: geom.Pt(-sa, ca, 0),
		up:    geom.Pt(-se*ca, -se*sa, ce),
	}
	// key light above and to the left of the viewer
	c.light, _ = c.eye.Add(c.up.Scale(0.6)).Sub(c.right.Scale(0.4)).Unit()
	return c
}

// project returns view-space x (right), y (up) and depth
func (c camera) project(p geom.Point3D) (float64, float64, float64) {
	return p.Dot(c.right), p.Dot(c.up), p.Dot(c.eye)
}

// shade scales base by a two-sided Lambert term
func (c camera) shade(base color.RGBA, normal geom.Point3D) color.RGBA {
	k := ambient + (1-ambient)*math.Abs(normal.Dot(c.light))
	return color.RGBA{
		R: uint8(float64(base.R) * k),
		G: uint8(float64(base.G) * k),
		B: uint8(float64(base.B) * k),
		A: 255,
	}
}

type vertex struct {
	x, y, z float64
}

// rasterize draws every triangle of the scene with a z-buffer at the
// supersampled size and returns the downscaled image
func rasterize(s *scene, cam camera, opts Options) *image.RGBA {
	ss := opts.Supersample
	w, h := opts.Width*ss, opts.Height*ss
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	zbuf := make([]float64, w*h)
	for i := range zbuf {
		zbuf[i] = math.Inf(-1)
	}

	scale := 0.42 * float64(min(w, h)) / math.Max(s.radius, 1e-9)
	cx, cy := float64(w)/2, float64(h)*0.55

	screen := make([]vertex, len(s.mesh.Vertices))
	for i, p := range s.mesh.Vertices {
		x, y, z := cam.project(p.Sub(s.center))
		screen[i] = vertex{x: cx + x*scale, y: cy - y*scale, z: z}
	}

	for _, part := range s.mesh.Parts {
		base, ok := kindColors[part.Kind]
		if !ok {
			base = color.RGBA{128, 128, 128, 255}
		}
		for _, tri := range part.Faces {
			c := cam.shade(base, s.mesh.Normal(tri))
			fillTriangle(img, zbuf, screen[tri[0]], screen[tri[1]], screen[tri[2]], c)
		}
	}

	if ss == 1 {
		return img
	}
	return transform.Resize(img, opts.Width, opts.Height, transform.Linear)
}

func edge(a, b vertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

// fillTriangle writes the pixels whose centers fall inside the triangle and
// are nearer than the current depth
func fillTriangle(img *image.RGBA, zbuf []float64, a, b, c vertex, col color.RGBA) {
	area := edge(a, b, c.x, c.y)
	if math.Abs(area) < 1e-12 {
		return
	}

	bounds := img.Bounds()
	x0 := max(int(math.Floor(min(a.x, b.x, c.x))), bounds.Min.X)
	x1 := min(int(math.Ceil(max(a.x, b.x, c.x))), bounds.Max.X-1)
	y0 := max(int(math.Floor(min(a.y, b.y, c.y))), bounds.Min.Y)
	y1 := min(int(math.Ceil(max(a.y, b.y, c.y))), bounds.Max.Y-1)

	stride := bounds.Dx()
	for y := y0; y <= y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float64(x) + 0.5
			w0 := edge(b, c, px, py) / area
			w1 := edge(c, a, px, py) / area
			w2 := edge(a, b, px, py) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*a.z + w1*b.z + w2*c.z
			i := y*stride + x
			if z <= zbuf[i] {
				continue
			}
			zbuf[i] = z
			img.SetRGBA(x, y, col)
		}
	}
}
