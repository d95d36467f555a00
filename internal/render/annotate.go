package render

import (
	"image"
	"image/color"
	"image/draw"

	"davitframe/internal/mesh"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var textColor = color.RGBA{20, 20, 20, 255}

// legendEntry labels one part color
type legendEntry struct {
	kind  mesh.Kind
	label string
}

var legend = []legendEntry{
	{mesh.KindVertical, "Vertical Tubes"},
	{mesh.KindHorizontal, "Horizontal Rails"},
	{mesh.KindBrace, "Diagonal Braces"},
	{mesh.KindCleat, "Boat Cleat"},
	{mesh.KindRing, "Semicircle Rings"},
	{mesh.KindSupport, "Support Bars"},
}

// annotate draws the centered title block and, optionally, the legend in
// the upper-left corner
func annotate(img *image.RGBA, s *scene, withLegend bool) {
	face := basicfont.Face7x13
	lineHeight := face.Metrics().Height.Ceil() + 2
	width := img.Bounds().Dx()

	y := lineHeight + 4
	for _, line := range []string{s.title, s.subtitle} {
		if line == "" {
			continue
		}
		d := &font.Drawer{Dst: img, Src: image.NewUniform(textColor), Face: face}
		x := (width - d.MeasureString(line).Ceil()) / 2
		d.Dot = fixed.P(max(x, 4), y)
		d.DrawString(line)
		y += lineHeight
	}

	if !withLegend {
		return
	}

	y += lineHeight / 2
	swatch := lineHeight - 4
	for _, e := range legend {
		if e.kind == mesh.KindSupport && !hasKind(s.mesh, mesh.KindSupport) {
			continue
		}
		box := image.Rect(8, y-swatch, 8+swatch, y)
		draw.Draw(img, box, image.NewUniform(kindColors[e.kind]), image.Point{}, draw.Src)

		d := &font.Drawer{Dst: img, Src: image.NewUniform(textColor), Face: face}
		d.Dot = fixed.P(box.Max.X+6, y-1)
		d.DrawString(e.label)
		y += lineHeight
	}
}

func hasKind(m *mesh.Mesh, kind mesh.Kind) bool {
	for _, p := range m.Parts {
		if p.Kind == kind {
			return true
		}
	}
	return false
}
