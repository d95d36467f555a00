package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"davitframe/internal/domain"
	"davitframe/internal/mesh"
)

// ErrUnknownFormat is returned by Lookup for unregistered formats
var ErrUnknownFormat = errors.New("unknown format")

// Exporter writes a built frame assembly in one file format
type Exporter interface {
	Export(frame *domain.FrameAssembly, w io.Writer) error
	Format() string
	Extension() string
}

// SpecImporter reads a frame specification
type SpecImporter interface {
	Parse(r io.Reader) (*domain.FrameSpec, error)
	Format() string
}

// Layer names shared by the CAD exporters
const (
	LayerVerticalTubes   = "VERTICAL_TUBES"
	LayerHorizontalTubes = "HORIZONTAL_TUBES"
	LayerCornerBraces    = "CORNER_BRACES"
	LayerRings           = "RINGS"
	LayerCleat           = "CLEAT"
	LayerSupportBars     = "SUPPORT_BARS"
	LayerCenterlines     = "CENTERLINES"
	LayerDimensions      = "DIMENSIONS"
)

// Formats lists every export format in a stable order
func Formats() []string {
	return []string{"dxf", "step", "obj", "json", "yaml"}
}

// Lookup returns the exporter for format. Common aliases are accepted.
func Lookup(format string) (Exporter, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "dxf":
		return NewDXFCodec(), nil
	case "step", "stp":
		return NewSTEPCodec(), nil
	case "obj":
		return NewOBJCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// LookupImporter returns the spec importer for format
func LookupImporter(format string) (SpecImporter, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), ".")) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// LayerFor maps a mesh part kind to its CAD layer
func LayerFor(kind mesh.Kind) string {
	switch kind {
	case mesh.KindVertical:
		return LayerVerticalTubes
	case mesh.KindHorizontal:
		return LayerHorizontalTubes
	case mesh.KindBrace:
		return LayerCornerBraces
	case mesh.KindRing:
		return LayerRings
	case mesh.KindCleat:
		return LayerCleat
	default:
		return LayerSupportBars
	}
}

// Layers lists every CAD layer in drawing order
func Layers() []string {
	return []string{
		LayerVerticalTubes,
		LayerHorizontalTubes,
		LayerCornerBraces,
		LayerRings,
		LayerCleat,
		LayerSupportBars,
		LayerCenterlines,
		LayerDimensions,
	}
}
