package codec

import (
	"bytes"
	"fmt"
	"io"

	"davitframe/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec writes fabrication sheets and reads frame specs
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Extension returns the file extension including the dot
func (c *YAMLCodec) Extension() string {
	return ".yaml"
}

// fabricationSheet is the YAML document handed to the shop
type fabricationSheet struct {
	Title    string            `yaml:"title"`
	Units    string            `yaml:"units"`
	Material string            `yaml:"material"`
	Spec     domain.FrameSpec  `yaml:"spec"`
	Parts    domain.PartCounts `yaml:"parts"`
	CutList  []domain.CutItem  `yaml:"cut_list"`
	Rings    []yamlRing        `yaml:"rings"`
	Plates   []yamlPlate       `yaml:"plates,omitempty"`
	Notes    []string          `yaml:"notes"`
}

type yamlRing struct {
	Tube       string  `yaml:"tube"`
	Height     float64 `yaml:"height"`
	StartAngle float64 `yaml:"start_angle"`
	EndAngle   float64 `yaml:"end_angle"`
}

type yamlPlate struct {
	SupportBar string            `yaml:"support_bar"`
	Anchor     [3]float64        `yaml:"anchor,flow"`
	Holes      []domain.BoltHole `yaml:"holes"`
}

// Parse reads a FrameSpec from YAML. A fabrication sheet is accepted as
// well as a bare spec; missing fields keep their davit defaults.
func (c *YAMLCodec) Parse(r io.Reader) (*domain.FrameSpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML: %w", err)
	}

	var doc struct {
		Spec yaml.Node `yaml:"spec"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Node.Decode ignores KnownFields, so the embedded spec is re-encoded
	// and read back through a strict decoder.
	if doc.Spec.Kind != 0 {
		data, err = yaml.Marshal(&doc.Spec)
		if err != nil {
			return nil, fmt.Errorf("failed to parse YAML spec: %w", err)
		}
	}

	spec := domain.DavitFrameSpec()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse YAML spec: %w", err)
	}
	return &spec, nil
}

// Export writes the fabrication sheet for frame
func (c *YAMLCodec) Export(frame *domain.FrameAssembly, w io.Writer) error {
	sheet := fabricationSheet{
		Title:    frame.Spec.Name,
		Units:    "in",
		Material: "316 stainless steel",
		Spec:     frame.Spec,
		Parts:    frame.Counts(),
		CutList:  domain.CutList(frame),
		Notes:    domain.FabricationNotes(frame.Spec),
	}

	for _, r := range frame.Rings {
		sheet.Rings = append(sheet.Rings, yamlRing{
			Tube:       r.TubeID,
			Height:     r.Height,
			StartAngle: r.StartAngle,
			EndAngle:   r.EndAngle,
		})
	}
	for _, s := range frame.SupportBars {
		a := s.Plate.Anchor
		sheet.Plates = append(sheet.Plates, yamlPlate{
			SupportBar: s.ID,
			Anchor:     [3]float64{a.X, a.Y, a.Z},
			Holes:      s.Plate.BoltHoles,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(&sheet); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}
	return nil
}
