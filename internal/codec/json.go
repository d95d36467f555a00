package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"davitframe/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Extension returns the file extension including the dot
func (c *JSONCodec) Extension() string {
	return ".json"
}

// jsonDocument promotes the assembly fields to the top level next to the
// derived counts and cut list
type jsonDocument struct {
	Units string `json:"units"`
	*domain.FrameAssembly
	Counts  domain.PartCounts `json:"counts"`
	CutList []domain.CutItem  `json:"cut_list"`
}

// Parse reads a FrameSpec from JSON. Both a bare spec and an exported
// assembly document (with a top-level "spec" key) are accepted. Fields left
// out keep their davit defaults.
func (c *JSONCodec) Parse(r io.Reader) (*domain.FrameSpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	var probe struct {
		Spec json.RawMessage `json:"spec"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if len(probe.Spec) > 0 {
		data = probe.Spec
	}

	spec := domain.DavitFrameSpec()
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("failed to parse JSON spec: %w", err)
	}

	return &spec, nil
}

// Export writes the assembly as JSON
func (c *JSONCodec) Export(frame *domain.FrameAssembly, w io.Writer) error {
	doc := jsonDocument{
		Units:         "in",
		FrameAssembly: frame,
		Counts:        frame.Counts(),
		CutList:       domain.CutList(frame),
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
