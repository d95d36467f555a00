package codec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"davitframe/internal/domain"
	"davitframe/internal/geom"
	"davitframe/internal/mesh"
)

// OBJCodec reads and writes Wavefront OBJ meshes
type OBJCodec struct{}

// NewOBJCodec creates a new OBJ codec
func NewOBJCodec() *OBJCodec {
	return &OBJCodec{}
}

// Format returns the codec format identifier
func (c *OBJCodec) Format() string {
	return "obj"
}

// Extension returns the file extension including the dot
func (c *OBJCodec) Extension() string {
	return ".obj"
}

// ObjObject is one named object read back from an OBJ file. Vertex indices
// are zero-based into ObjModel.Vertices.
type ObjObject struct {
	Name     string
	Group    string
	Vertices []int
	Faces    [][3]int
}

// ObjModel is the parsed content of an OBJ file
type ObjModel struct {
	Vertices []geom.Point3D
	Objects  []ObjObject
}

// Object looks up an object by name
func (m *ObjModel) Object(name string) (*ObjObject, bool) {
	for i := range m.Objects {
		if m.Objects[i].Name == name {
			return &m.Objects[i], true
		}
	}
	return nil, false
}

// Export writes one object per part, grouped by layer. Tube objects start
// with their two centerline endpoints.
func (c *OBJCodec) Export(frame *domain.FrameAssembly, w io.Writer) error {
	m := mesh.Build(frame)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s\n", frame.Spec.Name)
	fmt.Fprintf(bw, "# units: inches\n")
	fmt.Fprintf(bw, "# vertices: %d, faces: %d, segments: %d\n", len(m.Vertices), m.TriangleCount(), m.Segments)

	for _, part := range m.Parts {
		fmt.Fprintf(bw, "\no %s\n", part.Name)
		fmt.Fprintf(bw, "g %s\n", LayerFor(part.Kind))
		for i := part.First; i < part.Last; i++ {
			v := m.Vertices[i]
			fmt.Fprintf(bw, "v %s %s %s\n", objFloat(v.X), objFloat(v.Y), objFloat(v.Z))
		}
		for _, tri := range part.Faces {
			fmt.Fprintf(bw, "f %d %d %d\n", tri[0]+1, tri[1]+1, tri[2]+1)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write OBJ: %w", err)
	}
	return nil
}

// Parse reads vertices, objects, groups and faces. Polygons are fanned into
// triangles; texture and normal references are ignored.
func (c *OBJCodec) Parse(r io.Reader) (*ObjModel, error) {
	model := &ObjModel{}
	var current *ObjObject
	group := ""

	object := func() *ObjObject {
		if current == nil {
			model.Objects = append(model.Objects, ObjObject{Name: "default", Group: group})
			current = &model.Objects[len(model.Objects)-1]
		}
		return current
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "o":
			model.Objects = append(model.Objects, ObjObject{Name: strings.Join(fields[1:], " "), Group: group})
			current = &model.Objects[len(model.Objects)-1]
		case "g":
			group = strings.Join(fields[1:], " ")
			if current != nil {
				current.Group = group
			}
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNo)
			}
			var xyz [3]float64
			for i := range xyz {
				f, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("line %d: invalid coordinate %q: %w", lineNo, fields[i+1], err)
				}
				xyz[i] = f
			}
			model.Vertices = append(model.Vertices, geom.Pt(xyz[0], xyz[1], xyz[2]))
			obj := object()
			obj.Vertices = append(obj.Vertices, len(model.Vertices)-1)
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNo)
			}
			idx := make([]int, 0, len(fields)-1)
			for _, f := range fields[1:] {
				i, err := objIndex(f, len(model.Vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, i)
			}
			obj := object()
			for k := 1; k+1 < len(idx); k++ {
				obj.Faces = append(obj.Faces, [3]int{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ: %w", err)
	}

	return model, nil
}

// objIndex resolves a face vertex reference ("7", "7/1/3", "-2") to a
// zero-based index
func objIndex(ref string, count int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	i, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid face index %q: %w", ref, err)
	}
	if i < 0 {
		i = count + i + 1
	}
	if i < 1 || i > count {
		return 0, fmt.Errorf("face index %s out of range (%d vertices)", ref, count)
	}
	return i - 1, nil
}

func objFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
