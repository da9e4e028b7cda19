package mesh

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/halfmesh/pkg/formats"
	"github.com/Faultbox/halfmesh/pkg/math"
)

// ErrIntegrity is returned when a freshly built mesh fails its own check.
var ErrIntegrity = errors.New("mesh failed integrity check")

// BuildOptions controls how raw faces become a half-edge mesh.
type BuildOptions struct {
	KeepDuplicates bool // Skip ReduceDuplicateFaces
	DropCollapsed  bool // Remove faces with a repeated vertex
}

// LoadOptions controls reading a mesh source.
type LoadOptions struct {
	BuildOptions
	Scale    float64   // Applied to positions as read, 0 means 1
	Offset   math.Vec3 // Added to positions before Scale
	Encoding string    // Source charset, empty for UTF-8
}

// Load reads, reduces, builds and validates the mesh stored at path.
// Read and parse failures are *formats.ParseError.
func Load(path string, weight float64, opts LoadOptions) (*Mesh, error) {
	obj, err := formats.ParseOBJFile(path, opts.objOptions())
	if err != nil {
		return nil, err
	}
	return opts.build(obj, weight)
}

// Read is Load for an already opened source.
func Read(r io.Reader, weight float64, opts LoadOptions) (*Mesh, error) {
	obj, err := formats.ParseOBJ(r, opts.objOptions())
	if err != nil {
		return nil, err
	}
	return opts.build(obj, weight)
}

func (o LoadOptions) objOptions() formats.OBJOptions {
	return formats.OBJOptions{Scale: o.Scale, Offset: o.Offset, Encoding: o.Encoding}
}

func (o LoadOptions) build(obj *formats.OBJ, weight float64) (*Mesh, error) {
	m := FromOBJ(obj, weight, o.BuildOptions)
	m.Offset = o.Offset
	if o.Scale != 0 {
		m.Scale = o.Scale
	}

	if err := m.IntegrityErr(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return m, nil
}

// FromOBJ builds a mesh from parsed buffers: duplicate faces are reduced,
// half-edges emitted and topology built.
func FromOBJ(obj *formats.OBJ, weight float64, opts BuildOptions) *Mesh {
	m := New()
	m.BlendWeight = weight
	m.WithTexture = len(obj.TexCoords) > 0

	m.Vertices = make([]Vertex, len(obj.Positions))
	for i, p := range obj.Positions {
		m.Vertices[i] = Vertex{Position: p, Edge: None}
	}
	m.Normals = append([]math.Vec3(nil), obj.Normals...)
	m.TexCoords = append([]math.Vec2(nil), obj.TexCoords...)

	tris := obj.Triangles
	m.stats.SourceTriangles = len(tris)
	if !opts.KeepDuplicates {
		tris, m.stats.Duplicates = ReduceDuplicateFaces(tris)
	}
	if opts.DropCollapsed {
		tris, m.stats.Collapsed = DropCollapsedFaces(tris)
	}

	m.HalfEdges = make([]HalfEdge, 0, 3*len(tris))
	for _, tri := range tris {
		var v, t, n [3]int
		for i, c := range tri {
			v[i], t[i], n[i] = c.Vertex, c.TexCoord, c.Normal
		}
		m.addFace(v, t, n)
	}

	m.BuildTopology()
	return m
}

// OBJ converts the mesh back into indexed-face buffers, one triangle
// per half-edge triple.
func (m *Mesh) OBJ() *formats.OBJ {
	obj := &formats.OBJ{
		Positions: m.Positions(),
		Normals:   append([]math.Vec3(nil), m.Normals...),
		TexCoords: append([]math.Vec2(nil), m.TexCoords...),
		Triangles: make([]formats.OBJTriangle, m.FaceCount()),
		Polygons:  m.FaceCount(),
	}
	for f := range obj.Triangles {
		for i := 0; i < 3; i++ {
			he := m.HalfEdges[3*f+i]
			obj.Triangles[f][i] = formats.OBJCorner{
				Vertex:   he.Vertex,
				TexCoord: he.TexCoord,
				Normal:   he.Normal,
			}
		}
	}
	return obj
}

// Write serializes the mesh as indexed-face text.
func (m *Mesh) Write(w io.Writer) error {
	return formats.WriteOBJ(w, m.OBJ())
}

// Save writes the mesh to path, creating parent directories as needed.
func (m *Mesh) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := m.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
