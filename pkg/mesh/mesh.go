// Package mesh provides a half-edge triangle mesh with topology
// construction, integrity checks and derived geometry.
//
// Half-edges live in a flat slice grouped in triples: half-edges 3k, 3k+1
// and 3k+2 form face k. All links are indices with None as the sentinel, so
// a Mesh is a plain value with no internal pointers. A Mesh is not safe for
// concurrent mutation; construct it, then query it from any goroutine that
// owns it.
package mesh

import (
	"github.com/Faultbox/halfmesh/pkg/formats"
	"github.com/Faultbox/halfmesh/pkg/math"
)

// None marks a missing half-edge, twin, texture or normal reference. It
// equals formats.NoIndex so corner references pass through unchanged.
const None = formats.NoIndex

// Vertex is a mesh vertex.
type Vertex struct {
	Position math.Vec3
	Normal   math.Vec3 // Derived by ComputeVertexNormals
	Edge     int       // Representative half-edge targeting this vertex, or None
}

// HalfEdge is one directed side of a mesh edge.
type HalfEdge struct {
	Vertex   int // Target vertex; the tail is HalfEdges[Prev].Vertex
	TexCoord int // Index into TexCoords or None
	Normal   int // Index into Normals or None
	Prev     int // Preceding half-edge in the same face (CCW); next is Prev of Prev
	Twin     int // Opposite half-edge or None on a boundary
}

// Mesh is a triangle mesh in half-edge form.
type Mesh struct {
	Vertices  []Vertex
	Normals   []math.Vec3
	TexCoords []math.Vec2
	HalfEdges []HalfEdge

	Offset      math.Vec3 // Translation applied before Scale
	Scale       float64   // Uniform scale applied after Offset
	WithTexture bool
	BlendWeight float64 // Opaque tag for downstream consumers

	stats BuildStats
}

// New returns an empty mesh with an identity transform.
func New() *Mesh {
	return &Mesh{Scale: 1, BlendWeight: 1}
}

// AddVertex appends a vertex at p and returns its index.
func (m *Mesh) AddVertex(p math.Vec3) int {
	m.Vertices = append(m.Vertices, Vertex{Position: p, Edge: None})
	return len(m.Vertices) - 1
}

// AddTriangle appends the three half-edges of face (a, b, c) without
// texture or normal references. Twins are assigned by BuildTopology.
func (m *Mesh) AddTriangle(a, b, c int) int {
	return m.addFace([3]int{a, b, c}, [3]int{None, None, None}, [3]int{None, None, None})
}

func (m *Mesh) addFace(v, t, n [3]int) int {
	first := len(m.HalfEdges)
	for i := 0; i < 3; i++ {
		m.HalfEdges = append(m.HalfEdges, HalfEdge{
			Vertex:   v[i],
			TexCoord: t[i],
			Normal:   n[i],
			Prev:     first + (i+2)%3,
			Twin:     None,
		})
	}
	return first / 3
}

// FaceCount returns the number of triangles.
func (m *Mesh) FaceCount() int {
	return len(m.HalfEdges) / 3
}

// Face returns the face index owning half-edge e.
func Face(e int) int {
	return e / 3
}

// Prev returns the half-edge preceding e in its face.
func (m *Mesh) Prev(e int) int {
	return m.HalfEdges[e].Prev
}

// Next returns the half-edge following e in its face.
func (m *Mesh) Next(e int) int {
	return m.HalfEdges[m.HalfEdges[e].Prev].Prev
}

// Twin returns the opposite half-edge of e, or None.
func (m *Mesh) Twin(e int) int {
	return m.HalfEdges[e].Twin
}

// Head returns the vertex e points to.
func (m *Mesh) Head(e int) int {
	return m.HalfEdges[e].Vertex
}

// Tail returns the vertex e starts from.
func (m *Mesh) Tail(e int) int {
	return m.HalfEdges[m.HalfEdges[e].Prev].Vertex
}

// FaceVertices returns the vertex indices of face f in emission order.
func (m *Mesh) FaceVertices(f int) [3]int {
	e := 3 * f
	return [3]int{m.HalfEdges[e].Vertex, m.HalfEdges[e+1].Vertex, m.HalfEdges[e+2].Vertex}
}

// BoundaryEdges returns the number of half-edges without a twin.
func (m *Mesh) BoundaryEdges() int {
	n := 0
	for _, he := range m.HalfEdges {
		if he.Twin == None {
			n++
		}
	}
	return n
}

// Positions returns a copy of the vertex positions.
func (m *Mesh) Positions() []math.Vec3 {
	pts := make([]math.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		pts[i] = v.Position
	}
	return pts
}

// Stats returns the counters recorded while the mesh was built.
func (m *Mesh) Stats() BuildStats {
	return m.stats
}
