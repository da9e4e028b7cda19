package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/halfmesh/pkg/math"
)

const eps = 1e-9

// tetrahedron builds the unit tetrahedron with outward-facing faces.
func tetrahedron(t *testing.T) *Mesh {
	t.Helper()
	m := New()
	m.AddVertex(math.Vec3{X: 0, Y: 0, Z: 0})
	m.AddVertex(math.Vec3{X: 1, Y: 0, Z: 0})
	m.AddVertex(math.Vec3{X: 0, Y: 1, Z: 0})
	m.AddVertex(math.Vec3{X: 0, Y: 0, Z: 1})
	m.AddTriangle(0, 2, 1)
	m.AddTriangle(0, 1, 3)
	m.AddTriangle(0, 3, 2)
	m.AddTriangle(1, 2, 3)
	m.BuildTopology()
	return m
}

func singleTriangle(t *testing.T) *Mesh {
	t.Helper()
	m := New()
	m.AddVertex(math.Vec3{X: 0, Y: 0, Z: 0})
	m.AddVertex(math.Vec3{X: 1, Y: 0, Z: 0})
	m.AddVertex(math.Vec3{X: 0, Y: 1, Z: 0})
	m.AddTriangle(0, 1, 2)
	m.BuildTopology()
	return m
}

// planarQuad builds two coplanar triangles in z=0 sharing the 0-2 diagonal.
func planarQuad(t *testing.T) *Mesh {
	t.Helper()
	m := New()
	m.AddVertex(math.Vec3{X: 0, Y: 0, Z: 0})
	m.AddVertex(math.Vec3{X: 1, Y: 0, Z: 0})
	m.AddVertex(math.Vec3{X: 1, Y: 1, Z: 0})
	m.AddVertex(math.Vec3{X: 0, Y: 1, Z: 0})
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(0, 2, 3)
	m.BuildTopology()
	return m
}

func TestNew(t *testing.T) {
	m := New()
	require.Equal(t, 1.0, m.Scale)
	require.Equal(t, 0, m.FaceCount())
	require.True(t, m.IntegrityCheck())
	require.True(t, m.IsConnected())
}

func TestAddTriangle_Links(t *testing.T) {
	m := New()
	for i := 0; i < 3; i++ {
		m.AddVertex(math.Vec3{X: float64(i)})
	}
	f := m.AddTriangle(0, 1, 2)
	require.Equal(t, 0, f)
	require.Len(t, m.HalfEdges, 3)

	// e0 -> 0, e1 -> 1, e2 -> 2 with prev wrapping inside the triple.
	require.Equal(t, []int{2, 0, 1}, []int{m.Prev(0), m.Prev(1), m.Prev(2)})
	require.Equal(t, []int{1, 2, 0}, []int{m.Next(0), m.Next(1), m.Next(2)})

	// e1 runs 0 -> 1.
	require.Equal(t, 0, m.Tail(1))
	require.Equal(t, 1, m.Head(1))
	require.Equal(t, [3]int{0, 1, 2}, m.FaceVertices(0))
	require.Equal(t, 0, Face(2))
	require.Equal(t, 1, Face(3))
}

func TestPositions(t *testing.T) {
	m := singleTriangle(t)
	pts := m.Positions()
	require.Len(t, pts, 3)
	pts[0] = math.Vec3{X: 9}
	require.Equal(t, math.Vec3{}, m.Vertices[0].Position, "Positions must return a copy")
}
