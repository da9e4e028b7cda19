package mesh

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/halfmesh/pkg/math"
)

func TestBuildTopology_Tetrahedron(t *testing.T) {
	m := tetrahedron(t)

	require.Len(t, m.HalfEdges, 12)
	for e, he := range m.HalfEdges {
		require.NotEqual(t, None, he.Twin, "half-edge %d has no twin", e)
		require.Equal(t, e, m.Twin(he.Twin))
		require.Equal(t, m.Tail(e), m.Head(he.Twin))
		require.Equal(t, m.Head(e), m.Tail(he.Twin))
	}
	require.Equal(t, 0, m.BoundaryEdges())
	require.True(t, m.IntegrityCheck())
	require.True(t, m.IsConnected())
}

func TestBuildTopology_SingleTriangle(t *testing.T) {
	m := singleTriangle(t)

	require.Len(t, m.HalfEdges, 3)
	for e := range m.HalfEdges {
		require.Equal(t, None, m.Twin(e))
	}
	require.Equal(t, 3, m.BoundaryEdges())
	require.True(t, m.IsConnected())
	require.True(t, m.IntegrityCheck())
}

func TestBuildTopology_RepresentativeIsLastTargetingEdge(t *testing.T) {
	m := tetrahedron(t)

	// Targets in storage order: 0 2 1 | 0 1 3 | 0 3 2 | 1 2 3
	want := []int{6, 9, 10, 11}
	for v, e := range want {
		require.Equal(t, e, m.Vertices[v].Edge, "vertex %d", v)
		require.Equal(t, v, m.Head(e))
	}
}

func TestBuildTopology_UnreferencedVertex(t *testing.T) {
	m := singleTriangle(t)
	v := m.AddVertex(math.Vec3{X: 5, Y: 5, Z: 5})
	m.BuildTopology()

	require.Equal(t, None, m.Vertices[v].Edge)
	require.True(t, m.IntegrityCheck())
	require.False(t, m.IsConnected())
}

func TestBuildTopology_NonManifoldEarliestMatch(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		m.AddVertex(math.Vec3{X: float64(i), Y: float64(i * i)})
	}
	// Three faces share the edge 0-1. Face 0 runs 0->1, faces 1 and 2 run 1->0.
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(1, 0, 3)
	m.AddTriangle(1, 0, 4)

	stats := m.BuildTopology()

	// e1 (0->1) pairs with e4, the earliest 1->0; e7 stays open.
	require.Equal(t, 4, m.Twin(1))
	require.Equal(t, 1, m.Twin(4))
	require.Equal(t, None, m.Twin(7))

	require.Equal(t, 1, stats.Pairs)
	require.Equal(t, 7, stats.Boundary)
	require.Equal(t, 1, stats.NonManifold)
	require.Equal(t, stats, m.Stats().Topology)
	require.True(t, m.IntegrityCheck())
	require.True(t, m.IsConnected())
}

func TestBuildTopology_InconsistentWindingStaysOpen(t *testing.T) {
	m := New()
	for i := 0; i < 4; i++ {
		m.AddVertex(math.Vec3{X: float64(i % 2), Y: float64(i / 2)})
	}
	// Both faces traverse 2->0, so the shared edge has no opposite half-edge.
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(2, 0, 3)

	stats := m.BuildTopology()
	require.Equal(t, 0, stats.Pairs)
	require.Equal(t, 6, m.BoundaryEdges())
	require.True(t, m.IntegrityCheck())
}

func TestBuildTopology_Idempotent(t *testing.T) {
	m := tetrahedron(t)
	before := append([]HalfEdge(nil), m.HalfEdges...)
	verts := append([]Vertex(nil), m.Vertices...)

	m.BuildTopology()

	require.Equal(t, before, m.HalfEdges)
	require.Equal(t, verts, m.Vertices)
}

func TestBuildTopology_ResetsStaleLinks(t *testing.T) {
	m := tetrahedron(t)
	m.HalfEdges[0].Twin = 7
	m.Vertices[2].Edge = 0
	require.False(t, m.IntegrityCheck())

	m.BuildTopology()
	require.True(t, m.IntegrityCheck())
	require.Equal(t, 0, m.BoundaryEdges())
}
