package mesh

import "github.com/Faultbox/halfmesh/pkg/math"

// degenerateSine is the smallest |sin| between two triangle edges for the
// triangle to contribute a normal.
const degenerateSine = 1e-12

// ComputeVertexNormals sets every vertex normal to the normalized sum of
// the unit normals of its incident faces, found by walking the vertex ring
// from its representative edge. Degenerate faces are skipped; a vertex
// without any usable face gets the zero vector.
func (m *Mesh) ComputeVertexNormals() {
	faceNormals := make([]math.Vec3, m.FaceCount())
	for f := range faceNormals {
		faceNormals[f] = m.faceNormal(f)
	}
	for v := range m.Vertices {
		m.Vertices[v].Normal = m.ringNormal(v, faceNormals)
	}
}

// FaceNormal returns the unit normal of face f, or zero if f is degenerate.
func (m *Mesh) FaceNormal(f int) math.Vec3 {
	return m.faceNormal(f)
}

func (m *Mesh) faceNormal(f int) math.Vec3 {
	ids := m.FaceVertices(f)
	a := m.Vertices[ids[0]].Position
	u := m.Vertices[ids[1]].Position.Sub(a)
	w := m.Vertices[ids[2]].Position.Sub(a)
	n := u.Cross(w)
	if n.Length() <= degenerateSine*u.Length()*w.Length() {
		return math.Vec3{}
	}
	return n.Normalize()
}

// ringNormal accumulates face normals around v. The walk runs over the
// half-edges leaving v: o -> twin(prev(o)) until it closes or meets a
// boundary, then o -> next(twin(o)) from the start to cover the rest of
// an open ring.
func (m *Mesh) ringNormal(v int, faceNormals []math.Vec3) math.Vec3 {
	rep := m.Vertices[v].Edge
	if rep == None {
		return math.Vec3{}
	}

	var sum math.Vec3
	var seen []int
	visit := func(e int) bool {
		f := Face(e)
		for _, s := range seen {
			if s == f {
				return false
			}
		}
		seen = append(seen, f)
		sum = sum.Add(faceNormals[f])
		return true
	}

	// Walks are bounded by the face count so broken twin links cannot spin.
	limit := m.FaceCount()
	start := m.Next(rep)
	visit(start)

	closed := false
	for e, steps := start, 0; steps < limit; steps++ {
		t := m.HalfEdges[m.Prev(e)].Twin
		if t == None {
			break
		}
		if t == start {
			closed = true
			break
		}
		if !visit(t) {
			break
		}
		e = t
	}

	if !closed {
		for e, steps := start, 0; steps < limit; steps++ {
			t := m.HalfEdges[e].Twin
			if t == None {
				break
			}
			e = m.Next(t)
			if !visit(e) {
				break
			}
		}
	}

	return sum.Normalize()
}

// BakeVertexNormals replaces the normal buffer with one entry per vertex,
// taken from Vertex.Normal, and points every half-edge at its target's
// entry. Call it after ComputeVertexNormals so the derived normals are
// written out by OBJ and Save.
func (m *Mesh) BakeVertexNormals() {
	m.Normals = make([]math.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		m.Normals[i] = v.Normal
	}
	for i := range m.HalfEdges {
		m.HalfEdges[i].Normal = m.HalfEdges[i].Vertex
	}
}
