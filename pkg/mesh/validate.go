package mesh

import (
	"fmt"

	"go.uber.org/multierr"
)

// ViolationKind classifies a broken structural invariant.
type ViolationKind int

const (
	ViolationFaceSize       ViolationKind = iota // Half-edge count not a multiple of 3
	ViolationVertexIndex                         // Target vertex out of range
	ViolationTexCoordIndex                       // Texture coordinate out of range
	ViolationNormalIndex                         // Normal out of range
	ViolationPrev                                // Prev out of range or leaves the face triple
	ViolationTwinIndex                           // Twin out of range or self-referencing
	ViolationTwinSymmetry                        // twin(twin(e)) != e
	ViolationTwinVertices                        // Twin does not reverse the vertex pair
	ViolationRepresentative                      // Vertex edge out of range or not targeting the vertex
)

// String returns a short name for the kind.
func (k ViolationKind) String() string {
	switch k {
	case ViolationFaceSize:
		return "face-size"
	case ViolationVertexIndex:
		return "vertex-index"
	case ViolationTexCoordIndex:
		return "texcoord-index"
	case ViolationNormalIndex:
		return "normal-index"
	case ViolationPrev:
		return "prev"
	case ViolationTwinIndex:
		return "twin-index"
	case ViolationTwinSymmetry:
		return "twin-symmetry"
	case ViolationTwinVertices:
		return "twin-vertices"
	case ViolationRepresentative:
		return "representative-edge"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Violation is one broken invariant. Index is the offending half-edge, or
// the vertex for ViolationRepresentative, or -1 when not element-specific.
type Violation struct {
	Kind   ViolationKind
	Index  int
	Detail string
}

func (v Violation) Error() string {
	return fmt.Sprintf("integrity violation %s at %d: %s", v.Kind, v.Index, v.Detail)
}

// IntegrityCheck reports whether every structural invariant holds.
// It never mutates the mesh.
func (m *Mesh) IntegrityCheck() bool {
	return len(m.Violations()) == 0
}

// IntegrityErr returns nil for a consistent mesh, or every violation
// combined into one error.
func (m *Mesh) IntegrityErr() error {
	var err error
	for _, v := range m.Violations() {
		err = multierr.Append(err, v)
	}
	return err
}

// Violations lists every broken invariant in storage order.
func (m *Mesh) Violations() []Violation {
	var out []Violation
	add := func(kind ViolationKind, idx int, format string, args ...any) {
		out = append(out, Violation{Kind: kind, Index: idx, Detail: fmt.Sprintf(format, args...)})
	}

	nEdges := len(m.HalfEdges)
	if nEdges%3 != 0 {
		add(ViolationFaceSize, -1, "%d half-edges", nEdges)
	}

	// Per-edge index checks first; link checks below rely on them.
	sound := make([]bool, nEdges)
	for e, he := range m.HalfEdges {
		ok := true
		if he.Vertex < 0 || he.Vertex >= len(m.Vertices) {
			add(ViolationVertexIndex, e, "vertex %d of %d", he.Vertex, len(m.Vertices))
			ok = false
		}
		if he.TexCoord != None && (he.TexCoord < 0 || he.TexCoord >= len(m.TexCoords)) {
			add(ViolationTexCoordIndex, e, "texcoord %d of %d", he.TexCoord, len(m.TexCoords))
		}
		if he.Normal != None && (he.Normal < 0 || he.Normal >= len(m.Normals)) {
			add(ViolationNormalIndex, e, "normal %d of %d", he.Normal, len(m.Normals))
		}
		if he.Prev < 0 || he.Prev >= nEdges || Face(he.Prev) != Face(e) || he.Prev == e {
			add(ViolationPrev, e, "prev %d outside face %d", he.Prev, Face(e))
			ok = false
		}
		if he.Twin != None && (he.Twin < 0 || he.Twin >= nEdges || he.Twin == e) {
			add(ViolationTwinIndex, e, "twin %d of %d", he.Twin, nEdges)
			ok = false
		}
		sound[e] = ok
	}

	for e, he := range m.HalfEdges {
		if !sound[e] {
			continue
		}
		if p := he.Prev; sound[p] && m.HalfEdges[m.HalfEdges[p].Prev].Prev != e {
			add(ViolationPrev, e, "prev cycle does not close in face %d", Face(e))
			continue
		}
		t := he.Twin
		if t == None || !sound[t] || !sound[m.HalfEdges[t].Prev] || !sound[he.Prev] {
			continue
		}
		if m.HalfEdges[t].Twin != e {
			add(ViolationTwinSymmetry, e, "twin %d points back to %d", t, m.HalfEdges[t].Twin)
			continue
		}
		if m.Tail(e) != m.Head(t) || m.Head(e) != m.Tail(t) {
			add(ViolationTwinVertices, e, "(%d,%d) vs twin (%d,%d)", m.Tail(e), m.Head(e), m.Tail(t), m.Head(t))
		}
	}

	for v, vert := range m.Vertices {
		if vert.Edge == None {
			continue
		}
		if vert.Edge < 0 || vert.Edge >= nEdges {
			add(ViolationRepresentative, v, "edge %d of %d", vert.Edge, nEdges)
			continue
		}
		if m.HalfEdges[vert.Edge].Vertex != v {
			add(ViolationRepresentative, v, "edge %d targets %d", vert.Edge, m.HalfEdges[vert.Edge].Vertex)
		}
	}

	return out
}
