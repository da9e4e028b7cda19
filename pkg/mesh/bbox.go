package mesh

import "github.com/Faultbox/halfmesh/pkg/math"

// Bounds returns the axis-aligned bounding box of the vertex positions.
func (m *Mesh) Bounds() math.Bounds {
	var b math.Bounds
	for _, v := range m.Vertices {
		b.Extend(v.Position)
	}
	return b
}

// NormalizeBoundingBox centers the bounding box on the origin and scales
// the longest axis to length 1. Offset and Scale are set to the applied
// transform, p' = (p + Offset) * Scale. A mesh whose box has zero extent
// is only translated.
func (m *Mesh) NormalizeBoundingBox() {
	b := m.Bounds()
	if b.Empty() {
		return
	}

	m.Offset = b.Center().Neg()
	m.Scale = 1
	if extent := b.LongestExtent(); extent > 0 {
		m.Scale = 1 / extent
	}

	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Position = v.Position.Add(m.Offset).Scale(m.Scale)
	}
}

// Restore maps a point from mesh space back through the stored transform.
func (m *Mesh) Restore(p math.Vec3) math.Vec3 {
	s := m.Scale
	if s == 0 {
		s = 1
	}
	return p.Scale(1 / s).Sub(m.Offset)
}
