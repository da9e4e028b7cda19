package math

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	Min, Max Vec3
	valid    bool
}

// Extend grows b to contain p.
func (b *Bounds) Extend(p Vec3) {
	if !b.valid {
		b.Min, b.Max, b.valid = p, p, true
		return
	}
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return !b.valid
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the extent along each axis.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// LongestExtent returns the largest axis extent.
func (b Bounds) LongestExtent() float64 {
	return b.Size().MaxComponent()
}

// BoundsOf returns the bounding box of pts.
func BoundsOf(pts []Vec3) Bounds {
	var b Bounds
	for _, p := range pts {
		b.Extend(p)
	}
	return b
}
