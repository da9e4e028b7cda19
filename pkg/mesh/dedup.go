package mesh

import "github.com/Faultbox/halfmesh/pkg/formats"

// ReduceStats counts the triangles dropped while building a mesh.
type ReduceStats struct {
	Duplicates int // Same vertex set as an earlier triangle
	Collapsed  int // Two or more corners on the same vertex, with DropCollapsed
}

// ReduceDuplicateFaces drops triangles whose vertex set was already seen,
// regardless of rotation or winding, keeping the first occurrence and the
// relative order of the survivors. It returns the number dropped.
// Triangles with a repeated vertex are compared the same way and are
// otherwise kept.
func ReduceDuplicateFaces(tris []formats.OBJTriangle) ([]formats.OBJTriangle, int) {
	seen := make(map[[3]int]struct{}, len(tris))
	out := make([]formats.OBJTriangle, 0, len(tris))

	dropped := 0
	for _, tri := range tris {
		key := sortedKey(tri.VertexIDs())
		if _, dup := seen[key]; dup {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tri)
	}
	return out, dropped
}

// DropCollapsedFaces removes triangles with two or more corners on the same
// vertex and returns the number removed.
func DropCollapsedFaces(tris []formats.OBJTriangle) ([]formats.OBJTriangle, int) {
	out := make([]formats.OBJTriangle, 0, len(tris))
	dropped := 0
	for _, tri := range tris {
		v := tri.VertexIDs()
		if v[0] == v[1] || v[1] == v[2] || v[0] == v[2] {
			dropped++
			continue
		}
		out = append(out, tri)
	}
	return out, dropped
}

func sortedKey(k [3]int) [3]int {
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	if k[1] > k[2] {
		k[1], k[2] = k[2], k[1]
	}
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	return k
}
