package mesh

// TopologyStats summarizes twin assignment.
type TopologyStats struct {
	Pairs       int // Twin pairs linked
	Boundary    int // Half-edges left without a twin
	NonManifold int // Boundary half-edges whose reverse pair was taken by an earlier edge
}

// BuildStats records what happened while a mesh was built from raw faces.
type BuildStats struct {
	SourceTriangles int // Triangles after fan triangulation, before reduction
	ReduceStats
	Topology TopologyStats
}

type directedPair struct {
	from, to int
}

// BuildTopology assigns Twin for every half-edge and Edge for every
// vertex. Each half-edge e = (tail, head) is paired with the earliest
// unmatched half-edge (head, tail). On an edge shared by three or more
// faces the extra half-edges stay unmatched. Every vertex's representative
// is the last half-edge in storage order that targets it.
//
// BuildTopology resets all previous links first, so calling it again on a
// consistent mesh reproduces the same graph.
func (m *Mesh) BuildTopology() TopologyStats {
	for i := range m.Vertices {
		m.Vertices[i].Edge = None
	}

	byPair := make(map[directedPair][]int, len(m.HalfEdges))
	for e := range m.HalfEdges {
		m.HalfEdges[e].Twin = None
		k := directedPair{m.Tail(e), m.Head(e)}
		byPair[k] = append(byPair[k], e)
	}

	var stats TopologyStats
	// cursor[k] skips candidates of byPair[k] already known to be matched.
	cursor := make(map[directedPair]int)
	for e := range m.HalfEdges {
		if m.HalfEdges[e].Twin != None {
			continue
		}
		tail, head := m.Tail(e), m.Head(e)
		if tail == head {
			continue
		}
		rev := directedPair{head, tail}
		cands := byPair[rev]
		i := cursor[rev]
		for i < len(cands) && m.HalfEdges[cands[i]].Twin != None {
			i++
		}
		if i == len(cands) {
			cursor[rev] = i
			continue
		}
		t := cands[i]
		cursor[rev] = i + 1
		m.HalfEdges[e].Twin = t
		m.HalfEdges[t].Twin = e
		stats.Pairs++
	}

	for e, he := range m.HalfEdges {
		if he.Vertex >= 0 && he.Vertex < len(m.Vertices) {
			m.Vertices[he.Vertex].Edge = e
		}
		if he.Twin != None {
			continue
		}
		stats.Boundary++
		if tail, head := m.Tail(e), m.Head(e); tail != head && len(byPair[directedPair{head, tail}]) > 0 {
			stats.NonManifold++
		}
	}

	m.stats.Topology = stats
	return stats
}
