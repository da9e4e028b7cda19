package mesh

// IsConnected reports whether every vertex is reachable from every other
// when half-edges are treated as undirected edges. Boundary edges count.
// An empty mesh is connected; an unreferenced vertex is not reachable.
func (m *Mesh) IsConnected() bool {
	return m.Components() <= 1
}

// Components returns the number of connected vertex components.
func (m *Mesh) Components() int {
	adj := m.adjacency()
	visited := make([]bool, len(m.Vertices))
	queue := make([]int, 0, len(m.Vertices))

	components := 0
	for start := range m.Vertices {
		if visited[start] {
			continue
		}
		components++
		visited[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range adj[v] {
				if !visited[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}
	}
	return components
}

// adjacency builds undirected neighbor lists from the half-edges,
// ignoring links that point outside the vertex range.
func (m *Mesh) adjacency() [][]int {
	adj := make([][]int, len(m.Vertices))
	nv, ne := len(m.Vertices), len(m.HalfEdges)
	for _, he := range m.HalfEdges {
		if he.Prev < 0 || he.Prev >= ne {
			continue
		}
		a, b := m.HalfEdges[he.Prev].Vertex, he.Vertex
		if a < 0 || a >= nv || b < 0 || b >= nv || a == b {
			continue
		}
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}
	return adj
}
