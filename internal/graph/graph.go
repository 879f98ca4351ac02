package graph

// Edge is one directed arc of the sentence graph. Every undirected pair
// appears as two arcs.
type Edge struct {
	Source int
	Target int
}

// Graph is the weighted sentence graph handed to the scorer and the model
// oracle. NodeFeatures rows are embedding vectors with the node's entropy
// appended as one trailing feature.
type Graph struct {
	NodeFeatures [][]float64
	Edges        []Edge
	Weights      []float64
}

// NumNodes returns the node count.
func (g *Graph) NumNodes() int {
	return len(g.NodeFeatures)
}

// NumEdges returns the directed arc count.
func (g *Graph) NumEdges() int {
	return len(g.Edges)
}

// UndirectedEdges returns each edge once, with source < target.
func (g *Graph) UndirectedEdges() ([]Edge, []float64) {
	var edges []Edge
	var weights []float64
	for i, e := range g.Edges {
		if e.Source < e.Target {
			edges = append(edges, e)
			weights = append(weights, g.Weights[i])
		}
	}
	return edges, weights
}
