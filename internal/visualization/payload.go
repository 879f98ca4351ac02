package visualization

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cohergraph/cohergraph/internal/graph"
	"github.com/cohergraph/cohergraph/pkg/logger"
	"github.com/cohergraph/cohergraph/pkg/models"
)

const snippetLength = 100

// BuildGraphView assembles the read-only render payload: nodes with 2D
// coordinates, entropy and importance, plus undirected edges with weight,
// discourse markers, and disruption reasons.
//
// importances may be nil (oracle unavailable); inverted entropy serves as
// the fallback importance signal.
func BuildGraphView(
	sentences []string,
	g *graph.Graph,
	entropies []float64,
	markers [][]string,
	disruptions []models.Disruption,
	importances []float64,
) *models.GraphView {
	coords, err := Reduce(g.NodeFeatures, 2)
	if err != nil {
		logger.Warn("dimensionality reduction failed", zap.Error(err))
		coords = make([][]float64, len(sentences))
		for i := range coords {
			coords[i] = make([]float64, 2)
		}
	}

	if len(importances) != len(sentences) {
		importances = entropyImportances(entropies)
	}

	nodes := make([]models.GraphNodeView, len(sentences))
	for i, sentence := range sentences {
		snippet := sentence
		if len(snippet) > snippetLength {
			snippet = snippet[:snippetLength] + "..."
		}

		nodes[i] = models.GraphNodeView{
			ID:              i,
			TextSnippet:     snippet,
			Entropy:         entropies[i],
			ImportanceScore: importances[i],
			Reduced:         coords[i],
		}
	}

	disrupted := make(map[[2]int]models.Disruption, len(disruptions))
	for _, d := range disruptions {
		disrupted[[2]int{d.FromIdx, d.ToIdx}] = d
	}

	undirected, weights := g.UndirectedEdges()
	edges := make([]models.GraphEdgeView, len(undirected))
	for i, e := range undirected {
		edge := models.GraphEdgeView{
			Source: e.Source,
			Target: e.Target,
			Weight: weights[i],
		}

		if joined := joinMarkers(markers[e.Source], markers[e.Target]); joined != "" {
			edge.DiscourseMarker = joined
		}

		if d, ok := disrupted[[2]int{e.Source, e.Target}]; ok {
			edge.Reason = fmt.Sprintf("%s (similarity %.2f)", d.Reason, d.Score)
		}

		edges[i] = edge
	}

	return &models.GraphView{Nodes: nodes, Edges: edges}
}

// entropyImportances inverts entropy into an importance proxy: nodes with
// consistent neighborhoods rank highest. Normalized by the maximum.
func entropyImportances(entropies []float64) []float64 {
	importances := make([]float64, len(entropies))
	max := 0.0
	for i, e := range entropies {
		importances[i] = 1.0 / (e + 0.1)
		if importances[i] > max {
			max = importances[i]
		}
	}
	if max > 0 {
		for i := range importances {
			importances[i] /= max
		}
	}
	return importances
}

func joinMarkers(a, b []string) string {
	seen := make(map[string]struct{})
	var all []string
	for _, m := range append(append([]string{}, a...), b...) {
		if _, dup := seen[m]; !dup {
			seen[m] = struct{}{}
			all = append(all, m)
		}
	}
	return strings.Join(all, ", ")
}
