package scorer

import (
	"sort"

	"github.com/cohergraph/cohergraph/pkg/models"
)

// Reason tags assigned to a weak transition based on its raw similarity.
const (
	ReasonAbruptTransition = "abrupt transition"
	ReasonSemanticDrift    = "semantic drift"
	ReasonWeakLinkage      = "weak discourse linkage"
)

// Disruption formula names. The enhanced-mode formula weighs weakness by
// local entropy directly; the baseline formula scales weakness up for
// high-entropy neighborhoods.
const (
	FormulaEntropyWeighted = "entropy_weighted" // avgEntropy * (1 - sim)
	FormulaWeaknessScaled  = "weakness_scaled"  // (1 - sim) * (1 + avgEntropy)
)

type rankedPair struct {
	i, j       int
	similarity float64
	metric     float64
}

// rankDisruptions scores every unordered sentence pair by the configured
// disruption formula and returns the top-k, sorted descending. The record's
// Score field carries the raw similarity, not the ranking metric.
func rankDisruptions(similarity [][]float64, entropies []float64, topK int, formula string) []models.Disruption {
	n := len(similarity)
	pairs := make([]rankedPair, 0, n*(n-1)/2)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			sim := similarity[i][j]
			avgEntropy := (entropies[i] + entropies[j]) / 2.0
			weakness := 1.0 - sim

			var metric float64
			switch formula {
			case FormulaWeaknessScaled:
				metric = weakness * (1.0 + avgEntropy)
			default:
				metric = avgEntropy * weakness
			}

			pairs = append(pairs, rankedPair{i: i, j: j, similarity: sim, metric: metric})
		}
	}

	// Descending by metric, index order as tiebreak for deterministic output.
	sort.Slice(pairs, func(a, b int) bool {
		if pairs[a].metric != pairs[b].metric {
			return pairs[a].metric > pairs[b].metric
		}
		if pairs[a].i != pairs[b].i {
			return pairs[a].i < pairs[b].i
		}
		return pairs[a].j < pairs[b].j
	})

	if topK > len(pairs) {
		topK = len(pairs)
	}

	report := make([]models.Disruption, 0, topK)
	for _, p := range pairs[:topK] {
		report = append(report, models.Disruption{
			FromIdx: p.i,
			ToIdx:   p.j,
			Reason:  disruptionReason(p.similarity),
			Score:   p.similarity,
		})
	}

	return report
}

func disruptionReason(similarity float64) string {
	switch {
	case similarity < 0.3:
		return ReasonAbruptTransition
	case similarity < 0.5:
		return ReasonSemanticDrift
	default:
		return ReasonWeakLinkage
	}
}
