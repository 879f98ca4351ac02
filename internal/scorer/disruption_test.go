package scorer

import (
	"math"
	"testing"

	"github.com/cohergraph/cohergraph/pkg/models"
)

func TestRankDisruptionsCoversAllPairsUpToTopK(t *testing.T) {
	similarity := [][]float64{
		{1.0, 0.2, 0.6},
		{0.2, 1.0, 0.25},
		{0.6, 0.25, 1.0},
	}
	entropies := []float64{0.5, 1.0, 0.0}

	report := rankDisruptions(similarity, entropies, 10, FormulaEntropyWeighted)

	// 3 nodes give exactly 3 unordered pairs.
	if len(report) != 3 {
		t.Fatalf("expected 3 records, got %d", len(report))
	}

	report = rankDisruptions(similarity, entropies, 2, FormulaEntropyWeighted)
	if len(report) != 2 {
		t.Fatalf("top-k truncation failed: got %d records", len(report))
	}
}

func TestRankDisruptionsScoreCarriesRawSimilarity(t *testing.T) {
	similarity := [][]float64{
		{1.0, 0.2, 0.6},
		{0.2, 1.0, 0.25},
		{0.6, 0.25, 1.0},
	}
	entropies := []float64{0.5, 1.0, 0.0}

	for _, d := range rankDisruptions(similarity, entropies, 10, FormulaEntropyWeighted) {
		if want := similarity[d.FromIdx][d.ToIdx]; d.Score != want {
			t.Errorf("pair (%d,%d) Score = %v, want raw similarity %v",
				d.FromIdx, d.ToIdx, d.Score, want)
		}
	}
}

func TestRankDisruptionsReasons(t *testing.T) {
	similarity := [][]float64{
		{1.0, 0.2, 0.6},
		{0.2, 1.0, 0.25},
		{0.6, 0.25, 1.0},
	}
	entropies := []float64{0.5, 1.0, 0.0}

	reasons := make(map[[2]int]string)
	for _, d := range rankDisruptions(similarity, entropies, 10, FormulaEntropyWeighted) {
		reasons[[2]int{d.FromIdx, d.ToIdx}] = d.Reason
	}

	if got := reasons[[2]int{0, 1}]; got != ReasonAbruptTransition {
		t.Errorf("pair (0,1) at sim 0.2: reason = %q, want %q", got, ReasonAbruptTransition)
	}
	if got := reasons[[2]int{1, 2}]; got != ReasonAbruptTransition {
		t.Errorf("pair (1,2) at sim 0.25: reason = %q, want %q", got, ReasonAbruptTransition)
	}
	if got := reasons[[2]int{0, 2}]; got != ReasonWeakLinkage {
		t.Errorf("pair (0,2) at sim 0.6: reason = %q, want %q", got, ReasonWeakLinkage)
	}
}

func TestRankDisruptionsSortedDescending(t *testing.T) {
	similarity := [][]float64{
		{1.0, 0.2, 0.6, 0.9},
		{0.2, 1.0, 0.25, 0.4},
		{0.6, 0.25, 1.0, 0.7},
		{0.9, 0.4, 0.7, 1.0},
	}
	entropies := []float64{0.5, 1.0, 0.0, 0.3}

	for _, formula := range []string{FormulaEntropyWeighted, FormulaWeaknessScaled} {
		report := rankDisruptions(similarity, entropies, 10, formula)
		for k := 1; k < len(report); k++ {
			prev := pairMetric(report[k-1], entropies, formula)
			curr := pairMetric(report[k], entropies, formula)
			if curr > prev+1e-12 {
				t.Errorf("formula %s: record %d metric %v above predecessor %v",
					formula, k, curr, prev)
			}
		}
	}
}

func TestRankDisruptionsDeterministicTiebreak(t *testing.T) {
	// Zero entropy everywhere makes entropy_weighted metrics all zero, so
	// ordering falls back to index order.
	similarity := [][]float64{
		{1.0, 0.5, 0.5},
		{0.5, 1.0, 0.5},
		{0.5, 0.5, 1.0},
	}
	entropies := []float64{0.0, 0.0, 0.0}

	report := rankDisruptions(similarity, entropies, 10, FormulaEntropyWeighted)
	wantPairs := [][2]int{{0, 1}, {0, 2}, {1, 2}}
	for k, d := range report {
		if d.FromIdx != wantPairs[k][0] || d.ToIdx != wantPairs[k][1] {
			t.Errorf("record %d = (%d,%d), want (%d,%d)",
				k, d.FromIdx, d.ToIdx, wantPairs[k][0], wantPairs[k][1])
		}
	}
}

func TestRankDisruptionsWeaknessScaledOrdering(t *testing.T) {
	// Uniform entropy reduces weakness_scaled to pure weakness, so the
	// lowest-similarity pair must rank first.
	similarity := [][]float64{
		{1.0, 0.2, 0.6},
		{0.2, 1.0, 0.25},
		{0.6, 0.25, 1.0},
	}
	entropies := []float64{0.5, 0.5, 0.5}

	report := rankDisruptions(similarity, entropies, 10, FormulaWeaknessScaled)
	if report[0].FromIdx != 0 || report[0].ToIdx != 1 {
		t.Errorf("first record = (%d,%d), want (0,1)", report[0].FromIdx, report[0].ToIdx)
	}
	if math.Abs(report[0].Score-0.2) > 1e-9 {
		t.Errorf("first record Score = %v, want 0.2", report[0].Score)
	}
}

func TestDisruptionReasonThresholds(t *testing.T) {
	tests := []struct {
		similarity float64
		want       string
	}{
		{0.0, ReasonAbruptTransition},
		{0.29, ReasonAbruptTransition},
		{0.3, ReasonSemanticDrift},
		{0.49, ReasonSemanticDrift},
		{0.5, ReasonWeakLinkage},
		{0.95, ReasonWeakLinkage},
	}

	for _, tt := range tests {
		if got := disruptionReason(tt.similarity); got != tt.want {
			t.Errorf("disruptionReason(%v) = %q, want %q", tt.similarity, got, tt.want)
		}
	}
}

// pairMetric recomputes the ranking metric for a reported pair; Score
// carries the raw similarity.
func pairMetric(d models.Disruption, entropies []float64, formula string) float64 {
	avgEntropy := (entropies[d.FromIdx] + entropies[d.ToIdx]) / 2.0
	weakness := 1.0 - d.Score
	if formula == FormulaWeaknessScaled {
		return weakness * (1.0 + avgEntropy)
	}
	return avgEntropy * weakness
}
