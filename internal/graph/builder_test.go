package graph

import (
	"errors"
	"math"
	"testing"

	"github.com/cohergraph/cohergraph/internal/config"
)

func testConfig() config.PipelineConfig {
	return config.DefaultPipeline()
}

func emptyMarkers(n int) [][]string {
	return make([][]string, n)
}

func TestBuildRejectsEmptyInput(t *testing.T) {
	b := NewBuilder(testConfig(), nil)

	_, _, _, err := b.Build(nil, nil, nil)
	if !errors.Is(err, ErrNoSentences) {
		t.Errorf("expected ErrNoSentences, got %v", err)
	}
}

func TestBuildRejectsLengthMismatch(t *testing.T) {
	b := NewBuilder(testConfig(), nil)

	_, _, _, err := b.Build(
		[]string{"one", "two"},
		[][]float32{{1, 0}},
		emptyMarkers(2))
	if err == nil {
		t.Error("expected error for mismatched input lengths")
	}
}

func TestBuildSingleSentence(t *testing.T) {
	b := NewBuilder(testConfig(), nil)

	g, similarity, entropies, err := b.Build(
		[]string{"Only one sentence."},
		[][]float32{{3, 4}},
		emptyMarkers(1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.NumNodes() != 1 || g.NumEdges() != 0 {
		t.Errorf("expected 1 node and 0 edges, got %d nodes %d edges", g.NumNodes(), g.NumEdges())
	}
	if len(similarity) != 1 || similarity[0][0] != 1.0 {
		t.Errorf("expected 1x1 identity similarity, got %v", similarity)
	}
	if len(entropies) != 1 || entropies[0] != 0.0 {
		t.Errorf("expected zero entropy, got %v", entropies)
	}

	// Embedding normalized to unit length, entropy appended.
	features := g.NodeFeatures[0]
	if len(features) != 3 {
		t.Fatalf("expected 3 features, got %d", len(features))
	}
	if math.Abs(features[0]-0.6) > 1e-9 || math.Abs(features[1]-0.8) > 1e-9 {
		t.Errorf("expected unit vector (0.6, 0.8), got (%v, %v)", features[0], features[1])
	}
	if features[2] != 0.0 {
		t.Errorf("expected entropy feature 0, got %v", features[2])
	}
}

func TestBuildSimilarityMatrixProperties(t *testing.T) {
	b := NewBuilder(testConfig(), nil)

	_, similarity, _, err := b.Build(
		[]string{"a", "b", "c"},
		[][]float32{{1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		emptyMarkers(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		if similarity[i][i] != 1.0 {
			t.Errorf("diagonal [%d][%d] = %v, want 1.0", i, i, similarity[i][i])
		}
		for j := 0; j < 3; j++ {
			if similarity[i][j] != similarity[j][i] {
				t.Errorf("matrix not symmetric at [%d][%d]: %v vs %v",
					i, j, similarity[i][j], similarity[j][i])
			}
		}
	}

	// Orthogonal pair.
	if similarity[0][1] != 0.0 {
		t.Errorf("orthogonal similarity = %v, want 0", similarity[0][1])
	}
	// (1,0,0) against normalized (1,1,0) is 1/sqrt(2).
	want := 1 / math.Sqrt2
	if math.Abs(similarity[0][2]-want) > 1e-9 {
		t.Errorf("similarity[0][2] = %v, want %v", similarity[0][2], want)
	}
}

func TestBuildFallbackPathWhenNothingClearsThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.SimilarityThreshold = 0.99
	b := NewBuilder(cfg, nil)

	g, _, _, err := b.Build(
		[]string{"a", "b", "c", "d"},
		[][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}},
		emptyMarkers(4))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Consecutive path over 4 nodes: 3 undirected pairs, 6 arcs.
	if g.NumEdges() != 6 {
		t.Fatalf("expected 6 arcs, got %d", g.NumEdges())
	}

	edges, _ := g.UndirectedEdges()
	for i, e := range edges {
		if e.Source != i || e.Target != i+1 {
			t.Errorf("edge %d = (%d, %d), want (%d, %d)", i, e.Source, e.Target, i, i+1)
		}
	}
}

func TestBuildEdgeWeightsNonNegative(t *testing.T) {
	b := NewBuilder(testConfig(), nil)

	g, _, _, err := b.Build(
		[]string{"a", "b", "c"},
		[][]float32{{1, 0}, {-1, 0.1}, {0.5, 0.5}},
		emptyMarkers(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, w := range g.Weights {
		if w < 0 {
			t.Errorf("weight %d = %v, want non-negative", i, w)
		}
	}
}

func TestBuildPlainModeUsesRawSimilarity(t *testing.T) {
	cfg := testConfig()
	cfg.Enhanced = false
	b := NewBuilder(cfg, nil)

	g, similarity, _, err := b.Build(
		[]string{"a", "b"},
		[][]float32{{1, 1}, {1, 0}},
		emptyMarkers(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	edges, weights := g.UndirectedEdges()
	if len(edges) != 1 {
		t.Fatalf("expected 1 undirected edge, got %d", len(edges))
	}
	if math.Abs(weights[0]-similarity[0][1]) > 1e-9 {
		t.Errorf("plain-mode weight = %v, want raw similarity %v", weights[0], similarity[0][1])
	}
}

func TestBuildPlainModeKeepsDiscourseBoost(t *testing.T) {
	cfg := testConfig()
	cfg.Enhanced = false
	b := NewBuilder(cfg, nil)
	vectors := [][]float32{{1, 0}, {0.9, 0.1}}
	sentences := []string{"The rain stopped.", "However, the wind kept up."}

	plain, _, _, err := b.Build(sentences, vectors, emptyMarkers(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	marked, _, _, err := b.Build(sentences, vectors, [][]string{nil, {"however"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	diff := marked.Weights[0] - plain.Weights[0]
	if math.Abs(diff-cfg.DiscourseBoost) > 1e-9 {
		t.Errorf("baseline-mode boost delta = %v, want %v", diff, cfg.DiscourseBoost)
	}
}

func TestBuildDiscourseBoostRaisesEdgeWeight(t *testing.T) {
	cfg := testConfig()
	b := NewBuilder(cfg, nil)
	vectors := [][]float32{{1, 0}, {0.9, 0.1}}
	sentences := []string{"The rain stopped.", "However, the wind kept up."}

	plain, plainSim, _, err := b.Build(sentences, vectors, emptyMarkers(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boosted, boostedSim, _, err := b.Build(sentences, vectors, [][]string{nil, {"however"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	diff := boosted.Weights[0] - plain.Weights[0]
	if math.Abs(diff-cfg.DiscourseBoost) > 1e-9 {
		t.Errorf("boost delta = %v, want %v", diff, cfg.DiscourseBoost)
	}

	// The boost lands on edge weights only; stored similarities stay raw.
	if boostedSim[0][1] != plainSim[0][1] {
		t.Errorf("similarity matrix changed by boost: %v vs %v", boostedSim[0][1], plainSim[0][1])
	}
}

func TestBuildIdempotent(t *testing.T) {
	b := NewBuilder(testConfig(), nil)
	sentences := []string{"First thought.", "Second thought.", "Therefore, a conclusion."}
	vectors := [][]float32{{1, 0.2, 0}, {0.8, 0.4, 0.1}, {0.6, 0.6, 0.2}}
	markers := [][]string{nil, nil, {"therefore"}}

	g1, s1, e1, err := b.Build(sentences, vectors, markers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	g2, s2, e2, err := b.Build(sentences, vectors, markers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range s1 {
		for j := range s1[i] {
			if s1[i][j] != s2[i][j] {
				t.Fatalf("similarity differs between runs at [%d][%d]", i, j)
			}
		}
	}
	for i := range e1 {
		if e1[i] != e2[i] {
			t.Fatalf("entropy differs between runs at %d", i)
		}
	}
	for i := range g1.Weights {
		if g1.Weights[i] != g2.Weights[i] {
			t.Fatalf("weight differs between runs at %d", i)
		}
	}
}

func TestCapOutliers(t *testing.T) {
	weights := make([]float64, 16)
	for i := range weights {
		weights[i] = 1
	}
	weights[15] = 100

	capOutliers(weights)

	for i, w := range weights[:15] {
		if w != 1 {
			t.Errorf("weight %d changed to %v", i, w)
		}
	}
	if weights[15] >= 100 {
		t.Errorf("outlier weight not capped: %v", weights[15])
	}
	if weights[15] < 1 {
		t.Errorf("cap pushed outlier below the bulk: %v", weights[15])
	}
}

func TestContinuitySignal(t *testing.T) {
	sentences := []string{
		"The experiment began.",
		"However, the results surprised everyone.",
		"Therefore, the team revised the model.",
		"The paper was published.",
	}

	got := continuitySignal(sentences)
	want := []float64{1.0, 0.4, 0.7, 0.8}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("continuity[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
