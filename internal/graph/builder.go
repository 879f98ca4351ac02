package graph

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cohergraph/cohergraph/internal/config"
	"github.com/cohergraph/cohergraph/internal/segment"
	"github.com/cohergraph/cohergraph/pkg/logger"
)

var ErrNoSentences = errors.New("cannot build graph from empty sentence list")

// Builder assembles the weighted sentence graph, similarity matrix, and
// entropy array for one evaluation request.
type Builder struct {
	cfg      config.PipelineConfig
	analyzer segment.SyntacticAnalyzer
}

// NewBuilder creates a graph builder. analyzer may be nil, in which case
// the syntactic signal is zero for every sentence.
func NewBuilder(cfg config.PipelineConfig, analyzer segment.SyntacticAnalyzer) *Builder {
	return &Builder{cfg: cfg, analyzer: analyzer}
}

// Build consumes sentences, their embeddings, and per-sentence discourse
// markers and produces the graph plus the similarity matrix and normalized
// entropy array. The three inputs must be parallel and non-empty.
func (b *Builder) Build(sentences []string, embeddings [][]float32, markers [][]string) (*Graph, [][]float64, []float64, error) {
	n := len(sentences)
	if n == 0 {
		return nil, nil, nil, ErrNoSentences
	}
	if len(embeddings) != n || len(markers) != n {
		return nil, nil, nil, fmt.Errorf("input length mismatch: %d sentences, %d embeddings, %d marker sets",
			n, len(embeddings), len(markers))
	}

	// Upstream normalization is not trusted: cast to float64 and
	// re-normalize so dot product equals cosine similarity.
	vectors := make([][]float64, n)
	for i, emb := range embeddings {
		vectors[i] = unitVector(emb)
	}

	if n == 1 {
		features := append(append([]float64{}, vectors[0]...), 0.0)
		g := &Graph{NodeFeatures: [][]float64{features}}
		return g, [][]float64{{1.0}}, []float64{0.0}, nil
	}

	similarity := similarityMatrix(vectors)

	entropies := make([]float64, n)
	sharpen := b.cfg.Enhanced && b.cfg.EntropySharpening
	for i := 0; i < n; i++ {
		entropies[i] = localEntropy(similarity[i], i, sharpen)
	}
	entropies = normalizeEntropies(entropies)

	continuity := continuitySignal(sentences)
	syntactic := b.syntacticShift(sentences)

	g := b.buildEdges(similarity, continuity, syntactic, markers)

	// Node features: embedding with the normalized entropy appended.
	g.NodeFeatures = make([][]float64, n)
	for i := range vectors {
		g.NodeFeatures[i] = append(append([]float64{}, vectors[i]...), entropies[i])
	}

	logger.Debug("built sentence graph",
		zap.Int("nodes", n),
		zap.Int("edges", g.NumEdges()/2))

	return g, similarity, entropies, nil
}

func (b *Builder) syntacticShift(sentences []string) []float64 {
	if b.analyzer == nil {
		return make([]float64, len(sentences))
	}
	shift, err := b.analyzer.Shift(sentences)
	if err != nil || len(shift) != len(sentences) {
		logger.Warn("syntactic analyzer unavailable, using zero shift", zap.Error(err))
		return make([]float64, len(sentences))
	}
	return shift
}

func (b *Builder) buildEdges(similarity [][]float64, continuity, syntactic []float64, markers [][]string) *Graph {
	n := len(similarity)
	g := &Graph{}

	addPair := func(i, j int, weight float64) {
		if weight < 0 {
			weight = 0
		}
		g.Edges = append(g.Edges, Edge{Source: i, Target: j}, Edge{Source: j, Target: i})
		g.Weights = append(g.Weights, weight, weight)
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if similarity[i][j] < b.cfg.SimilarityThreshold {
				continue
			}
			addPair(i, j, b.edgeWeight(similarity[i][j], i, j, continuity, syntactic, markers))
		}
	}

	// Degenerate case: nothing cleared the threshold. A consecutive-index
	// path keeps the graph connected for N > 1.
	if len(g.Edges) == 0 {
		for i := 0; i < n-1; i++ {
			addPair(i, i+1, b.edgeWeight(similarity[i][i+1], i, i+1, continuity, syntactic, markers))
		}
	}

	capOutliers(g.Weights)

	return g
}

// edgeWeight blends similarity with discourse continuity and syntactic
// agreement. With the enhanced blend disabled only the blend degrades to
// pure similarity; the discourse boost applies in both modes.
func (b *Builder) edgeWeight(sim float64, i, j int, continuity, syntactic []float64, markers [][]string) float64 {
	weight := sim
	if b.cfg.Enhanced {
		continuityAvg := (continuity[i] + continuity[j]) / 2.0
		syntacticAgreement := 1.0 - math.Abs(syntactic[i]-syntactic[j])
		weight = b.cfg.Alpha*sim + b.cfg.Beta*continuityAvg + b.cfg.Gamma*syntacticAgreement
	}

	if len(markers[i]) > 0 || len(markers[j]) > 0 {
		weight += b.cfg.DiscourseBoost
	}

	return weight
}

// capOutliers caps every weight at mean + 3*stddev so a single abnormally
// boosted edge cannot dominate downstream aggregation.
func capOutliers(weights []float64) {
	if len(weights) < 2 {
		return
	}
	mean := stat.Mean(weights, nil)
	stddev := stat.StdDev(weights, nil)
	if math.IsNaN(stddev) || stddev == 0 {
		return
	}
	limit := mean + 3*stddev
	for i, w := range weights {
		if w > limit {
			weights[i] = limit
		}
	}
}

func similarityMatrix(vectors [][]float64) [][]float64 {
	n := len(vectors)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		matrix[i][i] = 1.0
		for j := i + 1; j < n; j++ {
			sim := floats.Dot(vectors[i], vectors[j])
			if math.IsNaN(sim) || math.IsInf(sim, 0) {
				sim = 0
			}
			matrix[i][j] = sim
			matrix[j][i] = sim
		}
	}

	return matrix
}

func unitVector(emb []float32) []float64 {
	v := make([]float64, len(emb))
	for i, x := range emb {
		v[i] = float64(x)
	}
	norm := floats.Norm(v, 2)
	if norm > 0 {
		floats.Scale(1/norm, v)
	}
	return v
}
