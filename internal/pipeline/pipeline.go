package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cohergraph/cohergraph/internal/config"
	"github.com/cohergraph/cohergraph/internal/embeddings"
	"github.com/cohergraph/cohergraph/internal/graph"
	"github.com/cohergraph/cohergraph/internal/scorer"
	"github.com/cohergraph/cohergraph/internal/segment"
	"github.com/cohergraph/cohergraph/internal/visualization"
	"github.com/cohergraph/cohergraph/internal/worker"
	"github.com/cohergraph/cohergraph/pkg/logger"
	"github.com/cohergraph/cohergraph/pkg/models"
)

// ErrEmptyText marks input that yields no sentences. It is the only
// user-visible pipeline failure besides embedding transport errors.
var ErrEmptyText = errors.New("text must contain at least one sentence")

// Evaluator runs the full coherence pipeline: segmentation, embedding,
// graph construction, scoring, and optional visualization payload.
type Evaluator struct {
	cfg      config.PipelineConfig
	embedder embeddings.Embedder
	builder  *graph.Builder
	scorer   *scorer.Scorer
	oracle   scorer.Oracle
	pool     *worker.Pool
}

// Options adjusts a single evaluation.
type Options struct {
	Visualize bool
}

// New wires an evaluator. oracle may be nil; analyzer may be nil.
func New(
	cfg config.PipelineConfig,
	embedder embeddings.Embedder,
	analyzer segment.SyntacticAnalyzer,
	oracle scorer.Oracle,
	calibrator *scorer.Calibrator,
) *Evaluator {
	return &Evaluator{
		cfg:      cfg,
		embedder: embedder,
		builder:  graph.NewBuilder(cfg, analyzer),
		scorer:   scorer.New(cfg, oracle, calibrator),
		oracle:   oracle,
		pool:     worker.NewPool(cfg.BatchWorkers),
	}
}

// Evaluate scores one paragraph.
func (e *Evaluator) Evaluate(ctx context.Context, text string, opts Options) (*models.Evaluation, error) {
	sentences, markers := segment.Segment(text)
	if len(sentences) == 0 {
		return nil, ErrEmptyText
	}

	vectors, err := e.embedder.EmbedTexts(ctx, sentences)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}

	g, similarity, entropies, err := e.builder.Build(sentences, vectors, markers)
	if err != nil {
		return nil, err
	}

	score, disruptions := e.scorer.Score(ctx, g, similarity, entropies)

	result := &models.Evaluation{
		CoherenceScore:   score,
		CoherencePercent: int(score * 100),
		Disruptions:      disruptions,
	}

	if opts.Visualize {
		result.Graph = visualization.BuildGraphView(
			sentences, g, entropies, markers, disruptions, e.nodeImportances(ctx, g))
	}

	return result, nil
}

// EvaluateBatch scores independent paragraphs concurrently. A failed text
// yields a zero-score entry rather than aborting the batch.
func (e *Evaluator) EvaluateBatch(ctx context.Context, texts []string) []models.Evaluation {
	results := make([]models.Evaluation, len(texts))
	// Slots for items never dispatched (cancelled context) must still carry
	// an empty, non-nil disruption list.
	for i := range results {
		results[i].Disruptions = []models.Disruption{}
	}

	e.pool.Run(ctx, len(texts), func(ctx context.Context, i int) {
		eval, err := e.Evaluate(ctx, texts[i], Options{})
		if err != nil {
			logger.Warn("batch item failed", zap.Int("index", i), zap.Error(err))
			return
		}
		results[i] = *eval
	})

	return results
}

// nodeImportances asks the oracle for per-node weights; nil on any failure,
// letting the visualization layer use its entropy fallback.
func (e *Evaluator) nodeImportances(ctx context.Context, g *graph.Graph) []float64 {
	if e.oracle == nil {
		return nil
	}
	_, importances, err := e.oracle.Predict(ctx, g)
	if err != nil {
		logger.Debug("node importances unavailable", zap.Error(err))
		return nil
	}
	return importances
}
