package pipeline

import (
	"github.com/cohergraph/cohergraph/internal/config"
	"github.com/cohergraph/cohergraph/internal/embeddings"
	"github.com/cohergraph/cohergraph/internal/model"
	"github.com/cohergraph/cohergraph/internal/scorer"
	"github.com/cohergraph/cohergraph/internal/segment"
)

// BuildEvaluator assembles an Evaluator from configuration. cache may be
// nil to skip embedding caching. The second return reports whether a model
// oracle is configured.
func BuildEvaluator(cfg *config.Config, cache embeddings.Cache) (*Evaluator, bool, error) {
	embedder, err := embeddings.NewEmbedder(cfg.Embedding)
	if err != nil {
		return nil, false, err
	}

	var wrapped embeddings.Embedder = embedder
	if cache != nil {
		wrapped = embeddings.NewCachedEmbedder(embedder, cache, cfg.Embedding.Model)
	}

	var oracle scorer.Oracle
	oracleReady := false
	if client := model.NewClient(cfg.Oracle); client != nil {
		oracle = model.Instrument(client)
		oracleReady = true
	}

	var analyzer segment.SyntacticAnalyzer
	if cfg.Pipeline.Enhanced {
		analyzer = segment.NewProseAnalyzer()
	}

	calibrator := scorer.NewCalibrator(cfg.Pipeline.CalibrationWindow)

	return New(cfg.Pipeline, wrapped, analyzer, oracle, calibrator), oracleReady, nil
}
