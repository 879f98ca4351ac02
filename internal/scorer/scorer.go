package scorer

import (
	"context"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/cohergraph/cohergraph/internal/config"
	"github.com/cohergraph/cohergraph/internal/graph"
	"github.com/cohergraph/cohergraph/pkg/logger"
	"github.com/cohergraph/cohergraph/pkg/models"
)

const neutralScore = 0.5

// Oracle is the external scoring model. It may fail or return garbage;
// the scorer treats either as an absent estimate.
type Oracle interface {
	Predict(ctx context.Context, g *graph.Graph) (score float64, importances []float64, err error)
}

// Scorer turns a built graph into a calibrated coherence score and a
// ranked disruption report.
type Scorer struct {
	cfg        config.PipelineConfig
	oracle     Oracle
	calibrator *Calibrator
}

// New creates a scorer. oracle may be nil for heuristic-only scoring;
// calibrator may be nil to disable calibration.
func New(cfg config.PipelineConfig, oracle Oracle, calibrator *Calibrator) *Scorer {
	return &Scorer{cfg: cfg, oracle: oracle, calibrator: calibrator}
}

// Score produces the final coherence score in [0,1] and the disruption
// report. Aside from the calibration window it is pure given its inputs
// and the oracle's response; it never returns a non-finite value.
func (s *Scorer) Score(ctx context.Context, g *graph.Graph, similarity [][]float64, entropies []float64) (float64, []models.Disruption) {
	heuristic := s.HeuristicScore(similarity, entropies)
	final := heuristic

	if s.oracle != nil {
		if modelScore, ok := s.modelEstimate(ctx, g); ok {
			final = s.fuse(modelScore, heuristic, entropies)
			if !isFinite(final) {
				final = heuristic
			}
		}
	}

	if s.cfg.Enhanced && s.calibrator != nil {
		calibrated := s.calibrator.Calibrate(final)
		if isFinite(calibrated) {
			final = calibrated
		}
	}

	if !isFinite(final) {
		final = neutralScore
	}
	final = clamp01(final)

	report := rankDisruptions(similarity, entropies, s.cfg.TopK, s.cfg.DisruptionFormula)

	return final, report
}

// HeuristicScore blends average off-diagonal similarity with inverted
// normalized entropy. Deterministic and model-free; every numeric
// degeneracy collapses to the neutral 0.5.
func (s *Scorer) HeuristicScore(similarity [][]float64, entropies []float64) float64 {
	n := len(similarity)
	if n == 0 || len(entropies) == 0 {
		return neutralScore
	}

	avgSimilarity := neutralScore
	var offDiagonal []float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				offDiagonal = append(offDiagonal, similarity[i][j])
			}
		}
	}
	if len(offDiagonal) > 0 {
		if m := stat.Mean(offDiagonal, nil); !math.IsNaN(m) {
			avgSimilarity = m
		}
	}

	avgEntropy := stat.Mean(entropies, nil)
	if math.IsNaN(avgEntropy) || avgEntropy < 0 {
		avgEntropy = 0.0
	}

	// Rough upper bound on row entropy: log of node count.
	maxEntropy := math.Log(float64(n) + 1)
	normalized := 0.0
	if maxEntropy > 0 {
		normalized = avgEntropy / maxEntropy
	}
	if normalized > 1 {
		normalized = 1
	}
	entropyScore := 1.0 - normalized

	heuristic := clamp01(0.7*avgSimilarity + 0.3*entropyScore)
	if !isFinite(heuristic) {
		return neutralScore
	}
	return heuristic
}

func (s *Scorer) modelEstimate(ctx context.Context, g *graph.Graph) (float64, bool) {
	modelScore, _, err := s.oracle.Predict(ctx, g)
	if err != nil {
		logger.Warn("model oracle failed, using heuristics only", zap.Error(err))
		return 0, false
	}
	if !isFinite(modelScore) {
		logger.Warn("model oracle returned non-finite score, using heuristics only",
			zap.Float64("score", modelScore))
		return 0, false
	}
	return modelScore, true
}

func (s *Scorer) fuse(modelScore, heuristic float64, entropies []float64) float64 {
	if s.cfg.Enhanced {
		meanEntropy := 0.0
		if len(entropies) > 0 {
			if m := stat.Mean(entropies, nil); !math.IsNaN(m) {
				meanEntropy = m
			}
		}
		return 0.8*modelScore + 0.2*(1.0-meanEntropy)
	}
	return 0.7*modelScore + 0.3*heuristic
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
