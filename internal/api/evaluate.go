package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/cohergraph/cohergraph/internal/metrics"
	"github.com/cohergraph/cohergraph/internal/pipeline"
)

const maxBatchSize = 100

// EvaluateRequest is one paragraph plus options.
type EvaluateRequest struct {
	Text    string `json:"text"`
	Options struct {
		Visualize bool `json:"visualize"`
	} `json:"options"`
}

// BatchEvaluateRequest is a list of independent paragraphs.
type BatchEvaluateRequest struct {
	Texts []string `json:"texts"`
}

// BatchEvaluateItem pairs a truncated echo of the text with its score.
type BatchEvaluateItem struct {
	Text             string  `json:"text"`
	CoherenceScore   float64 `json:"coherence_score"`
	CoherencePercent int     `json:"coherence_percent"`
}

// BatchEvaluateResponse is the batch result envelope.
type BatchEvaluateResponse struct {
	Results        []BatchEvaluateItem `json:"results"`
	TotalProcessed int                 `json:"total_processed"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Text == "" {
		respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	start := time.Now()
	result, err := s.evaluator.Evaluate(r.Context(), req.Text, pipeline.Options{
		Visualize: req.Options.Visualize,
	})
	metrics.EvaluationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, pipeline.ErrEmptyText) {
			metrics.EvaluationsTotal.WithLabelValues("invalid").Inc()
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		metrics.EvaluationsTotal.WithLabelValues("error").Inc()
		respondError(w, http.StatusBadGateway, "evaluation failed")
		return
	}

	metrics.EvaluationsTotal.WithLabelValues("ok").Inc()
	metrics.CoherenceScores.Observe(result.CoherenceScore)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleBatchEvaluate(w http.ResponseWriter, r *http.Request) {
	var req BatchEvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Texts) == 0 {
		respondError(w, http.StatusBadRequest, "texts must not be empty")
		return
	}
	if len(req.Texts) > maxBatchSize {
		respondError(w, http.StatusBadRequest, "too many texts in one batch")
		return
	}

	evaluations := s.evaluator.EvaluateBatch(r.Context(), req.Texts)

	items := make([]BatchEvaluateItem, len(evaluations))
	for i, eval := range evaluations {
		items[i] = BatchEvaluateItem{
			Text:             truncate(req.Texts[i], 50),
			CoherenceScore:   eval.CoherenceScore,
			CoherencePercent: eval.CoherencePercent,
		}
		metrics.CoherenceScores.Observe(eval.CoherenceScore)
	}
	metrics.EvaluationsTotal.WithLabelValues("ok").Add(float64(len(items)))

	respondJSON(w, http.StatusOK, BatchEvaluateResponse{
		Results:        items,
		TotalProcessed: len(items),
	})
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "..."
}
