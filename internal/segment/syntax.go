package segment

import (
	"math"
	"strings"

	"github.com/jdkato/prose/v2"
)

// SyntacticAnalyzer produces a per-sentence structural-shift value in [0,1].
// A nil analyzer means no parser is available and every sentence gets 0.
type SyntacticAnalyzer interface {
	Shift(sentences []string) ([]float64, error)
}

// ProseAnalyzer approximates structural shift from POS tags: the average
// absolute distance of each token to the nearest verb stands in for
// token-to-head distance, min-max normalized across sentences.
type ProseAnalyzer struct{}

func NewProseAnalyzer() *ProseAnalyzer {
	return &ProseAnalyzer{}
}

func (a *ProseAnalyzer) Shift(sentences []string) ([]float64, error) {
	raw := make([]float64, len(sentences))

	for i, sentence := range sentences {
		doc, err := prose.NewDocument(sentence, prose.WithExtraction(false))
		if err != nil {
			return nil, err
		}

		tokens := doc.Tokens()
		var verbPositions []int
		for pos, tok := range tokens {
			if strings.HasPrefix(tok.Tag, "VB") {
				verbPositions = append(verbPositions, pos)
			}
		}

		if len(tokens) == 0 || len(verbPositions) == 0 {
			raw[i] = 0
			continue
		}

		total := 0.0
		for pos := range tokens {
			nearest := math.MaxFloat64
			for _, vp := range verbPositions {
				if d := math.Abs(float64(pos - vp)); d < nearest {
					nearest = d
				}
			}
			total += nearest
		}
		raw[i] = total / float64(len(tokens))
	}

	return minMaxNormalize(raw), nil
}

func minMaxNormalize(values []float64) []float64 {
	if len(values) == 0 {
		return values
	}

	min, max := values[0], values[0]
	for _, v := range values {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	out := make([]float64, len(values))
	if max > min {
		for i, v := range values {
			out[i] = (v - min) / (max - min)
		}
	}
	return out
}
