package graph

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// localEntropy computes the Shannon entropy (natural log) of a node's
// normalized similarity distribution to its peers. The self entry is
// excluded and negative similarities contribute no probability mass.
// sharpen raises each probability to a temperature 1/(1+variance) and
// renormalizes, which damps entropy noise from near-uniform low-signal
// rows while preserving ordering for peaked rows.
func localEntropy(row []float64, self int, sharpen bool) float64 {
	probs := make([]float64, 0, len(row)-1)
	total := 0.0
	for i, sim := range row {
		if i == self || sim <= 0 {
			continue
		}
		probs = append(probs, sim)
		total += sim
	}

	if total == 0 || len(probs) == 0 {
		return 0.0
	}
	for i := range probs {
		probs[i] /= total
	}

	if sharpen && len(probs) > 1 {
		temperature := 1.0 / (1.0 + stat.Variance(probs, nil))
		sum := 0.0
		for i := range probs {
			probs[i] = math.Pow(probs[i], temperature)
			sum += probs[i]
		}
		if sum > 0 {
			for i := range probs {
				probs[i] /= sum
			}
		}
	}

	entropy := 0.0
	for _, p := range probs {
		if p > 0 {
			entropy -= p * math.Log(p)
		}
	}

	if math.IsNaN(entropy) || math.IsInf(entropy, 0) || entropy < 0 {
		return 0.0
	}
	return entropy
}

// normalizeEntropies linearly rescales the array to [0,1]. If all values
// are equal the result is all zeros.
func normalizeEntropies(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
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

	if max > min {
		for i, v := range values {
			out[i] = (v - min) / (max - min)
		}
	}
	return out
}
