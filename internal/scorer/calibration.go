package scorer

import (
	"math"
	"sync"
)

const minCalibrationSamples = 5

// Calibrator softly rescales new scores against a rolling window of recent
// raw scores. It is the only shared mutable state in the pipeline: one
// instance per process, injected into every Scorer, safe for concurrent use.
type Calibrator struct {
	mu       sync.Mutex
	window   []float64
	capacity int
}

// NewCalibrator creates a calibrator with the given window capacity.
func NewCalibrator(capacity int) *Calibrator {
	if capacity <= 0 {
		capacity = 100
	}
	return &Calibrator{capacity: capacity}
}

// Calibrate records the raw score and returns it blended with its min-max
// position inside the window. With fewer than five samples, or a flat
// window, the score passes through unchanged. The result is always finite
// and within [0,1].
func (c *Calibrator) Calibrate(score float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.window = append(c.window, score)
	if len(c.window) > c.capacity {
		c.window = c.window[1:]
	}

	if len(c.window) < minCalibrationSamples {
		return score
	}

	min, max := c.window[0], c.window[0]
	for _, s := range c.window {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	if max <= min {
		return score
	}

	scaled := (score - min) / (max - min)
	blended := 0.7*score + 0.3*scaled

	if math.IsNaN(blended) || math.IsInf(blended, 0) {
		return score
	}
	return clamp01(blended)
}

// Len reports the current number of samples in the window.
func (c *Calibrator) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.window)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
