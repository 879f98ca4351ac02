package visualization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Reduce projects row vectors down to dims components with PCA and scales
// the result to [-1, 1] per axis for rendering. With a single row or fewer
// the output is all zeros.
func Reduce(data [][]float64, dims int) ([][]float64, error) {
	n := len(data)
	if n == 0 {
		return nil, nil
	}

	d := len(data[0])
	if dims > d {
		dims = d
	}
	if dims > n {
		dims = n
	}

	if n == 1 {
		return [][]float64{make([]float64, dims)}, nil
	}

	flat := make([]float64, 0, n*d)
	for _, row := range data {
		flat = append(flat, row...)
	}
	X := mat.NewDense(n, d, flat)

	// Center columns.
	centered := mat.NewDense(n, d, nil)
	for j := 0; j < d; j++ {
		col := mat.Col(nil, j, X)
		mean := stat.Mean(col, nil)
		for i := 0; i < n; i++ {
			centered.Set(i, j, X.At(i, j)-mean)
		}
	}

	var svd mat.SVD
	if ok := svd.Factorize(centered, mat.SVDThin); !ok {
		return nil, fmt.Errorf("SVD factorization failed")
	}

	var v mat.Dense
	svd.VTo(&v)

	vReduced := v.Slice(0, d, 0, dims).(*mat.Dense)
	projected := mat.NewDense(n, dims, nil)
	projected.Mul(centered, vReduced)

	reduced := make([][]float64, n)
	for i := 0; i < n; i++ {
		reduced[i] = make([]float64, dims)
		for j := 0; j < dims; j++ {
			reduced[i][j] = projected.At(i, j)
		}
	}

	return normalizeCoordinates(reduced), nil
}

// normalizeCoordinates scales coordinates to [-1, 1] per axis.
func normalizeCoordinates(coords [][]float64) [][]float64 {
	if len(coords) == 0 {
		return coords
	}

	dims := len(coords[0])
	mins := make([]float64, dims)
	maxs := make([]float64, dims)
	for j := 0; j < dims; j++ {
		mins[j] = math.MaxFloat64
		maxs[j] = -math.MaxFloat64
	}

	for _, coord := range coords {
		for j, v := range coord {
			if v < mins[j] {
				mins[j] = v
			}
			if v > maxs[j] {
				maxs[j] = v
			}
		}
	}

	normalized := make([][]float64, len(coords))
	for i, coord := range coords {
		normalized[i] = make([]float64, dims)
		for j, v := range coord {
			rng := maxs[j] - mins[j]
			if rng == 0 {
				normalized[i][j] = 0
			} else {
				normalized[i][j] = 2*(v-mins[j])/rng - 1
			}
		}
	}

	return normalized
}
