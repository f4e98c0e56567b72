package kde

import (
	"gonum.org/v1/gonum/mat"
)

// DistanceEngine holds the squared euclidean distances between the kernel
// centers and everything the density difference fit touches. It is built
// once per calculation and only read afterwards.
type DistanceEngine struct {
	pooled  []float64
	n1      int
	centers []float64
	grid    []float64

	sampleDist *mat.Dense    // kernelNum x n
	centerDist *mat.SymDense // kernelNum x kernelNum
	gridDist   *mat.Dense    // kernelNum x len(grid)
}

// NewDistanceEngine expects pooled to hold the experimental samples in
// [0, n1) followed by the control samples, and centerIdx to index into pooled.
// Both groups must be non-empty.
func NewDistanceEngine(pooled []float64, n1 int, centerIdx []int, grid []float64) *DistanceEngine {
	centers := make([]float64, len(centerIdx))
	for i, idx := range centerIdx {
		centers[i] = pooled[idx]
	}

	e := &DistanceEngine{
		pooled:  pooled,
		n1:      n1,
		centers: centers,
		grid:    grid,
	}
	e.sampleDist = squaredDistances(centers, pooled)
	e.gridDist = squaredDistances(centers, grid)

	k := len(centers)
	e.centerDist = mat.NewSymDense(k, nil)
	for i := 0; i < k; i++ {
		for j := i; j < k; j++ {
			d := centers[i] - centers[j]
			e.centerDist.SetSym(i, j, d*d)
		}
	}
	return e
}

func squaredDistances(rows, cols []float64) *mat.Dense {
	res := mat.NewDense(len(rows), len(cols), nil)
	for i, a := range rows {
		for j, b := range cols {
			d := a - b
			res.Set(i, j, d*d)
		}
	}
	return res
}

func (e *DistanceEngine) KernelNum() int {
	return len(e.centers)
}

func (e *DistanceEngine) ExpSize() int {
	return e.n1
}

func (e *DistanceEngine) CtrlSize() int {
	return len(e.pooled) - e.n1
}

func (e *DistanceEngine) Centers() []float64 {
	return e.centers
}

func (e *DistanceEngine) Grid() []float64 {
	return e.grid
}

// Exp is the center-to-sample view restricted to the experimental columns.
func (e *DistanceEngine) Exp() mat.Matrix {
	return e.sampleDist.Slice(0, e.KernelNum(), 0, e.n1)
}

// Ctrl is the center-to-sample view restricted to the control columns.
func (e *DistanceEngine) Ctrl() mat.Matrix {
	return e.sampleDist.Slice(0, e.KernelNum(), e.n1, len(e.pooled))
}

func (e *DistanceEngine) CentersToSamples() mat.Matrix {
	return e.sampleDist
}

func (e *DistanceEngine) CentersToCenters() mat.Symmetric {
	return e.centerDist
}

func (e *DistanceEngine) CentersToGrid() mat.Matrix {
	return e.gridDist
}
