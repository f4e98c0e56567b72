package kde

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// kernelOrder is the order of the gaussian kernel, the index of its first
// non zero moment.
const kernelOrder = 2

type GuassianKernel struct {
	roughness    float64 // integral of K(u)^2
	secondMoment float64 // integral of u^2 K(u)
}

func NewGuassianKernel() *GuassianKernel {
	return &GuassianKernel{
		roughness:    1.0 / (2.0 * math.Sqrt(math.Pi)),
		secondMoment: 1.0,
	}
}

// Weight is the unnormalized basis function exp(-d/(2σ²)) for a squared distance d.
func (k *GuassianKernel) Weight(sqDist, sigma float64) float64 {
	return math.Exp(-sqDist / (2 * sigma * sigma))
}

// Convolution is the integral over x of the product of two basis functions
// whose centers are sqDist apart: sqrt(pi)·σ·exp(-d/(4σ²)).
func (k *GuassianKernel) Convolution(sqDist, sigma float64) float64 {
	return math.Sqrt(math.Pi) * sigma * math.Exp(-sqDist/(4*sigma*sigma))
}

// EvaluateMatrix applies Weight element-wise to a squared distance matrix.
func (k *GuassianKernel) EvaluateMatrix(sqDist mat.Matrix, sigma float64) *mat.Dense {
	rows, cols := sqDist.Dims()
	res := mat.NewDense(rows, cols, nil)
	res.Apply(func(_, _ int, v float64) float64 {
		return k.Weight(v, sigma)
	}, sqDist)
	return res
}

// GramMatrix builds H[i][j] = Convolution(d(c_i, c_j), σ) from a symmetric
// center-to-center squared distance matrix.
func (k *GuassianKernel) GramMatrix(sqDist mat.Symmetric, sigma float64) *mat.SymDense {
	n := sqDist.SymmetricDim()
	gram := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			gram.SetSym(i, j, k.Convolution(sqDist.At(i, j), sigma))
		}
	}
	return gram
}

// ReferenceConstant is the factor C of the normal reference bandwidth
// C * spread * n^(-1/5), the AMISE optimal bandwidth when the data is normal.
func (k *GuassianKernel) ReferenceConstant() float64 {
	nu := float64(kernelOrder)
	num := math.Sqrt(math.Pi) * math.Pow(factorial(kernelOrder), 3) * k.roughness
	den := 2 * nu * factorial(2*kernelOrder) * k.secondMoment * k.secondMoment
	return 2 * math.Pow(num/den, 1/(2*nu+1))
}
