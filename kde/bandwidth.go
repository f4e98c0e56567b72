package kde

import (
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/efficacy-score/common"
	"github.com/uyouii/efficacy-score/model"
	"gonum.org/v1/gonum/stat"
)

type BandWidth interface {
	BandWidth([]float64) float64
}

const silvermanFactor = 0.9

// ruleOfThumb is factor * min(sd, IQR/1.349) * n^(-1/5). When the sample has
// no spread the magnitude of its first value stands in, then 1.
type ruleOfThumb struct {
	factor float64
}

// NewSilvermanBandWidth is Silverman's rule of thumb, factor 0.9.
func NewSilvermanBandWidth() BandWidth {
	return &ruleOfThumb{factor: silvermanFactor}
}

// NewNormalReferenceBandWidth uses the kernel's reference constant as the
// factor, about 1.06 for a gaussian kernel.
func NewNormalReferenceBandWidth(kernel *GuassianKernel) BandWidth {
	if kernel == nil {
		kernel = NewGuassianKernel()
	}
	return &ruleOfThumb{factor: kernel.ReferenceConstant()}
}

func (r *ruleOfThumb) BandWidth(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	spread := selectSigma(x)
	if spread == 0 || math.IsNaN(spread) {
		spread = math.Abs(x[0])
	}
	if spread == 0 {
		spread = 1
	}
	return r.factor * spread * math.Pow(float64(len(x)), -0.2)
}

func bandWidthRule(kind model.BandwidthKind) (BandWidth, bool) {
	switch kind {
	case model.BandwidthAuto:
		return NewSilvermanBandWidth(), true
	case model.BandwidthNormalReference:
		return NewNormalReferenceBandWidth(nil), true
	}
	return nil, false
}

func selectSigma(x []float64) float64 {
	normalize := 1.349

	// stat.Quantile needs sorted input
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)

	q75 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	iqr := (q75 - q25) / normalize

	stdDev := 0.0
	if len(x) > 1 {
		stdDev = stat.StdDev(x, nil)
	}

	if iqr > 0 {
		if stdDev < iqr {
			return stdDev
		}
		return iqr
	}
	return stdDev
}

// ResolveBandwidth turns a bandwidth spec into the list of candidate
// bandwidths for the grid search.
func ResolveBandwidth(spec model.BandwidthSpec, pooled []float64) ([]float64, error) {
	var sigmas []float64
	switch spec.Kind {
	case model.BandwidthAuto, model.BandwidthNormalReference:
		rule, _ := bandWidthRule(spec.Kind)
		sigmas = []float64{rule.BandWidth(pooled)}
	case model.BandwidthFixed:
		if len(spec.Values) != 1 {
			return nil, fmt.Errorf("fixed bandwidth needs exactly one value, got %d: %w",
				len(spec.Values), common.ErrorInvalidGrid)
		}
		sigmas = []float64{spec.Values[0]}
	case model.BandwidthGrid:
		sigmas = append([]float64(nil), spec.Values...)
	default:
		return nil, fmt.Errorf("unknown bandwidth kind %v: %w", spec.Kind, common.ErrorInvalidValue)
	}

	if err := ValidateGrid(sigmas); err != nil {
		return nil, fmt.Errorf("sigma grid: %w", err)
	}
	return sigmas, nil
}

// ValidateGrid checks a hyperparameter grid is non-empty with strictly positive, finite values.
func ValidateGrid(grid []float64) error {
	if len(grid) == 0 {
		return common.ErrorEmptyGrid
	}
	for i, v := range grid {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("value %v at index %d: %w", v, i, common.ErrorInvalidGrid)
		}
	}
	return nil
}
