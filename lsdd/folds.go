package lsdd

import (
	"fmt"
	"math/rand/v2"

	"github.com/uyouii/efficacy-score/common"
)

// FoldAssignment maps every sample of one group to a cross validation fold.
type FoldAssignment struct {
	Fold   int
	Labels []int // Labels[i] is the fold of sample i
	Counts []int // Counts[f] is the number of samples in fold f
}

// AssignFolds lays the labels out as 0,1,..,fold-1,0,1,.. and shuffles them,
// so every fold gets floor(size/fold) or ceil(size/fold) samples.
func AssignFolds(size, fold int, rng *rand.Rand) (*FoldAssignment, error) {
	if fold < 2 {
		return nil, fmt.Errorf("need at least 2 folds, got %d: %w", fold, common.ErrorInvalidFold)
	}
	if size < fold {
		return nil, fmt.Errorf("%d samples can not fill %d folds: %w", size, fold, common.ErrorInvalidFold)
	}

	labels := make([]int, size)
	for i := range labels {
		labels[i] = i % fold
	}
	rng.Shuffle(size, func(i, j int) {
		labels[i], labels[j] = labels[j], labels[i]
	})

	counts := make([]int, fold)
	for _, l := range labels {
		counts[l]++
	}

	return &FoldAssignment{
		Fold:   fold,
		Labels: labels,
		Counts: counts,
	}, nil
}

// TrainCount is the number of samples outside fold f.
func (a *FoldAssignment) TrainCount(f int) int {
	return len(a.Labels) - a.Counts[f]
}
