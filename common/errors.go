package common

import "errors"

var (
	ErrorInvalidValue = errors.New("invalid value")

	// configuration errors
	ErrorEmptySample  = errors.New("empty sample group")
	ErrorNonFinite    = errors.New("sample contains NaN or Inf")
	ErrorInvalidFold  = errors.New("invalid fold count")
	ErrorEmptyGrid    = errors.New("empty hyperparameter grid")
	ErrorInvalidGrid  = errors.New("hyperparameter grid values must be strictly positive")
	ErrorInvalidRange = errors.New("evaluation range must have a positive upper bound")

	// computation errors
	ErrorNotConverged = errors.New("linear solver did not converge")
	ErrorComputation  = errors.New("computation failed")
)
