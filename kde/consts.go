package kde

const (
	// points of the evaluation grid the density difference is sampled on
	EvalPointCnt = 1000
	// upper bound of kernel basis centers
	MaxKernelNum = 1000

	DefaultFold = 5

	SigmaGridLowerExp = -1.0
	SigmaGridUpperExp = 0.2
	SigmaGridSize     = 50

	LambdaGridLowerExp = -3.0
	LambdaGridUpperExp = 0.0
	LambdaGridSize     = 50
)

func DefaultSigmaGrid() []float64 {
	return LogSpace(SigmaGridLowerExp, SigmaGridUpperExp, SigmaGridSize)
}

func DefaultLambdaGrid() []float64 {
	return LogSpace(LambdaGridLowerExp, LambdaGridUpperExp, LambdaGridSize)
}
