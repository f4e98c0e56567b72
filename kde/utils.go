package kde

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}

// LinSpace returns num evenly spaced points from start to stop inclusive.
func LinSpace(start, stop float64, num int) []float64 {
	if num < 2 {
		return []float64{start}
	}
	grid := floats.Span(make([]float64, num), start, stop)
	grid[num-1] = stop
	return grid
}

// LogSpace returns num points spaced evenly on a log scale from 10^lo to 10^hi.
func LogSpace(lo, hi float64, num int) []float64 {
	if num < 2 {
		return []float64{math.Pow(10, lo)}
	}
	return floats.LogSpan(make([]float64, num), math.Pow(10, lo), math.Pow(10, hi))
}
