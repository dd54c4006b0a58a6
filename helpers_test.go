package engine

import "math"

func abs(x float64) float64 {
	return math.Abs(x)
}
