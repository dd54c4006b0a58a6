package candidate

import "math"

// Tunables for the adaptive offscreen-points DPR dual budget (§4.5
// "Offscreen points buffer"). Exact fragment-budget constants are not
// named by the spec text beyond the ceiling/floor/pixel-budget tiers, so
// fragmentBudget and circleBudget below are this renderer's own choice,
// documented here and in DESIGN.md rather than left implicit.
const (
	pixelBudgetTier1M   = 2.0e5 // large canvases, n>=1e6
	pixelBudgetTier1Ms  = 5.0e5 // small/medium canvases, n>=1e6
	pixelBudgetTier500k = 1.4e6
	pixelBudgetTier250k = 2.1e6
	pixelBudgetDefault  = 8.0e6

	largeCanvasPixels = 1920 * 1080 // canvases at or above this are "large" for the n>=1e6 tier split

	fragmentBudget = 5.0e7 // total fragment-shader invocations/frame this renderer targets
	circleBudget   = 0.6 * fragmentBudget

	maxGpuUploadPoints     = 10_000_000
	maxBaseDrawPoints      = 4_000_000
	interactionLODMinN     = 2_000_000
	interactionLODWindowMs = 80

	overlayRenderCap = 250_000
)

// pixelBudget returns the tiered pixel budget for n points on a canvas of
// cssWidth x cssHeight CSS pixels (§4.5 "Pixel budget").
func pixelBudget(n, cssWidth, cssHeight int) float64 {
	switch {
	case n >= 1_000_000:
		if cssWidth*cssHeight >= largeCanvasPixels {
			return pixelBudgetTier1M
		}
		return pixelBudgetTier1Ms
	case n >= 500_000:
		return pixelBudgetTier500k
	case n >= 250_000:
		return pixelBudgetTier250k
	default:
		return pixelBudgetDefault
	}
}

// dprCeiling and dprFloor implement §4.5's "Ceiling cap by point count"
// and "Floor" tables.
func dprCeiling(n int) float64 {
	switch {
	case n >= 1_000_000:
		return 1.0
	case n >= 500_000:
		return 1.25
	default:
		return 1.5
	}
}

func dprFloor(n int) float64 {
	switch {
	case n >= 1_000_000:
		return 0.35
	case n >= 500_000:
		return 0.75
	default:
		return 1.0
	}
}

// choosePointsDPR implements the §4.5 dual budget: pixel budget bounds
// resolution by canvas area, fragment budget bounds it by estimated
// shader cost, and the result is clamped to [floor, min(deviceDPR,
// ceiling)].
func choosePointsDPR(n, cssWidth, cssHeight int, deviceDPR float64, drawCount int, pointRadiusPx float64) float64 {
	cssPixels := float64(cssWidth * cssHeight)
	if cssPixels <= 0 {
		cssPixels = 1
	}
	dpr1 := math.Sqrt(pixelBudget(n, cssWidth, cssHeight) / cssPixels)

	fragDenom := float64(drawCount) * math.Pi * pointRadiusPx * pointRadiusPx
	var dpr2 float64
	if fragDenom <= 0 {
		dpr2 = deviceDPR
	} else {
		dpr2 = math.Sqrt(fragmentBudget / fragDenom)
	}

	ceiling := math.Min(deviceDPR, dprCeiling(n))
	chosen := math.Min(ceiling, math.Min(dpr1, dpr2))
	floor := dprFloor(n)
	if chosen < floor {
		chosen = floor
	}
	return chosen
}

// strideSubsampleTarget returns the target subsample count for n points,
// per §4.5 "Upload policy": min(n, max(2.5e5, min(4e6, floor(n/4)))).
func strideSubsampleTarget(n int) int {
	target := n / 4
	if target > 4_000_000 {
		target = 4_000_000
	}
	if target < 250_000 {
		target = 250_000
	}
	if target > n {
		target = n
	}
	return target
}

// strideSubsample returns the deterministic index list i=0,step,2*step,...
// used both for the GPU upload policy (n > maxGpuUploadPoints) and the
// precomputed interaction-LOD index buffer (§4.5).
func strideSubsample(n int) []int32 {
	if n <= 0 {
		return nil
	}
	target := strideSubsampleTarget(n)
	if target <= 0 {
		return nil
	}
	step := n / target
	if step < 1 {
		step = 1
	}
	indices := make([]int32, 0, target)
	for i := 0; i < n; i += step {
		indices = append(indices, int32(i))
	}
	return indices
}
