package engine

// QualityMode names an override of the candidate renderer's adaptive
// quality policy (§4.5: offscreen-points DPR selection, shape-mode
// hysteresis, and interaction-time subsampling). The default is
// QualityAuto, the policy under which the renderer picks DPR, shape and
// subsampling from frame cost the way §4.5 describes.
//
// The mode is recorded per surface in InitOptions.Quality, not globally
// (§9 "No global state"). Neither render/candidate nor render/reference
// reads that field, so a mode other than QualityAuto does not change how
// either renderer draws.
type QualityMode int

const (
	// QualityAuto selects offscreen DPR, shape mode, and interaction
	// subsampling from measured frame cost (default).
	QualityAuto QualityMode = iota

	// QualityFull names the policy with no interaction-time subsampling
	// and no DPR degradation: full resolution and the circle fragment
	// stage on every render, for static export/screenshot paths where
	// frame latency does not matter.
	QualityFull

	// QualityPerformance names the policy that forces the square
	// fragment stage and the most aggressive interaction subsampling
	// regardless of measured cost, for low-power devices or very large
	// datasets.
	QualityPerformance
)

// String returns the quality mode name.
func (m QualityMode) String() string {
	switch m {
	case QualityAuto:
		return "Auto"
	case QualityFull:
		return "Full"
	case QualityPerformance:
		return "Performance"
	default:
		return "Unknown"
	}
}
