package engine

// ShapeMode selects the point-sprite fragment stage the candidate
// renderer draws with (§4.5 "Shape policy (square vs circle)").
type ShapeMode int

const (
	// ShapeCircle uses the antialiased-circle fragment stage
	// (smoothstep over length(gl_PointCoord*2-1)).
	ShapeCircle ShapeMode = iota
	// ShapeSquare uses the no-discard square fragment stage, cheaper
	// under fragment pressure.
	ShapeSquare
)

// String returns the shape mode name.
func (m ShapeMode) String() string {
	switch m {
	case ShapeCircle:
		return "Circle"
	case ShapeSquare:
		return "Square"
	default:
		return "Unknown"
	}
}

// ShapeStats holds the per-frame metrics driving shape-mode auto-selection.
type ShapeStats struct {
	DrawCount     int     // points actually drawn this frame (post-LOD)
	PointRadiusPx float64 // unselected point radius, CSS pixels
	PointsDPR     float64 // chosen offscreen-points DPR (§4.5)
}

// EstimatedFragments returns drawCount*pi*r^2*dpr^2, the fragment-shader
// cost estimate §4.5 bases the shape decision on.
func (s ShapeStats) EstimatedFragments() float64 {
	const pi = 3.141592653589793
	return float64(s.DrawCount) * pi * s.PointRadiusPx * s.PointRadiusPx * s.PointsDPR * s.PointsDPR
}

// ShapePolicy implements the hysteresis loop of §4.5: switch ON squares
// once the fragment estimate reaches circleBudget, switch OFF only once
// it drops to 0.75*circleBudget, so a frame hovering near the threshold
// does not flicker shape every frame. The zero value is a valid policy
// starting in circle mode.
type ShapePolicy struct {
	CircleBudget float64 // fragment budget at which squares switch on
	current      ShapeMode
}

// NewShapePolicy returns a policy with the given circle fragment budget.
func NewShapePolicy(circleBudget float64) *ShapePolicy {
	return &ShapePolicy{CircleBudget: circleBudget, current: ShapeCircle}
}

// Select applies the hysteresis rule and returns the mode to use this
// frame, updating internal state. A PointsDPR at or below 0.75 forces
// squares regardless of the fragment estimate (§4.5: "the AA circle shader loses its quality justification at
// low DPR while retaining cost").
func (p *ShapePolicy) Select(stats ShapeStats) ShapeMode {
	if stats.PointsDPR <= 0.75 {
		p.current = ShapeSquare
		return p.current
	}

	estimate := stats.EstimatedFragments()
	switch p.current {
	case ShapeCircle:
		if estimate >= p.CircleBudget {
			p.current = ShapeSquare
		}
	case ShapeSquare:
		if estimate <= 0.75*p.CircleBudget {
			p.current = ShapeCircle
		}
	}
	return p.current
}

// Current returns the mode selected by the most recent Select call
// (ShapeCircle before the first call).
func (p *ShapePolicy) Current() ShapeMode {
	return p.current
}
