package engine

import "errors"

// ErrFallbackToCPU indicates the GPU path cannot handle this operation and
// the caller should transparently continue with CPU-side semantics. The
// candidate renderer never raises this to its own caller — CPU-side
// hit-test and lasso always see the full dataset regardless of what the
// GPU base layer drew (§4.5 "CPU-side semantics... still see the full
// dataset").
var ErrFallbackToCPU = errors.New("engine: falling back to CPU-side semantics")

// AcceleratedOp enumerates the GPU pipeline stages a candidate renderer
// may support, used for fast capability checks before attempting a draw
// (§4.5).
type AcceleratedOp uint32

const (
	// AccelPointSprite: the base point-sprite layer (circle or square
	// fragment stage).
	AccelPointSprite AcceleratedOp = 1 << iota
	// AccelBackdrop: the cached Poincaré disk backdrop composite.
	AccelBackdrop
	// AccelOverlay: the solid-color selection/hover overlay stage,
	// including ring mode.
	AccelOverlay
	// AccelOffscreenComposite: sampling the offscreen points texture
	// into the default framebuffer via a fullscreen quad (never a
	// framebuffer blit, per §4.5/§9).
	AccelOffscreenComposite
)

// GPURenderTarget describes the pixel buffer backing a GPU render pass
// output, used when a caller needs raw access (e.g. harness screenshot
// capture or a software-fallback readback).
type GPURenderTarget struct {
	Data          []uint8
	Width, Height int
	Stride        int // bytes per row, premultiplied RGBA8
}

// GPUCapabilities reports what a concrete GPU backend can do, queried
// once at surface-acquisition time (§4.5 "Context acquisition... lazy on
// first render"). It replaces a global accelerator registry: capabilities
// are a property of the surface handed to Init, not of package state
// (§9 "No global state").
type GPUCapabilities struct {
	Supported  AcceleratedOp
	ComputeAA  bool // smoothstep circle fragment stage available
	MaxTexture int  // max 2D texture dimension, for palette/backdrop sizing
}

// Supports reports whether op is in the supported set.
func (c GPUCapabilities) Supports(op AcceleratedOp) bool {
	return c.Supported&op != 0
}
