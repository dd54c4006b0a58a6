package candidate

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/scattergeo/engine"
)

// stubPipelineID is a placeholder for a real core.RenderPipelineID,
// following the teacher's own backend/wgpu/pipeline.go pattern: pipeline
// identity is cached and reused, but the actual
// device.CreateRenderPipeline/core.CreateBindGroupLayout calls underneath
// are commented out below pending a concrete hal.Device handle obtained
// from core.DeviceID (the teacher's own retrieved source acquires GPU
// resources as opaque core.DeviceID/core.AdapterID/core.QueueID handles
// in internal/gpu/backend.go, while its real pipeline-creation code in
// internal/gpu/convex_renderer.go and render_session.go instead takes a
// hal.Device parameter directly — no conversion between the two was
// found in the retrieved snapshot, the same gap the teacher's own
// PipelineCache ships with stub IDs for).
//
// TODO: replace with core.RenderPipelineID once the core.DeviceID→
// hal.Device bridge is available, and issue the real
// CreateBindGroupLayout/CreatePipelineLayout/CreateRenderPipeline calls
// sketched in the comments of createPointPipeline/createOverlayPipeline/
// createBackdropPipeline/createCompositePipeline.
type stubPipelineID uint64

// invalidPipelineID marks an uncreated pipeline slot.
const invalidPipelineID stubPipelineID = 0

// backdropCacheKey identifies a cached Poincaré backdrop texture by the
// three quantities that change its appearance (§4.5 "keyed by (size,
// DPR, displayZoom)").
type backdropCacheKey struct {
	width, height int
	dpr           float64
	displayZoom   float64
}

// pipelineCache caches the candidate renderer's GPU pipelines and the
// backdrop texture, mirroring the teacher's PipelineCache: mutex-guarded,
// lazy-create-and-cache-per-key.
type pipelineCache struct {
	mu sync.RWMutex

	device *gpuContext

	pointPipelines   map[engine.ShapeMode]stubPipelineID
	overlayPipeline  stubPipelineID
	backdropPipeline stubPipelineID
	compositePipe    stubPipelineID

	backdropTextures *lru.Cache[backdropCacheKey, *backdropTexture]

	initialized bool
}

// backdropTexture is the cached offscreen render target for the
// Poincaré disk backdrop (§4.5). Data holds a CPU-side mirror of the
// rendered texture so the candidate renderer can composite deterministic
// output before a full GPU texture-view/sampler pair is wired in; Dirty
// is cleared once the offscreen pass has actually run for this key.
type backdropTexture struct {
	Width, Height int
	Data          []uint8 // premultiplied RGBA8, stride = Width*4
	Dirty         bool
}

// newPipelineCache builds an empty cache sized for a small number of
// concurrently-live backdrop keys — in practice one or two (the canvas
// rarely changes size/DPR/zoom on the same frame more than once).
func newPipelineCache(ctx *gpuContext) (*pipelineCache, error) {
	backdrops, err := lru.New[backdropCacheKey, *backdropTexture](4)
	if err != nil {
		return nil, fmt.Errorf("candidate: building backdrop cache: %w", err)
	}
	return &pipelineCache{
		device:           ctx,
		pointPipelines:   make(map[engine.ShapeMode]stubPipelineID),
		backdropTextures: backdrops,
	}, nil
}

// ensure creates the base pipelines (one point-sprite variant per shape
// mode, the overlay stage, the backdrop stage, the composite stage) the
// first time it's called, exactly like the teacher's
// NewPipelineCache→createBlitPipeline/createStripPipeline/
// createCompositePipeline sequence.
func (pc *pipelineCache) ensure() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.initialized {
		return nil
	}

	if _, err := pc.createPointPipeline(engine.ShapeCircle); err != nil {
		return err
	}
	if _, err := pc.createPointPipeline(engine.ShapeSquare); err != nil {
		return err
	}
	if err := pc.createOverlayPipeline(); err != nil {
		return err
	}
	if err := pc.createBackdropPipeline(); err != nil {
		return err
	}
	if err := pc.createCompositePipeline(); err != nil {
		return err
	}

	pc.initialized = true
	return nil
}

// pointPipeline returns the cached pipeline for mode, creating it if this
// is the first request for that shape (hysteresis means most frames ask
// for the already-created one).
func (pc *pipelineCache) pointPipeline(mode engine.ShapeMode) (stubPipelineID, error) {
	pc.mu.RLock()
	id, ok := pc.pointPipelines[mode]
	pc.mu.RUnlock()
	if ok {
		return id, nil
	}
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if id, ok := pc.pointPipelines[mode]; ok {
		return id, nil
	}
	return pc.createPointPipeline(mode)
}

// createPointPipeline compiles the shared vertex stage against the
// circle or square fragment stage and would build the render pipeline
// via device.CreateRenderPipeline once a concrete hal.Device is
// available (see the stubPipelineID doc comment).
func (pc *pipelineCache) createPointPipeline(mode engine.ShapeMode) (stubPipelineID, error) {
	fragSrc := circleFragmentWGSL
	if mode == engine.ShapeSquare {
		fragSrc = squareFragmentWGSL
	}
	if _, err := compileSPIRV("point-vertex", pointVertexWGSL); err != nil {
		return invalidPipelineID, err
	}
	if _, err := compileSPIRV("point-fragment-"+mode.String(), fragSrc); err != nil {
		return invalidPipelineID, err
	}

	// TODO: once hal.Device is available:
	// layout, _ := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
	//     Entries: []gputypes.BindGroupLayoutEntry{
	//         {Binding: 0, Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
	//          Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
	//     },
	// })
	// pipeline, _ := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
	//     Vertex:   hal.VertexState{Module: vsModule, EntryPoint: "vs_main", Buffers: []gputypes.VertexBufferLayout{pointVertexLayout()}},
	//     Fragment: &hal.FragmentState{Module: fsModule, EntryPoint: "fs_main", Targets: []gputypes.ColorTargetState{{Format: gputypes.TextureFormatBGRA8Unorm, Blend: gputypes.BlendStatePremultiplied(), WriteMask: gputypes.ColorWriteMaskAll}}},
	//     Primitive: gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList, CullMode: gputypes.CullModeNone},
	// })

	id := stubPipelineID(1 + uint64(mode))
	pc.pointPipelines[mode] = id
	return id, nil
}

func (pc *pipelineCache) createOverlayPipeline() error {
	if _, err := compileSPIRV("overlay-fragment", overlayFragmentWGSL); err != nil {
		return err
	}
	pc.overlayPipeline = stubPipelineID(100)
	return nil
}

func (pc *pipelineCache) createBackdropPipeline() error {
	if _, err := compileSPIRV("backdrop-fragment", backdropFragmentWGSL); err != nil {
		return err
	}
	pc.backdropPipeline = stubPipelineID(200)
	return nil
}

func (pc *pipelineCache) createCompositePipeline() error {
	if _, err := compileSPIRV("composite-fragment", compositeFragmentWGSL); err != nil {
		return err
	}
	pc.compositePipe = stubPipelineID(300)
	return nil
}

// getBackdrop returns the cached backdrop texture for key, or (nil, false)
// if it is not cached — the caller (Renderer.compositeBackdrop) then
// renders it and stores the result via putBackdrop.
func (pc *pipelineCache) getBackdrop(key backdropCacheKey) (*backdropTexture, bool) {
	return pc.backdropTextures.Get(key)
}

func (pc *pipelineCache) putBackdrop(key backdropCacheKey, tex *backdropTexture) {
	pc.backdropTextures.Add(key, tex)
}

func (pc *pipelineCache) close() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.pointPipelines = nil
	pc.overlayPipeline = invalidPipelineID
	pc.backdropPipeline = invalidPipelineID
	pc.compositePipe = invalidPipelineID
	pc.backdropTextures.Purge()
	pc.initialized = false
}
