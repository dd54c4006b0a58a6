package candidate

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"
	"github.com/gogpu/wgpu/types"

	"github.com/scattergeo/engine"
)

// ErrNoGPU is returned when context acquisition cannot find a compatible
// adapter (§7 "Context acquisition failure... fails loudly").
var ErrNoGPU = errors.New("candidate: no compatible GPU adapter")

// gpuContext holds the acquired instance/adapter/device/queue, acquired
// lazily on first render rather than at Init (§4.5 "Context acquisition.
// Lazy on first render, not on init"), mirroring the teacher's
// Backend.Init acquisition sequence.
type gpuContext struct {
	mu sync.Mutex

	provider gpucontext.DeviceProvider // optional externally-supplied device; stored, not read by acquire

	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	caps        engine.GPUCapabilities
	initialized bool
}

// newGPUContext returns an unacquired context holding provider (the same
// parameter shape ggcanvas.New uses via gg.SetAcceleratorDeviceProvider).
// acquire does not use provider: it always creates a private
// instance/adapter/device, whether or not provider is nil.
func newGPUContext(provider gpucontext.DeviceProvider) *gpuContext {
	return &gpuContext{provider: provider}
}

// acquire is idempotent: the first call performs instance→adapter→
// device→queue acquisition; later calls return immediately.
func (c *gpuContext) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}

	desc := &gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	}
	c.instance = core.NewInstance(desc)

	adapterID, err := c.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNoGPU, err)
	}
	c.adapter = adapterID

	deviceID, err := core.RequestDevice(adapterID, &types.DeviceDescriptor{
		Label:            "scattergeo-candidate-device",
		RequiredLimits:   types.DefaultLimits(),
		RequiredFeatures: nil,
	})
	if err != nil {
		return fmt.Errorf("candidate: device creation failed: %w", err)
	}
	c.device = deviceID

	queueID, err := core.GetDeviceQueue(deviceID)
	if err != nil {
		_ = core.DeviceDrop(deviceID)
		c.device = core.DeviceID{}
		return fmt.Errorf("candidate: queue retrieval failed: %w", err)
	}
	c.queue = queueID

	limits, err := core.GetDeviceLimits(deviceID)
	maxTexture := 8192
	if err == nil && limits.MaxTextureDimension2D > 0 {
		maxTexture = int(limits.MaxTextureDimension2D)
	}
	c.caps = engine.GPUCapabilities{
		Supported:  engine.AccelPointSprite | engine.AccelBackdrop | engine.AccelOverlay | engine.AccelOffscreenComposite,
		ComputeAA:  true,
		MaxTexture: maxTexture,
	}

	c.initialized = true
	return nil
}

func (c *gpuContext) capabilities() engine.GPUCapabilities {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.caps
}

// release drops the device and adapter in reverse acquisition order, the
// same ordering Backend.Close follows.
func (c *gpuContext) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return
	}
	if !c.device.IsZero() {
		_ = core.DeviceDrop(c.device)
		c.device = core.DeviceID{}
	}
	if !c.adapter.IsZero() {
		_ = core.AdapterDrop(c.adapter)
		c.adapter = core.AdapterID{}
	}
	c.instance = nil
	c.queue = core.QueueID{}
	c.initialized = false
}
