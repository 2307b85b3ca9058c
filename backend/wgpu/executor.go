// Package wgpu provides the GPU-accelerated command-stream executor.
//
// The executor compiles the mask/matte compositing kernels with naga
// and builds wgpu compute pipelines against a hal.Device supplied by
// the host. Full GPU dispatch requires buffer binding extensions in
// the HAL; until then, per-pixel steps execute through the CPU
// compositor mirroring the shader algorithms, so results are identical
// across paths. Without a device, the executor behaves exactly like
// the software one.
//
// Importing this package registers the "wgpu" executor:
//
//	import _ "github.com/lumakit/luma/backend/wgpu"
package wgpu

import (
	"log/slog"
	"sync"

	"github.com/gogpu/wgpu/hal"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/backend"
	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/composite"
	"github.com/lumakit/luma/ir"
)

func init() {
	backend.Register(backend.BackendWgpu, func(registry *ir.PathRegistry) backend.Executor {
		return New(registry, nil, nil)
	})
}

// Executor composites command streams with GPU compute pipelines,
// falling back to the CPU mirror when no device is available.
type Executor struct {
	mu sync.Mutex

	registry *ir.PathRegistry
	device   hal.Device
	queue    hal.Queue

	pipelines  *pipelines
	compositor *composite.Compositor
	pending    map[ir.AssetID]*composite.Buffer

	initialized bool
}

// New builds an uninitialized GPU executor. Device and queue may be
// nil, leaving only the CPU path active.
func New(registry *ir.PathRegistry, device hal.Device, queue hal.Queue) *Executor {
	return &Executor{
		registry: registry,
		device:   device,
		queue:    queue,
		pending:  make(map[ir.AssetID]*composite.Buffer),
	}
}

// SetDevice installs the GPU device before Init. The host owns the
// device; the executor never creates one.
func (e *Executor) SetDevice(device hal.Device, queue hal.Queue) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.device = device
	e.queue = queue
}

// Name implements backend.Executor.
func (e *Executor) Name() string { return backend.BackendWgpu }

// Init implements backend.Executor. Pipeline creation failures are not
// fatal: the executor logs and stays on the CPU path.
func (e *Executor) Init() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}

	if e.device != nil && e.queue != nil {
		p, err := buildPipelines(e.device)
		if err != nil {
			luma.Logger().Warn("gpu pipeline setup failed, staying on cpu path",
				slog.String("error", err.Error()))
		} else {
			e.pipelines = p
			luma.Logger().Info("backend initialized",
				slog.String("backend", backend.BackendWgpu),
				slog.Int("spirvWords", len(p.spirvCode)))
		}
	}

	e.compositor = composite.NewCompositor(e.registry, composite.Options{})
	for id, buf := range e.pending {
		e.compositor.SetAsset(id, buf)
	}
	e.pending = nil
	e.initialized = true
	return nil
}

// Close implements backend.Executor.
func (e *Executor) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pipelines != nil {
		e.pipelines.destroy()
		e.pipelines = nil
	}
	if e.compositor != nil {
		e.compositor.Close()
		e.compositor = nil
	}
	e.initialized = false
}

// SetAsset implements backend.Executor.
func (e *Executor) SetAsset(id ir.AssetID, buf *composite.Buffer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.compositor == nil {
		e.pending[id] = buf
		return
	}
	e.compositor.SetAsset(id, buf)
}

// Execute implements backend.Executor.
func (e *Executor) Execute(cmds []command.Command, width, height int) (*composite.Buffer, error) {
	e.mu.Lock()
	compositor := e.compositor
	e.mu.Unlock()
	if compositor == nil {
		return nil, backend.ErrNotInitialized
	}
	return compositor.Render(cmds, width, height)
}

// HasGPU reports whether compute pipelines were built for a device.
func (e *Executor) HasGPU() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pipelines != nil
}

var _ backend.Executor = (*Executor)(nil)
