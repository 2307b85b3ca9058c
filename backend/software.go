package backend

import (
	"log/slog"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/composite"
	"github.com/lumakit/luma/ir"
)

func init() {
	Register(BackendSoftware, func(registry *ir.PathRegistry) Executor {
		return NewSoftware(registry)
	})
}

// Software is the CPU executor: a thin lifecycle wrapper around the
// composite package's command-stream compositor.
type Software struct {
	registry   *ir.PathRegistry
	compositor *composite.Compositor
	pending    map[ir.AssetID]*composite.Buffer
}

// NewSoftware builds an uninitialized software executor.
func NewSoftware(registry *ir.PathRegistry) *Software {
	return &Software{
		registry: registry,
		pending:  make(map[ir.AssetID]*composite.Buffer),
	}
}

// Name implements Executor.
func (s *Software) Name() string { return BackendSoftware }

// Init implements Executor.
func (s *Software) Init() error {
	if s.compositor != nil {
		return nil
	}
	s.compositor = composite.NewCompositor(s.registry, composite.Options{})
	for id, buf := range s.pending {
		s.compositor.SetAsset(id, buf)
	}
	s.pending = nil
	luma.Logger().Info("backend initialized", slog.String("backend", BackendSoftware))
	return nil
}

// Close implements Executor.
func (s *Software) Close() {
	if s.compositor != nil {
		s.compositor.Close()
		s.compositor = nil
	}
}

// SetAsset implements Executor. Assets installed before Init are held
// until the compositor exists.
func (s *Software) SetAsset(id ir.AssetID, buf *composite.Buffer) {
	if s.compositor == nil {
		s.pending[id] = buf
		return
	}
	s.compositor.SetAsset(id, buf)
}

// Execute implements Executor.
func (s *Software) Execute(cmds []command.Command, width, height int) (*composite.Buffer, error) {
	if s.compositor == nil {
		return nil, ErrNotInitialized
	}
	return s.compositor.Render(cmds, width, height)
}

var _ Executor = (*Software)(nil)
