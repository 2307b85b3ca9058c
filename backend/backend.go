package backend

import (
	"errors"

	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/composite"
	"github.com/lumakit/luma/ir"
)

// Common executor errors.
var (
	// ErrNotAvailable is returned when a requested executor is not
	// registered.
	ErrNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when Execute is called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Executor runs render command streams and produces composited frames.
// The core guarantees every stream it hands over is a well-formed
// bracket sequence with correctly nested mask and matte scopes;
// executors mirror the push/pop discipline with their own stacks.
type Executor interface {
	// Name returns the executor identifier, e.g. "software" or "wgpu".
	Name() string

	// Init prepares executor resources. Must be called before Execute.
	Init() error

	// Close releases executor resources. The executor must not be used
	// afterwards.
	Close()

	// SetAsset installs a decoded image asset for DrawImage commands.
	// Not safe to call concurrently with Execute.
	SetAsset(id ir.AssetID, buf *composite.Buffer)

	// Execute composites one frame's command stream at the given size.
	Execute(cmds []command.Command, width, height int) (*composite.Buffer, error)
}

// Factory builds an executor over a frozen path registry.
type Factory func(registry *ir.PathRegistry) Executor
