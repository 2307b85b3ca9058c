package backend

import (
	"sync"

	"github.com/lumakit/luma/ir"
)

// Registered executor names.
const (
	// BackendSoftware is the CPU compositor, always available.
	BackendSoftware = "software"
	// BackendWgpu is the GPU compositor, registered by importing
	// backend/wgpu.
	BackendWgpu = "wgpu"
)

var (
	registryMu sync.RWMutex
	executors  = make(map[string]Factory)

	// Selection priority, first available wins.
	priority = []string{BackendWgpu, BackendSoftware}
)

// Register installs an executor factory under a name, replacing any
// previous registration. Typically called from init functions in
// executor packages.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	executors[name] = factory
}

// Unregister removes an executor registration. Useful in tests.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(executors, name)
}

// Available lists the registered executor names.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(executors))
	for name := range executors {
		names = append(names, name)
	}
	return names
}

// IsRegistered reports whether an executor name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := executors[name]
	return ok
}

// Get builds the named executor over the given registry, or nil when
// the name is not registered.
func Get(name string, registry *ir.PathRegistry) Executor {
	registryMu.RLock()
	factory, ok := executors[name]
	registryMu.RUnlock()
	if !ok {
		return nil
	}
	return factory(registry)
}

// Default builds the best available executor by priority, or nil when
// nothing is registered.
func Default(registry *ir.PathRegistry) Executor {
	registryMu.RLock()
	defer registryMu.RUnlock()

	for _, name := range priority {
		if factory, ok := executors[name]; ok {
			if e := factory(registry); e != nil {
				return e
			}
		}
	}
	for _, factory := range executors {
		if e := factory(registry); e != nil {
			return e
		}
	}
	return nil
}

// InitDefault builds and initializes the default executor.
func InitDefault(registry *ir.PathRegistry) (Executor, error) {
	e := Default(registry)
	if e == nil {
		return nil, ErrNotAvailable
	}
	if err := e.Init(); err != nil {
		return nil, err
	}
	return e, nil
}
