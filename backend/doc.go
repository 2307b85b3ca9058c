// Package backend provides a pluggable command-stream executor
// abstraction.
//
// Executors consume the render command stream and produce composited
// frames. The software executor is registered on import and always
// available; the wgpu executor in the backend/wgpu subpackage registers
// itself the same way and accelerates the per-pixel compositing steps
// on the GPU:
//
//	import _ "github.com/lumakit/luma/backend/wgpu"
//
// Executors are selected by name with Get or by priority with Default:
//
//	exec := backend.Default(result.Registry)
//	if err := exec.Init(); err != nil {
//		...
//	}
//	defer exec.Close()
package backend
