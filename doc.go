// Package luma compiles a constrained subset of a declarative 2D
// vector-animation JSON format into a validated, render-ready
// intermediate representation and plays it back frame by frame as a
// stream of drawing commands for a GPU-backed renderer.
//
// # Overview
//
// luma powers template-driven media compositions: decorative frames,
// stickers, and user photo/video slots that must render identically at
// authoring time and at playback time. The pipeline is:
//
//	anim (parsed document)
//	  -> validate (subset validation, collected issues)
//	  -> compile (IR compiler: mattes, parents, path registry, binding)
//	  -> render (per-frame command generation)
//	  -> backend (command execution: software or GPU)
//
// # Packages
//
//   - anim: source document model and JSON decoding
//   - validate: feature allow-list validation with typed issues
//   - ir: compiled data model (Animation, Composition, Layer, PathRegistry)
//   - compile: document to IR compilation
//   - command: the closed render-command set (a balanced stack protocol)
//   - render: frame walker emitting command streams plus render issues
//   - composite: mask/matte execution engine and software compositor
//   - backend: executor registry, GPU device contract, wgpu compositor
//   - container: the persisted compiled-artifact binary format
//   - assets: local asset resolution and image probing
//
// # Coordinate System
//
// Standard computer graphics coordinates: origin at top-left, X grows
// right, Y grows down, angles in radians.
//
// # Concurrency
//
// Compilation mutates only its own path-registry builder and freezes it
// before returning. Compiled animations are immutable; rendering a
// frame is pure and safe to call concurrently for different frames or
// variants.
package luma

// Version information.
const (
	// Version is the current version of the library.
	Version = "0.4.0"

	// EngineVersion identifies the compiling engine inside persisted
	// artifacts. Readers verify it via the container checksum.
	EngineVersion = "luma-engine/0.4"
)
