// Package ir defines the compiled intermediate representation of a
// source animation: the layer graph, resolved matte bindings, animated
// transform tracks, and the scene-scoped path registry.
//
// All IR values are immutable after compilation and are shared freely
// across frames and concurrent render calls. The only mutable type is
// RegistryBuilder, which is exclusively owned by the compiler for the
// duration of one compile call and frozen into a PathRegistry before
// the compiled Animation is returned.
package ir
