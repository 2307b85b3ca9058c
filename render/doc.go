// Package render walks a compiled animation for one frame and emits a
// linear, well-nested stream of stack-machine commands.
//
// Document order is paint order: later layers paint on top. Matte
// sources never appear in the main paint pass; they render inside the
// matte scope of each consumer that references them, through the same
// per-layer emission path used for the main pass, so chained mattes
// recurse naturally.
//
// Parent chains and nested-composition references resolve at render
// time. Cycles and dangling references degrade only the offending
// subtree: the layer or composition contributes no drawing output, a
// typed issue is recorded, and siblings continue rendering normally.
//
// Rendering is pure: it consumes an immutable animation and a frame
// number and returns a fresh command list and issue list, safe to call
// concurrently for different frames or variants.
package render
