// Package command defines the closed set of render commands emitted by
// the frame generator and consumed by executors.
//
// Commands form a small stack-machine protocol: every begin/push
// operation has exactly one matching end/pop operation, and matching is
// by structural nesting, not by identity: a command stream is a valid
// bracket sequence. Executors maintain their own transform, clip, mask
// and matte stacks mirroring this discipline.
//
// Commands are typed structs rather than a binary encoding so streams
// stay inspectable and debuggable; resources (geometries, images) are
// referenced by stable identifiers assigned at compile time.
package command

import (
	"github.com/lumakit/luma"
	"github.com/lumakit/luma/ir"
)

// Op identifies the type of a command.
type Op uint8

const (
	// OpBeginGroup opens a named group. Groups carry no semantics
	// beyond tracing and bracket structure.
	OpBeginGroup Op = iota
	// OpEndGroup closes the innermost group.
	OpEndGroup
	// OpPushTransform pushes a 2D affine matrix onto the transform stack.
	OpPushTransform
	// OpPopTransform pops the transform stack.
	OpPopTransform
	// OpPushClipRect pushes an axis-aligned clip rectangle.
	OpPushClipRect
	// OpPopClipRect pops the clip stack.
	OpPopClipRect
	// OpBeginMask opens a mask scope.
	OpBeginMask
	// OpEndMask closes the innermost mask scope.
	OpEndMask
	// OpBeginMatte opens a matte scope.
	OpBeginMatte
	// OpEndMatte closes the innermost matte scope.
	OpEndMatte
	// OpDrawImage draws an image asset.
	OpDrawImage
	// OpDrawPath fills a registered geometry.
	OpDrawPath
)

// opNames maps Op values to their string representation.
var opNames = [...]string{
	OpBeginGroup:    "BeginGroup",
	OpEndGroup:      "EndGroup",
	OpPushTransform: "PushTransform",
	OpPopTransform:  "PopTransform",
	OpPushClipRect:  "PushClipRect",
	OpPopClipRect:   "PopClipRect",
	OpBeginMask:     "BeginMask",
	OpEndMask:       "EndMask",
	OpBeginMatte:    "BeginMatte",
	OpEndMatte:      "EndMatte",
	OpDrawImage:     "DrawImage",
	OpDrawPath:      "DrawPath",
}

// String returns the string representation of an Op.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Op returns the operation type for this command.
	Op() Op
}

// --------------------------------------------------------------------------
// Structure Commands
// --------------------------------------------------------------------------

// BeginGroup opens a named group for tracing.
type BeginGroup struct {
	// Name identifies the group in traces (usually the layer name).
	Name string
}

// Op implements Command.
func (BeginGroup) Op() Op { return OpBeginGroup }

// EndGroup closes the innermost group.
type EndGroup struct{}

// Op implements Command.
func (EndGroup) Op() Op { return OpEndGroup }

// PushTransform pushes a 2D affine matrix. The executor concatenates
// it onto its current transform.
type PushTransform struct {
	// Matrix is the transform to concatenate.
	Matrix luma.Matrix
}

// Op implements Command.
func (PushTransform) Op() Op { return OpPushTransform }

// PopTransform pops the transform stack.
type PopTransform struct{}

// Op implements Command.
func (PopTransform) Op() Op { return OpPopTransform }

// PushClipRect pushes an axis-aligned clip rectangle in the current
// transform's coordinate space.
type PushClipRect struct {
	X, Y          float64
	Width, Height float64
}

// Op implements Command.
func (PushClipRect) Op() Op { return OpPushClipRect }

// PopClipRect pops the clip stack.
type PopClipRect struct{}

// Op implements Command.
func (PopClipRect) Op() Op { return OpPopClipRect }

// --------------------------------------------------------------------------
// Mask and Matte Commands
// --------------------------------------------------------------------------

// BeginMask opens a mask scope: content until the matching EndMask is
// clipped by the accumulated coverage of the mask chain.
type BeginMask struct {
	// Mode selects the boolean combination with the accumulator.
	Mode ir.MaskMode
	// Inverted inverts the raw coverage before combination.
	Inverted bool
	// Opacity scales the coverage, in [0, 1].
	Opacity float64
	// Path references the registered mask geometry.
	Path ir.PathID
}

// Op implements Command.
func (BeginMask) Op() Op { return OpBeginMask }

// EndMask closes the innermost mask scope.
type EndMask struct{}

// Op implements Command.
func (EndMask) Op() Op { return OpEndMask }

// BeginMatte opens a matte scope. The commands immediately following
// it form one balanced group rendering the matte source layer; the
// remainder up to the matching EndMatte is the consumer content, which
// the executor multiplies by the per-pixel matte factor of the source.
type BeginMatte struct {
	// Mode selects the matte factor computation.
	Mode ir.MatteMode
	// Source is the matte source layer id, for tracing.
	Source ir.LayerID
}

// Op implements Command.
func (BeginMatte) Op() Op { return OpBeginMatte }

// EndMatte closes the innermost matte scope.
type EndMatte struct{}

// Op implements Command.
func (EndMatte) Op() Op { return OpEndMatte }

// --------------------------------------------------------------------------
// Draw Commands
// --------------------------------------------------------------------------

// DrawImage draws an image asset under the current transform.
type DrawImage struct {
	// Asset references the image in the asset index.
	Asset ir.AssetID
	// Opacity is the accumulated opacity in [0, 1].
	Opacity float64
}

// Op implements Command.
func (DrawImage) Op() Op { return OpDrawImage }

// DrawPath fills a registered geometry under the current transform.
type DrawPath struct {
	// Path references the registered geometry.
	Path ir.PathID
	// Color is the premultiplied-independent fill color (RGBA, 0-1).
	Color [4]float64
	// Opacity is the accumulated opacity in [0, 1].
	Opacity float64
}

// Op implements Command.
func (DrawPath) Op() Op { return OpDrawPath }
