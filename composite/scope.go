package composite

import (
	"fmt"

	"github.com/lumakit/luma/command"
)

// ScopeError reports a structurally broken command stream found during
// scope extraction. Extraction fails instead of crashing; the frame is
// discarded wholesale.
type ScopeError struct {
	// Index is the command index where the imbalance was detected, or
	// the stream length when the stream ended with open scopes.
	Index int
	// Reason describes the imbalance.
	Reason string
}

func (e *ScopeError) Error() string {
	return fmt.Sprintf("composite: malformed command stream at index %d: %s", e.Index, e.Reason)
}

// MaskScope is one extracted mask scope: the outer chain of mask ops
// in authoring order, plus the inner content they clip.
type MaskScope struct {
	// Ops is the outer chain of consecutive mask begins, in
	// authoring-declared order (outermost bracket first). Coverage
	// accumulation follows this order.
	Ops []command.BeginMask
	// Inner is the clipped content. It may itself contain complete
	// nested mask or matte scopes, passed through verbatim for
	// recursive handling.
	Inner []command.Command
	// End is the index just past the scope's final closing EndMask.
	End int
}

// ExtractMaskScope extracts the mask scope starting at index start,
// which must hold a BeginMask. The outer chain is the maximal run of
// consecutive BeginMask commands; a depth counter seeded at the chain
// length tracks nesting until the chain fully closes.
func ExtractMaskScope(cmds []command.Command, start int) (*MaskScope, error) {
	if start >= len(cmds) {
		return nil, &ScopeError{Index: start, Reason: "scope start past end of stream"}
	}
	if _, ok := cmds[start].(command.BeginMask); !ok {
		return nil, &ScopeError{Index: start, Reason: "scope start is not a mask begin"}
	}

	scope := &MaskScope{}
	i := start
	for i < len(cmds) {
		bm, ok := cmds[i].(command.BeginMask)
		if !ok {
			break
		}
		scope.Ops = append(scope.Ops, bm)
		i++
	}

	base := len(scope.Ops)
	depth := base
	innerStart := i
	innerEnd := -1
	for ; i < len(cmds); i++ {
		switch cmds[i].(type) {
		case command.BeginMask:
			depth++
		case command.EndMask:
			// The first close at the chain's base depth ends the inner
			// content; the remaining closes unwind the chain itself.
			if depth == base && innerEnd < 0 {
				innerEnd = i
			}
			depth--
			if depth < 0 {
				return nil, &ScopeError{Index: i, Reason: "mask close without matching open"}
			}
			if depth == 0 {
				scope.Inner = cmds[innerStart:innerEnd]
				scope.End = i + 1
				return scope, nil
			}
		}
	}
	return nil, &ScopeError{Index: len(cmds), Reason: "mask scope left open at end of stream"}
}

// MatteScope is one extracted matte scope: the source group rendered
// into the matte buffer and the consumer content it clips.
type MatteScope struct {
	// Begin carries the matte mode and the source layer id.
	Begin command.BeginMatte
	// Source is the balanced command group rendering the matte source
	// layer, empty when the source could not be resolved. The group
	// carries the source's own world transform and is evaluated against
	// the state in effect outside the consumer's transform. Generated
	// streams always wrap the source in a group, even when the source
	// layer emits nothing.
	Source []command.Command
	// Content is the consumer content multiplied by the matte factor.
	// Like mask inner content it may contain complete nested scopes.
	Content []command.Command
	// End is the index just past the matching EndMatte.
	End int
}

// ExtractMatteScope extracts the matte scope starting at index start,
// which must hold a BeginMatte. The source group is the first balanced
// bracket group after the begin; everything from there to the matching
// EndMatte is consumer content.
func ExtractMatteScope(cmds []command.Command, start int) (*MatteScope, error) {
	if start >= len(cmds) {
		return nil, &ScopeError{Index: start, Reason: "scope start past end of stream"}
	}
	bm, ok := cmds[start].(command.BeginMatte)
	if !ok {
		return nil, &ScopeError{Index: start, Reason: "scope start is not a matte begin"}
	}
	scope := &MatteScope{Begin: bm}

	i := start + 1
	// Source group: present only when the next command opens a bracket
	// before any close; draws cannot start a group.
	if i < len(cmds) {
		if delta := bracketDelta(cmds[i]); delta > 0 {
			sourceStart := i
			depth := 0
			for ; i < len(cmds); i++ {
				d := bracketDelta(cmds[i])
				depth += d
				if depth < 0 {
					return nil, &ScopeError{Index: i, Reason: "close without matching open in matte source group"}
				}
				if depth == 0 && d < 0 {
					i++
					break
				}
			}
			if depth != 0 {
				return nil, &ScopeError{Index: len(cmds), Reason: "matte source group left open at end of stream"}
			}
			scope.Source = cmds[sourceStart:i]
		}
	}

	contentStart := i
	depth := 1
	for ; i < len(cmds); i++ {
		switch cmds[i].(type) {
		case command.BeginMatte:
			depth++
		case command.EndMatte:
			depth--
			if depth == 0 {
				scope.Content = cmds[contentStart:i]
				scope.End = i + 1
				return scope, nil
			}
		}
	}
	return nil, &ScopeError{Index: len(cmds), Reason: "matte scope left open at end of stream"}
}

// bracketDelta maps a command to its nesting contribution: +1 for
// opens, -1 for closes, 0 for draws.
func bracketDelta(c command.Command) int {
	switch c.Op() {
	case command.OpBeginGroup, command.OpPushTransform, command.OpPushClipRect,
		command.OpBeginMask, command.OpBeginMatte:
		return 1
	case command.OpEndGroup, command.OpPopTransform, command.OpPopClipRect,
		command.OpEndMask, command.OpEndMatte:
		return -1
	default:
		return 0
	}
}
