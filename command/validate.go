package command

import "fmt"

// kind classifies bracket commands for balance checking.
type kind uint8

const (
	kindGroup kind = iota
	kindTransform
	kindClip
	kindMask
	kindMatte
)

func (k kind) String() string {
	switch k {
	case kindGroup:
		return "group"
	case kindTransform:
		return "transform"
	case kindClip:
		return "clip"
	case kindMask:
		return "mask"
	case kindMatte:
		return "matte"
	default:
		return "unknown"
	}
}

// UnbalancedError reports a bracket violation in a command stream.
type UnbalancedError struct {
	// Index is the position of the offending command, or the stream
	// length when a bracket was left open.
	Index int
	// Kind names the bracket kind involved.
	Kind string
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("command: unbalanced %s bracket at index %d", e.Kind, e.Index)
}

// Validate checks that the stream is a valid bracket sequence: every
// begin/push has exactly one matching end/pop, matched by structural
// nesting. Generators guarantee this property; Validate exists for
// tests and for guarding externally supplied streams.
func Validate(cmds []Command) error {
	var stack []kind
	push := func(k kind) { stack = append(stack, k) }
	pop := func(i int, k kind) error {
		if len(stack) == 0 || stack[len(stack)-1] != k {
			return &UnbalancedError{Index: i, Kind: k.String()}
		}
		stack = stack[:len(stack)-1]
		return nil
	}

	for i, c := range cmds {
		var err error
		switch c.Op() {
		case OpBeginGroup:
			push(kindGroup)
		case OpEndGroup:
			err = pop(i, kindGroup)
		case OpPushTransform:
			push(kindTransform)
		case OpPopTransform:
			err = pop(i, kindTransform)
		case OpPushClipRect:
			push(kindClip)
		case OpPopClipRect:
			err = pop(i, kindClip)
		case OpBeginMask:
			push(kindMask)
		case OpEndMask:
			err = pop(i, kindMask)
		case OpBeginMatte:
			push(kindMatte)
		case OpEndMatte:
			err = pop(i, kindMatte)
		}
		if err != nil {
			return err
		}
	}
	if len(stack) > 0 {
		return &UnbalancedError{Index: len(cmds), Kind: stack[len(stack)-1].String()}
	}
	return nil
}
