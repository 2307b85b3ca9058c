package command

import (
	"errors"
	"testing"

	"github.com/lumakit/luma"
)

func TestValidateBalanced(t *testing.T) {
	cmds := []Command{
		BeginGroup{Name: "layer"},
		PushTransform{Matrix: luma.Identity()},
		BeginMatte{},
		BeginGroup{Name: "source"},
		PushTransform{Matrix: luma.Identity()},
		DrawPath{Path: 1, Opacity: 1},
		PopTransform{},
		EndGroup{},
		BeginMask{Opacity: 1, Path: 2},
		DrawImage{Asset: "a0", Opacity: 1},
		EndMask{},
		EndMatte{},
		PushClipRect{Width: 10, Height: 10},
		PopClipRect{},
		PopTransform{},
		EndGroup{},
	}
	if err := Validate(cmds); err != nil {
		t.Errorf("balanced stream rejected: %v", err)
	}
	if err := Validate(nil); err != nil {
		t.Errorf("empty stream rejected: %v", err)
	}
}

func TestValidateUnbalanced(t *testing.T) {
	tests := []struct {
		name      string
		cmds      []Command
		index     int
		kind      string
	}{
		{
			"left open",
			[]Command{BeginGroup{}, PushTransform{}, PopTransform{}},
			3, "group",
		},
		{
			"stray end",
			[]Command{EndMask{}},
			0, "mask",
		},
		{
			"crossed brackets",
			[]Command{BeginGroup{}, PushTransform{}, EndGroup{}, PopTransform{}},
			2, "group",
		},
		{
			"matte closed as mask",
			[]Command{BeginMatte{}, EndMask{}},
			1, "mask",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cmds)
			var uerr *UnbalancedError
			if !errors.As(err, &uerr) {
				t.Fatalf("got %v, want *UnbalancedError", err)
			}
			if uerr.Index != tt.index || uerr.Kind != tt.kind {
				t.Errorf("got index=%d kind=%q, want index=%d kind=%q",
					uerr.Index, uerr.Kind, tt.index, tt.kind)
			}
		})
	}
}

func TestOpString(t *testing.T) {
	if got := OpBeginMatte.String(); got != "BeginMatte" {
		t.Errorf("OpBeginMatte = %q", got)
	}
	if got := Op(200).String(); got != "Unknown" {
		t.Errorf("out-of-range op = %q", got)
	}
}
