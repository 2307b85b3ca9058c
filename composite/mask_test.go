package composite

import (
	"math"
	"testing"

	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/ir"
)

func TestNewAccumulatorSeed(t *testing.T) {
	if acc := NewAccumulator(4, ir.MaskAdd); acc[0] != 0 {
		t.Errorf("add chain seeds %g, want 0", acc[0])
	}
	if acc := NewAccumulator(4, ir.MaskSubtract); acc[0] != 1 {
		t.Errorf("subtract chain seeds %g, want 1", acc[0])
	}
	if acc := NewAccumulator(4, ir.MaskIntersect); acc[0] != 1 {
		t.Errorf("intersect chain seeds %g, want 1", acc[0])
	}
}

func TestCombineRows(t *testing.T) {
	op := func(mode ir.MaskMode, inv bool, opacity float64) command.BeginMask {
		return command.BeginMask{Mode: mode, Inverted: inv, Opacity: opacity}
	}

	tests := []struct {
		name string
		acc  float32
		cov  float32
		op   command.BeginMask
		want float32
	}{
		{"add takes max", 0.3, 0.8, op(ir.MaskAdd, false, 1), 0.8},
		{"add keeps higher acc", 0.9, 0.5, op(ir.MaskAdd, false, 1), 0.9},
		{"subtract attenuates", 1, 0.25, op(ir.MaskSubtract, false, 1), 0.75},
		{"intersect takes min", 0.9, 0.4, op(ir.MaskIntersect, false, 1), 0.4},
		{"invert flips coverage", 0, 0.25, op(ir.MaskAdd, true, 1), 0.75},
		{"opacity scales after invert", 0, 0, op(ir.MaskAdd, true, 0.5), 0.5},
		{"coverage clamps high", 0, 1.5, op(ir.MaskAdd, false, 1), 1},
		{"coverage clamps low", 0.2, -0.5, op(ir.MaskAdd, false, 1), 0.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := []float32{tt.acc}
			CombineRows(acc, []float32{tt.cov}, tt.op, 0, 1)
			if math.Abs(float64(acc[0]-tt.want)) > 1e-6 {
				t.Errorf("acc = %g, want %g", acc[0], tt.want)
			}
		})
	}
}

func TestCombineRowsRange(t *testing.T) {
	acc := []float32{0, 0, 0, 0}
	cov := []float32{1, 1, 1, 1}
	CombineRows(acc, cov, command.BeginMask{Mode: ir.MaskAdd, Opacity: 1}, 1, 3)
	want := []float32{0, 1, 1, 0}
	for i := range want {
		if acc[i] != want[i] {
			t.Errorf("acc[%d] = %g, want %g", i, acc[i], want[i])
		}
	}
}

func TestApplyCoverageRows(t *testing.T) {
	b := NewBuffer(2, 1)
	b.Set(0, 0, 0.8, 0.6, 0.4, 1)
	b.Set(1, 0, 0.8, 0.6, 0.4, 1)
	ApplyCoverageRows(b, []float32{0.5, 0}, 0, 1)

	r, g, bl, a := b.At(0, 0)
	if r != 0.4 || g != 0.3 || bl != 0.2 || a != 0.5 {
		t.Errorf("half coverage pixel = (%g, %g, %g, %g)", r, g, bl, a)
	}
	if _, _, _, a := b.At(1, 0); a != 0 {
		t.Errorf("zero coverage pixel alpha = %g", a)
	}
}
