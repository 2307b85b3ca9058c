package composite

import (
	"math"
	"testing"

	"github.com/lumakit/luma/ir"
)

func TestMatteFactor(t *testing.T) {
	near := func(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

	if f := MatteFactor(ir.MatteAlpha, 0, 0, 0, 0.25); f != 0.25 {
		t.Errorf("alpha = %g", f)
	}
	if f := MatteFactor(ir.MatteAlphaInverted, 0, 0, 0, 0.25); f != 0.75 {
		t.Errorf("alphaInverted = %g", f)
	}
	// Opaque white has unit luminance under BT.709 weights.
	if f := MatteFactor(ir.MatteLuma, 1, 1, 1, 1); !near(f, 1) {
		t.Errorf("luma(white) = %g", f)
	}
	if f := MatteFactor(ir.MatteLuma, 0, 0, 0, 1); f != 0 {
		t.Errorf("luma(black) = %g", f)
	}
	// Green dominates the weighting.
	if f := MatteFactor(ir.MatteLuma, 0, 1, 0, 1); !near(f, 0.7152) {
		t.Errorf("luma(green) = %g", f)
	}
	if f := MatteFactor(ir.MatteLumaInverted, 0, 1, 0, 1); !near(f, 1-0.7152) {
		t.Errorf("lumaInverted(green) = %g", f)
	}
}

func TestApplyMatteRowsScalesAllChannels(t *testing.T) {
	consumer := NewBuffer(2, 1)
	consumer.Set(0, 0, 1, 0.8, 0.6, 1)
	consumer.Set(1, 0, 1, 0.8, 0.6, 1)

	source := NewBuffer(2, 1)
	source.Set(0, 0, 0, 0, 0, 0.5) // half-opaque source pixel
	// Pixel 1 left transparent.

	ApplyMatteRows(consumer, source, ir.MatteAlpha, 0, 1)

	r, g, b, a := consumer.At(0, 0)
	if r != 0.5 || g != 0.4 || b != 0.3 || a != 0.5 {
		t.Errorf("matted pixel = (%g, %g, %g, %g), alpha must scale too", r, g, b, a)
	}
	if _, _, _, a := consumer.At(1, 0); a != 0 {
		t.Errorf("pixel outside source alpha = %g, want 0", a)
	}
}

func TestApplyMatteRowsInverted(t *testing.T) {
	consumer := NewBuffer(1, 1)
	consumer.Set(0, 0, 1, 1, 1, 1)
	source := NewBuffer(1, 1)
	source.Set(0, 0, 0, 0, 0, 1)

	ApplyMatteRows(consumer, source, ir.MatteAlphaInverted, 0, 1)
	if _, _, _, a := consumer.At(0, 0); a != 0 {
		t.Errorf("fully covered pixel under inverted matte alpha = %g, want 0", a)
	}
}
