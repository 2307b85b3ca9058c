package composite

import (
	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/ir"
)

// NewAccumulator seeds a coverage accumulator for a mask chain. The
// seed depends on the first op's mode: additive chains grow from empty
// coverage, subtractive and intersecting chains carve from full.
func NewAccumulator(n int, firstMode ir.MaskMode) []float32 {
	acc := make([]float32, n)
	if firstMode == ir.MaskSubtract || firstMode == ir.MaskIntersect {
		for i := range acc {
			acc[i] = 1
		}
	}
	return acc
}

// CombineRows applies one mask op to the accumulator for the value
// range [i0, i1). Raw coverage is clamped, optionally inverted, scaled
// by the op's opacity, then combined per the op's mode. Values within
// the range carry no dependency on each other; ops across calls do.
func CombineRows(acc, cov []float32, op command.BeginMask, i0, i1 int) {
	opacity := float32(op.Opacity)
	for i := i0; i < i1; i++ {
		c := cov[i]
		if c < 0 {
			c = 0
		} else if c > 1 {
			c = 1
		}
		if op.Inverted {
			c = 1 - c
		}
		c *= opacity

		switch op.Mode {
		case ir.MaskAdd:
			if c > acc[i] {
				acc[i] = c
			}
		case ir.MaskSubtract:
			acc[i] *= 1 - c
		case ir.MaskIntersect:
			if c < acc[i] {
				acc[i] = c
			}
		}
	}
}

// ApplyCoverageRows multiplies a buffer's premultiplied channels by a
// per-pixel coverage accumulator for rows [y0, y1).
func ApplyCoverageRows(b *Buffer, acc []float32, y0, y1 int) {
	w := b.Width()
	for y := y0; y < y1; y++ {
		row := b.Pix()[y*w*4 : (y+1)*w*4]
		for x := 0; x < w; x++ {
			c := acc[y*w+x]
			i := x * 4
			row[i] *= c
			row[i+1] *= c
			row[i+2] *= c
			row[i+3] *= c
		}
	}
}
