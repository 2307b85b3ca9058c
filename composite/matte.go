package composite

import "github.com/lumakit/luma/ir"

// BT.709 luminance weights, applied to premultiplied source channels.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// MatteFactor computes the per-pixel scalar for one premultiplied
// source pixel under the given matte mode.
func MatteFactor(mode ir.MatteMode, r, g, b, a float32) float32 {
	switch mode {
	case ir.MatteAlpha:
		return a
	case ir.MatteAlphaInverted:
		return 1 - a
	case ir.MatteLuma:
		return lumaR*r + lumaG*g + lumaB*b
	case ir.MatteLumaInverted:
		return 1 - (lumaR*r + lumaG*g + lumaB*b)
	default:
		return a
	}
}

// ApplyMatteRows multiplies the consumer's premultiplied channels,
// alpha included, by the per-pixel matte factor of the source for rows
// [y0, y1). Both buffers must share dimensions.
func ApplyMatteRows(consumer, source *Buffer, mode ir.MatteMode, y0, y1 int) {
	w := consumer.Width()
	cp := consumer.Pix()
	sp := source.Pix()
	for i := y0 * w * 4; i < y1*w*4; i += 4 {
		f := MatteFactor(mode, sp[i], sp[i+1], sp[i+2], sp[i+3])
		cp[i] *= f
		cp[i+1] *= f
		cp[i+2] *= f
		cp[i+3] *= f
	}
}
