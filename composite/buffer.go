package composite

import (
	"image"
	"image/color"
)

// Buffer is a premultiplied-alpha RGBA pixel buffer with float32
// channels. Float channels keep repeated mask and matte multiplies
// from accumulating quantization error before final output conversion.
type Buffer struct {
	width  int
	height int
	pix    []float32
}

// NewBuffer allocates a transparent buffer.
func NewBuffer(width, height int) *Buffer {
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*4),
	}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Pix returns the raw premultiplied RGBA data, 4 floats per pixel.
func (b *Buffer) Pix() []float32 { return b.pix }

// At returns the premultiplied color at a pixel. Out-of-bounds reads
// return transparent.
func (b *Buffer) At(x, y int) (r, g, bl, a float32) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return 0, 0, 0, 0
	}
	i := (y*b.width + x) * 4
	return b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3]
}

// Set writes a premultiplied color. Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, r, g, bl, a float32) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	b.pix[i] = r
	b.pix[i+1] = g
	b.pix[i+2] = bl
	b.pix[i+3] = a
}

// Clear resets every pixel to transparent.
func (b *Buffer) Clear() {
	for i := range b.pix {
		b.pix[i] = 0
	}
}

// blendOver composites src over one pixel of dst. Premultiplied
// source-over: out = src + dst*(1-src.a).
func (b *Buffer) blendOver(x, y int, r, g, bl, a float32) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	i := (y*b.width + x) * 4
	inv := 1 - a
	b.pix[i] = r + b.pix[i]*inv
	b.pix[i+1] = g + b.pix[i+1]*inv
	b.pix[i+2] = bl + b.pix[i+2]*inv
	b.pix[i+3] = a + b.pix[i+3]*inv
}

// OverRows composites src over dst for rows [y0, y1). Both buffers
// must share dimensions.
func (b *Buffer) OverRows(src *Buffer, y0, y1 int) {
	start := y0 * b.width * 4
	end := y1 * b.width * 4
	for i := start; i < end; i += 4 {
		a := src.pix[i+3]
		inv := 1 - a
		b.pix[i] = src.pix[i] + b.pix[i]*inv
		b.pix[i+1] = src.pix[i+1] + b.pix[i+1]*inv
		b.pix[i+2] = src.pix[i+2] + b.pix[i+2]*inv
		b.pix[i+3] = a + b.pix[i+3]*inv
	}
}

// ToRGBA converts to an 8-bit premultiplied image for output.
func (b *Buffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for i := 0; i < len(b.pix); i += 4 {
		j := i
		img.Pix[j] = quant8(b.pix[i])
		img.Pix[j+1] = quant8(b.pix[i+1])
		img.Pix[j+2] = quant8(b.pix[i+2])
		img.Pix[j+3] = quant8(b.pix[i+3])
	}
	return img
}

// FromImage converts any image into a premultiplied float buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := NewBuffer(bounds.Dx(), bounds.Dy())
	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, bl, a := toPremul(img.At(x, y))
			b.pix[i] = r
			b.pix[i+1] = g
			b.pix[i+2] = bl
			b.pix[i+3] = a
			i += 4
		}
	}
	return b
}

// toPremul extracts premultiplied float channels from a color.
func toPremul(c color.Color) (r, g, b, a float32) {
	pr, pg, pb, pa := c.RGBA()
	return float32(pr) / 65535, float32(pg) / 65535,
		float32(pb) / 65535, float32(pa) / 65535
}

func quant8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
