package ir

import (
	"encoding/binary"
	"math"

	"github.com/lumakit/luma"
)

// Vertex is one control point of a cubic bezier contour: the on-curve
// position plus incoming and outgoing tangent offsets relative to it.
type Vertex struct {
	Point luma.Point `json:"p"`
	In    luma.Point `json:"i"`
	Out   luma.Point `json:"o"`
}

// Contour is a single open or closed bezier contour.
type Contour struct {
	Closed   bool     `json:"closed"`
	Vertices []Vertex `json:"vertices"`
}

// Path is a static geometry: one or more bezier contours.
type Path struct {
	Contours []Contour `json:"contours"`
}

// IsEmpty reports whether the path has no vertices.
func (p Path) IsEmpty() bool {
	for _, c := range p.Contours {
		if len(c.Vertices) > 0 {
			return false
		}
	}
	return true
}

// Bounds returns the bounding box of all control points.
func (p Path) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range p.Contours {
		for _, v := range c.Vertices {
			for _, pt := range [3]luma.Point{
				v.Point,
				v.Point.Add(v.In),
				v.Point.Add(v.Out),
			} {
				minX = math.Min(minX, pt.X)
				minY = math.Min(minY, pt.Y)
				maxX = math.Max(maxX, pt.X)
				maxY = math.Max(maxY, pt.Y)
			}
		}
	}
	return minX, minY, maxX, maxY
}

// quantScale is the coordinate quantization step used for canonical
// geometry keys: coordinates closer than 1/64 of a pixel compare equal.
const quantScale = 64

// canonicalKey builds the canonicalized (quantized) byte key of a path.
// Identical geometry within one compilation session yields the same
// key, making registration idempotent.
func canonicalKey(p Path) string {
	var buf []byte
	var scratch [4]byte
	put := func(v float64) {
		q := int32(math.Round(v * quantScale))
		binary.LittleEndian.PutUint32(scratch[:], uint32(q))
		buf = append(buf, scratch[:]...)
	}
	for _, c := range p.Contours {
		if c.Closed {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		for _, v := range c.Vertices {
			put(v.Point.X)
			put(v.Point.Y)
			put(v.In.X)
			put(v.In.Y)
			put(v.Out.X)
			put(v.Out.Y)
		}
	}
	return string(buf)
}
