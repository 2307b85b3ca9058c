package ir

import (
	"math"

	"github.com/lumakit/luma"
)

// Keyframe is one normalized keyframe of an animated track. Value
// holds the track value at Time; interpolation towards the next
// keyframe is linear unless Hold is set.
type Keyframe struct {
	Time  float64   `json:"t"`
	Value []float64 `json:"v"`
	Hold  bool      `json:"h,omitempty"`
}

// ScalarTrack is a one-dimensional animated track sampled per frame.
type ScalarTrack struct {
	Static    float64    `json:"static"`
	Keyframes []Keyframe `json:"keyframes,omitempty"`
}

// StaticScalar builds a track holding a constant value.
func StaticScalar(v float64) ScalarTrack {
	return ScalarTrack{Static: v}
}

// Sample returns the track value at the given frame.
func (t ScalarTrack) Sample(frame float64) float64 {
	if len(t.Keyframes) == 0 {
		return t.Static
	}
	v := sampleKeyframes(t.Keyframes, frame)
	if len(v) == 0 {
		return t.Static
	}
	return v[0]
}

// VectorTrack is a multi-dimensional animated track sampled per frame.
type VectorTrack struct {
	Static    []float64  `json:"static,omitempty"`
	Keyframes []Keyframe `json:"keyframes,omitempty"`
}

// StaticVector builds a track holding a constant vector.
func StaticVector(v ...float64) VectorTrack {
	return VectorTrack{Static: v}
}

// Sample returns the track value at the given frame.
func (t VectorTrack) Sample(frame float64) []float64 {
	if len(t.Keyframes) == 0 {
		return t.Static
	}
	if v := sampleKeyframes(t.Keyframes, frame); v != nil {
		return v
	}
	return t.Static
}

// SamplePoint samples the first two components as a point.
func (t VectorTrack) SamplePoint(frame float64) luma.Point {
	v := t.Sample(frame)
	var p luma.Point
	if len(v) > 0 {
		p.X = v[0]
	}
	if len(v) > 1 {
		p.Y = v[1]
	}
	return p
}

// sampleKeyframes evaluates a keyframe list at the given frame with
// linear interpolation. Frames before the first keyframe clamp to the
// first value, frames at or after the last clamp to the last.
func sampleKeyframes(kfs []Keyframe, frame float64) []float64 {
	if len(kfs) == 0 {
		return nil
	}
	if frame <= kfs[0].Time {
		return kfs[0].Value
	}
	last := kfs[len(kfs)-1]
	if frame >= last.Time {
		return last.Value
	}

	// Find the segment containing the frame.
	i := 0
	for i < len(kfs)-1 && kfs[i+1].Time <= frame {
		i++
	}
	cur, next := kfs[i], kfs[i+1]
	if cur.Hold || next.Time == cur.Time {
		return cur.Value
	}

	t := (frame - cur.Time) / (next.Time - cur.Time)
	n := len(cur.Value)
	if len(next.Value) < n {
		n = len(next.Value)
	}
	out := make([]float64, n)
	for j := 0; j < n; j++ {
		out[j] = cur.Value[j] + (next.Value[j]-cur.Value[j])*t
	}
	return out
}

// Transform holds a layer's animated transform tracks.
type Transform struct {
	Anchor   VectorTrack `json:"anchor"`
	Position VectorTrack `json:"position"`
	Scale    VectorTrack `json:"scale"`
	Rotation ScalarTrack `json:"rotation"`
	Opacity  ScalarTrack `json:"opacity"`
}

// IdentityTransform returns a transform with neutral tracks
// (scale 100%, opacity 100%).
func IdentityTransform() Transform {
	return Transform{
		Scale:   StaticVector(100, 100),
		Opacity: StaticScalar(100),
	}
}

// Matrix samples the local transform matrix at the given frame:
//
//	Translate(position) * Rotate(rotation) * Scale(scale/100) * Translate(-anchor)
func (t Transform) Matrix(frame float64) luma.Matrix {
	pos := t.Position.SamplePoint(frame)
	anchor := t.Anchor.SamplePoint(frame)
	rot := t.Rotation.Sample(frame) * degToRad

	scale := t.Scale.Sample(frame)
	sx, sy := 1.0, 1.0
	if len(scale) > 0 {
		sx = scale[0] / 100
		sy = sx
	}
	if len(scale) > 1 {
		sy = scale[1] / 100
	}

	m := luma.Translate(pos.X, pos.Y)
	m = m.Multiply(luma.Rotate(rot))
	m = m.Multiply(luma.Scale(sx, sy))
	m = m.Multiply(luma.Translate(-anchor.X, -anchor.Y))
	return m
}

// OpacityAt samples the layer opacity at the given frame as a scalar
// in [0, 1].
func (t Transform) OpacityAt(frame float64) float64 {
	o := t.Opacity.Sample(frame) / 100
	if o < 0 {
		return 0
	}
	if o > 1 {
		return 1
	}
	return o
}

const degToRad = math.Pi / 180
