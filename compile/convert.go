package compile

import (
	"github.com/lumakit/luma"
	"github.com/lumakit/luma/anim"
	"github.com/lumakit/luma/ir"
)

// scalarTrack normalizes a raw scalar property into a sampled track.
// Absent properties (nil) fall back to the given neutral value.
func scalarTrack(s *anim.Scalar, fallback float64) ir.ScalarTrack {
	if s == nil {
		return ir.StaticScalar(fallback)
	}
	if !s.Animated {
		return ir.StaticScalar(s.Value)
	}
	return ir.ScalarTrack{
		Static:    s.Value,
		Keyframes: normalizeKeyframes(s.Keyframes),
	}
}

// vectorTrack normalizes a raw vector property into a sampled track.
// Absent properties (nil) fall back to the given neutral vector.
func vectorTrack(v *anim.Vector, fallback ...float64) ir.VectorTrack {
	if v == nil {
		return ir.VectorTrack{Static: fallback}
	}
	if !v.Animated {
		val := v.Value
		if len(val) == 0 {
			val = fallback
		}
		return ir.VectorTrack{Static: val}
	}
	return ir.VectorTrack{
		Static:    v.Value,
		Keyframes: normalizeKeyframes(v.Keyframes),
	}
}

// normalizeKeyframes converts raw keyframes into the IR form. Older
// documents carry the segment end value on the keyframe itself; newer
// ones rely on the next keyframe's start. A keyframe without a start
// value inherits the previous keyframe's end.
func normalizeKeyframes(kfs []anim.Keyframe) []ir.Keyframe {
	out := make([]ir.Keyframe, 0, len(kfs))
	for i, kf := range kfs {
		val := kf.Start
		if len(val) == 0 && i > 0 {
			val = kfs[i-1].End
		}
		out = append(out, ir.Keyframe{
			Time:  kf.Time,
			Value: val,
			Hold:  kf.Hold,
		})
	}
	return out
}

// transform converts a raw layer transform into IR tracks.
func transform(t anim.Transform) ir.Transform {
	return ir.Transform{
		Anchor:   vectorTrack(t.Anchor, 0, 0),
		Position: vectorTrack(t.Position, 0, 0),
		Scale:    vectorTrack(t.Scale, 100, 100),
		Rotation: scalarTrack(t.Rotation, 0),
		Opacity:  scalarTrack(t.Opacity, 100),
	}
}

// bezierPath converts a wire bezier into IR geometry.
func bezierPath(b anim.Bezier) ir.Path {
	contour := ir.Contour{Closed: b.Closed}
	for i, v := range b.Vertices {
		vert := ir.Vertex{Point: pointAt(v)}
		if i < len(b.InTangents) {
			vert.In = pointAt(b.InTangents[i])
		}
		if i < len(b.OutTangents) {
			vert.Out = pointAt(b.OutTangents[i])
		}
		contour.Vertices = append(contour.Vertices, vert)
	}
	return ir.Path{Contours: []ir.Contour{contour}}
}

func pointAt(v []float64) luma.Point {
	var p luma.Point
	if len(v) > 0 {
		p.X = v[0]
	}
	if len(v) > 1 {
		p.Y = v[1]
	}
	return p
}

// maskMode converts a wire mask mode. Unknown modes map to add; the
// validator has already rejected them.
func maskMode(mode string) ir.MaskMode {
	switch mode {
	case anim.MaskModeSubtract:
		return ir.MaskSubtract
	case anim.MaskModeIntersect:
		return ir.MaskIntersect
	default:
		return ir.MaskAdd
	}
}

// matteMode converts a wire matte mode discriminator.
func matteMode(tt int) ir.MatteMode {
	switch tt {
	case anim.MatteAlphaInverted:
		return ir.MatteAlphaInverted
	case anim.MatteLuma:
		return ir.MatteLuma
	case anim.MatteLumaInverted:
		return ir.MatteLumaInverted
	default:
		return ir.MatteAlpha
	}
}
