package compile

import (
	"math"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/anim"
	"github.com/lumakit/luma/ir"
)

// kappa is the standard circular-arc bezier approximation constant.
const kappa = 0.5522847498307936

// shapeCompiler flattens a shape layer's content tree into registered
// geometries paired with their fill styles, in paint order.
type shapeCompiler struct {
	registry *ir.RegistryBuilder
	fills    []ir.ShapeFill
}

// compileShapes resolves the drawable content of a shape layer.
// Group transforms are sampled at frame zero and baked into geometry;
// the supported subset forbids the transform features (skew,
// non-uniform group scale) that would make this lossy.
func compileShapes(registry *ir.RegistryBuilder, shapes []*anim.Shape) ir.ShapeContent {
	sc := &shapeCompiler{registry: registry}
	sc.group(shapes, luma.Identity())
	return ir.ShapeContent{Fills: sc.fills}
}

// group compiles one group scope. The first fill item styles every
// geometry item in the same scope.
func (sc *shapeCompiler) group(items []*anim.Shape, xf luma.Matrix) {
	fill := findFill(items)
	groupXf := xf
	if tr := findTransform(items); tr != nil {
		groupXf = xf.Multiply(groupTransformMatrix(tr))
	}

	for _, it := range items {
		if it.Hidden {
			continue
		}
		switch it.Type {
		case anim.ShapeGroup:
			sc.group(it.Items, groupXf)
		case anim.ShapePath:
			sc.emit(bezierPath(it.Path.Shape), groupXf, fill)
		case anim.ShapeRect:
			sc.emit(rectPath(it), groupXf, fill)
		case anim.ShapeEllipse:
			sc.emit(ellipsePath(it), groupXf, fill)
		case anim.ShapeStar:
			sc.emit(starPath(it), groupXf, fill)
		}
	}
}

// emit bakes the group transform into the geometry, registers it, and
// records the paired fill style.
func (sc *shapeCompiler) emit(p ir.Path, xf luma.Matrix, fill *anim.Shape) {
	if p.IsEmpty() {
		return
	}
	if !xf.IsIdentity() {
		p = transformPath(p, xf)
	}
	id := sc.registry.Register(p)

	sf := ir.ShapeFill{Path: id, Color: [4]float64{0, 0, 0, 1}, Opacity: 1}
	if fill != nil {
		c := fill.Color.Value
		for i := 0; i < 3 && i < len(c); i++ {
			sf.Color[i] = c[i]
		}
		if len(c) > 3 {
			sf.Color[3] = c[3]
		}
		if fill.Opacity != nil {
			sf.Opacity = fill.Opacity.Value / 100
		}
	}
	sc.fills = append(sc.fills, sf)
}

func findFill(items []*anim.Shape) *anim.Shape {
	for _, it := range items {
		if it.Type == anim.ShapeFill && !it.Hidden {
			return it
		}
	}
	return nil
}

func findTransform(items []*anim.Shape) *anim.Shape {
	for _, it := range items {
		if it.Type == anim.ShapeTransform {
			return it
		}
	}
	return nil
}

// groupTransformMatrix samples a group transform item at frame zero.
func groupTransformMatrix(tr *anim.Shape) luma.Matrix {
	pos := pointAt(tr.Position.Value)
	anchor := pointAt(tr.Anchor.Value)
	rot := tr.GroupRotation().Value * math.Pi / 180

	sx, sy := 1.0, 1.0
	if sc := tr.Size.Value; len(sc) > 0 {
		sx = sc[0] / 100
		sy = sx
		if len(sc) > 1 {
			sy = sc[1] / 100
		}
	}

	m := luma.Translate(pos.X, pos.Y)
	m = m.Multiply(luma.Rotate(rot))
	m = m.Multiply(luma.Scale(sx, sy))
	m = m.Multiply(luma.Translate(-anchor.X, -anchor.Y))
	return m
}

// transformPath applies an affine transform to all control points.
func transformPath(p ir.Path, m luma.Matrix) ir.Path {
	out := ir.Path{Contours: make([]ir.Contour, len(p.Contours))}
	for i, c := range p.Contours {
		nc := ir.Contour{Closed: c.Closed, Vertices: make([]ir.Vertex, len(c.Vertices))}
		for j, v := range c.Vertices {
			nc.Vertices[j] = ir.Vertex{
				Point: m.TransformPoint(v.Point),
				In:    m.TransformVector(v.In),
				Out:   m.TransformVector(v.Out),
			}
		}
		out.Contours[i] = nc
	}
	return out
}

// rectPath builds a rectangle contour, honoring static roundness.
func rectPath(s *anim.Shape) ir.Path {
	c := pointAt(s.Position.Value)
	size := pointAt(s.Size.Value)
	w, h := size.X/2, size.Y/2
	r := s.Roundness.Value
	if max := math.Min(w, h); r > max {
		r = max
	}

	if r <= 0 {
		return polygonPath(true,
			luma.Pt(c.X+w, c.Y-h),
			luma.Pt(c.X+w, c.Y+h),
			luma.Pt(c.X-w, c.Y+h),
			luma.Pt(c.X-w, c.Y-h),
		)
	}

	// Rounded corners: one vertex per corner-adjacent point, with
	// circular-arc tangents.
	t := r * kappa
	verts := []ir.Vertex{
		{Point: luma.Pt(c.X+w, c.Y-h+r), In: luma.Pt(0, -t)},
		{Point: luma.Pt(c.X+w, c.Y+h-r), Out: luma.Pt(0, t)},
		{Point: luma.Pt(c.X+w-r, c.Y+h), In: luma.Pt(t, 0)},
		{Point: luma.Pt(c.X-w+r, c.Y+h), Out: luma.Pt(-t, 0)},
		{Point: luma.Pt(c.X-w, c.Y+h-r), In: luma.Pt(0, t)},
		{Point: luma.Pt(c.X-w, c.Y-h+r), Out: luma.Pt(0, -t)},
		{Point: luma.Pt(c.X-w+r, c.Y-h), In: luma.Pt(-t, 0)},
		{Point: luma.Pt(c.X+w-r, c.Y-h), Out: luma.Pt(t, 0)},
	}
	return ir.Path{Contours: []ir.Contour{{Closed: true, Vertices: verts}}}
}

// ellipsePath builds an ellipse from four arc segments.
func ellipsePath(s *anim.Shape) ir.Path {
	c := pointAt(s.Position.Value)
	size := pointAt(s.Size.Value)
	rx, ry := size.X/2, size.Y/2
	tx, ty := rx*kappa, ry*kappa

	verts := []ir.Vertex{
		{Point: luma.Pt(c.X, c.Y-ry), In: luma.Pt(-tx, 0), Out: luma.Pt(tx, 0)},
		{Point: luma.Pt(c.X+rx, c.Y), In: luma.Pt(0, -ty), Out: luma.Pt(0, ty)},
		{Point: luma.Pt(c.X, c.Y+ry), In: luma.Pt(tx, 0), Out: luma.Pt(-tx, 0)},
		{Point: luma.Pt(c.X-rx, c.Y), In: luma.Pt(0, ty), Out: luma.Pt(0, -ty)},
	}
	return ir.Path{Contours: []ir.Contour{{Closed: true, Vertices: verts}}}
}

// starPath builds a star polygon alternating outer and inner radii.
func starPath(s *anim.Shape) ir.Path {
	c := pointAt(s.Position.Value)
	points := int(math.Round(s.Points.Value))
	if points < 3 {
		points = 3
	}
	outer := s.OuterRadius.Value
	inner := s.InnerRadius.Value
	rot := s.Roundness.Value*math.Pi/180 - math.Pi/2

	pts := make([]luma.Point, 0, points*2)
	step := math.Pi / float64(points)
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := rot + float64(i)*step
		pts = append(pts, luma.Pt(c.X+r*math.Cos(a), c.Y+r*math.Sin(a)))
	}
	return polygonPath(true, pts...)
}

// polygonPath builds a straight-edged contour.
func polygonPath(closed bool, pts ...luma.Point) ir.Path {
	verts := make([]ir.Vertex, len(pts))
	for i, p := range pts {
		verts[i] = ir.Vertex{Point: p}
	}
	return ir.Path{Contours: []ir.Contour{{Closed: closed, Vertices: verts}}}
}
