package composite

import (
	"math"
	"sort"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/ir"
)

// subSamples is the number of vertical samples per pixel row. Four
// samples keep curved mask edges smooth without a full supersample.
const subSamples = 4

// flatTolerance caps the recursion when flattening cubic segments.
const flatTolerance = 0.25

// edge is one monotonic-in-y line segment in device space.
type edge struct {
	yMin, yMax float64
	xAtYMin    float64
	dxdy       float64
	winding    int
}

// newEdge builds an edge from two device-space points, dropping
// horizontal segments.
func newEdge(x0, y0, x1, y1 float64) (edge, bool) {
	winding := 1
	if y0 > y1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
		winding = -1
	}
	dy := y1 - y0
	if dy < 1e-9 {
		return edge{}, false
	}
	return edge{
		yMin:    y0,
		yMax:    y1,
		xAtYMin: x0,
		dxdy:    (x1 - x0) / dy,
		winding: winding,
	}, true
}

// Rasterize fills a bezier path under a transform into a coverage
// buffer of w*h values in [0, 1], using the non-zero winding rule.
func Rasterize(p ir.Path, m luma.Matrix, w, h int) []float32 {
	edges := flatten(p, m)
	cov := make([]float32, w*h)
	if len(edges) == 0 {
		return cov
	}
	for y := 0; y < h; y++ {
		rasterizeRow(edges, cov[y*w:(y+1)*w], w, y)
	}
	return cov
}

// rasterizeRow accumulates coverage for one pixel row.
func rasterizeRow(edges []edge, row []float32, w, y int) {
	type crossing struct {
		x       float64
		winding int
	}
	var crossings []crossing

	for s := 0; s < subSamples; s++ {
		sy := float64(y) + (float64(s)+0.5)/subSamples
		crossings = crossings[:0]
		for _, e := range edges {
			if sy < e.yMin || sy >= e.yMax {
				continue
			}
			crossings = append(crossings, crossing{
				x:       e.xAtYMin + (sy-e.yMin)*e.dxdy,
				winding: e.winding,
			})
		}
		if len(crossings) < 2 {
			continue
		}
		sort.Slice(crossings, func(i, j int) bool { return crossings[i].x < crossings[j].x })

		// Non-zero winding: spans where the running sum is non-zero
		// are inside.
		winding := 0
		for i := 0; i < len(crossings)-1; i++ {
			winding += crossings[i].winding
			if winding == 0 {
				continue
			}
			addSpan(row, w, crossings[i].x, crossings[i+1].x, 1.0/subSamples)
		}
	}
	for i, v := range row {
		if v > 1 {
			row[i] = 1
		}
	}
}

// addSpan adds weighted coverage for the horizontal span [x0, x1) with
// fractional coverage at the end pixels.
func addSpan(row []float32, w int, x0, x1, weight float64) {
	if x1 <= 0 || x0 >= float64(w) || x1 <= x0 {
		return
	}
	if x0 < 0 {
		x0 = 0
	}
	if x1 > float64(w) {
		x1 = float64(w)
	}

	i0 := int(math.Floor(x0))
	i1 := int(math.Ceil(x1)) - 1
	if i0 == i1 {
		row[i0] += float32((x1 - x0) * weight)
		return
	}
	row[i0] += float32((float64(i0+1) - x0) * weight)
	for i := i0 + 1; i < i1; i++ {
		row[i] += float32(weight)
	}
	row[i1] += float32((x1 - float64(i1)) * weight)
}

// flatten converts every contour into device-space edges.
func flatten(p ir.Path, m luma.Matrix) []edge {
	var edges []edge
	emit := func(a, b luma.Point) {
		if e, ok := newEdge(a.X, a.Y, b.X, b.Y); ok {
			edges = append(edges, e)
		}
	}

	for _, c := range p.Contours {
		n := len(c.Vertices)
		if n < 2 {
			continue
		}
		segs := n - 1
		if c.Closed {
			segs = n
		}
		for i := 0; i < segs; i++ {
			v0 := c.Vertices[i]
			v1 := c.Vertices[(i+1)%n]
			p0 := m.TransformPoint(v0.Point)
			p3 := m.TransformPoint(v1.Point)

			// Straight segment when both tangents vanish.
			if v0.Out.X == 0 && v0.Out.Y == 0 && v1.In.X == 0 && v1.In.Y == 0 {
				emit(p0, p3)
				continue
			}
			p1 := m.TransformPoint(v0.Point.Add(v0.Out))
			p2 := m.TransformPoint(v1.Point.Add(v1.In))
			flattenCubic(p0, p1, p2, p3, 0, emit)
		}
	}
	return edges
}

// flattenCubic subdivides a cubic until flat enough, then emits the
// chord.
func flattenCubic(p0, p1, p2, p3 luma.Point, depth int, emit func(a, b luma.Point)) {
	if depth >= 16 || cubicFlat(p0, p1, p2, p3) {
		emit(p0, p3)
		return
	}
	// de Casteljau split at t = 0.5.
	ab := midpoint(p0, p1)
	bc := midpoint(p1, p2)
	cd := midpoint(p2, p3)
	abc := midpoint(ab, bc)
	bcd := midpoint(bc, cd)
	mid := midpoint(abc, bcd)
	flattenCubic(p0, ab, abc, mid, depth+1, emit)
	flattenCubic(mid, bcd, cd, p3, depth+1, emit)
}

// cubicFlat reports whether both control points lie within tolerance
// of the chord.
func cubicFlat(p0, p1, p2, p3 luma.Point) bool {
	d1 := lineDistance(p0, p3, p1)
	d2 := lineDistance(p0, p3, p2)
	return d1 <= flatTolerance && d2 <= flatTolerance
}

// lineDistance is the distance from point p to the line through a, b.
func lineDistance(a, b, p luma.Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length < 1e-12 {
		return p.Distance(a)
	}
	return math.Abs((p.X-a.X)*dy-(p.Y-a.Y)*dx) / length
}

func midpoint(a, b luma.Point) luma.Point {
	return luma.Pt((a.X+b.X)/2, (a.Y+b.Y)/2)
}
