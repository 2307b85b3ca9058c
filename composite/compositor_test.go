package composite

import (
	"math"
	"testing"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/ir"
	"github.com/lumakit/luma/render"
)

// testCompositor builds a compositor over the given geometries and
// returns it with their assigned ids.
func testCompositor(t *testing.T, paths ...ir.Path) (*Compositor, []ir.PathID) {
	t.Helper()
	b := ir.NewRegistryBuilder()
	ids := make([]ir.PathID, len(paths))
	for i, p := range paths {
		ids[i] = b.Register(p)
	}
	c := NewCompositor(b.Freeze(), Options{Workers: 2})
	t.Cleanup(c.Close)
	return c, ids
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 2e-3 }

func TestRenderDrawPath(t *testing.T) {
	c, ids := testCompositor(t, rectGeometry(2, 2, 4, 4))
	buf, err := c.Render([]command.Command{
		command.DrawPath{Path: ids[0], Color: [4]float64{1, 0, 0, 1}, Opacity: 1},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}

	r, g, _, a := buf.At(4, 4)
	if !near(r, 1) || !near(a, 1) || g != 0 {
		t.Errorf("inside pixel = (%g, %g, _, %g)", r, g, a)
	}
	if _, _, _, a := buf.At(0, 0); a != 0 {
		t.Errorf("outside pixel alpha = %g", a)
	}
}

func TestRenderDrawPathOpacity(t *testing.T) {
	c, ids := testCompositor(t, rectGeometry(0, 0, 8, 8))
	buf, err := c.Render([]command.Command{
		command.DrawPath{Path: ids[0], Color: [4]float64{0, 0, 1, 1}, Opacity: 0.5},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	_, _, bl, a := buf.At(4, 4)
	if !near(a, 0.5) || !near(bl, 0.5) {
		t.Errorf("pixel = (_, _, %g, %g), want premultiplied half opacity", bl, a)
	}
}

func TestRenderTransform(t *testing.T) {
	c, ids := testCompositor(t, rectGeometry(0, 0, 2, 2))
	buf, err := c.Render([]command.Command{
		command.PushTransform{Matrix: luma.Translate(4, 4)},
		command.DrawPath{Path: ids[0], Color: [4]float64{1, 1, 1, 1}, Opacity: 1},
		command.PopTransform{},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := buf.At(5, 5); !near(a, 1) {
		t.Errorf("translated pixel alpha = %g", a)
	}
	if _, _, _, a := buf.At(1, 1); a != 0 {
		t.Errorf("untranslated location alpha = %g", a)
	}
}

func TestRenderClipRect(t *testing.T) {
	c, ids := testCompositor(t, rectGeometry(0, 0, 8, 8))
	buf, err := c.Render([]command.Command{
		command.PushClipRect{X: 0, Y: 0, Width: 4, Height: 8},
		command.DrawPath{Path: ids[0], Color: [4]float64{1, 1, 1, 1}, Opacity: 1},
		command.PopClipRect{},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := buf.At(2, 4); !near(a, 1) {
		t.Errorf("clipped-in pixel alpha = %g", a)
	}
	if _, _, _, a := buf.At(6, 4); a != 0 {
		t.Errorf("clipped-out pixel alpha = %g", a)
	}
}

func TestRenderMaskScope(t *testing.T) {
	c, ids := testCompositor(t,
		rectGeometry(0, 0, 8, 8), // content
		rectGeometry(0, 0, 4, 8), // mask: left half
	)
	buf, err := c.Render([]command.Command{
		command.BeginMask{Mode: ir.MaskAdd, Opacity: 1, Path: ids[1]},
		command.DrawPath{Path: ids[0], Color: [4]float64{0, 1, 0, 1}, Opacity: 1},
		command.EndMask{},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, g, _, a := buf.At(2, 4); !near(g, 1) || !near(a, 1) {
		t.Errorf("masked-in pixel = (_, %g, _, %g)", g, a)
	}
	if _, _, _, a := buf.At(6, 4); a != 0 {
		t.Errorf("masked-out pixel alpha = %g", a)
	}
}

func TestRenderSubtractMaskChain(t *testing.T) {
	c, ids := testCompositor(t,
		rectGeometry(0, 0, 8, 8), // content
		rectGeometry(0, 0, 8, 8), // full add mask
		rectGeometry(4, 0, 4, 8), // subtracted right half
	)
	buf, err := c.Render([]command.Command{
		command.BeginMask{Mode: ir.MaskAdd, Opacity: 1, Path: ids[1]},
		command.BeginMask{Mode: ir.MaskSubtract, Opacity: 1, Path: ids[2]},
		command.DrawPath{Path: ids[0], Color: [4]float64{1, 1, 1, 1}, Opacity: 1},
		command.EndMask{},
		command.EndMask{},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := buf.At(2, 4); !near(a, 1) {
		t.Errorf("kept pixel alpha = %g", a)
	}
	if _, _, _, a := buf.At(6, 4); a != 0 {
		t.Errorf("subtracted pixel alpha = %g", a)
	}
}

func TestRenderMatteScope(t *testing.T) {
	c, ids := testCompositor(t,
		rectGeometry(0, 0, 8, 8), // consumer content
		rectGeometry(0, 0, 4, 8), // matte source: left half
	)
	// The source group carries its own transform bracket, as generated
	// streams do.
	buf, err := c.Render([]command.Command{
		command.BeginMatte{Mode: ir.MatteAlpha, Source: 1},
		command.BeginGroup{Name: "src"},
		command.PushTransform{Matrix: luma.Identity()},
		command.DrawPath{Path: ids[1], Color: [4]float64{1, 1, 1, 1}, Opacity: 1},
		command.PopTransform{},
		command.EndGroup{},
		command.DrawPath{Path: ids[0], Color: [4]float64{1, 0, 0, 1}, Opacity: 1},
		command.EndMatte{},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, a := buf.At(2, 4); !near(r, 1) || !near(a, 1) {
		t.Errorf("matted-in pixel = (%g, _, _, %g)", r, a)
	}
	if _, _, _, a := buf.At(6, 4); a != 0 {
		t.Errorf("matted-out pixel alpha = %g", a)
	}
}

func TestRenderMatteInverted(t *testing.T) {
	c, ids := testCompositor(t,
		rectGeometry(0, 0, 8, 8),
		rectGeometry(0, 0, 4, 8),
	)
	buf, err := c.Render([]command.Command{
		command.BeginMatte{Mode: ir.MatteAlphaInverted, Source: 1},
		command.BeginGroup{Name: "src"},
		command.DrawPath{Path: ids[1], Color: [4]float64{1, 1, 1, 1}, Opacity: 1},
		command.EndGroup{},
		command.DrawPath{Path: ids[0], Color: [4]float64{1, 0, 0, 1}, Opacity: 1},
		command.EndMatte{},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := buf.At(2, 4); a != 0 {
		t.Errorf("source-covered pixel alpha = %g, want 0 under inverted matte", a)
	}
	if _, _, _, a := buf.At(6, 4); !near(a, 1) {
		t.Errorf("source-free pixel alpha = %g, want 1", a)
	}
}

func TestRenderMatteSourceDropsConsumerTransform(t *testing.T) {
	c, ids := testCompositor(t,
		rectGeometry(0, 0, 8, 8),
		rectGeometry(0, 0, 4, 8),
	)
	// The push enclosing BeginMatte is the consumer's own transform;
	// the source group drops it and carries its own matrix instead.
	buf, err := c.Render([]command.Command{
		command.PushTransform{Matrix: luma.Translate(100, 100)},
		command.BeginMatte{Mode: ir.MatteAlpha, Source: 1},
		command.BeginGroup{Name: "src"},
		command.PushTransform{Matrix: luma.Identity()},
		command.DrawPath{Path: ids[1], Color: [4]float64{1, 1, 1, 1}, Opacity: 1},
		command.PopTransform{},
		command.EndGroup{},
		command.PushTransform{Matrix: luma.Translate(-100, -100)},
		command.DrawPath{Path: ids[0], Color: [4]float64{1, 0, 0, 1}, Opacity: 1},
		command.PopTransform{},
		command.EndMatte{},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := buf.At(2, 4); !near(a, 1) {
		t.Errorf("pixel under source coverage = %g, want 1", a)
	}
	if _, _, _, a := buf.At(6, 4); a != 0 {
		t.Errorf("pixel outside source coverage = %g, want 0", a)
	}
}

// matteTestLayer builds a shape layer drawing the given geometry.
func matteTestLayer(id int, name string, path ir.PathID, color [4]float64) *ir.Layer {
	return &ir.Layer{
		ID: ir.LayerID(id), Name: name, Index: id, Type: ir.LayerShape,
		Transform: ir.IdentityTransform(),
		Timing:    ir.Timing{OutPoint: 30},
		Content:   ir.ShapeContent{Fills: []ir.ShapeFill{{Path: path, Color: color, Opacity: 1}}},
	}
}

func TestRenderMatteInsideTranslatedPrecomp(t *testing.T) {
	b := ir.NewRegistryBuilder()
	rect := b.Register(rectGeometry(0, 0, 10, 10))
	c := NewCompositor(b.Freeze(), Options{Workers: 2})
	t.Cleanup(c.Close)

	src := matteTestLayer(1, "shade", rect, [4]float64{1, 1, 1, 1})
	src.MatteSourceExplicit = true
	con := matteTestLayer(2, "photo", rect, [4]float64{1, 0, 0, 1})
	con.Matte = &ir.MatteBinding{Source: 1, Mode: ir.MatteAlpha}

	hostTransform := ir.IdentityTransform()
	hostTransform.Position = ir.StaticVector(50, 0)
	anim := &ir.Animation{
		Meta:     ir.Meta{Width: 80, Height: 20, FrameRate: 30, OutPoint: 30},
		RootComp: "root",
		Comps: map[ir.CompID]*ir.Composition{
			"root": {ID: "root", Width: 80, Height: 20, Layers: []*ir.Layer{{
				ID: 1, Name: "nested", Index: 1, Type: ir.LayerPrecomp,
				Transform: hostTransform,
				Timing:    ir.Timing{OutPoint: 30},
				Content:   ir.PrecompContent{Comp: "child"},
			}}},
			"child": {ID: "child", Width: 20, Height: 20, Layers: []*ir.Layer{src, con}},
		},
	}

	f := render.NewGenerator(anim).Frame(0)
	if len(f.Issues) != 0 {
		t.Fatalf("issues = %+v", f.Issues)
	}
	buf, err := c.Render(f.Commands, 80, 20)
	if err != nil {
		t.Fatal(err)
	}

	// Source and consumer share the host's translation, so the matte
	// keeps the consumer visible at the translated position.
	if r, _, _, a := buf.At(55, 5); !near(r, 1) || !near(a, 1) {
		t.Errorf("translated pixel = (%g, _, _, %g), want opaque red", r, a)
	}
	if _, _, _, a := buf.At(5, 5); a != 0 {
		t.Errorf("untranslated position alpha = %g, want 0", a)
	}
}

func TestRenderMatteEmptySource(t *testing.T) {
	b := ir.NewRegistryBuilder()
	rect := b.Register(rectGeometry(0, 0, 10, 10))
	c := NewCompositor(b.Freeze(), Options{Workers: 2})
	t.Cleanup(c.Close)

	newAnim := func(mode ir.MatteMode) *ir.Animation {
		src := matteTestLayer(1, "shade", rect, [4]float64{1, 1, 1, 1})
		src.MatteSourceExplicit = true
		src.Timing = ir.Timing{InPoint: 10, OutPoint: 20}
		con := matteTestLayer(2, "photo", rect, [4]float64{1, 0, 0, 1})
		con.Matte = &ir.MatteBinding{Source: 1, Mode: mode}
		con.Masks = []ir.Mask{{Mode: ir.MaskAdd, Path: rect, Opacity: ir.StaticScalar(100)}}
		return &ir.Animation{
			Meta:     ir.Meta{Width: 20, Height: 20, FrameRate: 30, OutPoint: 30},
			RootComp: "root",
			Comps: map[ir.CompID]*ir.Composition{
				"root": {ID: "root", Width: 20, Height: 20, Layers: []*ir.Layer{src, con}},
			},
		}
	}

	// Frame 0 is before the source's window: an inverted matte of an
	// empty source leaves the consumer fully visible.
	f := render.NewGenerator(newAnim(ir.MatteAlphaInverted)).Frame(0)
	buf, err := c.Render(f.Commands, 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if r, _, _, a := buf.At(5, 5); !near(r, 1) || !near(a, 1) {
		t.Errorf("inverted matte of empty source = (%g, _, _, %g), want opaque red", r, a)
	}

	// A straight alpha matte of an empty source hides the consumer.
	f = render.NewGenerator(newAnim(ir.MatteAlpha)).Frame(0)
	buf, err = c.Render(f.Commands, 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := buf.At(5, 5); a != 0 {
		t.Errorf("alpha matte of empty source alpha = %g, want 0", a)
	}
}

func TestRenderImage(t *testing.T) {
	c, _ := testCompositor(t)
	asset := NewBuffer(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			asset.Set(x, y, 1, 1, 1, 1)
		}
	}
	c.SetAsset("img", asset)

	buf, err := c.Render([]command.Command{
		command.DrawImage{Asset: "img", Opacity: 0.5},
	}, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := buf.At(4, 4); !near(a, 0.5) {
		t.Errorf("image pixel alpha = %g, want 0.5", a)
	}
}

func TestRenderUnknownAssetDrawsNothing(t *testing.T) {
	c, _ := testCompositor(t)
	buf, err := c.Render([]command.Command{
		command.DrawImage{Asset: "ghost", Opacity: 1},
	}, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if _, _, _, a := buf.At(2, 2); a != 0 {
		t.Errorf("unknown asset drew alpha %g", a)
	}
}

func TestRenderRejectsUnbalancedStream(t *testing.T) {
	c, _ := testCompositor(t)
	buf, err := c.Render([]command.Command{command.BeginGroup{Name: "open"}}, 4, 4)
	if err == nil {
		t.Fatal("unbalanced stream accepted")
	}
	if buf != nil {
		t.Error("partial frame returned alongside error")
	}
}

func TestCoverageCacheReuse(t *testing.T) {
	c, ids := testCompositor(t, rectGeometry(0, 0, 4, 4))
	cmds := []command.Command{
		command.DrawPath{Path: ids[0], Color: [4]float64{1, 1, 1, 1}, Opacity: 1},
	}
	for i := 0; i < 3; i++ {
		if _, err := c.Render(cmds, 8, 8); err != nil {
			t.Fatal(err)
		}
	}
	stats := c.CoverageStats()
	if stats.Misses != 1 || stats.Hits < 2 {
		t.Errorf("coverage stats = %+v, want 1 miss then hits", stats)
	}
}
