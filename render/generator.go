package render

import (
	"log/slog"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/command"
	"github.com/lumakit/luma/ir"
)

// Generator produces per-frame command streams from a compiled
// animation. A Generator is stateless between calls and safe for
// concurrent use.
type Generator struct {
	anim *ir.Animation
}

// NewGenerator builds a generator over a compiled animation.
func NewGenerator(a *ir.Animation) *Generator {
	return &Generator{anim: a}
}

// Frame is the output of one render call: the command stream for one
// frame plus any issues collected along the way.
type Frame struct {
	// Index is the effective frame after clamping.
	Index int
	// Commands is the well-nested command stream in paint order.
	Commands []command.Command
	// Issues lists the recoverable failures hit during traversal.
	Issues []Issue
}

// Frame generates the command stream for the given frame. Frames
// outside [0, outPoint-1] clamp to the nearest valid frame.
func (g *Generator) Frame(frame int) *Frame {
	f := frame
	if maxFrame := int(g.anim.Meta.OutPoint) - 1; f > maxFrame {
		f = maxFrame
	}
	if f < 0 {
		f = 0
	}

	w := &walker{anim: g.anim, frame: f, active: make(map[ir.CompID]bool)}
	root := g.anim.Root()
	if root != nil {
		w.comp(root, float64(f), "comp("+string(root.ID)+")")
	}
	if len(w.issues) > 0 {
		luma.Logger().Warn("render degraded",
			slog.Int("frame", f),
			slog.Int("issues", len(w.issues)))
	}
	return &Frame{Index: f, Commands: w.cmds, Issues: w.issues}
}

// walker carries the mutable state of one render call.
type walker struct {
	anim   *ir.Animation
	frame  int
	cmds   []command.Command
	issues []Issue

	// active tracks composition ids on the current recursion path.
	active map[ir.CompID]bool
}

func (w *walker) emit(c command.Command) {
	w.cmds = append(w.cmds, c)
}

func (w *walker) issue(code, path, msg string) {
	w.issues = append(w.issues, Issue{
		Code:       code,
		Path:       path,
		Message:    msg,
		FrameIndex: w.frame,
	})
}

// comp renders one composition's layers in paint order. localFrame is
// the frame in the composition's own timebase.
func (w *walker) comp(c *ir.Composition, localFrame float64, path string) {
	byID := c.ByID()
	for _, l := range c.Layers {
		if l.IsMatteSource() {
			// Sources render only inside their consumers' matte scopes.
			continue
		}
		w.layer(c, byID, l, localFrame, path)
	}
}

// layer is the single per-layer emission path, shared between the main
// paint pass and matte-scope rendering. Matte chains recurse through it
// via the matte source lookup below.
func (w *walker) layer(c *ir.Composition, byID map[ir.LayerID]*ir.Layer, l *ir.Layer, frame float64, compPath string) {
	if frame < l.Timing.InPoint || frame >= l.Timing.OutPoint {
		return
	}
	path := compPath + ".layer(" + l.Name + ")"

	world, opacity, ok := w.worldTransform(byID, l, frame, path)
	if !ok {
		return
	}

	w.emit(command.BeginGroup{Name: l.Name})
	w.emit(command.PushTransform{Matrix: world})

	if l.Matte != nil {
		w.emit(command.BeginMatte{Mode: l.Matte.Mode, Source: l.Matte.Source})
		// The source group follows BeginMatte directly, inside an
		// explicit wrapper so executors find the source boundary even
		// when the source emits nothing (out of its window, or degraded
		// by a parent issue). Sources that are themselves matte
		// consumers re-enter this path and nest their own matte scope.
		w.emit(command.BeginGroup{Name: "matte source"})
		src, found := byID[l.Matte.Source]
		if !found {
			w.issue(CodeMatteSourceNotFound, path,
				"matte source layer not found in composition")
		} else {
			w.layer(c, byID, src, frame, compPath)
		}
		w.emit(command.EndGroup{})
	}

	for _, m := range l.Masks {
		w.emit(command.BeginMask{
			Mode:     m.Mode,
			Inverted: m.Inverted,
			Opacity:  clamp01(m.Opacity.Sample(frame) / 100),
			Path:     m.Path,
		})
	}

	w.content(l, frame, opacity, path)

	for range l.Masks {
		w.emit(command.EndMask{})
	}
	if l.Matte != nil {
		w.emit(command.EndMatte{})
	}
	w.emit(command.PopTransform{})
	w.emit(command.EndGroup{})
}

// worldTransform resolves the layer's parent chain and returns the
// world matrix and accumulated opacity. A broken chain records an issue
// and reports !ok; the layer then renders nothing.
func (w *walker) worldTransform(byID map[ir.LayerID]*ir.Layer, l *ir.Layer, frame float64, path string) (luma.Matrix, float64, bool) {
	var chain []*ir.Layer
	visited := map[ir.LayerID]bool{l.ID: true}
	cur := l
	for cur.HasParent {
		p, found := byID[cur.Parent]
		if !found {
			w.issue(CodeParentNotFound, path, "parent layer not found in composition")
			return luma.Matrix{}, 0, false
		}
		if visited[p.ID] {
			w.issue(CodeParentCycle, path, "parent chain forms a cycle")
			return luma.Matrix{}, 0, false
		}
		visited[p.ID] = true
		chain = append(chain, p)
		cur = p
	}

	// Compose root-most ancestor first, the layer's own local last.
	world := luma.Identity()
	opacity := 1.0
	for i := len(chain) - 1; i >= 0; i-- {
		world = world.Multiply(chain[i].Transform.Matrix(frame))
		opacity *= chain[i].Transform.OpacityAt(frame)
	}
	world = world.Multiply(l.Transform.Matrix(frame))
	opacity *= l.Transform.OpacityAt(frame)
	return world, opacity, true
}

// content emits the layer's drawable content.
func (w *walker) content(l *ir.Layer, frame, opacity float64, path string) {
	switch ct := l.Content.(type) {
	case ir.ImageContent:
		w.emit(command.DrawImage{Asset: ct.Asset, Opacity: opacity})

	case ir.ShapeContent:
		for _, f := range ct.Fills {
			w.emit(command.DrawPath{
				Path:    f.Path,
				Color:   f.Color,
				Opacity: clamp01(f.Opacity * opacity),
			})
		}

	case ir.PrecompContent:
		child, found := w.anim.Comps[ct.Comp]
		if !found {
			w.issue(CodePrecompAssetNotFound, path,
				"referenced composition "+string(ct.Comp)+" does not exist")
			return
		}
		if w.active[ct.Comp] {
			w.issue(CodePrecompCycle, path,
				"composition "+string(ct.Comp)+" re-entered on the active render path")
			return
		}
		w.active[ct.Comp] = true
		// Child frames run in the nested composition's timebase; the
		// layer transform is already on the stack, so nested layers
		// compose from identity.
		w.emit(command.PushClipRect{
			Width:  float64(child.Width),
			Height: float64(child.Height),
		})
		w.comp(child, frame-l.Timing.StartTime, path+".comp("+string(ct.Comp)+")")
		w.emit(command.PopClipRect{})
		delete(w.active, ct.Comp)

	case ir.NoContent:
		// Null layers contribute transforms only.
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
