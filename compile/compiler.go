package compile

import (
	"github.com/lumakit/luma/anim"
	"github.com/lumakit/luma/ir"
	"github.com/lumakit/luma/validate"
)

// RootComp is the composition id assigned to the document root.
const RootComp = ir.CompID("root")

// Options carries optional compilation inputs.
type Options struct {
	// Toggles maps layer names to user-togglable identities. Every
	// named layer must exist in the document.
	Toggles map[string]string
}

// Result is the output of one successful compilation: the immutable
// animation, the frozen path registry, and the validation report
// (which may still carry warnings).
type Result struct {
	Anim     *ir.Animation
	Registry *ir.PathRegistry
	Report   *validate.Report
}

// Compile validates and compiles a source document.
func Compile(doc *anim.Document, ctx validate.Context) (*Result, error) {
	return CompileWithOptions(doc, ctx, Options{})
}

// CompileWithOptions validates and compiles a source document with
// explicit options. Compilation refuses to proceed while the validator
// reports error-severity issues; all of them are surfaced at once.
func CompileWithOptions(doc *anim.Document, ctx validate.Context, opts Options) (*Result, error) {
	report := validate.New(ctx).Validate(doc)
	if report.HasErrors() {
		return nil, &ValidationError{Ref: ctx.Ref, Report: report}
	}

	c := &compiler{
		doc:      doc,
		ctx:      ctx,
		opts:     opts,
		registry: ir.NewRegistryBuilder(),
		comps:    make(map[ir.CompID]*ir.Composition),
	}
	animIR, err := c.compile()
	if err != nil {
		return nil, err
	}
	return &Result{
		Anim:     animIR,
		Registry: c.registry.Freeze(),
		Report:   report,
	}, nil
}

type compiler struct {
	doc      *anim.Document
	ctx      validate.Context
	opts     Options
	registry *ir.RegistryBuilder
	comps    map[ir.CompID]*ir.Composition
}

func (c *compiler) compile() (*ir.Animation, error) {
	root, err := c.compileComp(RootComp, c.doc.Layers, c.doc.Width, c.doc.Height)
	if err != nil {
		return nil, err
	}
	c.comps[RootComp] = root

	assets := make(map[ir.AssetID]ir.AssetInfo)
	for _, a := range c.doc.Assets {
		if a.IsComposition() {
			w, h := a.Width, a.Height
			if w == 0 || h == 0 {
				w, h = c.doc.Width, c.doc.Height
			}
			comp, err := c.compileComp(ir.CompID(a.ID), a.Layers, w, h)
			if err != nil {
				return nil, err
			}
			c.comps[comp.ID] = comp
			continue
		}
		assets[ir.AssetID(a.ID)] = ir.AssetInfo{
			Path:   a.Path + a.FileName,
			Width:  a.Width,
			Height: a.Height,
		}
	}

	if err := c.checkToggles(); err != nil {
		return nil, err
	}
	binding, err := c.resolveBinding()
	if err != nil {
		return nil, err
	}

	return &ir.Animation{
		Meta: ir.Meta{
			Width:     c.doc.Width,
			Height:    c.doc.Height,
			FrameRate: c.doc.FrameRate,
			InPoint:   c.doc.InPoint,
			OutPoint:  c.doc.OutPoint,
			Source:    c.ctx.Ref,
		},
		RootComp: RootComp,
		Comps:    c.comps,
		Assets:   assets,
		Binding:  binding,
	}, nil
}

// compileComp compiles one composition's layers in array-index order
// and resolves matte bindings within it.
func (c *compiler) compileComp(id ir.CompID, raw []*anim.Layer, w, h int) (*ir.Composition, error) {
	comp := &ir.Composition{ID: id, Width: w, Height: h}
	for _, rl := range raw {
		comp.Layers = append(comp.Layers, c.compileLayer(rl))
	}
	if err := c.resolveMattes(comp, raw); err != nil {
		return nil, err
	}
	return comp, nil
}

func (c *compiler) compileLayer(rl *anim.Layer) *ir.Layer {
	l := &ir.Layer{
		ID:        ir.LayerID(rl.Index),
		Name:      rl.Name,
		Index:     rl.Index,
		Type:      layerType(rl.Type),
		Transform: transform(rl.Transform),
		Timing: ir.Timing{
			InPoint:   rl.InPoint,
			OutPoint:  rl.OutPoint,
			StartTime: rl.StartTime,
		},
		MatteSourceExplicit: rl.MatteSource != 0,
	}
	if rl.Parent != nil {
		l.Parent = ir.LayerID(*rl.Parent)
		l.HasParent = true
	}
	if tid, ok := c.opts.Toggles[rl.Name]; ok {
		l.ToggleID = tid
	}

	switch rl.Type {
	case anim.LayerTypeImage:
		l.Content = ir.ImageContent{Asset: ir.AssetID(rl.RefID)}
	case anim.LayerTypePrecomp:
		l.Content = ir.PrecompContent{Comp: ir.CompID(rl.RefID)}
	case anim.LayerTypeShape:
		l.Content = compileShapes(c.registry, rl.Shapes)
	default:
		l.Content = ir.NoContent{}
	}

	for _, m := range rl.Masks {
		l.Masks = append(l.Masks, ir.Mask{
			Mode:     maskMode(m.Mode),
			Inverted: m.Inverted,
			Opacity:  scalarTrack(m.Opacity, 100),
			Path:     c.registry.Register(bezierPath(m.Path.Shape)),
		})
	}
	return l
}

// resolveMattes applies the two-branch matte binding policy to every
// consumer in the composition. Bindings are stored per layer; chains
// are deliberately not flattened — the renderer recurses through them.
func (c *compiler) resolveMattes(comp *ir.Composition, raw []*anim.Layer) error {
	for i, rl := range raw {
		if !rl.HasMatteMode() {
			continue
		}
		consumer := comp.Layers[i]

		if rl.MatteTarget != nil {
			// Explicit target reference, resolved by declared index.
			target := comp.ByIndex(*rl.MatteTarget)
			if target == nil {
				return &MatteTargetNotFoundError{
					Ref:      c.ctx.Ref,
					Comp:     comp.ID,
					Consumer: rl.Name,
					Target:   *rl.MatteTarget,
				}
			}
			// Source must strictly precede its consumer in document
			// order; ties are invalid.
			if target.Index >= consumer.Index {
				return &MatteOrderError{
					Ref:           c.ctx.Ref,
					Comp:          comp.ID,
					Consumer:      rl.Name,
					TargetIndex:   target.Index,
					ConsumerIndex: consumer.Index,
				}
			}
			consumer.Matte = &ir.MatteBinding{
				Source: target.ID,
				Mode:   matteMode(rl.MatteMode),
			}
			// Being referenced promotes the target to matte-source
			// status even without its own source flag.
			if !target.MatteSourceExplicit {
				target.MatteSourceImplicit = true
			}
			continue
		}

		// Legacy adjacency fallback: the immediately preceding layer
		// binds only when it is explicitly flagged as a source. No
		// implicit promotion on this path.
		if i > 0 && raw[i-1].MatteSource != 0 {
			consumer.Matte = &ir.MatteBinding{
				Source: comp.Layers[i-1].ID,
				Mode:   matteMode(rl.MatteMode),
			}
		}
	}
	return nil
}

func (c *compiler) checkToggles() error {
	for name, tid := range c.opts.Toggles {
		found := false
		for _, comp := range c.comps {
			for _, l := range comp.Layers {
				if l.Name == name {
					found = true
				}
			}
		}
		if !found {
			return &ToggleError{Ref: c.ctx.Ref, Toggle: tid, Layer: name}
		}
	}
	return nil
}

// resolveBinding locates the user-content binding layer and verifies
// its structural isolation: it must not participate in matte
// relationships and must not parent any other layer.
func (c *compiler) resolveBinding() (*ir.BindingDescriptor, error) {
	if c.ctx.BindingKey == "" {
		return nil, nil
	}
	for _, comp := range c.comps {
		for _, l := range comp.Layers {
			if l.Name != c.ctx.BindingKey {
				continue
			}
			if l.IsMatteSource() {
				return nil, &BindingStructureError{
					Ref: c.ctx.Ref, Comp: comp.ID, Layer: l.Name,
					Reason: "must not be a matte source",
				}
			}
			if l.IsMatteConsumer() {
				return nil, &BindingStructureError{
					Ref: c.ctx.Ref, Comp: comp.ID, Layer: l.Name,
					Reason: "must not be a matte consumer",
				}
			}
			for _, other := range comp.Layers {
				if other != l && other.HasParent && other.Parent == l.ID {
					return nil, &BindingStructureError{
						Ref: c.ctx.Ref, Comp: comp.ID, Layer: l.Name,
						Reason: "must not be the parent of another layer",
					}
				}
			}
			img, _ := l.Content.(ir.ImageContent)
			return &ir.BindingDescriptor{
				Layer: l.ID,
				Comp:  comp.ID,
				Asset: img.Asset,
			}, nil
		}
	}
	return nil, nil
}

func layerType(ty int) ir.LayerType {
	switch ty {
	case anim.LayerTypePrecomp:
		return ir.LayerPrecomp
	case anim.LayerTypeImage:
		return ir.LayerImage
	case anim.LayerTypeShape:
		return ir.LayerShape
	default:
		return ir.LayerNull
	}
}
