package validate

import (
	"fmt"

	"github.com/lumakit/luma/anim"
)

// Validator scans a parsed source document against the supported
// feature subset and produces a complete Report. It never stops at the
// first violation.
type Validator struct {
	ctx Context
}

// New creates a validator for the given scene context.
func New(ctx Context) *Validator {
	return &Validator{ctx: ctx}
}

// Validate scans the whole document and returns the collected report.
func (v *Validator) Validate(doc *anim.Document) *Report {
	r := &Report{}
	root := fmt.Sprintf("anim(%s)", v.ctx.Ref)

	v.checkMeta(r, doc, root)

	for i, layer := range doc.Layers {
		v.checkLayer(r, layer, fmt.Sprintf("%s.layers[%d]", root, i))
	}
	for ai, asset := range doc.Assets {
		assetPath := fmt.Sprintf("%s.assets[%d]", root, ai)
		if asset.IsComposition() {
			for li, layer := range asset.Layers {
				v.checkLayer(r, layer, fmt.Sprintf("%s.layers[%d]", assetPath, li))
			}
			continue
		}
		v.checkImageAsset(r, asset, assetPath)
	}

	v.checkBinding(r, doc, root)
	return r
}

// checkMeta compares document metadata against the scene expectations.
func (v *Validator) checkMeta(r *Report, doc *anim.Document, root string) {
	if v.ctx.FrameRate > 0 && doc.FrameRate != v.ctx.FrameRate {
		r.add(SeverityWarning, CodeFrameRateMismatch, root+".fr",
			"document frame rate %g differs from scene frame rate %g",
			doc.FrameRate, v.ctx.FrameRate)
	}
	if v.ctx.Width > 0 && v.ctx.Height > 0 &&
		(doc.Width != v.ctx.Width || doc.Height != v.ctx.Height) {
		r.add(SeverityWarning, CodeCanvasSizeMismatch, root+".w",
			"document canvas %dx%d differs from scene canvas %dx%d",
			doc.Width, doc.Height, v.ctx.Width, v.ctx.Height)
	}
}

// supportedLayerType reports membership in the layer-type allow-list.
func supportedLayerType(ty int) bool {
	switch ty {
	case anim.LayerTypePrecomp, anim.LayerTypeImage, anim.LayerTypeNull, anim.LayerTypeShape:
		return true
	default:
		return false
	}
}

func (v *Validator) checkLayer(r *Report, l *anim.Layer, path string) {
	if !supportedLayerType(l.Type) {
		r.add(SeverityError, CodeUnsupportedLayerType, path+".ty",
			"layer type %d is not supported", l.Type)
	}
	if l.Is3D != 0 {
		r.add(SeverityError, CodeLayer3D, path+".ddd", "3D layers are not supported")
	}
	if l.AutoOrient != 0 {
		r.add(SeverityError, CodeLayerAutoOrient, path+".ao", "auto-orient is not supported")
	}
	if l.TimeStretch != 0 && l.TimeStretch != 1 {
		r.add(SeverityError, CodeLayerTimeStretch, path+".sr",
			"time stretch %g is not supported (must be 1)", l.TimeStretch)
	}
	if l.Collapse != 0 {
		r.add(SeverityError, CodeLayerCollapse, path+".cp",
			"collapsed transforms are not supported")
	}
	if l.BlendMode != 0 {
		r.add(SeverityError, CodeLayerBlendMode, path+".bm",
			"blend mode %d is not supported (must be normal)", l.BlendMode)
	}
	if l.Transform.HasSkew() {
		r.add(SeverityError, CodeTransformSkew, path+".ks.sk", "skew is not supported")
	}

	switch l.MatteMode {
	case anim.MatteNone, anim.MatteAlpha, anim.MatteAlphaInverted,
		anim.MatteLuma, anim.MatteLumaInverted:
	default:
		r.add(SeverityError, CodeUnsupportedMatteMode, path+".tt",
			"matte mode %d is not supported", l.MatteMode)
	}
	if l.MatteTarget != nil && *l.MatteTarget == l.Index {
		r.add(SeverityError, CodeMatteTargetSelf, path+".tp",
			"matte target references its own layer")
	}

	for mi, m := range l.Masks {
		v.checkMask(r, m, fmt.Sprintf("%s.masksProperties[%d]", path, mi))
	}
	for si, s := range l.Shapes {
		v.checkShape(r, s, fmt.Sprintf("%s.shapes[%d]", path, si))
	}
}

func (v *Validator) checkMask(r *Report, m *anim.Mask, path string) {
	if m.Mode != anim.MaskModeAdd {
		r.add(SeverityError, CodeUnsupportedMaskMode, path+".mode",
			"mask mode %q is not supported (must be add)", m.Mode)
	}
	if m.Path.Animated && m.Path.KeyframeCount > 1 {
		r.add(SeverityError, CodeAnimatedPathTopology, path+".pt",
			"animated mask path topology is not supported")
	}
	if m.Expansion != nil && (m.Expansion.Animated || m.Expansion.Value != 0) {
		r.add(SeverityError, CodeAnimatedMaskExpansion, path+".x",
			"mask expansion is not supported")
	}
}

func (v *Validator) checkShape(r *Report, s *anim.Shape, path string) {
	switch s.Type {
	case anim.ShapeGroup:
		for i, it := range s.Items {
			v.checkShape(r, it, fmt.Sprintf("%s.it[%d]", path, i))
		}
	case anim.ShapePath:
		if s.Path.Animated && s.Path.KeyframeCount > 1 {
			r.add(SeverityError, CodeAnimatedPathTopology, path+".ks",
				"animated shape path topology is not supported")
		}
	case anim.ShapeRect:
		if s.Roundness.Animated {
			r.add(SeverityError, CodeAnimatedRectRoundness, path+".r",
				"animated rectangle roundness is not supported")
		}
	case anim.ShapeEllipse:
		// Supported unconditionally.
	case anim.ShapeStar:
		v.checkStarPoints(r, s, path)
	case anim.ShapeFill:
		// Supported unconditionally.
	case anim.ShapeStroke:
		if len(s.Dashes) > 0 {
			r.add(SeverityError, CodeDashedStroke, path+".d",
				"dashed strokes are not supported")
		}
	case anim.ShapeTransform:
		if sc := s.GroupScale(); len(sc) >= 2 && sc[0] != sc[1] {
			r.add(SeverityError, CodeNonUniformGroupScale, path+".s",
				"non-uniform group scale %gx%g is not supported", sc[0], sc[1])
		}
	default:
		r.add(SeverityError, CodeUnsupportedShapeType, path+".ty",
			"shape type %q is not supported", s.Type)
	}
}

// checkStarPoints verifies every sampled point count stays in [3, 100].
func (v *Validator) checkStarPoints(r *Report, s *anim.Shape, path string) {
	check := func(n float64) bool { return n >= 3 && n <= 100 }
	if !s.Points.Animated {
		if !check(s.Points.Value) {
			r.add(SeverityError, CodeStarPointsOutOfRange, path+".pt",
				"star point count %g outside [3, 100]", s.Points.Value)
		}
		return
	}
	for _, kf := range s.Points.Keyframes {
		if len(kf.Start) > 0 && !check(kf.Start[0]) {
			r.add(SeverityError, CodeStarPointsOutOfRange, path+".pt",
				"star point count %g outside [3, 100]", kf.Start[0])
			return
		}
	}
}

// checkImageAsset verifies the asset reference and its presence via
// the injected resolver.
func (v *Validator) checkImageAsset(r *Report, a *anim.Asset, path string) {
	if a.FileName == "" {
		r.add(SeverityError, CodeAssetRefEmpty, path+".p",
			"image asset %q has an empty file reference", a.ID)
		return
	}
	if v.ctx.Resolver != nil && !v.ctx.Resolver.CanResolve(a.FileName) {
		r.add(SeverityError, CodeAssetNotFound, path+".p",
			"image asset %q (%s) cannot be resolved", a.ID, a.FileName)
	}
}

// checkBinding resolves the user-content binding layer by declared
// name: exactly one candidate of image content type with a non-empty
// asset reference must exist.
func (v *Validator) checkBinding(r *Report, doc *anim.Document, root string) {
	if v.ctx.BindingKey == "" {
		return
	}

	type hit struct {
		layer *anim.Layer
		path  string
	}
	var hits []hit
	collect := func(layers []*anim.Layer, prefix string) {
		for i, l := range layers {
			if l.Name == v.ctx.BindingKey {
				hits = append(hits, hit{l, fmt.Sprintf("%s.layers[%d]", prefix, i)})
			}
		}
	}
	collect(doc.Layers, root)
	for ai, a := range doc.Assets {
		if a.IsComposition() {
			collect(a.Layers, fmt.Sprintf("%s.assets[%d]", root, ai))
		}
	}

	switch {
	case len(hits) == 0:
		r.add(SeverityError, CodeBindingLayerNotFound, root,
			"no layer named %q for content binding", v.ctx.BindingKey)
	case len(hits) > 1:
		r.add(SeverityError, CodeBindingLayerDuplicate, hits[1].path,
			"%d layers named %q; binding requires exactly one", len(hits), v.ctx.BindingKey)
	default:
		l := hits[0].layer
		if l.Type != anim.LayerTypeImage || l.RefID == "" {
			r.add(SeverityError, CodeBindingLayerWrongType, hits[0].path,
				"binding layer %q must be an image layer with an asset reference", v.ctx.BindingKey)
		}
	}
}
