package container

import (
	"fmt"
	"sort"

	"github.com/ohler55/ojg/oj"

	"github.com/lumakit/luma"
	"github.com/lumakit/luma/ir"
)

// Artifact is one persisted compilation result: the immutable
// animation, the frozen path registry, and the scene runtime.
type Artifact struct {
	Anim     *ir.Animation
	Registry *ir.PathRegistry
	Runtime  Runtime
}

// Runtime is the scene-level playback metadata stored alongside the
// compiled animation.
type Runtime struct {
	// Engine is the engine version string that produced the artifact.
	Engine string `json:"engine"`
	// Toggles indexes user-togglable layers by toggle identity.
	Toggles map[string]ToggleRef `json:"toggles,omitempty"`
}

// ToggleRef locates one togglable layer.
type ToggleRef struct {
	Comp  ir.CompID  `json:"comp"`
	Layer ir.LayerID `json:"layer"`
}

// New builds an artifact from a compiled animation and registry,
// deriving the runtime toggle index from the layers.
func New(anim *ir.Animation, registry *ir.PathRegistry) *Artifact {
	rt := Runtime{Engine: luma.EngineVersion}
	for id, comp := range anim.Comps {
		for _, l := range comp.Layers {
			if l.ToggleID == "" {
				continue
			}
			if rt.Toggles == nil {
				rt.Toggles = make(map[string]ToggleRef)
			}
			rt.Toggles[l.ToggleID] = ToggleRef{Comp: id, Layer: l.ID}
		}
	}
	return &Artifact{Anim: anim, Registry: registry, Runtime: rt}
}

// Payload record types. The in-memory model uses an interface union
// for layer content and typed map keys; neither survives generic JSON
// reflection, so the payload flattens both. Maps become sorted slices
// so encoding the same artifact always yields the same bytes.

type payloadRecord struct {
	Meta    ir.Meta               `json:"meta"`
	Root    string                `json:"root"`
	Comps   []compRecord          `json:"comps"`
	Assets  []assetRecord         `json:"assets,omitempty"`
	Binding *ir.BindingDescriptor `json:"binding,omitempty"`
	Runtime runtimeRecord         `json:"runtime"`
	Paths   []ir.Path             `json:"paths"`
}

type assetRecord struct {
	ID   string       `json:"id"`
	Info ir.AssetInfo `json:"info"`
}

type runtimeRecord struct {
	Engine  string         `json:"engine"`
	Toggles []toggleRecord `json:"toggles,omitempty"`
}

type toggleRecord struct {
	ID    string     `json:"id"`
	Comp  ir.CompID  `json:"comp"`
	Layer ir.LayerID `json:"layer"`
}

type compRecord struct {
	ID     string        `json:"id"`
	Width  int           `json:"width"`
	Height int           `json:"height"`
	Layers []layerRecord `json:"layers"`
}

// Content kind discriminators.
const (
	kindNone    = "none"
	kindImage   = "image"
	kindPrecomp = "precomp"
	kindShape   = "shape"
)

type layerRecord struct {
	Layer   ir.Layer           `json:"layer"`
	Kind    string             `json:"kind"`
	Image   *ir.ImageContent   `json:"image,omitempty"`
	Precomp *ir.PrecompContent `json:"precomp,omitempty"`
	Shape   *ir.ShapeContent   `json:"shape,omitempty"`
}

// encodePayload serializes the artifact payload.
func encodePayload(a *Artifact) ([]byte, error) {
	rec := payloadRecord{
		Meta:    a.Anim.Meta,
		Root:    string(a.Anim.RootComp),
		Binding: a.Anim.Binding,
		Runtime: runtimeRecord{Engine: a.Runtime.Engine},
		Paths:   a.Registry.Snapshot(),
	}
	for id, info := range a.Anim.Assets {
		rec.Assets = append(rec.Assets, assetRecord{ID: string(id), Info: info})
	}
	sort.Slice(rec.Assets, func(i, j int) bool { return rec.Assets[i].ID < rec.Assets[j].ID })
	for id, ref := range a.Runtime.Toggles {
		rec.Runtime.Toggles = append(rec.Runtime.Toggles, toggleRecord{ID: id, Comp: ref.Comp, Layer: ref.Layer})
	}
	sort.Slice(rec.Runtime.Toggles, func(i, j int) bool { return rec.Runtime.Toggles[i].ID < rec.Runtime.Toggles[j].ID })

	compIDs := make([]string, 0, len(a.Anim.Comps))
	for id := range a.Anim.Comps {
		compIDs = append(compIDs, string(id))
	}
	sort.Strings(compIDs)
	for _, id := range compIDs {
		comp := a.Anim.Comps[ir.CompID(id)]
		cr := compRecord{ID: id, Width: comp.Width, Height: comp.Height}
		for _, l := range comp.Layers {
			lr := layerRecord{Layer: *l}
			switch ct := l.Content.(type) {
			case ir.ImageContent:
				lr.Kind = kindImage
				lr.Image = &ct
			case ir.PrecompContent:
				lr.Kind = kindPrecomp
				lr.Precomp = &ct
			case ir.ShapeContent:
				lr.Kind = kindShape
				lr.Shape = &ct
			default:
				lr.Kind = kindNone
			}
			cr.Layers = append(cr.Layers, lr)
		}
		rec.Comps = append(rec.Comps, cr)
	}

	data, err := oj.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("container: payload encode: %w", err)
	}
	return data, nil
}

// decodePayload rebuilds an artifact from serialized payload bytes.
func decodePayload(data []byte) (*Artifact, error) {
	var rec payloadRecord
	if err := oj.Unmarshal(data, &rec); err != nil {
		return nil, &PayloadError{Err: err}
	}

	anim := &ir.Animation{
		Meta:     rec.Meta,
		RootComp: ir.CompID(rec.Root),
		Comps:    make(map[ir.CompID]*ir.Composition, len(rec.Comps)),
		Binding:  rec.Binding,
	}
	if len(rec.Assets) > 0 {
		anim.Assets = make(map[ir.AssetID]ir.AssetInfo, len(rec.Assets))
		for _, ar := range rec.Assets {
			anim.Assets[ir.AssetID(ar.ID)] = ar.Info
		}
	}
	for _, cr := range rec.Comps {
		comp := &ir.Composition{
			ID:     ir.CompID(cr.ID),
			Width:  cr.Width,
			Height: cr.Height,
		}
		for _, lr := range cr.Layers {
			l := lr.Layer
			switch lr.Kind {
			case kindImage:
				if lr.Image == nil {
					return nil, &PayloadError{Err: fmt.Errorf("layer %q: missing image content", l.Name)}
				}
				l.Content = *lr.Image
			case kindPrecomp:
				if lr.Precomp == nil {
					return nil, &PayloadError{Err: fmt.Errorf("layer %q: missing precomp content", l.Name)}
				}
				l.Content = *lr.Precomp
			case kindShape:
				if lr.Shape == nil {
					return nil, &PayloadError{Err: fmt.Errorf("layer %q: missing shape content", l.Name)}
				}
				l.Content = *lr.Shape
			case kindNone:
				l.Content = ir.NoContent{}
			default:
				return nil, &PayloadError{Err: fmt.Errorf("layer %q: unknown content kind %q", l.Name, lr.Kind)}
			}
			comp.Layers = append(comp.Layers, &l)
		}
		anim.Comps[comp.ID] = comp
	}

	rt := Runtime{Engine: rec.Runtime.Engine}
	for _, tr := range rec.Runtime.Toggles {
		if rt.Toggles == nil {
			rt.Toggles = make(map[string]ToggleRef, len(rec.Runtime.Toggles))
		}
		rt.Toggles[tr.ID] = ToggleRef{Comp: tr.Comp, Layer: tr.Layer}
	}
	return &Artifact{
		Anim:     anim,
		Registry: ir.RegistryFromSnapshot(rec.Paths),
		Runtime:  rt,
	}, nil
}
