package ir

// LayerID identifies a layer. IDs are unique within one composition.
type LayerID int

// CompID identifies a composition within an Animation.
type CompID string

// AssetID identifies an image asset in the asset index.
type AssetID string

// PathID is a stable integer identifier for a registered geometry.
// The zero value is never assigned.
type PathID uint32

// LayerType enumerates the supported layer kinds.
type LayerType uint8

const (
	// LayerPrecomp renders a nested composition.
	LayerPrecomp LayerType = iota
	// LayerImage draws a single image asset.
	LayerImage
	// LayerNull contributes only its transform to descendants.
	LayerNull
	// LayerShape draws static vector geometry.
	LayerShape
)

// String returns a human-readable name for the layer type.
func (t LayerType) String() string {
	switch t {
	case LayerPrecomp:
		return "precomp"
	case LayerImage:
		return "image"
	case LayerNull:
		return "null"
	case LayerShape:
		return "shape"
	default:
		return "unknown"
	}
}

// MatteMode enumerates track-matte blending modes.
type MatteMode uint8

const (
	// MatteAlpha multiplies by the source alpha.
	MatteAlpha MatteMode = iota
	// MatteAlphaInverted multiplies by one minus the source alpha.
	MatteAlphaInverted
	// MatteLuma multiplies by the source luminance.
	MatteLuma
	// MatteLumaInverted multiplies by one minus the source luminance.
	MatteLumaInverted
)

// String returns a human-readable name for the matte mode.
func (m MatteMode) String() string {
	switch m {
	case MatteAlpha:
		return "alpha"
	case MatteAlphaInverted:
		return "alphaInverted"
	case MatteLuma:
		return "luma"
	case MatteLumaInverted:
		return "lumaInverted"
	default:
		return "unknown"
	}
}

// MaskMode enumerates boolean mask combination modes.
type MaskMode uint8

const (
	// MaskAdd combines coverage with max.
	MaskAdd MaskMode = iota
	// MaskSubtract attenuates the accumulator by inverse coverage.
	MaskSubtract
	// MaskIntersect combines coverage with min.
	MaskIntersect
)

// String returns a human-readable name for the mask mode.
func (m MaskMode) String() string {
	switch m {
	case MaskAdd:
		return "add"
	case MaskSubtract:
		return "subtract"
	case MaskIntersect:
		return "intersect"
	default:
		return "unknown"
	}
}

// Content is the closed union of layer content kinds. Exactly one of
// ImageContent, PrecompContent, ShapeContent, or NoContent implements
// it; consumers switch over the concrete type and handle all kinds.
type Content interface {
	isContent()
}

// ImageContent draws the referenced image asset.
type ImageContent struct {
	Asset AssetID `json:"asset"`
}

func (ImageContent) isContent() {}

// PrecompContent renders the referenced nested composition.
type PrecompContent struct {
	Comp CompID `json:"comp"`
}

func (PrecompContent) isContent() {}

// ShapeContent draws registered static geometry in declaration order.
type ShapeContent struct {
	Fills []ShapeFill `json:"fills"`
}

func (ShapeContent) isContent() {}

// NoContent marks layers without drawable content (null layers).
type NoContent struct{}

func (NoContent) isContent() {}

// ShapeFill pairs one registered geometry with its fill style.
type ShapeFill struct {
	Path    PathID     `json:"path"`
	Color   [4]float64 `json:"color"`
	Opacity float64    `json:"opacity"`
}

// MatteBinding is a layer's resolved track-matte binding: the source
// layer whose alpha or luminance clips this layer, and the mode.
type MatteBinding struct {
	Source LayerID   `json:"source"`
	Mode   MatteMode `json:"mode"`
}

// Mask is one compiled mask operation of a layer.
type Mask struct {
	Mode     MaskMode    `json:"mode"`
	Inverted bool        `json:"inverted"`
	Opacity  ScalarTrack `json:"opacity"`
	Path     PathID      `json:"path"`
}

// Timing is a layer's visibility window in composition frames.
type Timing struct {
	InPoint   float64 `json:"in"`
	OutPoint  float64 `json:"out"`
	StartTime float64 `json:"start"`
}

// Layer is one compiled layer. Parent and matte references are lookup
// keys scoped to the owning composition, never ownership edges; they
// are resolved against a per-composition table at render time.
type Layer struct {
	ID    LayerID   `json:"id"`
	Name  string    `json:"name"`
	Index int       `json:"index"`
	Type  LayerType `json:"type"`

	Transform Transform `json:"transform"`
	Timing    Timing    `json:"timing"`

	// Parent is the declared parent layer id; HasParent distinguishes
	// "no parent" from a parent id of zero.
	Parent    LayerID `json:"parent"`
	HasParent bool    `json:"hasParent"`

	Content Content `json:"-"`

	Masks []Mask        `json:"masks,omitempty"`
	Matte *MatteBinding `json:"matte,omitempty"`

	// MatteSourceExplicit is set when the document flags the layer as a
	// matte source; MatteSourceImplicit when another layer references it
	// as an explicit matte target. Downstream code must consult the
	// union via IsMatteSource, not the explicit flag alone.
	MatteSourceExplicit bool `json:"matteSourceExplicit,omitempty"`
	MatteSourceImplicit bool `json:"matteSourceImplicit,omitempty"`

	// ToggleID is the optional user-togglable identity of the layer.
	ToggleID string `json:"toggleId,omitempty"`
}

// IsMatteSource reports whether the layer acts as a matte source,
// explicitly flagged or implicitly promoted by being referenced.
func (l *Layer) IsMatteSource() bool {
	return l.MatteSourceExplicit || l.MatteSourceImplicit
}

// IsMatteConsumer reports whether the layer has a resolved matte binding.
func (l *Layer) IsMatteConsumer() bool {
	return l.Matte != nil
}

// Composition is an ordered sequence of layers. Slice order is paint
// order: later entries paint on top.
type Composition struct {
	ID     CompID   `json:"id"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Layers []*Layer `json:"layers"`
}

// ByID builds a layer lookup table for this composition. The table is
// rebuilt per render call; see the render package.
func (c *Composition) ByID() map[LayerID]*Layer {
	m := make(map[LayerID]*Layer, len(c.Layers))
	for _, l := range c.Layers {
		m[l.ID] = l
	}
	return m
}

// ByIndex returns the layer with the given declared array index, or nil.
func (c *Composition) ByIndex(index int) *Layer {
	for _, l := range c.Layers {
		if l.Index == index {
			return l
		}
	}
	return nil
}

// AssetInfo describes one entry of the asset index.
type AssetInfo struct {
	Path   string `json:"path"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// BindingDescriptor identifies the layer whose content is substituted
// with externally supplied user media at render time.
type BindingDescriptor struct {
	Layer LayerID `json:"layer"`
	Comp  CompID  `json:"comp"`
	Asset AssetID `json:"asset"`
}

// Meta holds animation-level metadata.
type Meta struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	FrameRate float64 `json:"frameRate"`
	InPoint   float64 `json:"in"`
	OutPoint  float64 `json:"out"`
	Source    string  `json:"source,omitempty"`
}

// Animation is the compiled intermediate representation: immutable
// value data produced once per compiled variant and reused across
// frames and playback sessions.
type Animation struct {
	Meta     Meta                   `json:"meta"`
	RootComp CompID                 `json:"rootComp"`
	Comps    map[CompID]*Composition `json:"comps"`
	Assets   map[AssetID]AssetInfo  `json:"assets"`
	Binding  *BindingDescriptor     `json:"binding,omitempty"`
}

// Root returns the root composition.
func (a *Animation) Root() *Composition {
	return a.Comps[a.RootComp]
}
