package anim

import "encoding/json"

// Layer type discriminators as used in the wire format.
const (
	LayerTypePrecomp = 0
	LayerTypeSolid   = 1
	LayerTypeImage   = 2
	LayerTypeNull    = 3
	LayerTypeShape   = 4
	LayerTypeText    = 5
)

// Matte mode discriminators ("tt" field on the consuming layer).
const (
	MatteNone          = 0
	MatteAlpha         = 1
	MatteAlphaInverted = 2
	MatteLuma          = 3
	MatteLumaInverted  = 4
)

// Document is the root of a parsed source animation.
type Document struct {
	Name      string   `json:"nm"`
	Version   string   `json:"v"`
	Width     int      `json:"w"`
	Height    int      `json:"h"`
	FrameRate float64  `json:"fr"`
	InPoint   float64  `json:"ip"`
	OutPoint  float64  `json:"op"`
	Is3D      int      `json:"ddd"`
	Layers    []*Layer `json:"layers"`
	Assets    []*Asset `json:"assets"`
}

// Decode parses a source animation document from raw JSON.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Asset is an entry of the document asset table: either an image
// reference (Path/FileName set) or a nested composition (Layers set).
type Asset struct {
	ID       string   `json:"id"`
	Width    int      `json:"w"`
	Height   int      `json:"h"`
	Path     string   `json:"u"`
	FileName string   `json:"p"`
	Layers   []*Layer `json:"layers"`
}

// IsComposition reports whether the asset is a nested composition.
func (a *Asset) IsComposition() bool {
	return len(a.Layers) > 0
}

// Layer is a single entry of a composition's layer list. The declared
// array index (Index) is semantically load-bearing: document order is
// paint order, and matte/parent references resolve against it.
type Layer struct {
	Index     int     `json:"ind"`
	Name      string  `json:"nm"`
	Type      int     `json:"ty"`
	Parent    *int    `json:"parent"`
	RefID     string  `json:"refId"`
	InPoint   float64 `json:"ip"`
	OutPoint  float64 `json:"op"`
	StartTime float64 `json:"st"`

	TimeStretch float64 `json:"sr"`
	Is3D        int     `json:"ddd"`
	AutoOrient  int     `json:"ao"`
	BlendMode   int     `json:"bm"`
	Collapse    int     `json:"cp"`
	Hidden      bool    `json:"hd"`

	// Matte wiring. MatteMode is set on the consumer, MatteSource on
	// the source, MatteTarget (when present) is the consumer's explicit
	// reference to the source layer's declared index.
	MatteMode   int  `json:"tt"`
	MatteSource int  `json:"td"`
	MatteTarget *int `json:"tp"`

	Transform Transform `json:"ks"`
	Masks     []*Mask   `json:"masksProperties"`
	Shapes    []*Shape  `json:"shapes"`
}

// HasMatteMode reports whether the layer consumes a track matte.
func (l *Layer) HasMatteMode() bool {
	return l.MatteMode != MatteNone
}

// Transform holds the animated transform tracks of a layer. Tracks
// are pointers so absent properties (nil) can fall back to their
// neutral defaults instead of zero.
type Transform struct {
	Anchor   *Vector `json:"a"`
	Position *Vector `json:"p"`
	Scale    *Vector `json:"s"`
	Rotation *Scalar `json:"r"`
	Opacity  *Scalar `json:"o"`
	Skew     *Scalar `json:"sk"`
	SkewAxis *Scalar `json:"sa"`
}

// HasSkew reports whether the transform declares a non-neutral skew.
func (t Transform) HasSkew() bool {
	return t.Skew != nil && (t.Skew.Animated || t.Skew.Value != 0)
}

// Mask is a single mask operation declared on a layer.
type Mask struct {
	Name      string       `json:"nm"`
	Mode      string       `json:"mode"`
	Inverted  bool         `json:"inv"`
	Opacity   *Scalar      `json:"o"`
	Path      PathProperty `json:"pt"`
	Expansion *Scalar      `json:"x"`
}

// Mask modes as used in the wire format.
const (
	MaskModeNone      = "n"
	MaskModeAdd       = "a"
	MaskModeSubtract  = "s"
	MaskModeIntersect = "i"
)
