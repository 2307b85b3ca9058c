package anim

// Shape item type discriminators as used in the wire format.
const (
	ShapeGroup     = "gr"
	ShapePath      = "sh"
	ShapeRect      = "rc"
	ShapeEllipse   = "el"
	ShapeStar      = "sr"
	ShapeFill      = "fl"
	ShapeStroke    = "st"
	ShapeTransform = "tr"
	ShapeTrim      = "tm"
	ShapeRepeater  = "rp"
	ShapeMerge     = "mm"
	ShapeGradFill  = "gf"
	ShapeGradStrk  = "gs"
)

// Shape is a single item of a shape layer's content tree. The Type
// field selects which of the optional property groups is meaningful;
// unused groups decode to their zero values.
type Shape struct {
	Type   string `json:"ty"`
	Name   string `json:"nm"`
	Hidden bool   `json:"hd"`

	// Group contents ("gr").
	Items []*Shape `json:"it"`

	// Freeform path ("sh").
	Path PathProperty `json:"ks"`

	// Rectangle / ellipse geometry ("rc", "el").
	Position  Vector `json:"p"`
	Size      Vector `json:"s"`
	Roundness Scalar `json:"r"`

	// Star geometry ("sr"). Roundness doubles as the star rotation.
	Points      Scalar `json:"pt"`
	InnerRadius Scalar `json:"ir"`
	OuterRadius Scalar `json:"or"`

	// Fill and stroke style ("fl", "st").
	Color    Vector  `json:"c"`
	Opacity  *Scalar `json:"o"`
	Width    Scalar  `json:"w"`
	LineCap  int    `json:"lc"`
	LineJoin int    `json:"lj"`
	Dashes   []struct {
		Name  string `json:"n"`
		Value Scalar `json:"v"`
	} `json:"d"`

	// Group transform ("tr"): Position is "p", Size doubles as the
	// scale vector, Roundness doubles as the rotation, Opacity is "o".
	Anchor Vector `json:"a"`
	Skew   Scalar `json:"sk"`
}

// GroupRotation returns the rotation track of a group transform item.
// The wire format reuses the "r" key for rotation on transform items.
func (s *Shape) GroupRotation() Scalar {
	return s.Roundness
}

// GroupScale returns the scale vector of a group transform item, or
// nil when the item is not a transform.
func (s *Shape) GroupScale() []float64 {
	if s.Type != ShapeTransform {
		return nil
	}
	return s.Size.Value
}
