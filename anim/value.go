package anim

import "encoding/json"

// Keyframe is a single keyframe of an animated property.
// Start holds the value at Time; End, when present, holds the value
// the property interpolates towards (older documents; newer documents
// rely on the next keyframe's Start instead).
type Keyframe struct {
	Time  float64
	Start []float64
	End   []float64
	Hold  bool
}

// rawKeyframe mirrors the wire layout of a keyframe.
type rawKeyframe struct {
	Time  float64         `json:"t"`
	Start json.RawMessage `json:"s"`
	End   json.RawMessage `json:"e"`
	Hold  int             `json:"h"`
}

func (k *rawKeyframe) toKeyframe() (Keyframe, error) {
	out := Keyframe{Time: k.Time, Hold: k.Hold != 0}
	var err error
	if out.Start, err = decodeFloats(k.Start); err != nil {
		return out, err
	}
	if out.End, err = decodeFloats(k.End); err != nil {
		return out, err
	}
	return out, nil
}

// decodeFloats accepts a number, an array of numbers, or null.
func decodeFloats(raw json.RawMessage) ([]float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '[' {
		var vals []float64
		if err := json.Unmarshal(raw, &vals); err != nil {
			return nil, err
		}
		return vals, nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return []float64{v}, nil
}

// rawProperty mirrors the polymorphic animated-property envelope.
type rawProperty struct {
	Animated int             `json:"a"`
	K        json.RawMessage `json:"k"`
}

// Scalar is a one-dimensional animated property.
type Scalar struct {
	Animated  bool
	Value     float64
	Keyframes []Keyframe
}

// UnmarshalJSON decodes both the static ("a":0) and keyframed ("a":1)
// forms. A static value may be a bare number or a one-element array.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	var raw rawProperty
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Animated != 0 {
		s.Animated = true
		kfs, err := decodeKeyframes(raw.K)
		if err != nil {
			return err
		}
		s.Keyframes = kfs
		if len(kfs) > 0 && len(kfs[0].Start) > 0 {
			s.Value = kfs[0].Start[0]
		}
		return nil
	}
	vals, err := decodeFloats(raw.K)
	if err != nil {
		return err
	}
	if len(vals) > 0 {
		s.Value = vals[0]
	}
	return nil
}

// Vector is a multi-dimensional animated property (position, scale,
// anchor). Static values hold the component array directly.
type Vector struct {
	Animated  bool
	Value     []float64
	Keyframes []Keyframe
}

// UnmarshalJSON decodes both the static and keyframed vector forms.
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw rawProperty
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Animated != 0 {
		v.Animated = true
		kfs, err := decodeKeyframes(raw.K)
		if err != nil {
			return err
		}
		v.Keyframes = kfs
		if len(kfs) > 0 {
			v.Value = kfs[0].Start
		}
		return nil
	}
	vals, err := decodeFloats(raw.K)
	if err != nil {
		return err
	}
	v.Value = vals
	return nil
}

func decodeKeyframes(raw json.RawMessage) ([]Keyframe, error) {
	var rawKfs []rawKeyframe
	if err := json.Unmarshal(raw, &rawKfs); err != nil {
		return nil, err
	}
	kfs := make([]Keyframe, 0, len(rawKfs))
	for i := range rawKfs {
		kf, err := rawKfs[i].toKeyframe()
		if err != nil {
			return nil, err
		}
		kfs = append(kfs, kf)
	}
	return kfs, nil
}

// Bezier is a closed or open cubic bezier contour: per-vertex position
// plus incoming and outgoing tangent offsets relative to the vertex.
type Bezier struct {
	Closed      bool        `json:"c"`
	Vertices    [][]float64 `json:"v"`
	InTangents  [][]float64 `json:"i"`
	OutTangents [][]float64 `json:"o"`
}

// PathProperty is an animated bezier path property. Only static paths
// are supported by the compiler; the keyframe count is retained so the
// validator can reject animated path topology.
type PathProperty struct {
	Animated      bool
	Shape         Bezier
	KeyframeCount int
}

// UnmarshalJSON decodes the static and keyframed path forms. For the
// keyframed form, the first keyframe's shape is retained.
func (p *PathProperty) UnmarshalJSON(data []byte) error {
	var raw rawProperty
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Animated == 0 {
		return json.Unmarshal(raw.K, &p.Shape)
	}
	p.Animated = true
	var kfs []struct {
		Start []Bezier `json:"s"`
	}
	if err := json.Unmarshal(raw.K, &kfs); err != nil {
		return err
	}
	p.KeyframeCount = len(kfs)
	if len(kfs) > 0 && len(kfs[0].Start) > 0 {
		p.Shape = kfs[0].Start[0]
	}
	return nil
}
