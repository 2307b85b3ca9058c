// Package anim models the source animation document: a declarative 2D
// vector-animation JSON format as produced by the authoring tool.
//
// The model is a faithful, read-only mirror of the wire format. It
// performs no validation beyond structural JSON decoding; feature
// support is checked by the validate package and semantic resolution
// happens in the compile package.
//
// Animated properties use a polymorphic encoding: a property is either
// a static value ("a":0) or a list of keyframes ("a":1). The Scalar,
// Vector and PathProperty types decode both forms.
package anim
