// Package composite executes render command streams on the CPU.
//
// It has two halves. The structural half extracts nested mask and
// matte scopes from the linear command stream with depth tracking, so
// arbitrarily nested scopes resolve inner content before the enclosing
// scope composites it. The pixel half implements the compositing
// semantics: boolean mask coverage combination, matte factor
// application on premultiplied color, and source-over blending.
//
// Pixel steps carry no dependency between pixels and fan out across a
// worker pool by row. Mask ops within one layer stay sequential: each
// combine reads the previous accumulator.
//
// Rasterized mask coverage is cached by geometry id and transform, so
// static masks rasterize once per transform rather than once per frame.
package composite
