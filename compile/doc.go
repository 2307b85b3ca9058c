// Package compile turns a validated source document into the compiled
// intermediate representation: a directed layer graph per composition,
// resolved track-matte bindings (explicit, legacy-adjacent, and
// chained), registered path geometries, and the binding descriptor
// identifying the user-content replacement point.
//
// Parent references are recorded but deliberately not resolved here;
// parent layers may be defined later in document order, so chain
// walking happens at render time against a per-composition table.
//
// Matte resolution follows a two-branch policy. A layer declaring an
// explicit matte target resolves it by declared index within the same
// composition; the target must exist and must strictly precede the
// consumer. Referencing a target promotes it to matte-source status
// even without its own source flag (an implicit source). A layer
// flagged as matte consumer without an explicit target falls back to
// legacy adjacency: the immediately preceding layer binds only if it
// is explicitly flagged as a source, and no implicit promotion happens
// on that path. Chains are not flattened — each layer keeps its own
// binding and the renderer recurses.
package compile
