package ir

// RegistryBuilder assigns stable integer identifiers to unique path
// geometries during compilation. It is mutable and exclusively owned
// by the compiler for one compile call; Freeze converts it into an
// immutable PathRegistry consumed by rendering and caching.
//
// Registration is idempotent: identical geometry (after coordinate
// quantization) yields the same PathID, so switching between
// pre-compiled variants of one scene needs no identifier rebuild.
type RegistryBuilder struct {
	byKey  map[string]PathID
	paths  []Path
	nextID PathID
}

// NewRegistryBuilder creates an empty builder. The first assigned id
// is 1; the zero PathID stays reserved as "unset".
func NewRegistryBuilder() *RegistryBuilder {
	return &RegistryBuilder{
		byKey:  make(map[string]PathID),
		nextID: 1,
	}
}

// Register canonicalizes the geometry and returns its stable id,
// assigning a fresh one on first sight.
func (b *RegistryBuilder) Register(p Path) PathID {
	key := canonicalKey(p)
	if id, ok := b.byKey[key]; ok {
		return id
	}
	id := b.nextID
	b.nextID++
	b.byKey[key] = id
	b.paths = append(b.paths, p)
	return id
}

// Len returns the number of registered geometries.
func (b *RegistryBuilder) Len() int {
	return len(b.paths)
}

// Freeze converts the builder into an immutable PathRegistry.
// The builder must not be used afterwards.
func (b *RegistryBuilder) Freeze() *PathRegistry {
	paths := b.paths
	b.paths = nil
	b.byKey = nil
	return &PathRegistry{paths: paths}
}

// PathRegistry is the frozen scene-scoped table mapping PathIDs to
// geometries. It is read-only and safe for concurrent use; no
// identifier registration happens at render or playback time.
type PathRegistry struct {
	paths []Path
}

// Lookup returns the geometry for an id. The second return value is
// false for unknown ids (including the reserved zero id).
func (r *PathRegistry) Lookup(id PathID) (Path, bool) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(r.paths) {
		return Path{}, false
	}
	return r.paths[idx], true
}

// Len returns the number of registered geometries.
func (r *PathRegistry) Len() int {
	return len(r.paths)
}

// Snapshot returns the registry contents in id order for persistence.
func (r *PathRegistry) Snapshot() []Path {
	out := make([]Path, len(r.paths))
	copy(out, r.paths)
	return out
}

// RegistryFromSnapshot rebuilds a frozen registry from persisted
// contents. Ids are re-derived from slice order (first entry is id 1).
func RegistryFromSnapshot(paths []Path) *PathRegistry {
	out := make([]Path, len(paths))
	copy(out, paths)
	return &PathRegistry{paths: out}
}
