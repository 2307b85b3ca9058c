package validate

// AssetResolver confirms the existence of referenced image assets
// without the validator knowing the storage mechanism (local package,
// shared bundle, or other).
type AssetResolver interface {
	// CanResolve reports whether the asset key can be resolved.
	CanResolve(key string) bool
	// Resolve returns the asset location for a key, or an error when
	// the key cannot be resolved.
	Resolve(key string) (string, error)
}

// Context supplies scene-level expectations for one validation pass.
type Context struct {
	// Ref names the animation block in locator strings.
	Ref string
	// FrameRate is the expected document frame rate. Zero disables the
	// check.
	FrameRate float64
	// Width and Height are the expected canvas size. Zero disables the
	// check.
	Width  int
	Height int
	// BindingKey is the declared name of the user-content binding
	// layer. Empty disables binding resolution.
	BindingKey string
	// Resolver confirms image asset existence. Nil disables the check.
	Resolver AssetResolver
}
