package render

import "fmt"

// Issue codes for render-time degradation.
const (
	// CodeParentCycle marks a cyclic parent chain.
	CodeParentCycle = "PARENT_CYCLE"
	// CodeParentNotFound marks a parent id with no layer in the
	// composition.
	CodeParentNotFound = "PARENT_NOT_FOUND"
	// CodePrecompCycle marks a composition re-entered on the active
	// recursion path.
	CodePrecompCycle = "PRECOMP_CYCLE"
	// CodePrecompAssetNotFound marks a reference to a composition id
	// absent from the animation.
	CodePrecompAssetNotFound = "PRECOMP_ASSET_NOT_FOUND"
	// CodeMatteSourceNotFound marks a matte binding whose source layer
	// is absent from the composition.
	CodeMatteSourceNotFound = "MATTE_SOURCE_NOT_FOUND"
)

// Issue records one recoverable render-time failure. The affected
// subtree contributes no drawing output; the rest of the frame renders
// normally. The caller decides whether to log, alert, or ignore.
type Issue struct {
	// Code is the stable machine-readable issue code.
	Code string
	// Path locates the offending layer, e.g. "comp(root).layer(spin)".
	Path string
	// Message is a human-readable description.
	Message string
	// FrameIndex is the frame being rendered when the issue occurred.
	FrameIndex int
}

// String formats the issue for logs.
func (i Issue) String() string {
	return fmt.Sprintf("%s at %s (frame %d): %s", i.Code, i.Path, i.FrameIndex, i.Message)
}
