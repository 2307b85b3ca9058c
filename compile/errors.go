package compile

import (
	"fmt"

	"github.com/lumakit/luma/ir"
	"github.com/lumakit/luma/validate"
)

// ValidationError is returned when the subset validator reports
// error-severity issues. Compilation refuses to proceed but the full
// report is surfaced so every violation is visible in one pass.
type ValidationError struct {
	// Ref names the animation block.
	Ref string
	// Report is the complete validation report.
	Report *validate.Report
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("compile: anim(%s): validation failed with %d error(s)",
		e.Ref, len(e.Report.Errors()))
}

// MatteTargetNotFoundError is returned when a layer declares an
// explicit matte target index that no layer in the composition has.
type MatteTargetNotFoundError struct {
	Ref      string
	Comp     ir.CompID
	Consumer string
	Target   int
}

func (e *MatteTargetNotFoundError) Error() string {
	return fmt.Sprintf("compile: anim(%s) comp %q: matte consumer %q references missing target index %d",
		e.Ref, e.Comp, e.Consumer, e.Target)
}

// MatteOrderError is returned when a matte target does not strictly
// precede its consumer in document order.
type MatteOrderError struct {
	Ref           string
	Comp          ir.CompID
	Consumer      string
	TargetIndex   int
	ConsumerIndex int
}

func (e *MatteOrderError) Error() string {
	return fmt.Sprintf("compile: anim(%s) comp %q: matte source index %d must precede consumer %q at index %d",
		e.Ref, e.Comp, e.TargetIndex, e.Consumer, e.ConsumerIndex)
}

// BindingStructureError is returned when the user-content binding
// layer participates in matte or parenting relationships. The binding
// layer is substituted at render time and must stay structurally
// isolated.
type BindingStructureError struct {
	Ref    string
	Comp   ir.CompID
	Layer  string
	Reason string
}

func (e *BindingStructureError) Error() string {
	return fmt.Sprintf("compile: anim(%s) comp %q: binding layer %q %s",
		e.Ref, e.Comp, e.Layer, e.Reason)
}

// ToggleError is returned when a configured toggle names a layer that
// does not exist in the document.
type ToggleError struct {
	Ref    string
	Toggle string
	Layer  string
}

func (e *ToggleError) Error() string {
	return fmt.Sprintf("compile: anim(%s): toggle %q references missing layer %q",
		e.Ref, e.Toggle, e.Layer)
}
