// Package validate checks a parsed source animation against the
// enumerated feature allow-list of the compiler.
//
// The validator never stops at the first bad feature: it scans the
// whole document and collects one typed Issue per violation, each with
// a stable code and a path-like locator string such as
// "anim(frame01).layers[2].shapes[0].ty". Compilation must not proceed
// while error-severity issues exist; warnings are advisory.
//
// Asset presence is checked through the injected AssetResolver so the
// validator stays agnostic of the storage mechanism.
package validate
