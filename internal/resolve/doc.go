// Package resolve maps user-supplied experiment id patterns onto registry
// entries.
//
// A pattern may be empty, the literal "all", a prefix ending in "*", an exact
// id, or an unambiguous id prefix. IDs performs multi-target resolution for
// bulk operations such as stop; Single performs single-target resolution for
// everything else and never expands "all" or "*".
//
// Resolution is a pure function of the pattern and a registry snapshot.
// Failures are returned as *Error values that carry the candidate ids so the
// caller decides how to render them; each kind also matches a package
// sentinel through errors.Is.
package resolve
