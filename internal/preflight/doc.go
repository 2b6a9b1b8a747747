// Package preflight provides readiness checks for the paths and registry
// expctl depends on.
//
// `expctl config validate` runs RunAll and prints one status line per check.
// Checks never fail hard; each returns a Result with a human readable detail.
package preflight
