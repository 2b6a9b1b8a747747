// Package experiments implements the operations expctl performs on registered
// experiments.
//
// Every operation first resolves a user supplied id pattern against the
// registry snapshot (see package resolve), then consults the experiment's
// settings, its REST server and the server process. Results are returned as
// plain values for the CLI to render. Operational failures are reported with
// the sentinels in errors.go so callers can map them to the messages users
// already know.
package experiments
