// Package registry persists the set of known experiments in SQLite.
//
// Each experiment is keyed by its identifier and records the port its REST
// server was registered under plus a human-readable start time. A companion
// settings row, keyed by port, carries what the launcher recorded about the
// REST server process: the port it listens on, its pid, the web UI URLs, and
// the experiment configuration it was started with.
//
// The CLI treats the registry as a snapshot source: commands load All once per
// invocation and resolve ids against that map. Concurrent writers (another
// expctl stopping an experiment) are tolerated; readers see whatever was last
// committed. Schema changes bump schemaVersion in schema.go.
package registry
