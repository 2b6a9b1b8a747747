// Package logs reads the stdout and stderr files an experiment's REST server
// writes under its home directory.
//
// Head and Tail return bounded slices of a file with the byte offset reached,
// and Follow streams lines appended after that offset until the context is
// cancelled. Follow is driven by fsnotify and degrades to polling when no
// watcher can be created. A missing file is reported as ErrNoLog so callers
// can render the placeholder the CLI has always printed.
package logs
