// Package main hosts the expctl CLI entrypoint and command graph.
//
// The Cobra command tree resolves experiment ids against the local registry,
// calls the experiment's REST server and renders the result. Configuration
// loading, registry access and logger setup live in commandContext so
// subcommands only deal with presentation.
//
// Behaviour belongs in internal/experiments; commands here should stay thin.
package main
