// Package cmd implements the command-line interface for the sdash dashboard
// backend. It provides a hierarchical command structure with operations for
// running the backend and administering the persisted user directory.
//
// The package is organized into several subpackages:
//
//   - serve: Commands for starting and configuring the backend
//   - user: Commands for user directory administration (add, remove, list)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See sdash -help for a list of all commands.
package cmd
