// Package cmd implements the command-line interface of wowa, an addon
// manager for World of Warcraft.
//
// The package is organized into several subpackages:
//
//   - addons: Commands to add, update, remove and list addons
//   - config: Commands to read and write persisted settings
//   - kv: Commands to inspect the raw store (get, ls, del)
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See wowa -help for a list of all commands.
package cmd
