// Package kv implements commands to inspect the raw store.
package kv

import (
	"github.com/spf13/cobra"
)

var (
	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:   "kv",
		Short: "Inspect the raw key-value store",
		Long: `Inspect the raw key-value store.

Keys are written as slash separated segments, e.g. packages/retail/details.`,
	}
)

func init() {
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(lsCmd)
	KeyValueCommands.AddCommand(delCmd)
}
