// Package config implements the commands that read and write persisted settings.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wowa-cli/wowa/cmd/util"
	libconfig "github.com/wowa-cli/wowa/lib/config"
)

var (
	// ConfigCommands represents the config command group
	ConfigCommands = &cobra.Command{
		Use:   "config",
		Short: "Reads and writes settings",
		Long: fmt.Sprintf(`Reads and writes settings persisted in the store.

Known settings: %v. Flags and WOWA_ environment variables
take precedence over persisted values.`, libconfig.Names),
	}

	getCmd = &cobra.Command{
		Use:   "get [name]",
		Short: "Prints one or all settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := util.Open()
			if err != nil {
				return err
			}

			if len(args) == 1 {
				value, found, err := deps.Config.Get(args[0])
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%s is not set", args[0])
				}
				fmt.Println(value)
				return nil
			}

			all, err := deps.Config.All()
			if err != nil {
				return err
			}
			for _, kv := range all {
				fmt.Printf("%s=%s\n", kv[0], kv[1])
			}
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [name] [value]",
		Short: "Persists a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := util.Open()
			if err != nil {
				return err
			}
			if err := deps.Config.Set(args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("set successfully")
			return nil
		},
	}
	unsetCmd = &cobra.Command{
		Use:   "unset [name]",
		Short: "Removes a persisted setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := util.Open()
			if err != nil {
				return err
			}
			if err := deps.Config.Unset(args[0]); err != nil {
				return err
			}
			fmt.Println("unset successfully")
			return nil
		},
	}
)

func init() {
	ConfigCommands.AddCommand(getCmd)
	ConfigCommands.AddCommand(setCmd)
	ConfigCommands.AddCommand(unsetCmd)
}
