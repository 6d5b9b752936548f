// Package selfupdate implements the self-update command.
package selfupdate

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/wowa-cli/wowa/cmd/util"
	"github.com/wowa-cli/wowa/lib/catalog/github"
	"github.com/wowa-cli/wowa/lib/config"
	"github.com/wowa-cli/wowa/lib/selfupdate"
)

// NewCommand returns the self-update command for a binary of version current.
func NewCommand(current string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "self-update",
		Aliases: []string{"su"},
		Short:   "Updates wowa to the latest release",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := util.Open()
			if err != nil {
				return err
			}
			token, err := deps.Settings.Lookup(config.GithubToken)
			if err != nil {
				return err
			}

			checkOnly, _ := cmd.Flags().GetBool("check")
			updater := selfupdate.New(github.New(token), current)
			if checkOnly {
				latest, newer, err := updater.Check(cmd.Context())
				if err != nil {
					return err
				}
				if newer {
					fmt.Printf("wowa %s is available (running v%s)\n", latest.TagName, current)
				} else {
					fmt.Printf("wowa v%s is up to date\n", current)
				}
				return nil
			}

			res, err := updater.Update(cmd.Context())
			if err != nil {
				return err
			}
			if res.Updated {
				fmt.Printf("updated wowa from v%s to %s\n", res.FromVersion, res.ToVersion)
			} else {
				fmt.Printf("wowa v%s is up to date\n", current)
			}
			return nil
		},
	}
	cmd.Flags().Bool("check", false, util.WrapString("only report whether a newer release exists"))
	return cmd
}
