package addons

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/wowa-cli/wowa/cmd/util"
	"github.com/wowa-cli/wowa/lib/addon"
)

var (
	// AddCmd installs addons
	AddCmd = &cobra.Command{
		Use:     "add [identifier...]",
		Aliases: []string{"install"},
		Short:   "Installs addons by CurseForge slug or URL, or GitHub repository",
		Example: `  wowa add details
  wowa add https://www.curseforge.com/wow/addons/deadly-boss-mods
  wowa add gh:WeakAuras/WeakAuras2 -v classic`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := variantFlag(cmd)
			if err != nil {
				return err
			}
			deps, err := util.Open()
			if err != nil {
				return err
			}

			var result *multierror.Error
			for _, identifier := range args {
				res, err := deps.Manager.Install(cmd.Context(), identifier, variant)
				if err != nil {
					fmt.Println(colorize.Color(fmt.Sprintf("[red]failed[reset]  %s: %v", identifier, err)))
					result = multierror.Append(result, err)
					continue
				}
				printResult(res)
			}
			return result.ErrorOrNil()
		},
	}

	// UpdateCmd updates every installed addon
	UpdateCmd = &cobra.Command{
		Use:     "update",
		Aliases: []string{"up"},
		Short:   "Updates all installed addons",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := util.Open()
			if err != nil {
				return err
			}

			events, err := deps.Manager.UpdateAll(cmd.Context())
			if err != nil {
				return err
			}

			var result *multierror.Error
			for ev := range events {
				switch ev.Phase {
				case addon.PhaseDone:
					printResult(ev.Result)
				case addon.PhaseFailed:
					fmt.Println(colorize.Color(fmt.Sprintf("[red]failed[reset]  %s (%s): %v", ev.PackageID, ev.Variant, ev.Err)))
					result = multierror.Append(result, fmt.Errorf("%s (%s): %w", ev.PackageID, ev.Variant, ev.Err))
				default:
					plog.Debugf("%s (%s): %s", ev.PackageID, ev.Variant, ev.Phase)
				}
			}
			return result.ErrorOrNil()
		},
	}

	// RemoveCmd removes installed addons
	RemoveCmd = &cobra.Command{
		Use:     "rm [id...]",
		Aliases: []string{"remove"},
		Short:   "Removes installed addons and their directories",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := variantFlag(cmd)
			if err != nil {
				return err
			}
			deps, err := util.Open()
			if err != nil {
				return err
			}

			for _, id := range args {
				removed, found, err := deps.Manager.Remove(cmd.Context(), id, variant)
				if err != nil {
					return err
				}
				if !found {
					fmt.Println(colorize.Color(fmt.Sprintf("[yellow]not installed[reset] %s (%s)", id, variant)))
					continue
				}
				fmt.Println(colorize.Color(fmt.Sprintf("[green]removed[reset] %s", removed)))
			}
			return nil
		},
	}

	// ListCmd lists installed addons
	ListCmd = &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Lists installed addons",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			variant, err := variantFlag(cmd)
			if err != nil {
				return err
			}
			deps, err := util.Open()
			if err != nil {
				return err
			}

			records, err := deps.Manager.List(variant)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tVARIANT\tVERSION\tPROVIDER\tDIRECTORIES\tUPDATED")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.Variant, r.VersionLabel, r.Provider.Name,
					strings.Join(r.DirectoryNames(), ","), r.UpdatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}
)

func init() {
	addVariantFlag(AddCmd, string(addon.Retail))
	addVariantFlag(RemoveCmd, string(addon.Retail))
	addVariantFlag(ListCmd, "")
}

func printResult(res addon.Result) {
	fmt.Println(colorize.Color(fmt.Sprintf("%s%s[reset] %s", statusColor(res.Status), res.Status, res.Record)))
}
