// Package addons implements the add, update, rm and ls commands.
package addons

import (
	"os"

	"github.com/lni/dragonboat/v4/logger"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"
	"github.com/wowa-cli/wowa/cmd/util"
	"github.com/wowa-cli/wowa/lib/addon"
)

var plog = logger.GetLogger("cli")

// colorize renders colour tags only when stdout is a terminal.
var colorize = colorstring.Colorize{
	Colors:  colorstring.DefaultColors,
	Disable: !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()),
	Reset:   true,
}

func addVariantFlag(cmd *cobra.Command, def string) {
	cmd.Flags().StringP("variant", "v", def, util.WrapString("game variant (retail, classic)"))
}

func variantFlag(cmd *cobra.Command) (addon.Variant, error) {
	value, _ := cmd.Flags().GetString("variant")
	if value == "" {
		return "", nil
	}
	return addon.ParseVariant(value)
}

// statusColor returns the colour tag of a status.
func statusColor(status addon.Status) string {
	switch status {
	case addon.StatusInstalled:
		return "[green]"
	case addon.StatusUpdated, addon.StatusReinstalled:
		return "[cyan]"
	default:
		return "[dark_gray]"
	}
}
