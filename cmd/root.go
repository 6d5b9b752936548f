package cmd

import (
	"fmt"
	"os"

	"github.com/VictoriaMetrics/metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wowa-cli/wowa/cmd/addons"
	"github.com/wowa-cli/wowa/cmd/config"
	"github.com/wowa-cli/wowa/cmd/kv"
	"github.com/wowa-cli/wowa/cmd/selfupdate"
	"github.com/wowa-cli/wowa/cmd/util"
	"github.com/wowa-cli/wowa/lib/common"
)

const (
	Version = "2.0.0"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "wowa",
		Short: "World of Warcraft addon manager",
		Long: fmt.Sprintf(`wowa (v%s)

Installs and updates World of Warcraft addons from CurseForge and GitHub
and keeps track of them in a single local file.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return common.InitLoggers(viper.GetString("log-level"))
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if viper.GetBool("metrics") {
				metrics.WritePrometheus(os.Stderr, false)
			}
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of wowa",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wowa v%s\n", Version)
		},
	}
)

func init() {
	cobra.OnInitialize(util.InitConfig)

	// Add Commands
	RootCmd.AddCommand(addons.AddCmd)
	RootCmd.AddCommand(addons.UpdateCmd)
	RootCmd.AddCommand(addons.RemoveCmd)
	RootCmd.AddCommand(addons.ListCmd)
	RootCmd.AddCommand(config.ConfigCommands)
	RootCmd.AddCommand(kv.KeyValueCommands)
	RootCmd.AddCommand(selfupdate.NewCommand(Version))
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "store"
	RootCmd.PersistentFlags().String(key, "", util.WrapString(fmt.Sprintf("path of the store file (default %s)", util.DefaultStorePath())))
	key = "game-dir"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("World of Warcraft installation directory, overrides the game.dir setting"))
	key = "curse-token"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("CurseForge API token, overrides the curse.token setting"))
	key = "github-token"
	RootCmd.PersistentFlags().String(key, "", util.WrapString("GitHub API token, overrides the github.token setting"))
	key = "concurrency"
	RootCmd.PersistentFlags().Int(key, 4, util.WrapString("how many addons are updated at once"))
	key = "log-level"
	RootCmd.PersistentFlags().String(key, "warn", util.WrapString("log level (debug, info, warn, error)"))
	key = "metrics"
	RootCmd.PersistentFlags().Bool(key, false, util.WrapString("print metrics in Prometheus text format to stderr when the command is done"))

	_ = viper.BindPFlags(RootCmd.PersistentFlags())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
