// Package cli implements ditiear's command-line surface: snapshot, diff,
// pack, apply, checkout, label, and config.
//
// Grounded on cli/cli.go's root-command wiring (a package-level
// rootCmd, a version flag, subcommands registered from init); each
// subcommand lives in its own file the way cli/status.go, cli/diff.go,
// and cli/config_cmd.go do it.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const ditiearVersion = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "ditiear",
	Short: "ditiear builds and applies content-addressed directory snapshots and patches",
	Long: `ditiear snapshots a directory tree into a content-addressed store,
diffs two snapshots, and packages the difference as a compact patch
archive a client can apply to migrate from one snapshot to the other.`,
	Run: func(cmd *cobra.Command, args []string) {
		if version {
			fmt.Printf("ditiear version %s\n", ditiearVersion)
			os.Exit(0)
		}
		cmd.Help()
	},
}

var version bool

// Execute runs the root command; it is the single entry point called
// from cmd/ditiear/main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&version, "version", false, "print the ditiear version")

	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(labelCmd)
	labelCmd.AddCommand(labelSetCmd, labelListCmd, labelRemoveCmd)
	rootCmd.AddCommand(configCmd)
}
