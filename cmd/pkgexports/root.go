package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for pkgexports.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pkgexports",
		Short: "Report the public exports of a JavaScript package",
		Long: `pkgexports inspects the entry points a JavaScript package publishes through
the "exports" field of its package.json. Each entry is imported with node and
every named export is reported together with its type (function, object,
string, ...).

Reports are stored in a local snapshot database so that the export surface of
two releases can be compared with 'pkgexports compare'.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON instead of text")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewCompareCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
