// =============================================================================
// Sales Summary Report - Version Command
// =============================================================================
//
// This file defines the 'version' command.
//
// COMMAND USAGE:
//   salesrpt version               # 1.0.0
//   salesrpt version --build-info  # 1.0.0+<commit>
//
// =============================================================================

package cmd

import (
	"fmt"
	"runtime"

	"github.com/maloquacious/semver"
	"github.com/spf13/cobra"
)

// version is the application version. Build is the VCS commit embedded by
// the Go toolchain.
var version = semver.Version{
	Major: 1,
	Minor: 0,
	Patch: 0,
	Build: semver.Commit(),
}

// Version returns the application version.
func Version() semver.Version {
	return version
}

// showBuildInfo prints the full version with build metadata.
var showBuildInfo bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display the application version",
	Long:  `Display the application version and Go runtime version.`,

	// Version needs no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },

	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		if showBuildInfo {
			fmt.Fprintln(out, Version().String())
			fmt.Fprintf(out, "Go Version: %s\n", runtime.Version())
			return
		}
		fmt.Fprintln(out, Version().Core())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&showBuildInfo, "build-info", false, "Show build information")
}
