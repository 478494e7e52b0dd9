// =============================================================================
// Sales Summary Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand is
// attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesrpt)
//   ├── runCmd       (salesrpt run)
//   ├── checkCmd     (salesrpt check)
//   ├── endpointsCmd (salesrpt endpoints)
//   └── versionCmd   (salesrpt version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the YAML configuration (--config)
//   2. Loads database credentials from the .env file (--env-file)
//   3. Sets up logging (log_level, or debug with --verbose)
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/ginjaninja78/sales-summary-report/internal/config"
	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
var cfgFile string

// envFile holds the path to the .env file with database credentials.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// Loaded by the root command before any subcommand runs.
var (
	appFs       = afero.NewOsFs()
	mainConfig  *config.MainConfig
	credentials types.Credentials
	logger      = logrus.New()
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesrpt",
	Short: "Sales Summary Report - per-site sales summaries from store databases",
	Long: `Sales Summary Report connects to the database of every retail site in a
list, reads its sales, collections and partner-program figures for a date
range, and writes one fixed-width text report per site into a zip archive.

Sites are processed concurrently. A site that cannot be reached or queried is
listed under "Failed Sites:" and does not stop the others.

Example Usage:
  salesrpt run --file sites.xlsx --from 2024-01-01 --to 2024-01-31
  salesrpt run --site 13100 --from 2024-01-01 --to 2024-01-01 --policy 28
  salesrpt check --site 13100
  salesrpt endpoints 13100 20107`,

	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initEnvironment(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"salesrpt.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"Path to a .env file with SALESRPT_DB_* credentials",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initEnvironment loads configuration and credentials and configures the
// logger. The default config file may be absent; an explicit one may not.
func initEnvironment(cmd *cobra.Command) error {
	optional := !cmd.Flags().Changed("config")

	cfg, err := config.LoadMainConfig(appFs, cfgFile, optional)
	if err != nil {
		return fmt.Errorf("failed to load main config: %w", err)
	}
	mainConfig = cfg

	creds, err := config.LoadCredentials(envFile)
	if err != nil {
		return err
	}
	credentials = creds

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	if verbose {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	logger.WithFields(logrus.Fields{
		"config": cfgFile,
		"driver": cfg.Driver,
	}).Debug("configuration loaded")

	return nil
}
