// =============================================================================
// Sales Summary Report - Configuration Module
// =============================================================================
//
// This module handles loading and validating the configuration of the report
// tool.
//
// CONFIGURATION SOURCES:
//   1. salesrpt.yaml : database driver, routing policies, worker cap,
//                      timeouts, output location, report header, log level
//   2. .env / environment : database credentials (SALESRPT_DB_*), so the
//                      password never has to live in the YAML file
//   3. command-line flags : override both (applied in cmd/)
//
// A missing configuration file is only an error when it was asked for
// explicitly; otherwise the defaults below apply.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/resolver"
	"github.com/ginjaninja78/sales-summary-report/internal/types"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Environment variables holding the database credentials.
const (
	EnvDBUser     = "SALESRPT_DB_USER"
	EnvDBPassword = "SALESRPT_DB_PASSWORD"
	EnvDBName     = "SALESRPT_DB_NAME"
)

// =============================================================================
// MAIN CONFIGURATION
// =============================================================================

// MainConfig represents the main application configuration.
// It is loaded from the YAML file given with --config.
type MainConfig struct {
	// CompanyName is centered at the top of every report.
	// Default: "APOLLO PHARMACIES LIMITED"
	CompanyName string `yaml:"company_name"`

	// ReportTitle is centered below the site line.
	// Default: "Sales Transaction Summary Report"
	ReportTitle string `yaml:"report_title"`

	// Driver selects the database driver: "sqlserver" or "sqlite".
	// With sqlite the endpoint is a database file path.
	// Default: "sqlserver"
	Driver string `yaml:"driver"`

	// RoutingPolicies maps a policy name to the network prefixes a site
	// fragment is appended to. Every prefix is one candidate endpoint.
	// Default: {"16": ["10.16."], "28": ["10.28."]}
	RoutingPolicies map[string][]string `yaml:"routing_policies"`

	// DefaultPolicy is used when --policy is not given.
	// Default: "16"
	DefaultPolicy string `yaml:"default_policy"`

	// MaxWorkers caps the number of sites processed concurrently.
	// Default: 10
	MaxWorkers int `yaml:"max_workers"`

	// ConnectTimeout bounds every connection attempt.
	// Default: 15s
	ConnectTimeout time.Duration `yaml:"connect_timeout"`

	// QueryTimeout bounds the queries of one site.
	// Default: 5m
	QueryTimeout time.Duration `yaml:"query_timeout"`

	// OutputDir is where the report archive is written. A leading "~" is
	// expanded to the home directory.
	// Default: "~/Downloads"
	OutputDir string `yaml:"output_dir"`

	// ArchiveName is the base name of the archive, without extension.
	// Default: "SiteReports"
	ArchiveName string `yaml:"archive_name"`

	// LogLevel is the logrus level name.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	Queries QueryFiles `yaml:"queries"`
}

// QueryFiles optionally replaces the built-in SQL with file contents.
type QueryFiles struct {
	SiteNameFile string `yaml:"site_name_file"`
	SummaryFile  string `yaml:"summary_file"`
}

// =============================================================================
// LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *MainConfig {
	config := &MainConfig{}
	applyMainConfigDefaults(config)
	return config
}

// LoadMainConfig loads the main configuration from a YAML file.
// When optional is true a missing file yields the defaults.
func LoadMainConfig(fs afero.Fs, configPath string, optional bool) (*MainConfig, error) {
	data, err := afero.ReadFile(fs, configPath)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config MainConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyMainConfigDefaults(&config)

	if err := validateMainConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyMainConfigDefaults sets default values for unset configuration options.
func applyMainConfigDefaults(config *MainConfig) {
	if config.CompanyName == "" {
		config.CompanyName = "APOLLO PHARMACIES LIMITED"
	}
	if config.ReportTitle == "" {
		config.ReportTitle = "Sales Transaction Summary Report"
	}
	if config.Driver == "" {
		config.Driver = resolver.DriverSQLServer
	}
	if len(config.RoutingPolicies) == 0 {
		config.RoutingPolicies = resolver.DefaultPolicies()
	}
	if config.DefaultPolicy == "" {
		config.DefaultPolicy = "16"
	}
	if config.MaxWorkers == 0 {
		config.MaxWorkers = 10
	}
	if config.ConnectTimeout == 0 {
		config.ConnectTimeout = 15 * time.Second
	}
	if config.QueryTimeout == 0 {
		config.QueryTimeout = 5 * time.Minute
	}
	if config.OutputDir == "" {
		config.OutputDir = "~/Downloads"
	}
	config.OutputDir = expandHome(config.OutputDir)
	if config.ArchiveName == "" {
		config.ArchiveName = "SiteReports"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
}

// validateMainConfig validates the main configuration.
func validateMainConfig(config *MainConfig) error {
	var errs []error

	switch config.Driver {
	case resolver.DriverSQLServer, resolver.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("driver %q is not supported (use %s or %s)", config.Driver, resolver.DriverSQLServer, resolver.DriverSQLite))
	}

	if _, ok := config.RoutingPolicies[config.DefaultPolicy]; !ok {
		errs = append(errs, fmt.Errorf("default_policy %q is not one of routing_policies", config.DefaultPolicy))
	}
	for name, prefixes := range config.RoutingPolicies {
		if len(prefixes) == 0 {
			errs = append(errs, fmt.Errorf("routing policy %q has no prefixes", name))
		}
	}

	if config.MaxWorkers < 0 {
		errs = append(errs, fmt.Errorf("max_workers must be positive, got %d", config.MaxWorkers))
	}
	if config.ConnectTimeout < 0 || config.QueryTimeout < 0 {
		errs = append(errs, errors.New("timeouts must not be negative"))
	}

	if strings.ContainsAny(config.ArchiveName, `/\`) {
		errs = append(errs, fmt.Errorf("archive_name %q must not contain path separators", config.ArchiveName))
	}

	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// expandHome replaces a leading "~" with the user's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// =============================================================================
// CREDENTIALS
// =============================================================================

// LoadCredentials reads the database credentials from the environment after
// loading envFile into it. Variables already set in the environment win over
// the file. A missing envFile is not an error.
func LoadCredentials(envFile string) (types.Credentials, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return types.Credentials{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	return types.Credentials{
		Username: os.Getenv(EnvDBUser),
		Password: os.Getenv(EnvDBPassword),
		Database: os.Getenv(EnvDBName),
	}, nil
}
