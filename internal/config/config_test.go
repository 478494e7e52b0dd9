package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/sales-summary-report/internal/config"
	"github.com/spf13/afero"
)

func TestLoadMainConfig_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	fs := afero.NewMemMapFs()

	cfg, err := config.LoadMainConfig(fs, "salesrpt.yaml", true)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}

	if cfg.Driver != "sqlserver" || cfg.DefaultPolicy != "16" || cfg.MaxWorkers != 10 {
		t.Errorf("defaults: got driver %q policy %q workers %d", cfg.Driver, cfg.DefaultPolicy, cfg.MaxWorkers)
	}
	if cfg.ConnectTimeout != 15*time.Second || cfg.QueryTimeout != 5*time.Minute {
		t.Errorf("timeouts: got %v / %v", cfg.ConnectTimeout, cfg.QueryTimeout)
	}
	if got := cfg.RoutingPolicies["28"]; len(got) != 1 || got[0] != "10.28." {
		t.Errorf("policy 28: got %v", got)
	}
	if cfg.ArchiveName != "SiteReports" || cfg.CompanyName != "APOLLO PHARMACIES LIMITED" {
		t.Errorf("archive/company: got %q / %q", cfg.ArchiveName, cfg.CompanyName)
	}
	if strings.HasPrefix(cfg.OutputDir, "~") || filepath.Base(cfg.OutputDir) != "Downloads" {
		t.Errorf("output dir: got %q", cfg.OutputDir)
	}
}

func TestLoadMainConfig_MissingRequiredFile(t *testing.T) {
	if _, err := config.LoadMainConfig(afero.NewMemMapFs(), "custom.yaml", false); err == nil {
		t.Fatalf("want error for a missing explicit config file")
	}
}

func TestLoadMainConfig_FromYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	yaml := `
company_name: ACME RETAIL
driver: sqlite
routing_policies:
  dual: ["10.16.", "10.28."]
default_policy: dual
max_workers: 4
connect_timeout: 3s
query_timeout: 90s
output_dir: /srv/reports
archive_name: Monthly
log_level: debug
queries:
  summary_file: /etc/salesrpt/summary.sql
`
	if err := afero.WriteFile(fs, "/etc/salesrpt.yaml", []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := config.LoadMainConfig(fs, "/etc/salesrpt.yaml", false)
	if err != nil {
		t.Fatalf("LoadMainConfig: %v", err)
	}

	if cfg.CompanyName != "ACME RETAIL" || cfg.Driver != "sqlite" || cfg.DefaultPolicy != "dual" {
		t.Errorf("got %+v", cfg)
	}
	if got := cfg.RoutingPolicies["dual"]; len(got) != 2 {
		t.Errorf("dual policy: got %v", got)
	}
	if _, ok := cfg.RoutingPolicies["16"]; ok {
		t.Errorf("configured policies replace the defaults")
	}
	if cfg.MaxWorkers != 4 || cfg.ConnectTimeout != 3*time.Second || cfg.QueryTimeout != 90*time.Second {
		t.Errorf("workers/timeouts: got %d %v %v", cfg.MaxWorkers, cfg.ConnectTimeout, cfg.QueryTimeout)
	}
	if cfg.OutputDir != "/srv/reports" || cfg.ArchiveName != "Monthly" || cfg.LogLevel != "debug" {
		t.Errorf("output: got %q %q %q", cfg.OutputDir, cfg.ArchiveName, cfg.LogLevel)
	}
	if cfg.Queries.SummaryFile != "/etc/salesrpt/summary.sql" || cfg.Queries.SiteNameFile != "" {
		t.Errorf("queries: got %+v", cfg.Queries)
	}
	if cfg.ReportTitle != "Sales Transaction Summary Report" {
		t.Errorf("report title default: got %q", cfg.ReportTitle)
	}
}

func TestLoadMainConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"driver", "driver: oracle\n", "driver"},
		{"default policy", "default_policy: \"42\"\n", "default_policy"},
		{"empty policy", "routing_policies:\n  \"16\": []\n", "no prefixes"},
		{"workers", "max_workers: -1\n", "max_workers"},
		{"archive name", "archive_name: out/SiteReports\n", "archive_name"},
		{"log level", "log_level: loud\n", "loud"},
		{"yaml", "max_workers: [\n", "parse"},
	}
	for _, tt := range tests {
		fs := afero.NewMemMapFs()
		_ = afero.WriteFile(fs, "c.yaml", []byte(tt.yaml), 0o644)

		_, err := config.LoadMainConfig(fs, "c.yaml", false)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s: want error containing %q, got %v", tt.name, tt.want, err)
		}
	}
}

func TestLoadCredentials(t *testing.T) {
	// godotenv never overrides a variable that exists, even when empty
	for _, key := range []string{config.EnvDBUser, config.EnvDBPassword} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv(config.EnvDBName, "from-environment")

	envFile := filepath.Join(t.TempDir(), ".env")
	content := config.EnvDBUser + "=report\n" + config.EnvDBPassword + "=s3cret\n" + config.EnvDBName + "=from-file\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	creds, err := config.LoadCredentials(envFile)
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if creds.Username != "report" || creds.Password != "s3cret" {
		t.Errorf("credentials from file: got %+v", creds)
	}
	if creds.Database != "from-environment" {
		t.Errorf("environment must win over the file: got %q", creds.Database)
	}
}

func TestLoadCredentials_MissingEnvFile(t *testing.T) {
	t.Setenv(config.EnvDBUser, "env-user")

	creds, err := config.LoadCredentials(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("LoadCredentials: %v", err)
	}
	if creds.Username != "env-user" {
		t.Errorf("username: got %q", creds.Username)
	}
}
