package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "localtaxdash/internal/errors"
)

// TestLoad tests LoadFrom with env vars and config files
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
				assert.Equal(t, []string{"http://localhost:8080"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "console", cfg.Logging.Output)

				assert.Equal(t, "data", cfg.Paths.DataDir)
				assert.Equal(t, DefaultSourceFile, cfg.Paths.SourceFile)

				assert.Equal(t, "시도별", cfg.Dashboard.EntityColumn)
				assert.Equal(t, []string{"합계"}, cfg.Dashboard.ExcludedEntities)
				assert.Equal(t, 500.0, cfg.Dashboard.MigrationThreshold)
				assert.Equal(t, "blues", cfg.Dashboard.DefaultTheme)
				assert.Equal(t, "NAME", cfg.Dashboard.BoundaryKey)

				assert.False(t, cfg.Telemetry.TracingEnabled)
				assert.True(t, cfg.Telemetry.MetricsEnabled)
			},
		},
		{
			name: "environment overrides",
			env: map[string]string{
				"TAXDASH_SERVER_PORT":                   "9090",
				"TAXDASH_DASHBOARD_MIGRATION_THRESHOLD": "1000",
				"TAXDASH_DASHBOARD_DEFAULT_THEME":       "viridis",
				"TAXDASH_SECURITY_ALLOWED_ORIGINS":      "http://a.example,http://b.example",
				"TAXDASH_LOGGING_OUTPUT":                "both",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 1000.0, cfg.Dashboard.MigrationThreshold)
				assert.Equal(t, "viridis", cfg.Dashboard.DefaultTheme)
				assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "both", cfg.Logging.Output)
			},
		},
		{
			name: "file values replace defaults",
			file: `
server:
  port: 7070
paths:
  source_file: /srv/tax.xlsx
dashboard:
  source_sheet: 시도별
  migration_threshold: 250
  excluded_entities: ["합계", "전국"]
telemetry:
  tracing_enabled: true
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "/srv/tax.xlsx", cfg.Paths.SourceFile)
				assert.Equal(t, "시도별", cfg.Dashboard.SourceSheet)
				assert.Equal(t, 250.0, cfg.Dashboard.MigrationThreshold)
				assert.Equal(t, []string{"합계", "전국"}, cfg.Dashboard.ExcludedEntities)
				assert.True(t, cfg.Telemetry.TracingEnabled)
			},
		},
		{
			name: "environment wins over file",
			env:  map[string]string{"TAXDASH_SERVER_PORT": "9191"},
			file: "server:\n  port: 7070\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9191, cfg.Server.Port)
			},
		},
		{
			name:    "invalid port",
			env:     map[string]string{"TAXDASH_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unknown theme",
			env:     map[string]string{"TAXDASH_DASHBOARD_DEFAULT_THEME": "jet"},
			wantErr: true,
		},
		{
			name:    "unknown category",
			env:     map[string]string{"TAXDASH_DASHBOARD_DEFAULT_CATEGORY": "population"},
			wantErr: true,
		},
		{
			name:    "negative threshold",
			env:     map[string]string{"TAXDASH_DASHBOARD_MIGRATION_THRESHOLD": "-1"},
			wantErr: true,
		},
		{
			name:    "bad trace exporter",
			env:     map[string]string{"TAXDASH_TELEMETRY_TRACE_EXPORTER": "jaeger"},
			wantErr: true,
		},
		{
			name:    "bad logging output",
			env:     map[string]string{"TAXDASH_LOGGING_OUTPUT": "syslog"},
			wantErr: true,
		},
		{
			name:    "malformed env value",
			env:     map[string]string{"TAXDASH_SERVER_PORT": "eighty"},
			wantErr: true,
		},
		{
			name:    "malformed file",
			file:    "server: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0644))
			}

			cfg, err := LoadFrom(path)
			if tt.wantErr {
				assert.True(t, apierrors.IsType(err, apierrors.ErrTypeConfig), "got %v", err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFileIsIgnored(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, DefaultMigrationThreshold, cfg.Dashboard.MigrationThreshold)
	assert.Equal(t, []string{DefaultTotalEntity}, cfg.Dashboard.ExcludedEntities)
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := Default()
	cfg.Security.RateLimit.RPS = 0
	assert.Error(t, cfg.validate())

	cfg.Security.RateLimit.Enabled = false
	assert.NoError(t, cfg.validate())
}

func TestValidate_CORSRequiresOrigins(t *testing.T) {
	cfg := Default()
	cfg.Security.AllowedOrigins = nil
	assert.Error(t, cfg.validate())

	cfg.Security.EnableCORS = false
	assert.NoError(t, cfg.validate())
}
