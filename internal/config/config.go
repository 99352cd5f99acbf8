package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apierrors "localtaxdash/internal/errors"
	"localtaxdash/pkg/contracts/domain"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "TAXDASH"

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Dashboard DashboardConfig `yaml:"dashboard" envconfig:"DASHBOARD"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST" default:""`
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"30s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// PathsConfig contains file system paths configuration. Relative entries are
// resolved by ResolvePaths.
type PathsConfig struct {
	BaseDir      string `yaml:"base_dir" envconfig:"BASE_DIR"`
	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
	SourceFile   string `yaml:"source_file" envconfig:"SOURCE_FILE" default:"2023_시도별_지방세_구성비율_처리x.csv"`
	BoundaryFile string `yaml:"boundary_file" envconfig:"BOUNDARY_FILE" default:"시도 경계.json"`
	ExportDir    string `yaml:"export_dir" envconfig:"EXPORT_DIR" default:"exports"`
	LogsDir      string `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// DashboardConfig holds the dataset conventions and dashboard defaults.
type DashboardConfig struct {
	EntityColumn       string   `yaml:"entity_column" envconfig:"ENTITY_COLUMN" default:"시도별"`
	SourceSheet        string   `yaml:"source_sheet" envconfig:"SOURCE_SHEET"`
	ExcludedEntities   []string `yaml:"excluded_entities" envconfig:"EXCLUDED_ENTITIES" default:"합계"`
	BoundaryKey        string   `yaml:"boundary_key" envconfig:"BOUNDARY_KEY" default:"NAME"`
	MigrationThreshold float64  `yaml:"migration_threshold" envconfig:"MIGRATION_THRESHOLD" default:"500"`
	DefaultTheme       string   `yaml:"default_theme" envconfig:"DEFAULT_THEME" default:"blues"`
	DefaultCategory    string   `yaml:"default_category" envconfig:"DEFAULT_CATEGORY" default:"amount"`
	RequireBoundaries  bool     `yaml:"require_boundaries" envconfig:"REQUIRE_BOUNDARIES" default:"false"`
}

// TelemetryConfig controls tracing and metrics.
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"localtaxdash"`
	TracingEnabled bool    `yaml:"tracing_enabled" envconfig:"TRACING_ENABLED" default:"false"`
	MetricsEnabled bool    `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"stdout"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom loads configuration from environment variables and the given YAML
// file. An empty path skips the file. Environment values win.
func LoadFrom(configFile string) (*Config, error) {
	var cfg Config

	// Load from environment variables first
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apierrors.NewConfigError("failed to load config from env", err)
	}

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileConfig, err := loadFromFile(configFile)
			if err != nil {
				return nil, apierrors.NewConfigError("failed to load config from file", err).
					WithContext("file", configFile)
			}
			cfg = mergeConfigs(*fileConfig, cfg)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, apierrors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeConfigs merges file config with env config. A value set explicitly in
// the environment always wins; otherwise a value present in the file replaces
// the envconfig default.
func mergeConfigs(fileConfig, envConfig Config) Config {
	fromEnv := func(name string) bool {
		_, ok := os.LookupEnv(EnvPrefix + "_" + name)
		return ok
	}
	str := func(dst *string, src, name string) {
		if src != "" && !fromEnv(name) {
			*dst = src
		}
	}

	if fileConfig.Server.Port != 0 && !fromEnv("SERVER_PORT") {
		envConfig.Server.Port = fileConfig.Server.Port
	}
	str(&envConfig.Server.Host, fileConfig.Server.Host, "SERVER_HOST")
	if fileConfig.Server.ReadTimeout != 0 && !fromEnv("SERVER_READ_TIMEOUT") {
		envConfig.Server.ReadTimeout = fileConfig.Server.ReadTimeout
	}
	if fileConfig.Server.WriteTimeout != 0 && !fromEnv("SERVER_WRITE_TIMEOUT") {
		envConfig.Server.WriteTimeout = fileConfig.Server.WriteTimeout
	}
	if fileConfig.Server.ShutdownTimeout != 0 && !fromEnv("SERVER_SHUTDOWN_TIMEOUT") {
		envConfig.Server.ShutdownTimeout = fileConfig.Server.ShutdownTimeout
	}

	if len(fileConfig.Security.AllowedOrigins) > 0 && !fromEnv("SECURITY_ALLOWED_ORIGINS") {
		envConfig.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	if fileConfig.Security.RateLimit.RPS != 0 && !fromEnv("SECURITY_RATE_LIMIT_RPS") {
		envConfig.Security.RateLimit.RPS = fileConfig.Security.RateLimit.RPS
	}
	if fileConfig.Security.RateLimit.Burst != 0 && !fromEnv("SECURITY_RATE_LIMIT_BURST") {
		envConfig.Security.RateLimit.Burst = fileConfig.Security.RateLimit.Burst
	}

	str(&envConfig.Logging.Level, fileConfig.Logging.Level, "LOGGING_LEVEL")
	str(&envConfig.Logging.Output, fileConfig.Logging.Output, "LOGGING_OUTPUT")
	str(&envConfig.Logging.FilePath, fileConfig.Logging.FilePath, "LOGGING_FILE_PATH")

	str(&envConfig.Paths.BaseDir, fileConfig.Paths.BaseDir, "PATHS_BASE_DIR")
	str(&envConfig.Paths.DataDir, fileConfig.Paths.DataDir, "PATHS_DATA_DIR")
	str(&envConfig.Paths.SourceFile, fileConfig.Paths.SourceFile, "PATHS_SOURCE_FILE")
	str(&envConfig.Paths.BoundaryFile, fileConfig.Paths.BoundaryFile, "PATHS_BOUNDARY_FILE")
	str(&envConfig.Paths.ExportDir, fileConfig.Paths.ExportDir, "PATHS_EXPORT_DIR")
	str(&envConfig.Paths.LogsDir, fileConfig.Paths.LogsDir, "PATHS_LOGS_DIR")

	str(&envConfig.Dashboard.EntityColumn, fileConfig.Dashboard.EntityColumn, "DASHBOARD_ENTITY_COLUMN")
	str(&envConfig.Dashboard.SourceSheet, fileConfig.Dashboard.SourceSheet, "DASHBOARD_SOURCE_SHEET")
	if len(fileConfig.Dashboard.ExcludedEntities) > 0 && !fromEnv("DASHBOARD_EXCLUDED_ENTITIES") {
		envConfig.Dashboard.ExcludedEntities = fileConfig.Dashboard.ExcludedEntities
	}
	str(&envConfig.Dashboard.BoundaryKey, fileConfig.Dashboard.BoundaryKey, "DASHBOARD_BOUNDARY_KEY")
	if fileConfig.Dashboard.MigrationThreshold != 0 && !fromEnv("DASHBOARD_MIGRATION_THRESHOLD") {
		envConfig.Dashboard.MigrationThreshold = fileConfig.Dashboard.MigrationThreshold
	}
	str(&envConfig.Dashboard.DefaultTheme, fileConfig.Dashboard.DefaultTheme, "DASHBOARD_DEFAULT_THEME")
	str(&envConfig.Dashboard.DefaultCategory, fileConfig.Dashboard.DefaultCategory, "DASHBOARD_DEFAULT_CATEGORY")

	str(&envConfig.Telemetry.ServiceName, fileConfig.Telemetry.ServiceName, "TELEMETRY_SERVICE_NAME")
	str(&envConfig.Telemetry.TraceExporter, fileConfig.Telemetry.TraceExporter, "TELEMETRY_TRACE_EXPORTER")
	if fileConfig.Telemetry.TracingEnabled && !fromEnv("TELEMETRY_TRACING_ENABLED") {
		envConfig.Telemetry.TracingEnabled = true
	}

	return envConfig
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	// Logs are always JSON.
	c.Logging.Format = "json"
	switch c.Logging.Output {
	case "console", "file", "both":
	default:
		return fmt.Errorf("invalid logging output %q", c.Logging.Output)
	}

	if strings.TrimSpace(c.Paths.SourceFile) == "" {
		return fmt.Errorf("source file must be specified")
	}

	if strings.TrimSpace(c.Dashboard.EntityColumn) == "" {
		return fmt.Errorf("entity column must be specified")
	}

	if c.Dashboard.MigrationThreshold < 0 {
		return fmt.Errorf("migration threshold must not be negative: %v", c.Dashboard.MigrationThreshold)
	}

	if !domain.ColorTheme(c.Dashboard.DefaultTheme).Valid() {
		return fmt.Errorf("unknown default theme %q", c.Dashboard.DefaultTheme)
	}

	if _, err := domain.ParseCategory(c.Dashboard.DefaultCategory); err != nil {
		return fmt.Errorf("default category: %w", err)
	}

	switch c.Telemetry.TraceExporter {
	case "stdout", "none":
	default:
		return fmt.Errorf("invalid trace exporter %q", c.Telemetry.TraceExporter)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("sample ratio must be within [0, 1]: %v", c.Telemetry.SampleRatio)
	}

	return nil
}

// Address returns the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/app.log",
		},
		Paths: PathsConfig{
			DataDir:      DefaultDataDir,
			SourceFile:   DefaultSourceFile,
			BoundaryFile: DefaultBoundaryFile,
			ExportDir:    DefaultExportDir,
			LogsDir:      DefaultLogsDir,
		},
		Dashboard: DashboardConfig{
			EntityColumn:       DefaultEntityColumn,
			ExcludedEntities:   []string{DefaultTotalEntity},
			BoundaryKey:        DefaultBoundaryKey,
			MigrationThreshold: DefaultMigrationThreshold,
			DefaultTheme:       string(domain.ThemeBlues),
			DefaultCategory:    string(domain.CategoryAmount),
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			MetricsEnabled: true,
			TraceExporter:  "stdout",
			SampleRatio:    1,
		},
	}
}
