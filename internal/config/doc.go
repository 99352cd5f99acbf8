// Package config loads the dashboard configuration.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML file (config.yaml, configs/config.yaml or TAXDASH_CONFIG_FILE)
//	3. Default values from struct tags (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern TAXDASH_<SECTION>_<FIELD>:
//
//	TAXDASH_SERVER_PORT=8080
//	TAXDASH_PATHS_SOURCE_FILE=/srv/data/tax.csv
//	TAXDASH_DASHBOARD_MIGRATION_THRESHOLD=500
//	TAXDASH_TELEMETRY_TRACING_ENABLED=true
//
// # Paths
//
// ResolvePaths turns the configured relative paths into absolute ones rooted
// at PATHS_BASE_DIR, or at the executable directory when that is unset. The
// source and boundary files are looked up inside the data directory unless
// given as absolute paths.
package config
