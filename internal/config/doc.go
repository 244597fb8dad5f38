// Package config provides centralized configuration management for the
// bicycle accidents analytics service. It handles loading configuration
// from multiple sources, validation, and path resolution shared by the
// batch pipeline and the web process.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. A YAML configuration file (config.yaml, or BIKES_CONFIG)
//	3. Built-in defaults (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BIKES_* for namespacing:
//
//	BIKES_SERVER_PORT=8080
//	BIKES_PATHS_ACCIDENTS_FILE=data/Accidents.csv
//	BIKES_PIPELINE_RARE_CATEGORY_THRESHOLD=0.02
//	BIKES_LOGGING_LEVEL=debug
//
// # Paths
//
// Every configured path is resolved to absolute form at load time so the
// pipeline and web binaries agree on locations regardless of their working
// directories. Paths.EnsureDirectories creates the output tree.
//
// # Usage
//
// Load configuration at application startup:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
