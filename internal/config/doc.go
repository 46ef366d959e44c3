// Package config loads the scoreline service configuration.
//
// Values are layered, lowest priority first:
//
//	1. Default()
//	2. an optional YAML file (config.yaml, configs/config.yaml or the file
//	   named by SCORELINE_CONFIG_FILE)
//	3. environment variables prefixed with SCORELINE_, including any loaded
//	   from a .env file in the working directory
//
// Example:
//
//	SCORELINE_SERVER_PORT=9000
//	SCORELINE_PATHS_UPLOAD_DIR=/var/lib/scoreline/uploads
//	SCORELINE_LOGGING_LEVEL=debug
//
// The resulting *Config is passed explicitly to every component that needs
// it; nothing in this package holds process-wide state.
package config
