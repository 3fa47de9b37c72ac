// Package config provides centralized configuration management for the
// trading dashboard service.
//
// # Configuration Sources
//
// Configuration is resolved in the following order, later sources winning:
//
//	1. Default values (Default)
//	2. YAML file (config.yaml, configs/config.yaml or JOURNAL_CONFIG_FILE)
//	3. Environment variables, including those loaded from a .env file
//
// # Environment Variables
//
// All environment variables follow the pattern JOURNAL_<SECTION>_<FIELD>:
//
//	JOURNAL_SERVER_PORT=8000
//	JOURNAL_UPLOAD_MAX_SIZE_BYTES=33554432
//	JOURNAL_CACHE_TTL=30m
//	JOURNAL_COLUMNS_CANDIDATES_FILE=configs/columns.yaml
//	JOURNAL_LOGGING_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests should start from config.Default().
package config
