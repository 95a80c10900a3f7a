// Package config loads the application configuration.
//
// # Configuration Sources
//
// Values are resolved in order of increasing precedence:
//
//	1. Built-in defaults (Default)
//	2. A YAML file, from the -config flag or DATACLEAN_CONFIG_FILE
//	3. Environment variables prefixed DATACLEAN_
//
// Environment variable names follow the struct layout:
//
//	DATACLEAN_SERVER_PORT=9090
//	DATACLEAN_LOGGING_LEVEL=debug
//	DATACLEAN_DATASETS_MAX_UPLOAD_BYTES=10485760
//	DATACLEAN_CLEANING_EDGE_POLICY=forward
//	DATACLEAN_SECURITY_RATE_LIMIT_ENABLED=false
//
// # YAML
//
//	server:
//	  port: 8080
//	  read_timeout: 30s
//	datasets:
//	  ttl: 30m
//	  max_entries: 100
//	cleaning:
//	  edge_policy: nearest
//
// The merged result is validated with struct tags before it is returned.
package config
