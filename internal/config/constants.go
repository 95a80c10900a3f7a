package config

import "time"

// Application constants
const (
	AppName    = "dataclean"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable, e.g. DATACLEAN_SERVER_PORT
	EnvPrefix = "DATACLEAN"
	// ConfigFileEnv names the YAML file to load when no path is given
	ConfigFileEnv = "DATACLEAN_CONFIG_FILE"
)

// Dataset limits
const (
	DefaultMaxUploadBytes  = 32 << 20
	DefaultDatasetTTL      = 30 * time.Minute
	DefaultMaxDatasets     = 100
	DefaultCleanupInterval = time.Minute
	DefaultPreviewRows     = 10
	MaxPreviewRows         = 100
)
