package config

import (
	"os"
	"strings"
)

// EnvPrefix prefixes every settings environment variable.
const EnvPrefix = "BUILDCFG_"

// envVars maps settings keys to their environment variables.
var envVars = map[string]string{
	"project_dir":    EnvPrefix + "PROJECT_DIR",
	"config_file":    EnvPrefix + "CONFIG",
	"mode":           EnvPrefix + "MODE",
	"env_files":      EnvPrefix + "ENV_FILES",
	"format":         EnvPrefix + "FORMAT",
	"color":          EnvPrefix + "COLOR",
	"strict_schema":  EnvPrefix + "STRICT_SCHEMA",
	"log_dir":        EnvPrefix + "LOG_DIR",
	"log_level":      EnvPrefix + "LOG_LEVEL",
	"log_format":     EnvPrefix + "LOG_FORMAT",
	"log_timestamps": EnvPrefix + "LOG_TIMESTAMPS",
	"log_caller":     EnvPrefix + "LOG_CALLER",
}

// EnvVar returns the environment variable for a settings key.
func EnvVar(field string) string {
	return envVars[field]
}

// loadFromEnv overrides settings from BUILDCFG_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	str := func(field string, dst *string) {
		if v := os.Getenv(envVars[field]); v != "" {
			*dst = v
			if sources != nil {
				sources[field] = SourceEnv
			}
		}
	}
	boolean := func(field string, dst *bool) {
		if v := os.Getenv(envVars[field]); v != "" {
			*dst = boolFromString(v)
			if sources != nil {
				sources[field] = SourceEnv
			}
		}
	}

	str("project_dir", &cfg.ProjectDir)
	str("config_file", &cfg.ConfigFile)
	str("mode", &cfg.Mode)
	boolean("env_files", &cfg.EnvFiles)
	str("format", &cfg.Format)
	str("color", &cfg.Color)
	boolean("strict_schema", &cfg.StrictSchema)
	str("log_dir", &cfg.LogDir)
	str("log_level", &cfg.LogLevel)
	str("log_format", &cfg.LogFormat)
	boolean("log_timestamps", &cfg.LogTimestamps)
	boolean("log_caller", &cfg.LogCaller)
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
