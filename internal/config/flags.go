package config

import (
	"github.com/spf13/pflag"
)

// flagToField maps flag names to settings keys.
var flagToField = map[string]string{
	"project":        "project_dir",
	"config":         "config_file",
	"mode":           "mode",
	"env-files":      "env_files",
	"format":         "format",
	"color":          "color",
	"strict-schema":  "strict_schema",
	"log-dir":        "log_dir",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// registerFlags defines the settings flags on fs. Values parsed into the
// returned struct are applied only for flags the user actually set.
func registerFlags(fs *pflag.FlagSet, cfg *Config) *Config {
	parsed := *cfg
	fs.StringVarP(&parsed.ProjectDir, "project", "C", cfg.ProjectDir, "Project directory")
	fs.StringVarP(&parsed.ConfigFile, "config", "c", cfg.ConfigFile, "Config file (default: search the project directory)")
	fs.StringVarP(&parsed.Mode, "mode", "m", cfg.Mode, "Env file mode (development, production, test)")
	fs.BoolVar(&parsed.EnvFiles, "env-files", cfg.EnvFiles, "Read .env files from the project directory")
	fs.StringVarP(&parsed.Format, "format", "f", cfg.Format, "Output format (json, yaml, toml, cbor)")
	fs.StringVar(&parsed.Color, "color", cfg.Color, "Colorize output (auto, always, never)")
	fs.BoolVar(&parsed.StrictSchema, "strict-schema", cfg.StrictSchema, "Validate against the JSON Schema before resolving")
	fs.StringVar(&parsed.LogDir, "log-dir", cfg.LogDir, "Run log directory (empty disables run logs)")
	fs.StringVar(&parsed.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&parsed.LogFormat, "log-format", cfg.LogFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&parsed.LogTimestamps, "log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
	fs.BoolVar(&parsed.LogCaller, "log-caller", cfg.LogCaller, "Show caller location in logs")
	return &parsed
}

// parseFlags parses args and applies explicitly set flags to cfg.
func parseFlags(cfg *Config, fs *pflag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = pflag.NewFlagSet("buildcfg", pflag.ContinueOnError)
	}
	parsed := registerFlags(fs, cfg)

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *pflag.Flag) {
		field, ok := flagToField[f.Name]
		if !ok {
			return
		}
		switch field {
		case "project_dir":
			cfg.ProjectDir = parsed.ProjectDir
		case "config_file":
			cfg.ConfigFile = parsed.ConfigFile
		case "mode":
			cfg.Mode = parsed.Mode
		case "env_files":
			cfg.EnvFiles = parsed.EnvFiles
		case "format":
			cfg.Format = parsed.Format
		case "color":
			cfg.Color = parsed.Color
		case "strict_schema":
			cfg.StrictSchema = parsed.StrictSchema
		case "log_dir":
			cfg.LogDir = parsed.LogDir
		case "log_level":
			cfg.LogLevel = parsed.LogLevel
		case "log_format":
			cfg.LogFormat = parsed.LogFormat
		case "log_timestamps":
			cfg.LogTimestamps = parsed.LogTimestamps
		case "log_caller":
			cfg.LogCaller = parsed.LogCaller
		}
		if sources != nil {
			sources[field] = SourceFlag
		}
	})
	return nil
}
