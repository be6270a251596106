package config

import "strconv"

// ConfigSource represents where a settings value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds settings along with the source of each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the settings files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultMode      = "production"
	DefaultFormat    = "json"
	DefaultColor     = "auto"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	// UserDirName is the per-user settings directory under $HOME.
	UserDirName = ".buildcfg"
	// UserSettingsName is the settings file name inside the user directory.
	UserSettingsName = "settings.toml"
	// ProjectSettingsName is the project-level settings file.
	ProjectSettingsName = ".buildcfg.toml"
)

// Config holds the tool settings.
type Config struct {
	// ProjectDir is where the config file and env files are looked up.
	ProjectDir string `toml:"project_dir"`
	// ConfigFile is an explicit config file; empty means search ProjectDir.
	ConfigFile string `toml:"config_file"`

	// Mode selects the env file set (development, production, test).
	Mode string `toml:"mode"`
	// EnvFiles enables reading .env files on top of the process environment.
	EnvFiles bool `toml:"env_files"`

	// Output
	Format string `toml:"format"`
	Color  string `toml:"color"`

	// StrictSchema runs JSON Schema validation before resolution.
	StrictSchema bool `toml:"strict_schema"`

	// Run logs; an empty LogDir disables them.
	LogDir string `toml:"log_dir"`

	// Console logging
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}

// fileConfig mirrors Config with optional fields so a settings file only
// overrides the keys it sets.
type fileConfig struct {
	ProjectDir    *string `toml:"project_dir"`
	ConfigFile    *string `toml:"config_file"`
	Mode          *string `toml:"mode"`
	EnvFiles      *bool   `toml:"env_files"`
	Format        *string `toml:"format"`
	Color         *string `toml:"color"`
	StrictSchema  *bool   `toml:"strict_schema"`
	LogDir        *string `toml:"log_dir"`
	LogLevel      *string `toml:"log_level"`
	LogFormat     *string `toml:"log_format"`
	LogTimestamps *bool   `toml:"log_timestamps"`
	LogCaller     *bool   `toml:"log_caller"`
}

// Value returns the display form of a settings key, or "" for an unknown key.
func (c *Config) Value(field string) string {
	switch field {
	case "project_dir":
		return c.ProjectDir
	case "config_file":
		return c.ConfigFile
	case "mode":
		return c.Mode
	case "env_files":
		return strconv.FormatBool(c.EnvFiles)
	case "format":
		return c.Format
	case "color":
		return c.Color
	case "strict_schema":
		return strconv.FormatBool(c.StrictSchema)
	case "log_dir":
		return c.LogDir
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return strconv.FormatBool(c.LogTimestamps)
	case "log_caller":
		return strconv.FormatBool(c.LogCaller)
	}
	return ""
}
