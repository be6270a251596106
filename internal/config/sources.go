package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// findProjectConfigFile looks for a project settings file in the current directory.
func findProjectConfigFile() string {
	if _, err := os.Stat(ProjectSettingsName); err == nil {
		return ProjectSettingsName
	}
	return ""
}

// findUserConfigFile looks for a user-level settings file.
// Checks ~/.buildcfg/settings.toml first, then falls back to the
// OS-specific config directory.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, UserDirName, UserSettingsName)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "buildcfg", UserSettingsName)
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the settings.
func setDefaults(cfg *Config) {
	cfg.ProjectDir = "."
	cfg.ConfigFile = ""
	cfg.Mode = DefaultMode
	cfg.EnvFiles = true
	cfg.Format = DefaultFormat
	cfg.Color = DefaultColor
	cfg.StrictSchema = false
	cfg.LogDir = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// configFields returns the settings keys used for source tracking.
func configFields() []string {
	return []string{
		"project_dir",
		"config_file",
		"mode",
		"env_files",
		"format",
		"color",
		"strict_schema",
		"log_dir",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// ConfigFields returns the settings keys in display order.
func ConfigFields() []string {
	return configFields()
}

// loadConfigFile applies the keys present in a TOML settings file.
// Unknown keys are an error so typos do not go unnoticed.
func loadConfigFile(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown setting %q", undecoded[0].String())
	}

	set := func(name string, ok bool) {
		if ok && sources != nil {
			sources[name] = source
		}
	}
	applyString(&cfg.ProjectDir, fc.ProjectDir, "project_dir", set)
	applyString(&cfg.ConfigFile, fc.ConfigFile, "config_file", set)
	applyString(&cfg.Mode, fc.Mode, "mode", set)
	applyBool(&cfg.EnvFiles, fc.EnvFiles, "env_files", set)
	applyString(&cfg.Format, fc.Format, "format", set)
	applyString(&cfg.Color, fc.Color, "color", set)
	applyBool(&cfg.StrictSchema, fc.StrictSchema, "strict_schema", set)
	applyString(&cfg.LogDir, fc.LogDir, "log_dir", set)
	applyString(&cfg.LogLevel, fc.LogLevel, "log_level", set)
	applyString(&cfg.LogFormat, fc.LogFormat, "log_format", set)
	applyBool(&cfg.LogTimestamps, fc.LogTimestamps, "log_timestamps", set)
	applyBool(&cfg.LogCaller, fc.LogCaller, "log_caller", set)
	return nil
}

func applyString(dst *string, v *string, name string, set func(string, bool)) {
	if v != nil {
		*dst = *v
	}
	set(name, v != nil)
}

func applyBool(dst *bool, v *bool, name string, set func(string, bool)) {
	if v != nil {
		*dst = *v
	}
	set(name, v != nil)
}

// UserConfigFile returns the user settings file in use, or "".
func UserConfigFile() string {
	return findUserConfigFile()
}

// ProjectConfigFile returns the project settings file in use, or "".
func ProjectConfigFile() string {
	return findProjectConfigFile()
}
