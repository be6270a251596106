package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/nibzard/buildcfg/internal/dotenv"
	"github.com/nibzard/buildcfg/internal/logging"
	"github.com/nibzard/buildcfg/internal/render"
)

// Load loads settings from multiple sources in priority order:
// 1. Defaults
// 2. User settings file
// 3. Project settings file (.buildcfg.toml in the current directory)
// 4. Environment variables
// 5. CLI flags
//
// fs may already carry command-specific flags; positional arguments are
// left in fs.Args().
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, false)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads settings and tracks the source of each value.
func LoadWithSources(fs *pflag.FlagSet, args []string) (*ConfigWithSources, error) {
	return load(fs, args, true)
}

func load(fs *pflag.FlagSet, args []string, track bool) (*ConfigWithSources, error) {
	cfg := &Config{}
	var sources map[string]ConfigSource
	if track {
		sources = make(map[string]ConfigSource)
	}

	// 1. Defaults
	setDefaults(cfg)
	for _, field := range configFields() {
		if sources != nil {
			sources[field] = SourceDefault
		}
	}

	var files []string

	// 2. User settings file
	if userConfigFile := findUserConfigFile(); userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user settings file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Project settings file (overrides user settings)
	if projectConfigFile := findProjectConfigFile(); projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project settings file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Environment
	loadFromEnv(cfg, sources)

	// 5. Flags
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, err
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// finalizeConfig validates enumerated settings and normalizes paths.
func finalizeConfig(cfg *Config) error {
	if _, err := dotenv.ParseMode(cfg.Mode); err != nil {
		return err
	}
	if _, err := render.ParseFormat(cfg.Format); err != nil {
		return err
	}
	switch cfg.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color %q (expected auto|always|never)", cfg.Color)
	}
	if !logging.ValidLogLevel(cfg.LogLevel) {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	if !logging.ValidLogFormat(cfg.LogFormat) {
		return fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}

	cfg.ProjectDir = expandPath(cfg.ProjectDir)
	if cfg.ProjectDir == "" {
		cfg.ProjectDir = "."
	}
	if abs, err := filepath.Abs(cfg.ProjectDir); err == nil {
		cfg.ProjectDir = abs
	}

	// A relative config file is relative to the project directory.
	if cfg.ConfigFile != "" {
		cfg.ConfigFile = expandPath(cfg.ConfigFile)
		if !filepath.IsAbs(cfg.ConfigFile) {
			cfg.ConfigFile = filepath.Join(cfg.ProjectDir, cfg.ConfigFile)
		}
	}
	cfg.LogDir = expandPath(cfg.LogDir)
	return nil
}
