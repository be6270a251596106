// Package config handles the buildcfg tool's own settings.
//
// These are not the build configuration being resolved (see package
// buildconfig) but the knobs of the CLI itself: where the project lives,
// which env files to read, how to print results and where to log.
//
// Settings are loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User settings file (~/.buildcfg/settings.toml or OS-specific config directory)
// 3. Project settings file (.buildcfg.toml in the current directory)
// 4. Environment variables (BUILDCFG_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level settings locations:
// - ~/.buildcfg/settings.toml (preferred)
// - Windows: %APPDATA%\buildcfg\settings.toml
// - macOS: ~/Library/Application Support/buildcfg/settings.toml
// - Linux/BSD: $XDG_CONFIG_HOME/buildcfg/settings.toml or ~/.config/buildcfg/settings.toml
package config
