// Package dotenv layers .env files under the process environment.
//
// Files are read in decreasing priority:
//  1. .env.<mode>.local
//  2. .env.local (skipped in test mode so test runs are reproducible)
//  3. .env.<mode>
//  4. .env
//
// A variable set in the process environment always wins over every file.
package dotenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/subosito/gotenv"

	"github.com/nibzard/buildcfg/internal/buildconfig"
)

// Mode selects which mode-specific env files are read.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
	ModeTest        Mode = "test"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDevelopment, ModeProduction, ModeTest:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (expected development|production|test)", s)
	}
}

// Files returns the env file names for mode, highest priority first.
func Files(mode Mode) []string {
	files := []string{".env." + string(mode) + ".local"}
	if mode != ModeTest {
		files = append(files, ".env.local")
	}
	return append(files, ".env."+string(mode), ".env")
}

// Load reads the env files for mode from dir and returns a snapshot in which
// the process entries (os.Environ format) override file values. It also
// returns the paths of the files that were read, highest priority first.
// Missing files are skipped.
func Load(dir string, mode Mode, process []string) (buildconfig.EnvSnapshot, []string, error) {
	names := Files(mode)
	vars := make(map[string]string)
	var loaded []string

	// Lowest priority first so higher-priority files overwrite.
	for i := len(names) - 1; i >= 0; i-- {
		path := filepath.Join(dir, names[i])
		env, err := readFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return buildconfig.EnvSnapshot{}, nil, err
		}
		for k, v := range env {
			vars[k] = v
		}
		loaded = append([]string{path}, loaded...)
	}

	processEnv := buildconfig.EnvSnapshotFromEnviron(process)
	for _, name := range processEnv.Names() {
		value, _ := processEnv.Lookup(name)
		vars[name] = value
	}
	return buildconfig.NewEnvSnapshot(vars), loaded, nil
}

func readFile(path string) (gotenv.Env, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	env, err := gotenv.StrictParse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return env, nil
}
