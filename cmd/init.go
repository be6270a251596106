package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/buildcfg/internal/configfile"
)

// initCommand writes the example config to <project>/buildcfg.toml.
func (a *app) initCommand() error {
	path := filepath.Join(a.cfg.ProjectDir, configfile.CandidateNames[0])

	if !a.opts.force {
		existing, err := configfile.Find(a.cfg.ProjectDir)
		if err != nil {
			return err
		}
		if existing != "" {
			return fmt.Errorf("%s already exists (use --force to overwrite %s)", existing, filepath.Base(path))
		}
	}

	if err := os.MkdirAll(a.cfg.ProjectDir, 0755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(configfile.ExampleConfig()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	a.logger.Info("wrote example config", "path", path)
	fmt.Fprintf(a.out, "Wrote %s\n", path)
	return nil
}
