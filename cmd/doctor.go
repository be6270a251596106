package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/nibzard/buildcfg/internal/buildconfig"
	"github.com/nibzard/buildcfg/internal/config"
	"github.com/nibzard/buildcfg/internal/dotenv"
	"github.com/nibzard/buildcfg/internal/logging"
)

// doctorCommand prints settings with their sources, the files buildcfg
// would read and whether the project resolves.
func (a *app) doctorCommand() error {
	w := a.out
	cfg := a.cfg

	fmt.Fprintln(w, "buildcfg doctor")
	fmt.Fprintln(w, "===============")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Settings:")
	for _, field := range config.ConfigFields() {
		value := cfg.Value(field)
		if value == "" {
			value = "(empty)"
		}
		fmt.Fprintf(w, "  %-15s %s (%s)\n", field, value, a.cws.Sources[field])
	}
	if len(a.cws.Files) == 0 {
		fmt.Fprintln(w, "  No settings files found.")
	}
	for _, f := range a.cws.Files {
		fmt.Fprintf(w, "  Read %s\n", f)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Project directory: %s\n", cfg.ProjectDir)
	if info, err := os.Stat(cfg.ProjectDir); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else if !info.IsDir() {
		fmt.Fprintln(w, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ OK")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Env files (mode %s):\n", cfg.Mode)
	if !cfg.EnvFiles {
		fmt.Fprintln(w, "  Disabled, using the process environment only")
	} else if mode, err := dotenv.ParseMode(cfg.Mode); err == nil {
		for _, name := range dotenv.Files(mode) {
			if _, err := os.Stat(filepath.Join(cfg.ProjectDir, name)); err == nil {
				fmt.Fprintf(w, "  ✅ %s\n", name)
			} else {
				fmt.Fprintf(w, "  -  %s (not found)\n", name)
			}
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Log directory:")
	if cfg.LogDir == "" {
		fmt.Fprintln(w, "  Run logs disabled (set log_dir to enable)")
	} else if logDir, err := logging.FindLogDir(cfg.LogDir, cfg.ProjectDir); err != nil {
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	} else {
		fmt.Fprintf(w, "  %s\n", logDir)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Resolution:")
	// Doctor only reports; it does not add to the run log.
	res, err := a.runPipeline()
	if res != nil && res.ConfigFile != "" {
		fmt.Fprintf(w, "  Config file: %s\n", res.ConfigFile)
	} else if res != nil {
		fmt.Fprintln(w, "  Config file: none (defaults apply)")
	}
	if err != nil {
		if ice, ok := buildconfig.AsInvalidConfig(err); ok {
			fmt.Fprintf(w, "  ❌ Invalid config at %q: %v\n", ice.Key, err)
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		}
		allOK = false
	} else {
		fmt.Fprintf(w, "  ✅ Resolved (output %s, %d public env, fingerprint %s)\n",
			res.Record.OutputMode(), len(res.Record.PublicEnvNames()), res.Fingerprint)
		if undefined := undefinedEnv(res.Record); len(undefined) > 0 {
			fmt.Fprintf(w, "  ⚠️  Undefined public env: %v\n", undefined)
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

func undefinedEnv(r *buildconfig.Record) []string {
	var names []string
	for _, name := range r.PublicEnvNames() {
		if _, ok := r.LookupPublicEnv(name); !ok {
			names = append(names, name)
		}
	}
	return names
}
