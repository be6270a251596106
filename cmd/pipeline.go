package cmd

import (
	"fmt"
	"os"

	"github.com/nibzard/buildcfg/internal/buildconfig"
	"github.com/nibzard/buildcfg/internal/configfile"
	"github.com/nibzard/buildcfg/internal/dotenv"
	"github.com/nibzard/buildcfg/internal/logging"
)

// resolution is the outcome of one pass through the resolve pipeline.
type resolution struct {
	Record      *buildconfig.Record
	Fingerprint string
	ConfigFile  string
	EnvFiles    []string
}

// resolveProject captures the environment, loads the config file and
// resolves it. The result is recorded in the run log when one is enabled.
func (a *app) resolveProject(command string) (*resolution, error) {
	res, err := a.runPipeline()
	a.record(command, res, err)
	return res, err
}

func (a *app) runPipeline() (*resolution, error) {
	res := &resolution{}

	env, err := a.captureEnv(res)
	if err != nil {
		return res, err
	}

	input, err := a.loadInput(res)
	if err != nil {
		return res, err
	}

	if a.cfg.StrictSchema {
		if err := buildconfig.ValidateDocument(map[string]any(input)); err != nil {
			return res, err
		}
		a.logger.Debug("schema validation passed")
	}

	record, err := buildconfig.Resolve(input, env)
	if err != nil {
		return res, err
	}
	res.Record = record

	fp, err := buildconfig.Fingerprint(record)
	if err != nil {
		return res, fmt.Errorf("fingerprint: %w", err)
	}
	res.Fingerprint = fp
	a.logger.Info("resolved", "output", record.OutputMode(), "fingerprint", fp)
	return res, nil
}

// captureEnv snapshots the process environment, layered over the project's
// .env files when they are enabled.
func (a *app) captureEnv(res *resolution) (buildconfig.EnvSnapshot, error) {
	if !a.cfg.EnvFiles {
		return buildconfig.CaptureProcessEnv(), nil
	}
	mode, err := dotenv.ParseMode(a.cfg.Mode)
	if err != nil {
		return buildconfig.EnvSnapshot{}, err
	}
	env, loaded, err := dotenv.Load(a.cfg.ProjectDir, mode, os.Environ())
	if err != nil {
		return buildconfig.EnvSnapshot{}, err
	}
	res.EnvFiles = loaded
	a.logger.Debug("loaded env files", "mode", mode, "files", loaded)
	return env, nil
}

// loadInput reads the configured or discovered config file. No file means
// an empty document, which resolves to the defaults.
func (a *app) loadInput(res *resolution) (buildconfig.Input, error) {
	path := a.cfg.ConfigFile
	if path == "" {
		found, err := configfile.Find(a.cfg.ProjectDir)
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		a.logger.Info("no config file found, using defaults", "dir", a.cfg.ProjectDir)
		return buildconfig.Input{}, nil
	}
	res.ConfigFile = path
	a.logger.Debug("loading config file", "path", path)
	return configfile.Load(path)
}

// record appends the pipeline outcome to the run log. Run log failures are
// logged and never fail the command.
func (a *app) record(command string, res *resolution, err error) {
	if a.cfg.LogDir == "" {
		return
	}
	if a.runLog == nil {
		runLog, openErr := logging.NewRunLogger(a.cfg.LogDir, a.cfg.ProjectDir)
		if openErr != nil {
			a.logger.Warn("run log disabled", "err", openErr)
			a.cfg.LogDir = ""
			return
		}
		a.runLog = runLog
		a.logger.Debug("run log", "path", runLog.LogPath)
	}

	event := logging.Event{
		Command:    command,
		ProjectDir: a.cfg.ProjectDir,
		Mode:       a.cfg.Mode,
		Outcome:    logging.OutcomeResolved,
	}
	if res != nil {
		event.ConfigFile = res.ConfigFile
		event.EnvFiles = res.EnvFiles
		event.Fingerprint = res.Fingerprint
	}
	if err != nil {
		event.Outcome = logging.OutcomeFailed
		event.Error = err.Error()
		if ice, ok := buildconfig.AsInvalidConfig(err); ok {
			event.Outcome = logging.OutcomeInvalid
			event.ErrorKey = ice.Key
		}
	}
	if writeErr := a.runLog.Record(event); writeErr != nil {
		a.logger.Warn("run log write failed", "err", writeErr)
	}
}

func (a *app) closeRunLog() {
	if err := a.runLog.Close(); err != nil {
		a.logger.Warn("closing run log", "err", err)
	}
}
