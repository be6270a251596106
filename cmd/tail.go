package cmd

import (
	"context"
	"fmt"

	"github.com/nibzard/buildcfg/internal/logging"
)

// tailCommand prints the latest run log for the project.
func (a *app) tailCommand(ctx context.Context) error {
	if a.cfg.LogDir == "" {
		return fmt.Errorf("run logs are disabled (set log_dir or --log-dir)")
	}

	logDir, err := logging.FindLogDir(a.cfg.LogDir, a.cfg.ProjectDir)
	if err != nil {
		return fmt.Errorf("finding log directory: %w", err)
	}

	logPath, err := logging.FindLatestLog(logDir)
	if err != nil {
		return fmt.Errorf("finding latest log: %w", err)
	}
	if logPath == "" {
		fmt.Fprintln(a.out, "No log files found.")
		return nil
	}

	a.logger.Info("tailing", "path", logPath, "follow", a.opts.follow)
	return logging.TailLog(ctx, a.out, logPath, a.opts.lines, a.opts.follow)
}
