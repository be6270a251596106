package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/nibzard/buildcfg/internal/buildconfig"
	"github.com/nibzard/buildcfg/internal/render"
	"github.com/nibzard/buildcfg/internal/ui"
	"github.com/nibzard/buildcfg/internal/utils"
)

// resolveCommand prints the resolved record in the configured format.
func (a *app) resolveCommand() error {
	res, err := a.resolveProject("resolve")
	if err != nil {
		return err
	}

	format, err := render.ParseFormat(a.cfg.Format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.Encode(&buf, res.Record.View(), format); err != nil {
		return fmt.Errorf("encoding %s: %w", format, err)
	}
	if !format.Binary() && render.ColorEnabled(a.cfg.Color, a.out) {
		return render.Highlight(a.out, buf.String(), format, render.DefaultStyle)
	}
	_, err = a.out.Write(buf.Bytes())
	return err
}

// validateCommand reports whether the project config resolves.
func (a *app) validateCommand() error {
	res, err := a.resolveProject("validate")
	if err != nil {
		return err
	}
	source := res.ConfigFile
	if source == "" {
		source = "defaults (no config file)"
	}
	fmt.Fprintf(a.out, "OK %s\n", source)
	return nil
}

// schemaCommand prints the embedded JSON Schema.
func (a *app) schemaCommand() error {
	_, err := a.out.Write(buildconfig.Schema())
	return err
}

// fingerprintCommand prints the record digest.
func (a *app) fingerprintCommand() error {
	res, err := a.resolveProject("fingerprint")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, res.Fingerprint)
	return nil
}

// envCommand lists the declared public env values.
func (a *app) envCommand() error {
	res, err := a.resolveProject("env")
	if err != nil {
		return err
	}

	names := res.Record.PublicEnvNames()
	if a.opts.only != "" {
		names = utils.SplitAndTrim(a.opts.only, ",")
	}
	for _, name := range names {
		if !res.Record.PublicEnvDeclared(name) {
			return fmt.Errorf("public env %q is not declared", name)
		}
		if value, ok := res.Record.LookupPublicEnv(name); ok {
			fmt.Fprintf(a.out, "%s=%s\n", name, value)
		} else {
			fmt.Fprintf(a.out, "%s (undefined)\n", name)
		}
	}
	return nil
}

// viewCommand opens the interactive viewer.
func (a *app) viewCommand(ctx context.Context) error {
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("view requires a TTY")
	}
	return ui.RunViewer(ctx, a.viewSnapshot, ui.WithRefresh(a.opts.refresh))
}

// viewSnapshot resolves the project for the viewer. Viewer reloads are
// inspection only and are not recorded in the run log.
func (a *app) viewSnapshot() ui.Snapshot {
	res, err := a.runPipeline()
	snap := ui.Snapshot{Err: err}
	if res != nil {
		snap.Record = res.Record
		snap.Fingerprint = res.Fingerprint
		snap.ConfigFile = res.ConfigFile
		snap.EnvFiles = res.EnvFiles
	}
	return snap
}
