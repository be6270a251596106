// Package cmd implements the CLI command structure for buildcfg.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/nibzard/buildcfg/internal/config"
	"github.com/nibzard/buildcfg/internal/logging"
)

// Version is set via ldflags at build time.
var Version = "dev"

// options holds the command-specific flags. They share one flag set with
// the settings flags so they may appear anywhere on the command line.
type options struct {
	help    bool
	version bool
	force   bool
	follow  bool
	lines   int
	only    string
	refresh time.Duration
}

// app carries the state shared by every command of one invocation.
type app struct {
	cws    *config.ConfigWithSources
	cfg    *config.Config
	opts   options
	out    io.Writer
	logger *log.Logger
	runLog *logging.RunLogger
}

// Run executes the buildcfg CLI.
func Run(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("buildcfg", pflag.ContinueOnError)
	fs.SortFlags = false
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}

	var opts options
	fs.BoolVarP(&opts.help, "help", "h", false, "Show help")
	fs.BoolVarP(&opts.version, "version", "v", false, "Show version")
	fs.BoolVar(&opts.force, "force", false, "init: overwrite an existing config file")
	fs.BoolVar(&opts.follow, "follow", false, "tail: follow the log")
	fs.IntVarP(&opts.lines, "lines", "n", 0, "tail: number of lines to show (0 = all)")
	fs.StringVar(&opts.only, "only", "", "env: comma-separated names to show")
	fs.DurationVar(&opts.refresh, "refresh", 0, "view: re-resolve interval (0 = reload with r only)")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if opts.help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if opts.version {
		return versionCommand(os.Stdout)
	}

	cfg := cws.Config
	a := &app{
		cws:    cws,
		cfg:    cfg,
		opts:   opts,
		out:    os.Stdout,
		logger: logging.NewConsoleLoggerFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
	}
	defer a.closeRunLog()

	// No command means resolve.
	subcommand := "resolve"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}
	if len(remainingArgs) > 0 {
		return fmt.Errorf("unexpected arguments: %v", remainingArgs)
	}

	switch subcommand {
	case "resolve":
		return a.resolveCommand()
	case "validate":
		return a.validateCommand()
	case "schema":
		return a.schemaCommand()
	case "fingerprint":
		return a.fingerprintCommand()
	case "env":
		return a.envCommand()
	case "view":
		return a.viewCommand(ctx)
	case "doctor":
		return a.doctorCommand()
	case "init":
		return a.initCommand()
	case "tail":
		return a.tailCommand(ctx)
	case "version":
		return versionCommand(os.Stdout)
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "buildcfg version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *pflag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "buildcfg - Resolve web build configuration into a validated record")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  buildcfg [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  resolve       Resolve and print the build record (default command)")
	fmt.Fprintln(w, "  validate      Check the config file and report the first problem")
	fmt.Fprintln(w, "  schema        Print the JSON Schema for config files")
	fmt.Fprintln(w, "  fingerprint   Print the digest of the resolved record")
	fmt.Fprintln(w, "  env           List resolved public env values")
	fmt.Fprintln(w, "  view          Browse the resolved record in a terminal UI")
	fmt.Fprintln(w, "  doctor        Show settings, discovered files and resolution status")
	fmt.Fprintln(w, "  init          Write an example buildcfg.toml")
	fmt.Fprintln(w, "  tail          Print the latest run log")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprint(w, fs.FlagUsages())
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Settings are read from %s/%s, ./%s and %s* variables.\n",
		"~/"+config.UserDirName, config.UserSettingsName, config.ProjectSettingsName, config.EnvPrefix)
}
