// Animerec - Anime Genre Preference Aggregation and Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/animerec/internal/config"
	"github.com/tomtom215/animerec/internal/logging"
)

const (
	exitOK        = 0
	exitFailure   = 1
	exitUsage     = 2
	exitAmbiguous = 3
	exitNotFound  = 4
)

// errUsage marks errors caused by bad command line input.
var errUsage = errors.New("usage error")

// app carries what every command needs.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) (int, error)
}

var commands = map[string]command{
	"clean":     {"clean the raw catalog (and optionally the rating file)", runClean},
	"aggregate": {"build the user genre preference table from the rating stream", runAggregate},
	"export":    {"load the profile table into the DuckDB mirror and badger index", runExport},
	"genre":     {"recommend anime by genre", runGenre},
	"user":      {"recommend anime for users from their preferred genres", runUser},
	"serve":     {"serve the HTTP API", runServe},
}

// run parses global flags, loads configuration and dispatches the command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("animerec", flag.ContinueOnError)
	global.SetOutput(stderr)
	configPath := global.String("config", "", "path to a YAML config file")
	logLevel := global.String("log-level", "", "override logging.level")
	global.Usage = func() { usage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if global.NArg() == 0 {
		usage(stderr, global)
		return exitUsage
	}

	name := global.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "animerec: unknown command %q\n\n", name)
		usage(stderr, global)
		return exitUsage
	}

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(stderr, "animerec: %v\n", err)
		return exitFailure
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    stderr,
	})

	ctx = logging.ContextWithCommand(ctx, name)
	a := &app{
		cfg:    cfg,
		logger: *logging.Ctx(ctx),
		stdout: stdout,
		stderr: stderr,
	}

	code, err := cmd.run(ctx, a, global.Args()[1:])
	switch {
	case err == nil:
		return code
	case errors.Is(err, flag.ErrHelp):
		return exitOK
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "animerec %s: %v\n", name, err)
		return exitUsage
	default:
		a.logger.Error().Err(err).Msg("command failed")
		fmt.Fprintf(stderr, "animerec %s: %v\n", name, err)
		return exitFailure
	}
}

func usage(w io.Writer, global *flag.FlagSet) {
	fmt.Fprintln(w, "usage: animerec [-config file] [-log-level level] <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-10s %s\n", n, commands[n].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "global flags:")
	global.PrintDefaults()
}

// newFlagSet returns a command flag set that reports errors instead of exiting.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("animerec "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseFlags parses args and rejects stray positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %s", errUsage, strings.Join(fs.Args(), " "))
	}
	return nil
}
