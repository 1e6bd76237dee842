// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cli implements the jfmt command-line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"github.com/alecthomas/kong"
	"github.com/creachadair/jfmt/format"
	"github.com/creachadair/jfmt/history"
	"github.com/creachadair/jfmt/internal/config"
)

// Globals are the flags shared by all commands.
type Globals struct {
	Config string `help:"Read settings from this file." placeholder:"PATH"`
	Debug  bool   `help:"Enable debug logging."`
	Indent string `help:"Indentation: a number of spaces (1-8), or \"tabs\"." placeholder:"STYLE"`
}

// CLI is the command-line grammar of jfmt.
type CLI struct {
	Globals

	Format    formatCmd    `cmd:"" help:"Pretty print JSON in canonical form."`
	Minify    minifyCmd    `cmd:"" help:"Print JSON in canonical compact form."`
	Validate  validateCmd  `cmd:"" help:"Check JSON syntax and report structure statistics."`
	Highlight highlightCmd `cmd:"" help:"Print JSON with syntax highlighting."`
	Tree      treeCmd      `cmd:"" help:"Print an outline of a JSON value."`
	Get       getCmd       `cmd:"" help:"Print the value at a path."`
	History   historyCmd   `cmd:"" help:"Manage previously saved documents."`
}

// env is the environment shared by the commands of a single run.
type env struct {
	ctx    context.Context
	cfg    *config.Config
	indent format.Indent
	log    *slog.Logger

	stdin          io.Reader
	stdout, stderr io.Writer
}

// exitStatus is used to unwind out of the parser when it requests an exit.
type exitStatus int

// errReported is returned by a command whose failures have already been
// printed.
var errReported = errors.New("command failed")

// Run parses args and runs the selected command, returning the exit status
// for the process: 0 for success, 1 if the command failed, and 2 for a usage
// error.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) (status int) {
	var cli CLI
	defer func() {
		if x := recover(); x != nil {
			code, ok := x.(exitStatus)
			if !ok {
				panic(x)
			}
			status = int(code)
		}
	}()
	parser, err := kong.New(&cli,
		kong.Name("jfmt"),
		kong.Description("Format, validate, and inspect JSON."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { panic(exitStatus(code)) }),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"jobs": strconv.Itoa(runtime.NumCPU())},
	)
	if err != nil {
		panic(fmt.Sprintf("invalid command grammar: %v", err))
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "jfmt: %v\n", err)
		var perr *kong.ParseError
		if errors.As(err, &perr) && perr.Context != nil {
			perr.Context.PrintUsage(true)
		}
		return 2
	}

	e, err := newEnv(ctx, &cli.Globals, stdin, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "jfmt: %v\n", err)
		return 1
	}
	e.log.Debug("running command", "command", kctx.Command())
	if err := kctx.Run(e); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(stderr, "jfmt: %v\n", err)
		}
		return 1
	}
	return 0
}

func newEnv(ctx context.Context, g *Globals, stdin io.Reader, stdout, stderr io.Writer) (*env, error) {
	var cfg *config.Config
	var err error
	if g.Config != "" {
		cfg, err = config.Load(g.Config)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return nil, err
	}

	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	if g.Debug {
		lvl = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: lvl}))

	ind, err := cfg.IndentStyle()
	if err != nil {
		return nil, err
	}
	if g.Indent != "" {
		ind, err = format.ParseIndent(g.Indent)
		if err != nil {
			return nil, fmt.Errorf("--indent: %w", err)
		}
	}
	log.Debug("configured", "indent", ind, "history", cfg.History.Enabled)
	return &env{
		ctx:    ctx,
		cfg:    cfg,
		indent: ind,
		log:    log,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

// stdinName is the name used for standard input in messages.
const stdinName = "<stdin>"

// readInput returns the contents of the named file, or of stdin if the name
// is empty or "-".
func (e *env) readInput(name string) (string, error) {
	if name == "" || name == "-" {
		data, err := io.ReadAll(e.stdin)
		return string(data), err
	}
	data, err := os.ReadFile(name)
	return string(data), err
}

// inputs returns the names of the input files, or a single entry denoting
// stdin if there are none.
func inputs(files []string) []string {
	if len(files) == 0 {
		return []string{"-"}
	}
	return files
}

// displayName returns the name of an input file for messages.
func displayName(name string) string {
	if name == "" || name == "-" {
		return stdinName
	}
	return name
}

// reportf prints an error message about the named input.
func (e *env) reportf(name string, err error) {
	fmt.Fprintf(e.stderr, "jfmt: %s: %v\n", displayName(name), err)
}

// openHistory opens the history store selected by the configuration.
func (e *env) openHistory() (*history.Store, error) {
	if !e.cfg.History.Enabled {
		return nil, errors.New("history is disabled by the configuration")
	}
	path, err := e.cfg.HistoryPath()
	if err != nil {
		return nil, err
	}
	return history.Open(path,
		history.WithLimit(e.cfg.History.Limit),
		history.WithLogger(e.log),
	)
}
