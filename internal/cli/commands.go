// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cli

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/creachadair/jfmt/ast"
	"github.com/creachadair/jfmt/ast/cursor"
	"github.com/creachadair/jfmt/format"
	"github.com/creachadair/jfmt/highlight"
	"github.com/creachadair/jfmt/outline"
	"github.com/creachadair/jfmt/validate"
	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
)

type formatCmd struct {
	Stream bool     `help:"Format every value of a concatenated stream."`
	Write  bool     `short:"w" help:"Rewrite each file in place."`
	Jobs   int      `short:"j" default:"${jobs}" help:"Process up to this many files concurrently."`
	Save   bool     `help:"Record each valid input in the history."`
	Files  []string `arg:"" optional:"" help:"Input files (default: stdin)."`
}

func (c *formatCmd) Run(e *env) error {
	if c.Write && (len(c.Files) == 0 || slices.Contains(c.Files, "-")) {
		return errors.New("--write requires file arguments, not standard input")
	}
	render := func(text string) (string, error) { return format.Text(text, e.indent) }
	if c.Stream {
		render = func(text string) (string, error) {
			return renderStream(text, func(v ast.Value) string { return format.Value(v, e.indent) })
		}
	}
	out, err := e.process(c.Files, c.Jobs, render)
	if err != nil && !errors.Is(err, errReported) {
		return err
	}
	if c.Save {
		if serr := e.saveInputs(out); serr != nil {
			return serr
		}
	}
	emit := e.print
	if c.Write {
		emit = e.rewrite
	}
	return cmp.Or(emit(out), err)
}

type minifyCmd struct {
	Stream bool     `help:"Minify every value of a concatenated stream, one per line."`
	Files  []string `arg:"" optional:"" help:"Input files (default: stdin)."`
}

func (c *minifyCmd) Run(e *env) error {
	render := format.Minify
	if c.Stream {
		render = func(text string) (string, error) { return renderStream(text, format.Compact) }
	}
	out, err := e.process(c.Files, 1, render)
	if err != nil && !errors.Is(err, errReported) {
		return err
	}
	return cmp.Or(e.print(out), err)
}

// renderStream parses text as a sequence of values and renders each one on
// its own line.
func renderStream(text string, render func(ast.Value) string) (string, error) {
	vs, err := ast.Parse(strings.NewReader(text))
	if err != nil {
		return "", err
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = render(v)
	}
	return strings.Join(parts, "\n"), nil
}

// A result is the outcome of processing a single input.
type result struct {
	name   string
	input  string
	output string
	err    error
}

// process applies render to the contents of each of the named inputs, using
// up to jobs goroutines. The results are in the same order as the inputs.
// If any input fails, its error is reported and process returns errReported
// after all the inputs have been processed.
func (e *env) process(files []string, jobs int, render func(string) (string, error)) ([]result, error) {
	names := inputs(files)
	out := make([]result, len(names))

	g, ctx := errgroup.WithContext(e.ctx)
	g.SetLimit(max(jobs, 1))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := result{name: name}
			r.input, r.err = e.readInput(name)
			if r.err == nil {
				r.output, r.err = render(r.input)
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var failed bool
	for _, r := range out {
		if r.err != nil {
			e.reportf(r.name, r.err)
			failed = true
		}
	}
	e.log.Debug("processed inputs", "count", len(out), "jobs", jobs)
	if failed {
		return out, errReported
	}
	return out, nil
}

// print writes each successful output to stdout, followed by a newline.
func (e *env) print(rs []result) error {
	for _, r := range rs {
		if r.err != nil {
			continue
		}
		if _, err := fmt.Fprintln(e.stdout, r.output); err != nil {
			return err
		}
	}
	return nil
}

// rewrite replaces the contents of each successfully processed input file
// with its output. Files whose contents would not change are not written.
func (e *env) rewrite(rs []result) error {
	for _, r := range rs {
		if r.err != nil {
			continue
		}
		text := r.output + "\n"
		if text == r.input {
			e.log.Debug("file unchanged", "file", r.name)
			continue
		}
		fi, err := os.Stat(r.name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(r.name, []byte(text), fi.Mode().Perm()); err != nil {
			return err
		}
		e.log.Info("rewrote file", "file", r.name, "bytes", len(text))
	}
	return nil
}

// saveInputs records the inputs that were processed without error.
func (e *env) saveInputs(rs []result) error {
	hs, err := e.openHistory()
	if err != nil {
		return err
	}
	for _, r := range rs {
		if r.err != nil {
			continue
		}
		ent, err := hs.Save(r.input)
		if err != nil {
			return err
		}
		e.log.Info("saved to history", "file", displayName(r.name), "id", ent.ID)
	}
	return nil
}

type validateCmd struct {
	JSON  bool     `help:"Print the results as JSON."`
	Files []string `arg:"" optional:"" help:"Input files (default: stdin)."`
}

// fileResult is the validation result for one input.
type fileResult struct {
	File string `json:"file"`
	validate.Result
}

func (c *validateCmd) Run(e *env) error {
	var rs []fileResult
	var failed bool
	for _, name := range inputs(c.Files) {
		text, err := e.readInput(name)
		if err != nil {
			e.reportf(name, err)
			failed = true
			continue
		}
		res := validate.Text(text)
		if !res.Valid {
			failed = true
		}
		rs = append(rs, fileResult{File: displayName(name), Result: res})
	}

	if c.JSON {
		data, err := json.MarshalIndent(rs, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, string(data))
	} else {
		for _, r := range rs {
			if !r.Valid {
				fmt.Fprintf(e.stderr, "jfmt: %s: %v\n", r.File, r.Err)
				continue
			}
			s := r.Stats
			fmt.Fprintf(e.stdout, "%s: valid (objects=%d arrays=%d strings=%d numbers=%d booleans=%d nulls=%d keys=%d depth=%d)\n",
				r.File, s.Objects, s.Arrays, s.Strings, s.Numbers, s.Booleans, s.Nulls, s.TotalKeys, s.MaxDepth)
		}
	}
	if failed {
		return errReported
	}
	return nil
}

type highlightCmd struct {
	HTML  bool   `help:"Emit HTML markup instead of terminal colors."`
	Color string `enum:"auto,always,never" default:"auto" help:"When to use terminal colors (${enum})."`
	File  string `arg:"" optional:"" help:"Input file (default: stdin)."`
}

func (c *highlightCmd) Run(e *env) error {
	text, err := e.readInput(c.File)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(c.File), err)
	}
	if c.HTML {
		_, err := fmt.Fprintln(e.stdout, e.cfg.Palette().HTML(text))
		return err
	}

	tp := highlight.DefaultTermPalette
	if e.cfg.Highlight != (highlight.Palette{}) {
		tp = e.cfg.Palette().Term()
	}
	useColor := c.Color == "always" || (c.Color == "auto" && isColorTerminal(e.stdout))
	if err := highlight.Terminal(e.stdout, text, tp.WithColor(useColor)); err != nil {
		return err
	}
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(e.stdout)
	}
	return nil
}

// isColorTerminal reports whether w is a terminal that accepts color, using
// the same conventions as the color package applies to os.Stdout.
func isColorTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type treeCmd struct {
	Select   string `short:"s" help:"Print only the nodes matching this path." placeholder:"PATH"`
	MaxDepth int    `short:"d" help:"Do not descend more than this many levels (0 means no limit)."`
	File     string `arg:"" optional:"" help:"Input file (default: stdin)."`
}

func (c *treeCmd) Run(e *env) error {
	text, err := e.readInput(c.File)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(c.File), err)
	}
	v, err := ast.ParseString(text)
	if err != nil {
		e.reportf(c.File, err)
		return errReported
	}
	root := outline.Build(v)
	if c.Select != "" {
		ns, err := root.Select(c.Select)
		if err != nil {
			return err
		}
		for _, n := range ns {
			fmt.Fprintln(e.stdout, n.String())
		}
		return nil
	}
	root.Walk(func(n *outline.Node) bool {
		depth := len(n.Path)
		fmt.Fprintf(e.stdout, "%s%s\n", strings.Repeat("  ", depth), treeLine(n))
		return c.MaxDepth <= 0 || depth < c.MaxDepth
	})
	return nil
}

// treeLine renders a single line of an outline listing.
func treeLine(n *outline.Node) string {
	key := n.Key
	if n.Parent() == nil {
		key = "$"
	}
	return fmt.Sprintf("%s: %s (%s)", key, n.Display(), n.Type)
}

type getCmd struct {
	Path    string `arg:"" help:"Path of the value, for example $.items[0].name."`
	File    string `arg:"" optional:"" help:"Input file (default: stdin)."`
	Compact bool   `short:"c" help:"Print the value in compact form."`
}

func (c *getCmd) Run(e *env) error {
	text, err := e.readInput(c.File)
	if err != nil {
		return fmt.Errorf("%s: %w", displayName(c.File), err)
	}
	v, err := ast.ParseString(text)
	if err != nil {
		e.reportf(c.File, err)
		return errReported
	}
	got, err := cursor.Lookup(v, c.Path)
	if err != nil {
		return err
	}
	if c.Compact {
		fmt.Fprintln(e.stdout, format.Compact(got))
	} else {
		fmt.Fprintln(e.stdout, format.Value(got, e.indent))
	}
	return nil
}
