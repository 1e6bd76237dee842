// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package format renders JSON values in canonical form.
//
// Canonical output has object keys in ascending order of code points, the
// number text exactly as written in the source, and strings escaped with a
// fixed set of rules: quotation mark, backslash, newline, carriage return and
// tab get their two-character escapes, other control characters are written
// as \u00xx, and all remaining characters are copied unescaped.
//
// Pretty output puts each value on its own line, indented by one unit per
// level of nesting. Empty arrays and objects are written as [] and {}.
// Compact output has no insignificant whitespace.
package format

import (
	"slices"

	"github.com/creachadair/jfmt/ast"
	"github.com/creachadair/jfmt/internal/escape"
	"go4.org/mem"
)

// Text parses text as a single JSON value and returns its canonical pretty
// printed form using the given indentation. If text is not valid JSON, the
// error from the parser (a *jfmt.SyntaxError) is returned unchanged.
func Text(text string, ind Indent) (string, error) {
	v, err := ast.ParseString(text)
	if err != nil {
		return "", err
	}
	p := printer{unit: ind.Unit(), buf: make([]byte, 0, 2*len(text))}
	p.formatValue(v, 0)
	return string(p.buf), nil
}

// Minify parses text as a single JSON value and returns its canonical compact
// form. If text is not valid JSON, the error from the parser is returned.
func Minify(text string) (string, error) {
	v, err := ast.ParseString(text)
	if err != nil {
		return "", err
	}
	p := printer{compact: true, buf: make([]byte, 0, len(text))}
	p.formatValue(v, 0)
	return string(p.buf), nil
}

// Value renders v in canonical pretty printed form.
func Value(v ast.Value, ind Indent) string {
	p := printer{unit: ind.Unit()}
	p.formatValue(v, 0)
	return string(p.buf)
}

// Compact renders v in canonical compact form. Unlike v.JSON, the keys of
// objects are emitted in sorted order even if v was not built by the parser.
func Compact(v ast.Value) string {
	p := printer{compact: true}
	p.formatValue(v, 0)
	return string(p.buf)
}

// A printer accumulates the rendering of a value.
type printer struct {
	compact bool
	unit    string // one level of indentation
	buf     []byte
}

func (p *printer) formatValue(v ast.Value, depth int) {
	switch t := v.(type) {
	case ast.String:
		p.buf = escape.AppendQuote(p.buf, mem.S(string(t)))
	case ast.Array:
		p.formatArray(t, depth)
	case ast.Object:
		p.formatObject(t, depth)
	case *ast.Member:
		p.formatMember(t, depth)
	default:
		// Null, Bool, and Number render as their own JSON text.
		p.buf = append(p.buf, v.JSON()...)
	}
}

func (p *printer) formatArray(a ast.Array, depth int) {
	if len(a) == 0 {
		p.buf = append(p.buf, "[]"...)
		return
	}
	p.buf = append(p.buf, '[')
	for i, v := range a {
		if i > 0 {
			p.buf = append(p.buf, ',')
		}
		p.newline(depth + 1)
		p.formatValue(v, depth+1)
	}
	p.newline(depth)
	p.buf = append(p.buf, ']')
}

func (p *printer) formatObject(o ast.Object, depth int) {
	if len(o) == 0 {
		p.buf = append(p.buf, "{}"...)
		return
	}
	if !o.IsSorted() {
		o = slices.Clone(o).Sort()
	}
	p.buf = append(p.buf, '{')
	for i, m := range o {
		if i > 0 {
			p.buf = append(p.buf, ',')
		}
		p.newline(depth + 1)
		p.formatMember(m, depth+1)
	}
	p.newline(depth)
	p.buf = append(p.buf, '}')
}

func (p *printer) formatMember(m *ast.Member, depth int) {
	p.buf = escape.AppendQuote(p.buf, mem.S(m.Key))
	p.buf = append(p.buf, ':')
	if !p.compact {
		p.buf = append(p.buf, ' ')
	}
	p.formatValue(m.Value, depth)
}

// newline starts a new line indented to depth, unless the printer is compact.
func (p *printer) newline(depth int) {
	if p.compact {
		return
	}
	p.buf = append(p.buf, '\n')
	for range depth {
		p.buf = append(p.buf, p.unit...)
	}
}
