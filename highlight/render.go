// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package highlight

import (
	"cmp"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// A Palette assigns a display color to each token category. Colors are CSS
// hex colors of the form "#rrggbb". Plain text is never colored.
type Palette struct {
	String  string `json:"string,omitempty" yaml:"string,omitempty"`
	Key     string `json:"key,omitempty" yaml:"key,omitempty"`
	Number  string `json:"number,omitempty" yaml:"number,omitempty"`
	Boolean string `json:"boolean,omitempty" yaml:"boolean,omitempty"`
	Null    string `json:"null,omitempty" yaml:"null,omitempty"`
	Punct   string `json:"punct,omitempty" yaml:"punct,omitempty"`
}

// DefaultPalette is the palette used by HTML and Terminal.
var DefaultPalette = Palette{
	String:  "#ce9178",
	Key:     "#9cdcfe",
	Number:  "#b5cea8",
	Boolean: "#569cd6",
	Null:    "#569cd6",
	Punct:   "#d4d4d4",
}

// Merge returns a copy of p in which empty entries are filled from base.
func (p Palette) Merge(base Palette) Palette {
	return Palette{
		String:  cmp.Or(p.String, base.String),
		Key:     cmp.Or(p.Key, base.Key),
		Number:  cmp.Or(p.Number, base.Number),
		Boolean: cmp.Or(p.Boolean, base.Boolean),
		Null:    cmp.Or(p.Null, base.Null),
		Punct:   cmp.Or(p.Punct, base.Punct),
	}
}

// Color returns the color assigned to c, or "" if c is uncolored.
func (p Palette) Color(c Category) string {
	switch c {
	case StringValue:
		return p.String
	case ObjectKey:
		return p.Key
	case Number:
		return p.Number
	case Boolean:
		return p.Boolean
	case Null:
		return p.Null
	case Punct:
		return p.Punct
	default:
		return ""
	}
}

// Validate reports an error if any non-empty entry of p is not a hex color.
func (p Palette) Validate() error {
	for c := StringValue; c <= Punct; c++ {
		if s := p.Color(c); s != "" {
			if _, err := parseHex(s); err != nil {
				return fmt.Errorf("%v color: %w", c, err)
			}
		}
	}
	return nil
}

// HTML renders text as HTML using DefaultPalette.
func HTML(text string) string { return DefaultPalette.HTML(text) }

// HTML renders text as a preformatted HTML block, in which each classified
// token is wrapped in a span colored by p. The characters <, > and & are
// replaced by character references throughout. Empty input renders as an
// empty string.
func (p Palette) HTML(text string) string {
	if text == "" {
		return ""
	}
	var buf strings.Builder
	buf.Grow(3 * len(text))
	buf.WriteString(`<pre style="margin:0;font-family:inherit;">`)
	for tok := range Tokens(text) {
		c := p.Color(tok.Category)
		if c == "" {
			htmlEscaper.WriteString(&buf, tok.Text)
			continue
		}
		buf.WriteString(`<span style="color:`)
		htmlEscaper.WriteString(&buf, c)
		buf.WriteString(`">`)
		htmlEscaper.WriteString(&buf, tok.Text)
		buf.WriteString(`</span>`)
	}
	buf.WriteString(`</pre>`)
	return buf.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// A TermPalette assigns a terminal color to each token category.
// Categories with no entry are written without color.
type TermPalette map[Category]*color.Color

// DefaultTermPalette uses the basic ANSI colors, for terminals that do not
// support 24-bit color.
var DefaultTermPalette = TermPalette{
	StringValue: color.New(color.FgYellow),
	ObjectKey:   color.New(color.FgCyan, color.Bold),
	Number:      color.New(color.FgGreen),
	Boolean:     color.New(color.FgBlue),
	Null:        color.New(color.FgBlue),
	Punct:       color.New(color.FgWhite),
}

// Term returns a TermPalette that renders the colors of p as 24-bit color.
// Entries of p that are not valid hex colors are omitted.
func (p Palette) Term() TermPalette {
	tp := make(TermPalette)
	for c := StringValue; c <= Punct; c++ {
		rgb, err := parseHex(p.Color(c))
		if err != nil {
			continue
		}
		tp[c] = color.RGB(int(rgb>>16&0xff), int(rgb>>8&0xff), int(rgb&0xff))
	}
	return tp
}

// WithColor returns a copy of tp whose colors are all enabled or all disabled,
// overriding color.NoColor. The colors of tp are not changed.
func (tp TermPalette) WithColor(enabled bool) TermPalette {
	out := make(TermPalette, len(tp))
	for cat, c := range tp {
		if c == nil {
			continue
		}
		cp := *c
		if enabled {
			cp.EnableColor()
		} else {
			cp.DisableColor()
		}
		out[cat] = &cp
	}
	return out
}

// Terminal writes text to w with ANSI color sequences from tp. When color
// output is disabled (see color.NoColor), text is written unchanged.
func Terminal(w io.Writer, text string, tp TermPalette) error {
	for tok := range Tokens(text) {
		var err error
		if c, ok := tp[tok.Category]; ok && c != nil && tok.Category != Plain {
			_, err = c.Fprint(w, tok.Text)
		} else {
			_, err = io.WriteString(w, tok.Text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// parseHex parses a color of the form "#rrggbb".
func parseHex(s string) (uint32, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q", s)
	}
	return uint32(v), nil
}
