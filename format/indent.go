// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package format

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSpaces is the largest number of spaces accepted for an indentation unit.
const MaxSpaces = 8

// An Indent describes the unit of indentation used for pretty printing.
// The zero value is equivalent to Default.
type Indent struct {
	tabs bool
	n    int
}

// Default is the default indentation, four spaces.
var Default = Spaces(4)

// Tabs indents each level with a single tab.
var Tabs = Indent{tabs: true}

// Spaces returns an Indent of n spaces per level.
// It panics if n < 1 or n > MaxSpaces.
func Spaces(n int) Indent {
	if n < 1 || n > MaxSpaces {
		panic(fmt.Sprintf("invalid indent width %d", n))
	}
	return Indent{n: n}
}

// ParseIndent parses an indentation style. It accepts a bare width ("2"),
// "spaces:N", and "tab" or "tabs".
func ParseIndent(s string) (Indent, error) {
	switch s = strings.ToLower(strings.TrimSpace(s)); s {
	case "tab", "tabs":
		return Tabs, nil
	case "", "default":
		return Default, nil
	}
	w := strings.TrimPrefix(s, "spaces:")
	n, err := strconv.Atoi(w)
	if err != nil {
		return Indent{}, fmt.Errorf("invalid indent %q", s)
	} else if n < 1 || n > MaxSpaces {
		return Indent{}, fmt.Errorf("indent width %d out of range 1..%d", n, MaxSpaces)
	}
	return Indent{n: n}, nil
}

// IsTabs reports whether i indents with tabs.
func (i Indent) IsTabs() bool { return i.tabs }

// Width reports the number of spaces per level, or 0 for tabs.
func (i Indent) Width() int {
	if i.tabs {
		return 0
	} else if i.n == 0 {
		return Default.n
	}
	return i.n
}

// Unit returns the text of one level of indentation.
func (i Indent) Unit() string {
	if i.tabs {
		return "\t"
	}
	return strings.Repeat(" ", i.Width())
}

func (i Indent) String() string {
	if i.tabs {
		return "tabs"
	}
	return "spaces:" + strconv.Itoa(i.Width())
}

// MarshalText implements encoding.TextMarshaler.
func (i Indent) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler using ParseIndent.
func (i *Indent) UnmarshalText(text []byte) error {
	v, err := ParseIndent(string(text))
	if err != nil {
		return err
	}
	*i = v
	return nil
}
