// Package jpath implements a minimal JSONPath expression parser and builder.
//
// Only the navigational subset of JSONPath is supported: member names,
// array indices, wildcards, and recursive descent. Filters, scripts, and
// slices are not.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = ".." name
  step = "[" value "]"
  step = ".." "[" value "]"
  name = WORD
  name = "*"
 value = "'" QTEXT "'"
 value = INDEX
 value = "*"

  WORD = RE `\w+`
 QTEXT = { text with \' and \\ escapes }
 INDEX = RE `-?\d+`

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed JSONPath expression. The zero value denotes the root.
type Expr []Step

// Parse parses s as a JSONPath expression.
func Parse(s string) (Expr, error) {
	st, rest, err := parseExpr(s)
	if err != nil {
		return Expr{}, fmt.Errorf("at %q: %w", rest, err)
	}
	return st, nil
}

// Key returns a copy of e extended by a member step for key.
func (e Expr) Key(key string) Expr { return e.with(Step{Op: Member, Key: key}) }

// Index returns a copy of e extended by an index step for i.
func (e Expr) Index(i int) Expr { return e.with(Step{Op: Index, Index: i}) }

func (e Expr) with(s Step) Expr { return append(e[:len(e):len(e)], s) }

// IsConcrete reports whether e denotes at most one location, that is, it has
// no wildcard or recursive steps.
func (e Expr) IsConcrete() bool {
	for _, s := range e {
		if s.Op == Wildcard || s.Deep {
			return false
		}
	}
	return true
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		if s.Deep {
			buf.WriteString("..")
		}
		switch s.Op {
		case Member:
			if isWord(s.Key) {
				if !s.Deep {
					buf.WriteString(".")
				}
				buf.WriteString(s.Key)
			} else {
				fmt.Fprintf(&buf, "['%s']", quoteName(s.Key))
			}
		case Index:
			fmt.Fprintf(&buf, "[%d]", s.Index)
		case Wildcard:
			if !s.Deep {
				buf.WriteString(".")
			}
			buf.WriteString("*")
		}
	}
	return buf.String()
}

func parseExpr(s string) ([]Step, string, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, s, errors.New("missing root marker")
	}
	return parseSteps(t)
}

func parseSteps(s string) (steps []Step, rest string, _ error) {
	for s != "" {
		step, rest, err := parseStep(s)
		if err != nil {
			return nil, rest, err
		}
		steps = append(steps, step)
		s = rest
	}
	return steps, s, nil
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, ".."); ok {
		if u, ok := strings.CutPrefix(t, "["); ok {
			step, rest, err := parseBracket(u)
			step.Deep = true
			return step, rest, err
		}
		step, rest, err := parseName(t)
		if err != nil {
			return Step{}, t, fmt.Errorf("invalid ..name: %w", err)
		}
		step.Deep = true
		return step, rest, nil
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		step, rest, err := parseName(t)
		if err != nil {
			return Step{}, t, fmt.Errorf("invalid .name: %w", err)
		}
		return step, rest, nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		return parseBracket(t)
	}
	return Step{}, s, errors.New("invalid path step")
}

func parseName(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "*"); ok {
		return Step{Op: Wildcard}, t, nil
	}
	if m := wordRE.FindString(s); m != "" {
		return Step{Op: Member, Key: m}, s[len(m):], nil
	}
	return Step{}, s, errors.New("invalid name")
}

// parseBracket parses the contents of a bracketed step, following the "[".
func parseBracket(s string) (_ Step, rest string, _ error) {
	var step Step
	if t, ok := strings.CutPrefix(s, "*"); ok {
		step, rest = Step{Op: Wildcard}, t
	} else if t, ok := strings.CutPrefix(s, "'"); ok {
		key, u, err := parseQuoted(t)
		if err != nil {
			return Step{}, t, err
		}
		step, rest = Step{Op: Member, Key: key}, u
	} else if m := indexRE.FindString(s); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil {
			return Step{}, s, fmt.Errorf("invalid index: %w", err)
		}
		step, rest = Step{Op: Index, Index: v}, s[len(m):]
	} else {
		return Step{}, s, fmt.Errorf("invalid value: %q", s)
	}
	rest, ok := strings.CutPrefix(rest, "]")
	if !ok {
		return Step{}, rest, errors.New("missing close bracket")
	}
	return step, rest, nil
}

// parseQuoted parses a quoted name up to and including its closing quote.
func parseQuoted(s string) (text, rest string, _ error) {
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			return buf.String(), s[i+1:], nil
		case '\\':
			if i+1 == len(s) {
				return "", s, errors.New("incomplete escape")
			}
			i++
			buf.WriteByte(s[i])
		default:
			buf.WriteByte(s[i])
		}
	}
	return "", s, errors.New("unterminated quoted name")
}

func isWord(s string) bool { return s != "" && wordRE.FindString(s) == s }

func quoteName(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

var (
	wordRE  = regexp.MustCompile(`^\w+`)
	indexRE = regexp.MustCompile(`^-?\d+`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid  Op = iota // invalid operator
	Member             // member lookup (.name or ['name'])
	Index              // array index lookup ([n])
	Wildcard           // wildcard expansion (*)
)

var opText = map[Op]string{
	Invalid:  "invalid",
	Member:   "member",
	Index:    "index",
	Wildcard: "*",
}

func (o Op) String() string {
	if s, ok := opText[o]; ok {
		return s
	}
	return opText[Invalid]
}

// A Step is a single step of a JSONPath expression.
type Step struct {
	Op    Op
	Key   string // for Member
	Index int    // for Index; negative values count from the end
	Deep  bool   // match at any depth below the current location (..)
}
