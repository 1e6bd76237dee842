// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package validate checks JSON text for syntactic validity and reports
// statistics about the structure of valid documents.
package validate

import (
	"errors"

	"github.com/creachadair/jfmt"
	"github.com/creachadair/jfmt/ast"
)

// Stats records aggregate statistics about a JSON value.
type Stats struct {
	Objects  int `json:"object_count"`
	Arrays   int `json:"array_count"`
	Strings  int `json:"string_count"`
	Numbers  int `json:"number_count"`
	Booleans int `json:"boolean_count"`
	Nulls    int `json:"null_count"`

	// MaxDepth is the greatest nesting level reached. The root is at depth 0,
	// and the elements of a container are one level deeper than the container.
	MaxDepth int `json:"max_depth"`

	// TotalKeys is the number of object members at every level.
	TotalKeys int `json:"total_keys"`
}

// Nodes reports the total number of values counted by s.
func (s Stats) Nodes() int {
	return s.Objects + s.Arrays + s.Strings + s.Numbers + s.Booleans + s.Nulls
}

// Result is the outcome of validating a JSON text.
type Result struct {
	Valid bool              `json:"is_valid"`
	Err   *jfmt.SyntaxError `json:"error,omitempty"`
	Stats Stats             `json:"stats"`
}

// Text parses text as a single JSON value. If it is valid, the result reports
// statistics for the value; otherwise it reports the syntax error and the
// statistics are zero.
func Text(text string) Result {
	v, err := ast.ParseString(text)
	if err != nil {
		var serr *jfmt.SyntaxError
		if !errors.As(err, &serr) {
			// Err is always set when Valid is false.
			serr = &jfmt.SyntaxError{Location: jfmt.LineCol{Line: 1, Column: 1}, Message: err.Error()}
		}
		return Result{Err: serr}
	}
	return Result{Valid: true, Stats: Collect(v)}
}

// Collect walks v depth first and returns its statistics.
func Collect(v ast.Value) Stats {
	var s Stats
	s.walk(v, 0)
	return s
}

func (s *Stats) walk(v ast.Value, depth int) {
	s.MaxDepth = max(s.MaxDepth, depth)
	switch t := v.(type) {
	case ast.Object:
		s.Objects++
		s.TotalKeys += len(t)
		for _, m := range t {
			s.walk(m.Value, depth+1)
		}
	case ast.Array:
		s.Arrays++
		for _, elt := range t {
			s.walk(elt, depth+1)
		}
	case *ast.Member:
		s.walk(t.Value, depth)
	case ast.String:
		s.Strings++
	case ast.Number:
		s.Numbers++
	case ast.Bool:
		s.Booleans++
	default:
		if v == ast.Null {
			s.Nulls++
		}
	}
}
