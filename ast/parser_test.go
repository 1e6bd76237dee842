// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creachadair/jfmt"
	"github.com/creachadair/jfmt/ast"
	"github.com/google/go-cmp/cmp"
)

func TestParseFile(t *testing.T) {
	input, err := os.ReadFile("../testdata/sample.json")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}

	start := time.Now()
	v, err := ast.ParseSingle(bytes.NewReader(input))
	elapsed := time.Since(start)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	t.Logf("Parsed %d bytes [%v elapsed]", len(input), elapsed)

	// Inspect some of the structure of the test value to make sure we got
	// something approximating sense.
	//
	// If the testdata file changes, this may need to be updated.
	root, ok := v.(ast.Object)
	if !ok {
		t.Fatalf("Root is %T, not object", v)
	}
	if !root.IsSorted() {
		t.Errorf("Root keys are not sorted: %v", root.Keys())
	}
	mem := root.Find("episodes")
	if mem == nil {
		t.Fatal(`Key "episodes" not found`)
	}
	lst, ok := mem.Value.(ast.Array)
	if !ok {
		t.Fatalf("Member value is %T, not array", mem.Value)
	} else if len(lst) != 2 {
		t.Fatalf("Array value has %d elements, want 2", len(lst))
	}
	obj, ok := lst[0].(ast.Object)
	if !ok {
		t.Fatalf("Array entry is %T, not object", lst[0])
	}
	check(t, obj, "summary", func(s ast.String) {
		const want = "A police box <\"TARDIS\"> & a schoolgirl.\nStrange things follow."
		if string(s) != want {
			t.Errorf("String field: got %q, want %q", s, want)
		}
	})
	check(t, obj, "episode", func(v ast.Number) {
		if !v.IsInt() {
			t.Errorf("Number %s should be recognized as integer", v.JSON())
		}
	})
	check(t, obj, "rating", func(v ast.Number) {
		if v.Text() != "8.25" {
			t.Errorf("Number field: got %s, want 8.25", v.Text())
		}
	})
	check[ast.Bool](t, obj, "hasDetail", nil)
	check(t, obj, "notes", func(v ast.Value) {
		if v != ast.Null {
			t.Errorf("Null field: got %v, want null", v)
		}
	})
	check(t, root, "ids", func(v ast.Array) {
		want := []string{"9007199254740993", "-0", "1E400"}
		var got []string
		for _, elt := range v {
			got = append(got, elt.(ast.Number).Text())
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Numbers are not preserved (-want, +got):\n%s", diff)
		}
	})
	check(t, root, "unicode", func(v ast.String) {
		if string(v) != "café 😀 日本" {
			t.Errorf("Unicode string: got %q", v)
		}
	})
}

func check[T any](t *testing.T, obj ast.Object, key string, f func(T)) {
	t.Helper()
	if v := obj.Find(key); v == nil {
		t.Fatalf("Key %q not found", key)
	} else if tv, ok := v.Value.(T); !ok {
		var zero T
		t.Fatalf("Key %q value is %T, not %T", key, v.Value, zero)
	} else if f != nil {
		f(tv)
	}
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		input string
		want  ast.Value
	}{
		{"null", ast.Null},
		{" true ", ast.Bool(true)},
		{"false", ast.Bool(false)},
		{`"aA\n"`, ast.String("aA\n")},
		{"[]", ast.Array{}},
		{"{}", ast.Object{}},
		{`[1, "two", [null]]`, ast.Array{
			mustNumber(t, "1"), ast.String("two"), ast.Array{ast.Null},
		}},
		{`{"name":"John","age":30}`, ast.Object{
			ast.Field("age", mustNumber(t, "30")),
			ast.Field("name", ast.String("John")),
		}},
		{`{"b":1,"a":2,"b":3}`, ast.Object{
			ast.Field("a", mustNumber(t, "2")),
			ast.Field("b", mustNumber(t, "3")),
		}},
		// Keys sort by code point: "Zeta" < "a\x00" < "alpha" < "é".
		{`{"Zeta":1,"alpha":2,"é":3,"a\u0000":4}`, ast.Object{
			ast.Field("Zeta", mustNumber(t, "1")),
			ast.Field("a\x00", mustNumber(t, "4")),
			ast.Field("alpha", mustNumber(t, "2")),
			ast.Field("é", mustNumber(t, "3")),
		}},
	}

	opt := cmp.AllowUnexported(ast.Number{})
	for _, test := range tests {
		got, err := ast.ParseString(test.input)
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got, opt); diff != "" {
			t.Errorf("Parse %#q (-want, +got):\n%s", test.input, diff)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input      string
		line, col  int
		msgPattern string
	}{
		{"", 1, 1, "expected value"},
		{"{\n  \"key\": invalid\n}", 2, 10, "invalid literal"},
		{`{"key": "value"`, 1, 16, `expected "}" or ","`},
		{`[1, 2,]`, 1, 7, `unexpected "]"`},
		{`{"a":1} x`, 1, 9, `invalid literal "x"`},
		{"[\n\n  01]", 3, 3, "leading zeroes"},
		{`{'a': 1}`, 1, 2, "unexpected"},
		{`{"a": 1 // comment`, 1, 9, "unexpected '/'"},
		{`["日本", tru]`, 1, 8, `invalid literal "tru"`},
	}
	for _, test := range tests {
		v, err := ast.ParseString(test.input)
		if err == nil {
			t.Errorf("Parse %#q: got %v, want error", test.input, v)
			continue
		}
		var serr *jfmt.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse %#q: got error %T, want *jfmt.SyntaxError", test.input, err)
			continue
		}
		if serr.Location.Line != test.line || serr.Location.Column != test.col {
			t.Errorf("Parse %#q: error at %v, want %d:%d", test.input, serr.Location, test.line, test.col)
		}
		if !strings.Contains(serr.Message, test.msgPattern) {
			t.Errorf("Parse %#q: message %q does not contain %q", test.input, serr.Message, test.msgPattern)
		}
	}
}

func TestParseStream(t *testing.T) {
	vs, err := ast.Parse(strings.NewReader(`{"b":1,"a":2} [true] "x"  3.5`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var got []string
	for _, v := range vs {
		got = append(got, v.JSON())
	}
	want := []string{`{"a":2,"b":1}`, `[true]`, `"x"`, `3.5`}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse (-want, +got):\n%s", diff)
	}

	vs, err = ast.Parse(strings.NewReader(`1 2 ]`))
	if err == nil {
		t.Fatal("Parse: got nil, want error")
	}
	if len(vs) != 2 {
		t.Errorf("Parse: got %d complete values, want 2", len(vs))
	}
}

func mustNumber(t *testing.T, s string) ast.Number {
	t.Helper()
	n, err := ast.ParseNumber(s)
	if err != nil {
		t.Fatalf("ParseNumber(%q): %v", s, err)
	}
	return n
}
