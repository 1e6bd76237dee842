// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package outline_test

import (
	"os"
	"testing"

	"github.com/creachadair/jfmt/ast"
	"github.com/creachadair/jfmt/format"
	"github.com/creachadair/jfmt/outline"
	"github.com/creachadair/jfmt/validate"
	"github.com/google/go-cmp/cmp"
)

const testJSON = `{
  "store": {
    "book": [
      {"author": "Nigel Rees", "title": "Sayings of the Century", "price": 8.95},
      {"author": "Evelyn Waugh", "title": "Sword of Honour", "price": 12.99, "tags": []}
    ],
    "bicycle": {"color": "red", "price": 19.95}
  },
  "odd key": null,
  "flag": true
}`

func mustBuild(t *testing.T, text string) *outline.Node {
	t.Helper()
	v, err := ast.ParseString(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return outline.Build(v)
}

func TestBuild(t *testing.T) {
	root := mustBuild(t, testJSON)
	if root.Key != "" || root.Type != ast.ObjectKind || root.Parent() != nil {
		t.Errorf("Root: got key %q type %v parent %v", root.Key, root.Type, root.Parent())
	}
	if got, want := root.Len(), 3; got != want {
		t.Errorf("Root Len: got %d, want %d", got, want)
	}

	// List every node as path, type, display.
	var got []string
	root.Walk(func(n *outline.Node) bool {
		got = append(got, n.String())
		return true
	})
	want := []string{
		"$ (object) {3}",
		"$.flag (boolean) true",
		"$['odd key'] (null) null",
		"$.store (object) {2}",
		"$.store.bicycle (object) {2}",
		"$.store.bicycle.color (string) \"red\"",
		"$.store.bicycle.price (number) 19.95",
		"$.store.book (array) [2]",
		"$.store.book[0] (object) {3}",
		"$.store.book[0].author (string) \"Nigel Rees\"",
		"$.store.book[0].price (number) 8.95",
		"$.store.book[0].title (string) \"Sayings of the Century\"",
		"$.store.book[1] (object) {4}",
		"$.store.book[1].author (string) \"Evelyn Waugh\"",
		"$.store.book[1].price (number) 12.99",
		"$.store.book[1].tags (array) [0]",
		"$.store.book[1].title (string) \"Sword of Honour\"",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk (-want, +got):\n%s", diff)
	}

	book, err := root.Find("$.store.book")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !book.Expandable() || book.Children[1].Key != "[1]" || !book.Children[1].IsLast() || book.Children[0].IsLast() {
		t.Errorf("Book: unexpected structure %v", book)
	}
	if p := book.Children[0].Parent(); p != book {
		t.Errorf("Parent: got %v, want %v", p, book)
	}
	tags, err := root.Find("$.store.book[1].tags")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if tags.Expandable() {
		t.Error("Empty array is expandable")
	}
}

func TestCount(t *testing.T) {
	input, err := os.ReadFile("../testdata/sample.json")
	if err != nil {
		t.Fatalf("Reading test input: %v", err)
	}
	for _, text := range []string{testJSON, string(input), "1", "[]", `[[], {}, [[null]]]`} {
		root := mustBuild(t, text)
		res := validate.Text(text)
		if !res.Valid {
			t.Fatalf("Validate: %v", res.Err)
		}
		if got, want := root.Count(), res.Stats.Nodes(); got != want {
			t.Errorf("Count: got %d, want %d", got, want)
		}
	}
}

func TestWalkPrune(t *testing.T) {
	root := mustBuild(t, testJSON)
	var n int
	root.Walk(func(node *outline.Node) bool {
		n++
		return node.Key != "store"
	})
	if n != 4 { // root, flag, odd key, store
		t.Errorf("Walk visited %d nodes, want 4", n)
	}
}

func TestFind(t *testing.T) {
	root := mustBuild(t, testJSON)
	tests := []struct {
		path string
		want string // display text; empty for error
		norm string // path of the node found; empty if the same as path
	}{
		{"$", "{3}", ""},
		{"$.flag", "true", ""},
		{"$['odd key']", "null", ""},
		{"$.store.book[-1].title", `"Sword of Honour"`, "$.store.book[1].title"},
		{"$.store['bicycle'].price", "19.95", "$.store.bicycle.price"},

		{"$.store.book.title", "", ""},
		{"$.store.book[2]", "", ""},
		{"$.store.*", "", ""},
		{"$..price", "", ""},
		{"store", "", ""},
		{"$.flag[0]", "", ""},
	}
	for _, test := range tests {
		n, err := root.Find(test.path)
		if test.want == "" {
			if err == nil {
				t.Errorf("Find(%q): got %v, want error", test.path, n)
			}
			continue
		}
		if err != nil {
			t.Errorf("Find(%q): unexpected error: %v", test.path, err)
			continue
		}
		if got := n.Display(); got != test.want {
			t.Errorf("Find(%q): got %s, want %s", test.path, got, test.want)
		}
		norm := test.norm
		if norm == "" {
			norm = test.path
		}
		if got := n.Path.String(); got != norm {
			t.Errorf("Find(%q): node path is %q, want %q", test.path, got, norm)
		}
	}
}

func TestSelect(t *testing.T) {
	root := mustBuild(t, testJSON)
	tests := []struct {
		path string
		want []string
	}{
		{"$", []string{"$"}},
		{"$..price", []string{"$.store.bicycle.price", "$.store.book[0].price", "$.store.book[1].price"}},
		{"$.store.book[*].author", []string{"$.store.book[0].author", "$.store.book[1].author"}},
		{"$.store.*", []string{"$.store.bicycle", "$.store.book"}},
		{"$..book[-1]", []string{"$.store.book[1]"}},
		{"$..tags.*", nil},
		{"$.nonesuch..x", nil},
		{"$..[0]", []string{"$.store.book[0]"}},
	}
	for _, test := range tests {
		ns, err := root.Select(test.path)
		if err != nil {
			t.Errorf("Select(%q): unexpected error: %v", test.path, err)
			continue
		}
		var got []string
		for _, n := range ns {
			got = append(got, n.Path.String())
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Select(%q) (-want, +got):\n%s", test.path, diff)
		}
	}

	if _, err := root.Select("$["); err == nil {
		t.Error("Select: got nil, want error for an invalid path")
	}

	all, err := root.Select("$..*")
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if got, want := len(all), root.Count()-1; got != want {
		t.Errorf("Select($..*): got %d nodes, want %d", got, want)
	}
}

func TestNodeJSON(t *testing.T) {
	root := mustBuild(t, testJSON)
	n, err := root.Find("$.store.bicycle")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got, want := n.JSON(format.Spaces(2)), "{\n  \"color\": \"red\",\n  \"price\": 19.95\n}"; got != want {
		t.Errorf("JSON: got %q, want %q", got, want)
	}

	// Hand-built values are outlined in sorted key order.
	u := outline.Build(ast.Object{ast.Field("b", ast.Int(1)), ast.Field("a", ast.Int(2))})
	if got := u.Children[0].Key; got != "a" {
		t.Errorf("Build: first key is %q, want a", got)
	}
}
