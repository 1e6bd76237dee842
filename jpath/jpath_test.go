package jpath_test

import (
	"testing"

	"github.com/creachadair/jfmt/jpath"
	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  string // if empty, same as input
	}{
		{"$", ""},
		{"$.store.book[*]..author", "$.store.book.*..author"},
		{"$..author", ""},
		{"$.store.*", ""},
		{"$.store..price", ""},
		{"$..book[2]", ""},
		{"$..book[-1]", ""},
		{"$..*", ""},
		{"$..[0]", ""},
		{"$['apple sauce'].pearPlum..['cherry apple']", ""},
		{"$['plain']", "$.plain"},
		{`$['it\'s']['back\\slash']`, ""},
		{"$[''][0][1]", ""},
	}
	for _, test := range tests {
		e, err := jpath.Parse(test.input)
		if err != nil {
			t.Errorf("Parse %q: %v", test.input, err)
			continue
		}

		want := test.want
		if want == "" {
			want = test.input
		}
		if got := e.String(); got != want {
			t.Errorf("Parse %q:\n got %q\nwant %q", test.input, got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{
		"",
		"store",
		"$.",
		"$..",
		"$[",
		"$[1",
		"$['open",
		"$[?(@.isbn)]",
		"$[1:2]",
		"$.a b",
	} {
		if e, err := jpath.Parse(bad); err == nil {
			t.Errorf("Parse %q: got %v, want error", bad, e)
		} else {
			t.Logf("Parse %q: got expected error: %v", bad, err)
		}
	}
}

func TestBuild(t *testing.T) {
	var root jpath.Expr
	a := root.Key("items").Index(3)
	b := a.Key("first name")
	c := a.Key("id")

	if got, want := b.String(), "$.items[3]['first name']"; got != want {
		t.Errorf("Build: got %q, want %q", got, want)
	}
	if got, want := c.String(), "$.items[3].id"; got != want {
		t.Errorf("Build: got %q, want %q", got, want)
	}
	if !b.IsConcrete() {
		t.Errorf("IsConcrete(%v): got false, want true", b)
	}

	// A built path parses back to the same steps.
	p, err := jpath.Parse(b.String())
	if err != nil {
		t.Fatalf("Parse %q: %v", b, err)
	}
	if diff := cmp.Diff(b, p); diff != "" {
		t.Errorf("Parse(String) (-want, +got):\n%s", diff)
	}

	w, err := jpath.Parse("$.items..id")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if w.IsConcrete() {
		t.Errorf("IsConcrete(%v): got true, want false", w)
	}
}
