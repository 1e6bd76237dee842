// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package history_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creachadair/jfmt/history"
	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// fakeClock returns successive times one minute apart.
func fakeClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Minute)
		return now
	}
}

func mustOpen(t *testing.T, opts ...history.Option) *history.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sub", "history.json")
	s, err := history.Open(path, append([]history.Option{history.WithClock(fakeClock())}, opts...)...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func TestStore(t *testing.T) {
	s := mustOpen(t)

	// A new history is empty, and the file need not exist.
	if es, err := s.List(); err != nil || len(es) != 0 {
		t.Fatalf("List: got (%v, %v), want empty", es, err)
	}

	e1, err := s.Save(`{"a": 1}`)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := uuid.Parse(e1.ID); err != nil {
		t.Errorf("Save: ID %q is not a UUID: %v", e1.ID, err)
	}
	if e1.Size != 8 || e1.Preview != `{"a": 1}` || e1.Content != `{"a": 1}` {
		t.Errorf("Save: got %+v", e1)
	}
	if want := time.Date(2024, 3, 1, 12, 1, 0, 0, time.UTC); !e1.Timestamp.Equal(want) {
		t.Errorf("Save: timestamp %v, want %v", e1.Timestamp, want)
	}

	e2, err := s.Save("[\n  true\n]")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if e2.ID == e1.ID {
		t.Errorf("Save: duplicate ID %q", e2.ID)
	}

	es, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff([]history.Entry{e2, e1}, es); diff != "" {
		t.Errorf("List (-want, +got):\n%s", diff)
	}

	got, err := s.Get(e1.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff(e1, got); diff != "" {
		t.Errorf("Get (-want, +got):\n%s", diff)
	}

	if err := s.Delete(e1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(e1.ID); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Get deleted: got %v, want %v", err, history.ErrNotFound)
	}
	if err := s.Delete(e1.ID); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Delete deleted: got %v, want %v", err, history.ErrNotFound)
	}

	// A second store on the same file sees the same entries.
	s2, err := history.Open(s.Path())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if es, err := s2.List(); err != nil {
		t.Fatalf("List: %v", err)
	} else if diff := cmp.Diff([]history.Entry{e2}, es); diff != "" {
		t.Errorf("List reopened (-want, +got):\n%s", diff)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if es, err := s.List(); err != nil || len(es) != 0 {
		t.Errorf("List after Clear: got (%v, %v), want empty", es, err)
	}
}

func TestFileFormat(t *testing.T) {
	s := mustOpen(t)
	e, err := s.Save(`"x"`)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("History file is not a JSON array: %v\n%s", err, data)
	}
	want := []map[string]any{{
		"id":        e.ID,
		"content":   `"x"`,
		"timestamp": "2024-03-01T12:01:00Z",
		"preview":   `"x"`,
		"size":      float64(3),
	}}
	if diff := cmp.Diff(want, raw); diff != "" {
		t.Errorf("File contents (-want, +got):\n%s", diff)
	}

	// No temporary files are left behind.
	ents, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(ents) != 1 {
		var names []string
		for _, e := range ents {
			names = append(names, e.Name())
		}
		t.Errorf("Directory has extra files: %q", names)
	}
}

func TestLimit(t *testing.T) {
	s := mustOpen(t, history.WithLimit(3))
	var ids []string
	for i := range 5 {
		e, err := s.Save(fmt.Sprintf("[%d]", i))
		if err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
		ids = append(ids, e.ID)
	}
	es, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []string
	for _, e := range es {
		got = append(got, e.Content)
	}
	if diff := cmp.Diff([]string{"[4]", "[3]", "[2]"}, got); diff != "" {
		t.Errorf("List (-want, +got):\n%s", diff)
	}
	if _, err := s.Get(ids[0]); !errors.Is(err, history.ErrNotFound) {
		t.Errorf("Get oldest: got %v, want %v", err, history.ErrNotFound)
	}
	for i := 1; i < len(es); i++ {
		if !es[i-1].Timestamp.After(es[i].Timestamp) {
			t.Errorf("Entries out of order: %v before %v", es[i-1].Timestamp, es[i].Timestamp)
		}
	}
}

func TestConcurrent(t *testing.T) {
	s := mustOpen(t, history.WithLimit(100))
	var wg sync.WaitGroup
	for i := range 20 {
		wg.Go(func() {
			if _, err := s.Save(fmt.Sprintf(`{"n": %d}`, i)); err != nil {
				t.Errorf("Save %d: %v", i, err)
			}
		})
	}
	wg.Wait()
	es, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(es) != 20 {
		t.Errorf("List: got %d entries, want 20", len(es))
	}
}

func TestCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(`{"not": "an array"`), 0600); err != nil {
		t.Fatal(err)
	}
	s, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if es, err := s.List(); err == nil {
		t.Errorf("List: got %v, want error", es)
	}
	if _, err := s.Save("1"); err == nil {
		t.Error("Save: got nil, want error")
	}
	if _, err := history.Open(""); err == nil {
		t.Error("Open(empty): got nil, want error")
	}
}

func TestPreview(t *testing.T) {
	long := strings.Repeat("ab ", 40) // 120 characters
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{`{"a":1}`, `{"a":1}`},
		{"{\n    \"a\": 1,\n\t\"b\": [\r\n]\n}\n", `{ "a": 1, "b": [ ] }`},
		{long, strings.TrimSpace(strings.Repeat("ab ", 33)) + " a..."},
		{strings.Repeat("é", 101), strings.Repeat("é", 100) + "..."},
		{strings.Repeat("x", 100), strings.Repeat("x", 100)},
	}
	for _, test := range tests {
		if got := history.Preview(test.input); got != test.want {
			t.Errorf("Preview(%q):\n got %q\nwant %q", test.input, got, test.want)
		}
	}
}
