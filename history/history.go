// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package history implements a persistent, bounded list of JSON documents
// that were previously processed, most recent first.
//
// A history is stored as a single file containing a JSON array of entries.
// Every change rewrites the whole file atomically, so that a reader never
// observes a partially-written history.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// DefaultLimit is the default maximum number of entries kept.
const DefaultLimit = 50

// PreviewLength is the number of characters of content shown in a preview.
const PreviewLength = 100

// ErrNotFound is reported when a requested entry does not exist.
var ErrNotFound = errors.New("entry not found")

// An Entry is a single saved document.
type Entry struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Preview   string    `json:"preview"`
	Size      int       `json:"size"` // bytes
}

// Store is a history persisted in a file. A Store is safe for concurrent use
// by multiple goroutines within a process.
type Store struct {
	path  string
	limit int
	log   *slog.Logger
	now   func() time.Time

	mu sync.Mutex
}

// An Option configures a Store.
type Option func(*Store)

// WithLimit sets the maximum number of entries kept. Values less than 1 are
// replaced by DefaultLimit.
func WithLimit(n int) Option {
	return func(s *Store) {
		if n < 1 {
			n = DefaultLimit
		}
		s.limit = n
	}
}

// WithLogger sets the logger used to report changes to the history.
func WithLogger(log *slog.Logger) Option { return func(s *Store) { s.log = log } }

// WithClock sets the function used to timestamp new entries.
func WithClock(now func() time.Time) Option { return func(s *Store) { s.now = now } }

// Open returns a Store for the history file at path. The file need not exist;
// it is created when the first entry is saved.
func Open(path string, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("empty history path")
	}
	s := &Store{
		path:  path,
		limit: DefaultLimit,
		log:   slog.New(slog.DiscardHandler),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path reports the path of the history file.
func (s *Store) Path() string { return s.path }

// Save adds a new entry with the given content at the front of the history,
// discarding the oldest entries beyond the limit.
func (s *Store) Save(content string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	es, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	e := Entry{
		ID:        uuid.NewString(),
		Content:   content,
		Timestamp: s.now().Truncate(time.Second),
		Preview:   Preview(content),
		Size:      len(content),
	}
	es = append([]Entry{e}, es...)
	if len(es) > s.limit {
		s.log.Debug("trimming history", "dropped", len(es)-s.limit, "limit", s.limit)
		es = es[:s.limit]
	}
	if err := s.store(es); err != nil {
		return Entry{}, err
	}
	s.log.Debug("saved history entry", "id", e.ID, "size", e.Size)
	return e, nil
}

// List returns all the entries in the history, most recent first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns the entry with the given ID, or ErrNotFound.
func (s *Store) Get(id string) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	es, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	i := slices.IndexFunc(es, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return Entry{}, fmt.Errorf("get %q: %w", id, ErrNotFound)
	}
	return es[i], nil
}

// Delete removes the entry with the given ID, or reports ErrNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	es, err := s.load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(es, func(e Entry) bool { return e.ID == id })
	if i < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	if err := s.store(slices.Delete(es, i, i+1)); err != nil {
		return err
	}
	s.log.Debug("deleted history entry", "id", id)
	return nil
}

// Clear removes all entries from the history.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store(nil); err != nil {
		return err
	}
	s.log.Debug("cleared history", "path", s.path)
	return nil
}

// load reads the history file. A missing file is an empty history.
// The caller must hold s.mu.
func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var es []Entry
	if err := json.Unmarshal(data, &es); err != nil {
		return nil, fmt.Errorf("decode history %q: %w", s.path, err)
	}
	return es, nil
}

// store replaces the history file with es. The caller must hold s.mu.
func (s *Store) store(es []Entry) error {
	if es == nil {
		es = []Entry{}
	}
	data, err := json.MarshalIndent(es, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}
	f, err := os.CreateTemp(dir, ".history-*")
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp) // no-op after a successful rename

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, s.path)
	}
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}

// Preview returns a one-line summary of content: its first PreviewLength
// characters with runs of whitespace collapsed, followed by "..." if the
// content is longer.
func Preview(content string) string {
	head, cut := content, false
	if utf8.RuneCountInString(content) > PreviewLength {
		head, cut = string([]rune(content)[:PreviewLength]), true
	}
	out := strings.Join(strings.Fields(head), " ")
	if cut {
		out += "..."
	}
	return out
}
