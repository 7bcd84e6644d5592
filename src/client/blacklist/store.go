// Package blacklist persists the URLs and identity keys the user has excluded
// from search results.
//
// The file is a small JSON object, {"urls": [...], "keys": [...]}, with both
// arrays sorted. It is read whole on Load and rewritten whole on Save.
// RedisStore keeps the same two sets in Redis for teams sharing one list.
package blacklist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// fileFormat is the on-disk representation.
type fileFormat struct {
	URLs []string `json:"urls"`
	Keys []string `json:"keys"`
}

// Store holds the excluded URL and identity-key sets.
type Store struct {
	mu     sync.RWMutex
	path   string
	urls   map[string]struct{}
	keys   map[string]struct{}
	dirty  bool
	logger *slog.Logger
}

// New returns an empty store that saves to path.
func New(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		urls:   make(map[string]struct{}),
		keys:   make(map[string]struct{}),
		logger: logger,
	}
}

// Load reads the store at path. A missing file yields an empty store; an
// unreadable or malformed file yields an empty store and a warning.
func Load(path string, logger *slog.Logger) *Store {
	s := New(path, logger)
	if err := s.Reload(); err != nil {
		s.logger.Warn("blacklist load failed, starting empty", "path", path, "error", err)
	}
	return s
}

// Reload replaces the in-memory sets with the file contents and discards
// unsaved changes. On error the store is left empty.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.urls = make(map[string]struct{})
	s.keys = make(map[string]struct{})
	s.dirty = false

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read blacklist: %w", err)
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse blacklist: %w", err)
	}
	addAll(s.urls, f.URLs)
	addAll(s.keys, f.Keys)
	return nil
}

func addAll(set map[string]struct{}, values []string) {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			set[v] = struct{}{}
		}
	}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// ContainsURL reports whether url is excluded.
func (s *Store) ContainsURL(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.urls[url]
	return ok
}

// ContainsKey reports whether key is excluded. The empty key never matches.
func (s *Store) ContainsKey(key string) bool {
	if key == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[key]
	return ok
}

// Add excludes url and, when non-empty, key. It reports whether either set changed.
func (s *Store) Add(url, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	if url = strings.TrimSpace(url); url != "" {
		if _, ok := s.urls[url]; !ok {
			s.urls[url] = struct{}{}
			changed = true
		}
	}
	if key = strings.TrimSpace(key); key != "" {
		if _, ok := s.keys[key]; !ok {
			s.keys[key] = struct{}{}
			changed = true
		}
	}
	if changed {
		s.dirty = true
	}
	return changed
}

// Remove deletes entry from both sets and reports whether anything was removed.
func (s *Store) Remove(entry string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, inURLs := s.urls[entry]
	_, inKeys := s.keys[entry]
	delete(s.urls, entry)
	delete(s.keys, entry)
	if inURLs || inKeys {
		s.dirty = true
	}
	return inURLs || inKeys
}

// Clear empties both sets.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls = make(map[string]struct{})
	s.keys = make(map[string]struct{})
	s.dirty = true
}

// Dirty reports whether the sets hold changes that have not been saved.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// URLs returns the excluded URLs sorted ascending.
func (s *Store) URLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sorted(s.urls)
}

// Keys returns the excluded identity keys sorted ascending.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sorted(s.keys)
}

// Len returns the number of URLs and keys.
func (s *Store) Len() (urls, keys int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.urls), len(s.keys)
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Save writes both sets to disk, sorted and indented. The file is written to
// a temporary sibling and renamed into place. A failed save leaves the
// store dirty.
func (s *Store) Save() error {
	s.mu.Lock()
	f := fileFormat{URLs: sorted(s.urls), Keys: sorted(s.keys)}
	s.dirty = false
	s.mu.Unlock()

	if err := s.write(f); err != nil {
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	s.logger.Debug("blacklist saved", "path", s.path, "urls", len(f.URLs), "keys", len(f.Keys))
	return nil
}

func (s *Store) write(f fileFormat) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("encode blacklist: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create blacklist dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".blacklist-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write blacklist: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close blacklist: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace blacklist: %w", err)
	}
	return nil
}
