// Package cache implements a content-addressed store for a Compilation's
// rendered result, keyed by a BLAKE2b-256 digest of the Document's content
// plus a caller-supplied Spec fingerprint — re-rendering a Document under
// an unchanged set of enabled directives is then a cache lookup rather
// than a full pipeline run.
package cache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// Entry is the cached result of one Unit.Run against one Document: the
// root frame's final console text, plus every diagnostic line formatted
// the way diagnostic.FormatAll renders them — caching the render's
// observable output, not an intermediate pipeline stage (see DESIGN.md).
type Entry struct {
	Console     string
	Diagnostics []string
	HasErrors   bool
}

// Store persists Entries as CBOR files under Dir, one per cache key.
type Store struct {
	Dir string
}

// New builds a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Store{Dir: dir}, nil
}

// Key computes the cache key for a document's content plus the Spec
// fingerprint its caller supplies (e.g. the sorted list of enabled
// builtin directive names) — two renders of the same content with a
// different enabled-directives set must not collide.
func Key(content string, fingerprint string) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.Dir, key+".cbor")
}

// Load returns the cached Entry for key, or ok=false on a cache miss.
func (s *Store) Load(key string) (Entry, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("cache: %w", err)
	}
	var e Entry
	if err := cbor.Unmarshal(data, &e); err != nil {
		return Entry{}, false, fmt.Errorf("cache: corrupt entry %s: %w", key, err)
	}
	return e, true, nil
}

// Store writes e under key, replacing any prior entry.
func (s *Store) Store(key string, e Entry) error {
	mode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	data, err := mode.Marshal(e)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return os.WriteFile(s.path(key), data, 0o644)
}
