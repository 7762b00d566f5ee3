// Package cache persists API responses locally so reads can be served
// without a network round-trip. Categories are independent namespaces;
// absence of an entry is a normal outcome, not an error.
package cache

import (
	"context"
	"strings"
	"time"
)

// Category namespaces cached entities. Singleton list categories are
// addressed with an empty key.
type Category string

const (
	CategoryBook       Category = "book"
	CategorySummary    Category = "summary"
	CategoryBookList   Category = "books"
	CategoryFeatured   Category = "featured_books"
	CategoryBestseller Category = "nyt_bestseller_books"
)

// Store is a key-addressed cache of JSON-serialized entities.
//
// Get decodes into out and reports found=false (with a nil error) when the
// entry does not exist; I/O and decode failures are returned as *IOError,
// distinct from absence. Remove of a missing entry is a no-op. Stores are
// not internally synchronized per key: concurrent writers to the same key
// are last-writer-wins.
type Store interface {
	Put(ctx context.Context, cat Category, key string, value any) error
	Get(ctx context.Context, cat Category, key string, out any) (found bool, err error)
	Remove(ctx context.Context, cat Category, key string) error
	// ClearAll destroys every entry in one sweep. No partial-failure
	// recovery: callers must not rely on atomicity.
	ClearAll(ctx context.Context) error
	SizeBytes(ctx context.Context) (int64, error)
	EntryCount(ctx context.Context) (int, error)
	// SweepOlderThan removes entries written before now-age and returns
	// how many were removed. Never invoked automatically.
	SweepOlderThan(ctx context.Context, age time.Duration) (removed int, err error)
}

// IOError wraps a cache backend failure so callers can tell it apart from
// a plain miss.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return "cache " + e.Op + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// entryName derives the deterministic entry name for a (category, key)
// pair. The category is always embedded, so keys cannot collide across
// categories. Singleton categories use the bare category name.
func entryName(cat Category, key string) string {
	key = sanitizeKey(key)
	if key == "" {
		return string(cat)
	}
	return string(cat) + "_" + key
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '-'
		}
	}, key)
}
