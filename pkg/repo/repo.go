// Package repo decides, per operation, how cache and network combine:
// cache-first for single entities, always-fresh for curated lists,
// network-only for search and imports. Each variant implements the same
// Repository interface and is selected by composition at startup.
package repo

import (
	"context"
	"errors"

	"literati/pkg/domain"
)

// ErrOffline is returned by network-only operations when the repository
// variant has no network path.
var ErrOffline = errors.New("offline: operation requires the network")

// Repository is the capability set the application programs against.
// Lookup operations return (nil, nil) when the entity does not exist;
// absence is a valid outcome, distinct from failure.
type Repository interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetSummary(ctx context.Context, bookID string) (*domain.Summary, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	FeaturedBooks(ctx context.Context) ([]domain.Book, error)
	BestsellerBooks(ctx context.Context) ([]domain.Book, error)
	// Search always hits the network and is never cached. Callers doing
	// search-as-you-type must cancel the previous in-flight search's
	// context before starting a new one.
	Search(ctx context.Context, query string, page, limit int) (domain.SearchResult, error)
	ImportByISBN(ctx context.Context, isbn string) (domain.Book, error)
	// RefreshBook drops any cached copy first, guaranteeing a network
	// round-trip.
	RefreshBook(ctx context.Context, id string) (*domain.Book, error)
	ClearCache(ctx context.Context) error
}
