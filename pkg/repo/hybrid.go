package repo

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"literati/pkg/api"
	"literati/pkg/cache"
	"literati/pkg/domain"
)

// Hybrid combines the remote repository with a write-through cache.
// Single entities are cache-first, curated lists always-fresh with a
// cached fallback, search and import network-only. After a transport
// failure the repository degrades to offline reads for cache-first
// operations until an explicit refresh or a network success.
type Hybrid struct {
	remote *Remote
	store  cache.Store
	logger *slog.Logger

	// group merges concurrent identical fetches so a burst of readers
	// for one entity costs a single network call.
	group    singleflight.Group
	degraded atomic.Bool

	// onCacheWriteError observes best-effort write-through failures.
	// The overall operation still succeeds; this keeps the failure
	// visible instead of letting it look identical to a cache hit.
	onCacheWriteError func(error)
}

// HybridOptions configures optional collaborators of a Hybrid repository.
type HybridOptions struct {
	Logger            *slog.Logger
	OnCacheWriteError func(error)
}

// NewHybrid composes a remote repository and a cache store.
func NewHybrid(remote *Remote, store cache.Store, opts HybridOptions) *Hybrid {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Hybrid{
		remote:            remote,
		store:             store,
		logger:            logger,
		onCacheWriteError: opts.OnCacheWriteError,
	}
}

// Degraded reports whether reads are currently served offline.
func (h *Hybrid) Degraded() bool {
	return h.degraded.Load()
}

func (h *Hybrid) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	var cached domain.Book
	found, err := h.store.Get(ctx, cache.CategoryBook, id, &cached)
	if err != nil {
		h.logger.Warn("cache read failed, falling through to network", "category", cache.CategoryBook, "key", id, "error", err)
	}
	if found {
		return &cached, nil
	}
	if h.degraded.Load() {
		return nil, nil
	}
	book, err, _ := singleflightFetch(ctx, h, "book:"+id, func(ctx context.Context) (*domain.Book, error) {
		return h.remote.GetBook(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	if book != nil {
		h.writeThrough(ctx, cache.CategoryBook, id, book)
	}
	return book, nil
}

func (h *Hybrid) GetSummary(ctx context.Context, bookID string) (*domain.Summary, error) {
	var cached domain.Summary
	found, err := h.store.Get(ctx, cache.CategorySummary, bookID, &cached)
	if err != nil {
		h.logger.Warn("cache read failed, falling through to network", "category", cache.CategorySummary, "key", bookID, "error", err)
	}
	if found {
		return &cached, nil
	}
	if h.degraded.Load() {
		return nil, nil
	}
	summary, err, _ := singleflightFetch(ctx, h, "summary:"+bookID, func(ctx context.Context) (*domain.Summary, error) {
		return h.remote.GetSummary(ctx, bookID)
	})
	if err != nil {
		return nil, err
	}
	if summary != nil {
		h.writeThrough(ctx, cache.CategorySummary, bookID, summary)
	}
	return summary, nil
}

func (h *Hybrid) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return h.freshList(ctx, cache.CategoryBookList, h.remote.ListBooks)
}

func (h *Hybrid) FeaturedBooks(ctx context.Context) ([]domain.Book, error) {
	return h.freshList(ctx, cache.CategoryFeatured, h.remote.FeaturedBooks)
}

func (h *Hybrid) BestsellerBooks(ctx context.Context) ([]domain.Book, error) {
	return h.freshList(ctx, cache.CategoryBestseller, h.remote.BestsellerBooks)
}

// freshList bypasses the cache on read but still writes the result through
// so single-entity and offline paths have something to fall back to.
func (h *Hybrid) freshList(ctx context.Context, cat cache.Category, fetch func(context.Context) ([]domain.Book, error)) ([]domain.Book, error) {
	books, err := fetch(ctx)
	if err != nil {
		if h.noteOutcome(err) {
			var cached []domain.Book
			if found, cacheErr := h.store.Get(ctx, cat, "", &cached); cacheErr == nil && found {
				h.logger.Info("serving cached list after network failure", "category", cat)
				return cached, nil
			}
		}
		return nil, err
	}
	h.noteOutcome(nil)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	h.writeThrough(ctx, cat, "", books)
	return books, nil
}

func (h *Hybrid) Search(ctx context.Context, query string, page, limit int) (domain.SearchResult, error) {
	result, err := h.remote.Search(ctx, query, page, limit)
	h.noteOutcome(err)
	return result, err
}

func (h *Hybrid) ImportByISBN(ctx context.Context, isbn string) (domain.Book, error) {
	book, err := h.remote.ImportByISBN(ctx, isbn)
	if h.noteOutcome(err); err != nil {
		return domain.Book{}, err
	}
	if ctx.Err() != nil {
		return domain.Book{}, ctx.Err()
	}
	h.writeThrough(ctx, cache.CategoryBook, book.ID, book)
	return book, nil
}

// RefreshBook drops the cached copy and fetches over the network even in
// degraded mode; an explicit refresh is the caller's retry signal.
func (h *Hybrid) RefreshBook(ctx context.Context, id string) (*domain.Book, error) {
	if err := h.store.Remove(ctx, cache.CategoryBook, id); err != nil {
		h.logger.Warn("cache remove failed during refresh", "key", id, "error", err)
	}
	h.degraded.Store(false)
	book, err := h.remote.GetBook(ctx, id)
	if h.noteOutcome(err); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if book != nil {
		h.writeThrough(ctx, cache.CategoryBook, id, book)
	}
	return book, nil
}

func (h *Hybrid) ClearCache(ctx context.Context) error {
	return h.store.ClearAll(ctx)
}

// noteOutcome tracks degraded mode: transport failures flip it on, any
// completed network call flips it off. Reports whether err was a
// transport failure.
func (h *Hybrid) noteOutcome(err error) bool {
	if err == nil {
		h.degraded.Store(false)
		return false
	}
	var transportErr *api.TransportError
	if errors.As(err, &transportErr) {
		h.degraded.Store(true)
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// The caller gave up before any call completed; that says
		// nothing about the network, so leave the mode untouched.
		return false
	}
	// The server answered; the network path is alive.
	h.degraded.Store(false)
	return false
}

// writeThrough is best-effort: a cache write failure never fails the
// operation, but it is logged and surfaced to the observability hook.
func (h *Hybrid) writeThrough(ctx context.Context, cat cache.Category, key string, value any) {
	if err := h.store.Put(ctx, cat, key, value); err != nil {
		h.logger.Warn("cache write-through failed", "category", cat, "key", key, "error", err)
		if h.onCacheWriteError != nil {
			h.onCacheWriteError(err)
		}
	}
}

// singleflightFetch merges concurrent fetches for the same key, checks
// cancellation after the shared call returns, and records the network
// outcome for degraded-mode tracking.
func singleflightFetch[T any](ctx context.Context, h *Hybrid, key string, fetch func(context.Context) (*T, error)) (*T, error, bool) {
	v, err, shared := h.group.Do(key, func() (any, error) {
		return fetch(ctx)
	})
	h.noteOutcome(err)
	if err != nil {
		return nil, err, shared
	}
	if ctx.Err() != nil {
		// A canceled call must not apply results or mutate the cache.
		return nil, ctx.Err(), shared
	}
	result, _ := v.(*T)
	return result, nil, shared
}
