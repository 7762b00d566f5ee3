package repo

import (
	"context"

	"literati/pkg/cache"
	"literati/pkg/domain"
)

// Local serves everything from the cache store and never touches the
// network. Operations that cannot be answered locally return ErrOffline.
type Local struct {
	store cache.Store
}

// NewLocal wraps a cache store as an offline repository.
func NewLocal(store cache.Store) *Local {
	return &Local{store: store}
}

func (l *Local) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	var book domain.Book
	found, err := l.store.Get(ctx, cache.CategoryBook, id, &book)
	if err != nil || !found {
		return nil, err
	}
	return &book, nil
}

func (l *Local) GetSummary(ctx context.Context, bookID string) (*domain.Summary, error) {
	var summary domain.Summary
	found, err := l.store.Get(ctx, cache.CategorySummary, bookID, &summary)
	if err != nil || !found {
		return nil, err
	}
	return &summary, nil
}

func (l *Local) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return l.cachedList(ctx, cache.CategoryBookList)
}

func (l *Local) FeaturedBooks(ctx context.Context) ([]domain.Book, error) {
	return l.cachedList(ctx, cache.CategoryFeatured)
}

func (l *Local) BestsellerBooks(ctx context.Context) ([]domain.Book, error) {
	return l.cachedList(ctx, cache.CategoryBestseller)
}

func (l *Local) cachedList(ctx context.Context, cat cache.Category) ([]domain.Book, error) {
	var books []domain.Book
	if _, err := l.store.Get(ctx, cat, "", &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Search needs fresh results; there is no meaningful offline answer.
func (l *Local) Search(ctx context.Context, query string, page, limit int) (domain.SearchResult, error) {
	return domain.SearchResult{}, ErrOffline
}

func (l *Local) ImportByISBN(ctx context.Context, isbn string) (domain.Book, error) {
	return domain.Book{}, ErrOffline
}

func (l *Local) RefreshBook(ctx context.Context, id string) (*domain.Book, error) {
	return nil, ErrOffline
}

func (l *Local) ClearCache(ctx context.Context) error {
	return l.store.ClearAll(ctx)
}
