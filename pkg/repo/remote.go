package repo

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"literati/pkg/api"
	"literati/pkg/domain"
)

// Remote talks straight to the content API with no cache involvement.
type Remote struct {
	client *api.Client
}

// NewRemote wraps an API client as a network-only repository.
func NewRemote(client *api.Client) *Remote {
	return &Remote{client: client}
}

func (r *Remote) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	book, err := api.Execute[domain.Book](ctx, r.client, api.Get("books/"+url.PathEscape(id)))
	if err != nil {
		return nil, absentOnNotFound(err)
	}
	return &book, nil
}

func (r *Remote) GetSummary(ctx context.Context, bookID string) (*domain.Summary, error) {
	summary, err := api.Execute[domain.Summary](ctx, r.client, api.Get("summaries/book/"+url.PathEscape(bookID)))
	if err != nil {
		return nil, absentOnNotFound(err)
	}
	return &summary, nil
}

func (r *Remote) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return api.Execute[[]domain.Book](ctx, r.client, api.Get("books"))
}

func (r *Remote) FeaturedBooks(ctx context.Context) ([]domain.Book, error) {
	return api.Execute[[]domain.Book](ctx, r.client, api.Get("books/featured"))
}

func (r *Remote) BestsellerBooks(ctx context.Context) ([]domain.Book, error) {
	return api.Execute[[]domain.Book](ctx, r.client, api.Get("books/bestsellers"))
}

func (r *Remote) Search(ctx context.Context, query string, page, limit int) (domain.SearchResult, error) {
	req := api.Get("books/search")
	req.Query = url.Values{
		"q":     []string{query},
		"page":  []string{strconv.Itoa(page)},
		"limit": []string{strconv.Itoa(limit)},
	}
	return api.Execute[domain.SearchResult](ctx, r.client, req)
}

func (r *Remote) ImportByISBN(ctx context.Context, isbn string) (domain.Book, error) {
	return api.Execute[domain.Book](ctx, r.client, api.Post("books/import", map[string]string{"isbn": isbn}))
}

// RefreshBook has no cache to bust; it is a plain fetch.
func (r *Remote) RefreshBook(ctx context.Context, id string) (*domain.Book, error) {
	return r.GetBook(ctx, id)
}

// ClearCache is a no-op for the remote-only variant.
func (r *Remote) ClearCache(ctx context.Context) error {
	return nil
}

// absentOnNotFound converts a 404 ClientError into nil so lookups report
// absence instead of failure. The nil error pairs with a nil entity.
func absentOnNotFound(err error) error {
	var clientErr *api.ClientError
	if errors.As(err, &clientErr) && clientErr.StatusCode == http.StatusNotFound {
		return nil
	}
	return err
}
