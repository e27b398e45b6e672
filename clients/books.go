package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"bookstore-web/models"
)

func bookQuery(f models.BookFilter, sizeKey string) url.Values {
	q := url.Values{}
	page := f.Page
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page-1))
	if f.Limit > 0 {
		q.Set(sizeKey, strconv.Itoa(f.Limit))
	}
	setIfNotEmpty(q, "title", f.Title)
	setIfNotEmpty(q, "author", f.Author)
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.InStock != nil {
		q.Set("inStock", strconv.FormatBool(*f.InStock))
	}
	sortBy, sortDir := models.SortFields(f.Sort)
	q.Set("sortBy", sortBy)
	q.Set("sortDir", sortDir)
	return q
}

// ListBooks queries the public catalogue. Page in the filter is 1-based.
func (b *BackendClient) ListBooks(ctx context.Context, f models.BookFilter) (models.Page[models.Book], error) {
	q := bookQuery(f, "limit")
	if f.CategoryID != 0 {
		q.Set("category", strconv.FormatInt(f.CategoryID, 10))
	}

	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/books", "", q, nil, &raw); err != nil {
		return models.Page[models.Book]{}, err
	}
	return decodePage(raw, bookDTO.toModel)
}

func (b *BackendClient) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	var dto bookDTO
	if err := b.doJSON(ctx, http.MethodGet, fmt.Sprintf("/books/%d", id), "", nil, nil, &dto); err != nil {
		return nil, err
	}
	book := dto.toModel()
	return &book, nil
}

func (b *BackendClient) LatestBooks(ctx context.Context, limit int) ([]models.Book, error) {
	return b.bookList(ctx, "/books/latest", "", limit)
}

func (b *BackendClient) BestSellers(ctx context.Context, limit int) ([]models.Book, error) {
	return b.bookList(ctx, "/books/bestsellers", "", limit)
}

func (b *BackendClient) bookList(ctx context.Context, path, token string, limit int) ([]models.Book, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, path, token, q, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw, bookDTO.toModel)
}

func (b *BackendClient) AdminListBooks(ctx context.Context, token string, f models.BookFilter) (models.Page[models.Book], error) {
	q := bookQuery(f, "size")
	if f.CategoryID != 0 {
		q.Set("categoryId", strconv.FormatInt(f.CategoryID, 10))
	}

	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/admin/books", token, q, nil, &raw); err != nil {
		return models.Page[models.Book]{}, err
	}
	return decodePage(raw, bookDTO.toModel)
}

func (b *BackendClient) AdminGetBook(ctx context.Context, token string, id int64) (*models.Book, error) {
	var dto bookDTO
	if err := b.doJSON(ctx, http.MethodGet, fmt.Sprintf("/admin/books/%d", id), token, nil, nil, &dto); err != nil {
		return nil, err
	}
	book := dto.toModel()
	return &book, nil
}

func (b *BackendClient) CreateBook(ctx context.Context, token string, in models.BookInput) (*models.Book, error) {
	var dto bookDTO
	if err := b.doJSON(ctx, http.MethodPost, "/admin/books", token, nil, in, &dto); err != nil {
		return nil, err
	}
	book := dto.toModel()
	return &book, nil
}

func (b *BackendClient) UpdateBook(ctx context.Context, token string, id int64, in models.BookInput) (*models.Book, error) {
	var dto bookDTO
	if err := b.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/books/%d", id), token, nil, in, &dto); err != nil {
		return nil, err
	}
	book := dto.toModel()
	return &book, nil
}

func (b *BackendClient) DeleteBook(ctx context.Context, token string, id int64) error {
	return b.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/books/%d", id), token, nil, nil, nil)
}

func (b *BackendClient) BulkDeleteBooks(ctx context.Context, token string, ids []int64) error {
	req := map[string][]int64{"ids": ids}
	return b.doJSON(ctx, http.MethodDelete, "/admin/books/bulk", token, nil, req, nil)
}

// ToggleBookStock flips a book between out of stock and one copy.
func (b *BackendClient) ToggleBookStock(ctx context.Context, token string, id int64) error {
	return b.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/admin/books/%d/stock", id), token, nil, nil, nil)
}

func (b *BackendClient) BookStatistics(ctx context.Context, token string) (*models.BookStatistics, error) {
	var stats models.BookStatistics
	if err := b.doJSON(ctx, http.MethodGet, "/admin/books/statistics", token, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
