package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"bookstore-web/models"
)

func (b *BackendClient) ListAuthors(ctx context.Context) ([]models.Author, error) {
	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/authors", "", nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw, authorDTO.toModel)
}

func (b *BackendClient) AdminGetAuthor(ctx context.Context, token string, id int64) (*models.Author, error) {
	var dto authorDTO
	if err := b.doJSON(ctx, http.MethodGet, fmt.Sprintf("/admin/authors/%d", id), token, nil, nil, &dto); err != nil {
		return nil, err
	}
	a := dto.toModel()
	return &a, nil
}

func (b *BackendClient) SearchAuthors(ctx context.Context, token, term string) ([]models.Author, error) {
	q := url.Values{}
	q.Set("q", term)
	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/admin/authors/search", token, q, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw, authorDTO.toModel)
}

func (b *BackendClient) AuthorNationalities(ctx context.Context, token string) ([]string, error) {
	var out []string
	if err := b.doJSON(ctx, http.MethodGet, "/admin/authors/nationalities", token, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BackendClient) AdminListAuthors(ctx context.Context, token string, f models.AuthorFilter) (models.Page[models.Author], error) {
	q := pageQuery(f.Page, f.Size)
	setIfNotEmpty(q, "sortBy", f.SortBy)
	setIfNotEmpty(q, "sortDir", f.SortDir)
	setIfNotEmpty(q, "name", f.Name)
	setIfNotEmpty(q, "nationality", f.Nationality)

	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/admin/authors", token, q, nil, &raw); err != nil {
		return models.Page[models.Author]{}, err
	}
	return decodePage(raw, authorDTO.toModel)
}

func (b *BackendClient) CreateAuthor(ctx context.Context, token string, in models.AuthorInput) (*models.Author, error) {
	var dto authorDTO
	if err := b.doJSON(ctx, http.MethodPost, "/admin/authors", token, nil, in, &dto); err != nil {
		return nil, err
	}
	a := dto.toModel()
	return &a, nil
}

func (b *BackendClient) UpdateAuthor(ctx context.Context, token string, id int64, in models.AuthorInput) (*models.Author, error) {
	var dto authorDTO
	if err := b.doJSON(ctx, http.MethodPut, fmt.Sprintf("/admin/authors/%d", id), token, nil, in, &dto); err != nil {
		return nil, err
	}
	a := dto.toModel()
	return &a, nil
}

func (b *BackendClient) DeleteAuthor(ctx context.Context, token string, id int64) error {
	return b.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/admin/authors/%d", id), token, nil, nil, nil)
}

func (b *BackendClient) BulkDeleteAuthors(ctx context.Context, token string, ids []int64) error {
	req := map[string][]int64{"ids": ids}
	return b.doJSON(ctx, http.MethodPost, "/admin/authors/bulk-delete", token, nil, req, nil)
}

func (b *BackendClient) AuthorStatistics(ctx context.Context, token string) (*models.AuthorStatistics, error) {
	var stats models.AuthorStatistics
	if err := b.doJSON(ctx, http.MethodGet, "/admin/authors/statistics", token, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
