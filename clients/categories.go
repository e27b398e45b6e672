package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"bookstore-web/models"
)

func (b *BackendClient) ListCategories(ctx context.Context) ([]models.Category, error) {
	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/categories", "", nil, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw, categoryDTO.toModel)
}

func (b *BackendClient) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var dto categoryDTO
	if err := b.doJSON(ctx, http.MethodGet, fmt.Sprintf("/categories/%d", id), "", nil, nil, &dto); err != nil {
		return nil, err
	}
	c := dto.toModel()
	return &c, nil
}

func (b *BackendClient) CreateCategory(ctx context.Context, token string, in models.CategoryInput) (*models.Category, error) {
	var dto categoryDTO
	if err := b.doJSON(ctx, http.MethodPost, "/categories", token, nil, in, &dto); err != nil {
		return nil, err
	}
	c := dto.toModel()
	return &c, nil
}

func (b *BackendClient) UpdateCategory(ctx context.Context, token string, id int64, in models.CategoryInput) (*models.Category, error) {
	var dto categoryDTO
	if err := b.doJSON(ctx, http.MethodPut, fmt.Sprintf("/categories/%d", id), token, nil, in, &dto); err != nil {
		return nil, err
	}
	c := dto.toModel()
	return &c, nil
}

func (b *BackendClient) DeleteCategory(ctx context.Context, token string, id int64) error {
	return b.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/categories/%d", id), token, nil, nil, nil)
}
