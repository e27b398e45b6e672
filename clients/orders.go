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

func (b *BackendClient) CreateOrder(ctx context.Context, token string, in models.NewOrder) (*models.Order, error) {
	var dto orderDTO
	if err := b.doJSON(ctx, http.MethodPost, "/orders", token, nil, in, &dto); err != nil {
		return nil, err
	}
	o := dto.toModel()
	return &o, nil
}

// MyOrders returns the signed-in user's orders. The backend answers with
// either a page or a bare array.
func (b *BackendClient) MyOrders(ctx context.Context, token string, page, size int) ([]models.Order, error) {
	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/orders/my-orders", token, pageQuery(page, size), nil, &raw); err != nil {
		return nil, err
	}
	return decodeList(raw, orderDTO.toModel)
}

func (b *BackendClient) GetOrder(ctx context.Context, token string, id int64) (*models.Order, error) {
	var dto orderDTO
	if err := b.doJSON(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), token, nil, nil, &dto); err != nil {
		return nil, err
	}
	o := dto.toModel()
	return &o, nil
}

// CancelOrder cancels one of the signed-in user's own orders.
func (b *BackendClient) CancelOrder(ctx context.Context, token string, id int64) error {
	return b.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/cancel", id), token, nil, nil, nil)
}

func (b *BackendClient) AdminListOrders(ctx context.Context, token string, f models.OrderFilter) (models.Page[models.Order], error) {
	path := "/orders/admin/all"
	if f.Status != "" {
		path = "/orders/admin/status/" + url.PathEscape(string(f.Status))
	}

	q := pageQuery(f.Page, f.Size)
	setIfNotEmpty(q, "sortBy", f.SortBy)
	setIfNotEmpty(q, "sortDir", f.SortDir)
	setIfNotEmpty(q, "userEmail", f.UserEmail)

	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, path, token, q, nil, &raw); err != nil {
		return models.Page[models.Order]{}, err
	}
	return decodePage(raw, orderDTO.toModel)
}

func (b *BackendClient) UpdateOrderStatus(ctx context.Context, token string, id int64, status models.OrderStatus) error {
	q := url.Values{}
	q.Set("status", string(status))
	return b.doJSON(ctx, http.MethodPatch, fmt.Sprintf("/orders/admin/%d/status", id), token, q, nil, nil)
}

func (b *BackendClient) OrderStatistics(ctx context.Context, token string) (*models.OrderStatistics, error) {
	var stats models.OrderStatistics
	if err := b.doJSON(ctx, http.MethodGet, "/orders/admin/statistics", token, nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (b *BackendClient) LargestOrders(ctx context.Context, token string, limit int) ([]models.Order, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	var raw json.RawMessage
	if err := b.doJSON(ctx, http.MethodGet, "/orders/admin/largest-orders", token, q, nil, &raw); err != nil {
		return nil, err
	}
	orders, err := decodeList(raw, orderDTO.toModel)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}
