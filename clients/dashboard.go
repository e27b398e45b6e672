package clients

import (
	"context"
	"net/http"

	"bookstore-web/models"

	"github.com/shopspring/decimal"
)

type overviewDTO struct {
	Books struct {
		Total     int64 `json:"total"`
		Available int64 `json:"available"`
	} `json:"books"`
	Categories struct {
		Total int64 `json:"total"`
	} `json:"categories"`
	Authors struct {
		Total int64 `json:"total"`
	} `json:"authors"`
	Orders       models.OrderCounts `json:"orders"`
	TotalRevenue decimal.Decimal    `json:"totalRevenue"`
}

func (b *BackendClient) Overview(ctx context.Context, token string) (*models.Overview, error) {
	var dto overviewDTO
	if err := b.doJSON(ctx, http.MethodGet, "/admin/overview", token, nil, nil, &dto); err != nil {
		return nil, err
	}
	return &models.Overview{
		TotalBooks:      dto.Books.Total,
		AvailableBooks:  dto.Books.Available,
		TotalCategories: dto.Categories.Total,
		TotalAuthors:    dto.Authors.Total,
		Orders:          dto.Orders,
		TotalRevenue:    dto.TotalRevenue,
	}, nil
}

func (b *BackendClient) AdminBestSellers(ctx context.Context, token string, limit int) ([]models.Book, error) {
	return b.bookList(ctx, "/admin/bestsellers", token, limit)
}
