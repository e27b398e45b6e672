package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Book struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ISBN        string          `json:"isbn,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Images      []string        `json:"images"`
	Pages       int             `json:"pages,omitempty"`
	Language    string          `json:"language,omitempty"`
	Author      string          `json:"author"`
	AuthorID    int64           `json:"authorId,omitempty"`
	Category    *Category       `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CoverImage returns the first image URL, or "" when the book has none.
func (b Book) CoverImage() string {
	if len(b.Images) == 0 {
		return ""
	}
	return b.Images[0]
}

func (b Book) InStock() bool {
	return b.Stock > 0
}

func (b Book) CategoryID() int64 {
	if b.Category == nil {
		return 0
	}
	return b.Category.ID
}

// Sort options exposed on the book listing.
const (
	SortDefault   = "default"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortTitleAsc  = "title_asc"
	SortTitleDesc = "title_desc"
	SortLatest    = "latest"
)

// SortOptions lists the listing sort keys in display order.
var SortOptions = []string{SortDefault, SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc, SortLatest}

// SortFields maps a sort key to the backend's sortBy and sortDir parameters.
func SortFields(key string) (field, dir string) {
	switch key {
	case SortPriceAsc:
		return "price", "asc"
	case SortPriceDesc:
		return "price", "desc"
	case SortTitleAsc:
		return "title", "asc"
	case SortTitleDesc:
		return "title", "desc"
	case SortLatest:
		return "createdAt", "desc"
	default:
		return "id", "asc"
	}
}

// BookFilter holds the storefront and admin listing filters. Page is 1-based.
type BookFilter struct {
	Page       int
	Limit      int
	Title      string
	Author     string
	CategoryID int64
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	InStock    *bool
	Sort       string
}

// BookInput is the payload for creating or updating a book.
type BookInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stockQuantity"`
	CategoryID  int64           `json:"categoryId"`
	AuthorID    int64           `json:"authorId"`
	Images      []string        `json:"images"`
}
