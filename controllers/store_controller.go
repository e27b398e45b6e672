package controllers

import (
	"net/http"
	"strings"

	"bookstore-web/middleware"
	"bookstore-web/models"
	"bookstore-web/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// StoreController serves the public catalogue pages.
type StoreController struct {
	*Base
	catalog services.CatalogService
}

func NewStoreController(base *Base, catalog services.CatalogService) *StoreController {
	return &StoreController{Base: base, catalog: catalog}
}

// Home handles GET /.
func (sc *StoreController) Home(c *gin.Context) {
	home, serr := sc.catalog.Home(c.Request.Context())
	if serr != nil {
		sc.Fail(c, serr)
		return
	}
	sc.Render(c, http.StatusOK, "store/home", gin.H{"Home": home})
}

// bookFilter reads the listing filters shared by the storefront and the
// admin book list.
func bookFilter(c *gin.Context) models.BookFilter {
	f := models.BookFilter{
		Page:       queryInt(c, "page", 1),
		Title:      strings.TrimSpace(c.Query("q")),
		Author:     strings.TrimSpace(c.Query("author")),
		CategoryID: queryInt64(c, "category"),
		Sort:       c.Query("sort"),
	}
	if d, err := decimal.NewFromString(c.Query("minPrice")); err == nil && !d.IsNegative() {
		f.MinPrice = &d
	}
	if d, err := decimal.NewFromString(c.Query("maxPrice")); err == nil && d.IsPositive() {
		f.MaxPrice = &d
	}
	switch c.Query("stock") {
	case "in":
		in := true
		f.InStock = &in
	case "out":
		out := false
		f.InStock = &out
	}
	return f
}

// Books handles GET /books.
func (sc *StoreController) Books(c *gin.Context) {
	ctx := c.Request.Context()
	filter := bookFilter(c)

	books, serr := sc.catalog.Books(ctx, filter)
	if serr != nil {
		sc.Fail(c, serr)
		return
	}
	// The sidebar degrades to no options rather than failing the listing.
	categories, _ := sc.catalog.Categories(ctx)
	authors, _ := sc.catalog.Authors(ctx)

	sc.Render(c, http.StatusOK, "store/books", gin.H{
		"Title":       "Books",
		"Books":       books,
		"Filter":      filter,
		"Categories":  categories,
		"Authors":     authors,
		"SortOptions": models.SortOptions,
	})
}

// BookDetail handles GET /books/:id.
func (sc *StoreController) BookDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	detail, serr := sc.catalog.BookDetail(ctx, id)
	if serr != nil {
		sc.Fail(c, serr)
		return
	}

	inCart := 0
	if st := middleware.GetSession(c); st.VisitorID != "" && sc.cart != nil {
		inCart, _ = sc.cart.ItemQuantity(ctx, st.VisitorID, id)
	}

	sc.Render(c, http.StatusOK, "store/book", gin.H{
		"Title":     detail.Book.Title,
		"Book":      detail.Book,
		"Related":   detail.Related,
		"InCart":    inCart,
		"Available": detail.Book.Stock - inCart,
	})
}
