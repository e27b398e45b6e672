package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"bookstore-web/models"
	"bookstore-web/services"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
)

// Books handles GET /admin/books.
func (ac *AdminController) Books(c *gin.Context) {
	ctx := c.Request.Context()
	filter := bookFilter(c)
	filter.Limit = adminPageSize

	books, serr := ac.admin.ListBooks(ctx, token(c), filter)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	stats, serr := ac.admin.BookStatistics(ctx, token(c))
	optional(c, "book statistics", serr)
	categories, serr := ac.admin.Categories(ctx)
	optional(c, "categories", serr)

	ac.Render(c, http.StatusOK, "admin/books", gin.H{
		"Title":       "Books",
		"Books":       books,
		"Filter":      filter,
		"Stats":       stats,
		"Categories":  categories,
		"StockFilter": c.Query("stock"),
	})
}

func bookFormFrom(b *models.Book) models.BookForm {
	return models.BookForm{
		Title:       b.Title,
		AuthorID:    b.AuthorID,
		Description: b.Description,
		Price:       b.Price.String(),
		Stock:       b.Stock,
		CategoryID:  b.CategoryID(),
		Images:      strings.Join(b.Images, "\n"),
	}
}

func (ac *AdminController) bookForm(c *gin.Context, status int, id int64, form models.BookForm, data gin.H) {
	opts, serr := ac.admin.BookFormOptions(c.Request.Context())
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = "New book"
	data["Action"] = "/admin/books"
	if id > 0 {
		data["Title"] = "Edit book"
		data["Action"] = fmt.Sprintf("/admin/books/%d", id)
	}
	data["BookID"] = id
	data["Form"] = form
	data["Authors"] = opts.Authors
	data["Categories"] = opts.Categories
	ac.Render(c, status, "admin/book_form", data)
}

func (ac *AdminController) bookFormError(c *gin.Context, id int64, form models.BookForm, serr *services.ServiceError) {
	if serr.Unauthorized() {
		ac.Fail(c, serr)
		return
	}
	ac.bookForm(c, serr.StatusCode, id, form, gin.H{"Error": serr.Message, "Errors": serr.Fields})
}

// NewBook handles GET /admin/books/new.
func (ac *AdminController) NewBook(c *gin.Context) {
	ac.bookForm(c, http.StatusOK, 0, models.BookForm{}, nil)
}

// CreateBook handles POST /admin/books.
func (ac *AdminController) CreateBook(c *gin.Context) {
	var form models.BookForm
	if err := c.ShouldBind(&form); err != nil {
		ac.bookFormError(c, 0, form, bindError)
		return
	}

	book, serr := ac.admin.CreateBook(c.Request.Context(), token(c), form)
	if serr != nil {
		ac.bookFormError(c, 0, form, serr)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%q has been added", book.Title))
	ac.Redirect(c, "/admin/books")
}

// EditBook handles GET /admin/books/:id/edit.
func (ac *AdminController) EditBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	book, serr := ac.admin.Book(c.Request.Context(), token(c), id)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	ac.bookForm(c, http.StatusOK, id, bookFormFrom(book), nil)
}

// UpdateBook handles POST /admin/books/:id.
func (ac *AdminController) UpdateBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var form models.BookForm
	if err := c.ShouldBind(&form); err != nil {
		ac.bookFormError(c, id, form, bindError)
		return
	}

	book, serr := ac.admin.UpdateBook(c.Request.Context(), token(c), id, form)
	if serr != nil {
		ac.bookFormError(c, id, form, serr)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%q has been updated", book.Title))
	ac.Redirect(c, "/admin/books")
}

// DeleteBook handles POST /admin/books/:id/delete.
func (ac *AdminController) DeleteBook(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if serr := ac.admin.DeleteBook(c.Request.Context(), token(c), id); serr != nil {
		ac.FailAndBack(c, serr, "/admin/books")
		return
	}
	ac.Flash(c, session.FlashSuccess, "The book has been deleted")
	ac.Back(c, "/admin/books")
}

// BulkDeleteBooks handles POST /admin/books/bulk-delete.
func (ac *AdminController) BulkDeleteBooks(c *gin.Context) {
	ids := postedIDs(c)
	if serr := ac.admin.BulkDeleteBooks(c.Request.Context(), token(c), ids); serr != nil {
		ac.FailAndBack(c, serr, "/admin/books")
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%d books have been deleted", len(ids)))
	ac.Back(c, "/admin/books")
}

// ToggleBookStock handles POST /admin/books/:id/toggle-stock.
func (ac *AdminController) ToggleBookStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if serr := ac.admin.ToggleBookStock(c.Request.Context(), token(c), id); serr != nil {
		ac.FailAndBack(c, serr, "/admin/books")
		return
	}
	ac.Flash(c, session.FlashSuccess, "The stock status has been updated")
	ac.Back(c, "/admin/books")
}
