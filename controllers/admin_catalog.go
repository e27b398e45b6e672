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

// editor describes the create/edit page of an author or category.
type editor struct {
	page string
	noun string
	base string
}

var (
	authorEditor   = editor{page: "admin/author_form", noun: "author", base: "/admin/authors"}
	categoryEditor = editor{page: "admin/category_form", noun: "category", base: "/admin/categories"}
)

func (ac *AdminController) renderEditor(c *gin.Context, e editor, status int, id int64, form any, serr *services.ServiceError) {
	if serr.Unauthorized() {
		ac.Fail(c, serr)
		return
	}
	data := gin.H{
		"Title":  "New " + e.noun,
		"Action": e.base,
		"ID":     id,
		"Form":   form,
	}
	if id > 0 {
		data["Title"] = "Edit " + e.noun
		data["Action"] = fmt.Sprintf("%s/%d", e.base, id)
	}
	if serr != nil {
		data["Error"] = serr.Message
		data["Errors"] = serr.Fields
	}
	ac.Render(c, status, e.page, data)
}

// --- Authors ---

// Authors handles GET /admin/authors.
func (ac *AdminController) Authors(c *gin.Context) {
	ctx := c.Request.Context()
	filter := models.AuthorFilter{
		Page:        queryInt(c, "page", 1),
		Size:        adminPageSize,
		Name:        strings.TrimSpace(c.Query("name")),
		Nationality: c.Query("nationality"),
		SortBy:      c.Query("sortBy"),
		SortDir:     c.Query("sortDir"),
	}

	authors, serr := ac.admin.ListAuthors(ctx, token(c), filter)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	stats, serr := ac.admin.AuthorStatistics(ctx, token(c))
	optional(c, "author statistics", serr)
	nationalities, serr := ac.admin.AuthorNationalities(ctx, token(c))
	optional(c, "nationalities", serr)

	ac.Render(c, http.StatusOK, "admin/authors", gin.H{
		"Title":         "Authors",
		"Authors":       authors,
		"Filter":        filter,
		"Stats":         stats,
		"Nationalities": nationalities,
	})
}

// SearchAuthors handles GET /admin/authors/search?q=, used by the author
// picker of the book editor.
func (ac *AdminController) SearchAuthors(c *gin.Context) {
	authors, serr := ac.admin.SearchAuthors(c.Request.Context(), token(c), c.Query("q"))
	if serr != nil {
		c.JSON(serr.StatusCode, gin.H{"error": serr.Message})
		return
	}
	type option struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	out := make([]option, 0, len(authors))
	for _, a := range authors {
		out = append(out, option{ID: a.ID, Name: a.Name})
	}
	c.JSON(http.StatusOK, gin.H{"authors": out})
}

// NewAuthor handles GET /admin/authors/new.
func (ac *AdminController) NewAuthor(c *gin.Context) {
	ac.renderEditor(c, authorEditor, http.StatusOK, 0, models.AuthorForm{}, nil)
}

// CreateAuthor handles POST /admin/authors.
func (ac *AdminController) CreateAuthor(c *gin.Context) {
	var form models.AuthorForm
	if err := c.ShouldBind(&form); err != nil {
		ac.renderEditor(c, authorEditor, http.StatusBadRequest, 0, form, bindError)
		return
	}
	author, serr := ac.admin.CreateAuthor(c.Request.Context(), token(c), form)
	if serr != nil {
		ac.renderEditor(c, authorEditor, serr.StatusCode, 0, form, serr)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%s has been added", author.Name))
	ac.Redirect(c, authorEditor.base)
}

// EditAuthor handles GET /admin/authors/:id/edit.
func (ac *AdminController) EditAuthor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	a, serr := ac.admin.Author(c.Request.Context(), token(c), id)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	form := models.AuthorForm{
		Name:        a.Name,
		Biography:   a.Biography,
		BirthDate:   a.BirthDate,
		Nationality: a.Nationality,
		ImageURL:    a.ImageURL,
	}
	ac.renderEditor(c, authorEditor, http.StatusOK, id, form, nil)
}

// UpdateAuthor handles POST /admin/authors/:id.
func (ac *AdminController) UpdateAuthor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var form models.AuthorForm
	if err := c.ShouldBind(&form); err != nil {
		ac.renderEditor(c, authorEditor, http.StatusBadRequest, id, form, bindError)
		return
	}
	author, serr := ac.admin.UpdateAuthor(c.Request.Context(), token(c), id, form)
	if serr != nil {
		ac.renderEditor(c, authorEditor, serr.StatusCode, id, form, serr)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%s has been updated", author.Name))
	ac.Redirect(c, authorEditor.base)
}

// DeleteAuthor handles POST /admin/authors/:id/delete.
func (ac *AdminController) DeleteAuthor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if serr := ac.admin.DeleteAuthor(c.Request.Context(), token(c), id); serr != nil {
		ac.FailAndBack(c, serr, authorEditor.base)
		return
	}
	ac.Flash(c, session.FlashSuccess, "The author has been deleted")
	ac.Back(c, authorEditor.base)
}

// BulkDeleteAuthors handles POST /admin/authors/bulk-delete.
func (ac *AdminController) BulkDeleteAuthors(c *gin.Context) {
	ids := postedIDs(c)
	if serr := ac.admin.BulkDeleteAuthors(c.Request.Context(), token(c), ids); serr != nil {
		ac.FailAndBack(c, serr, authorEditor.base)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%d authors have been deleted", len(ids)))
	ac.Back(c, authorEditor.base)
}

// --- Categories ---

// Categories handles GET /admin/categories.
func (ac *AdminController) Categories(c *gin.Context) {
	categories, serr := ac.admin.Categories(c.Request.Context())
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	ac.Render(c, http.StatusOK, "admin/categories", gin.H{"Title": "Categories", "Categories": categories})
}

// NewCategory handles GET /admin/categories/new.
func (ac *AdminController) NewCategory(c *gin.Context) {
	ac.renderEditor(c, categoryEditor, http.StatusOK, 0, models.CategoryForm{}, nil)
}

// CreateCategory handles POST /admin/categories.
func (ac *AdminController) CreateCategory(c *gin.Context) {
	var form models.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		ac.renderEditor(c, categoryEditor, http.StatusBadRequest, 0, form, bindError)
		return
	}
	category, serr := ac.admin.CreateCategory(c.Request.Context(), token(c), form)
	if serr != nil {
		ac.renderEditor(c, categoryEditor, serr.StatusCode, 0, form, serr)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%s has been added", category.Name))
	ac.Redirect(c, categoryEditor.base)
}

// EditCategory handles GET /admin/categories/:id/edit.
func (ac *AdminController) EditCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, serr := ac.admin.Category(c.Request.Context(), id)
	if serr != nil {
		ac.Fail(c, serr)
		return
	}
	form := models.CategoryForm{Name: cat.Name, Description: cat.Description}
	ac.renderEditor(c, categoryEditor, http.StatusOK, id, form, nil)
}

// UpdateCategory handles POST /admin/categories/:id.
func (ac *AdminController) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var form models.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		ac.renderEditor(c, categoryEditor, http.StatusBadRequest, id, form, bindError)
		return
	}
	category, serr := ac.admin.UpdateCategory(c.Request.Context(), token(c), id, form)
	if serr != nil {
		ac.renderEditor(c, categoryEditor, serr.StatusCode, id, form, serr)
		return
	}
	ac.Flash(c, session.FlashSuccess, fmt.Sprintf("%s has been updated", category.Name))
	ac.Redirect(c, categoryEditor.base)
}

// DeleteCategory handles POST /admin/categories/:id/delete.
func (ac *AdminController) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if serr := ac.admin.DeleteCategory(c.Request.Context(), token(c), id); serr != nil {
		ac.FailAndBack(c, serr, categoryEditor.base)
		return
	}
	ac.Flash(c, session.FlashSuccess, "The category has been deleted")
	ac.Redirect(c, categoryEditor.base)
}
