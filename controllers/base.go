package controllers

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	apperrors "bookstore-web/errors"
	"bookstore-web/logger"
	"bookstore-web/middleware"
	"bookstore-web/services"
	"bookstore-web/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// page directories under the template FS; a page is addressed as "<dir>/<file>"
var pageDirs = []string{"store", "admin"}

// Base renders pages and carries the helpers shared by all controllers.
type Base struct {
	pages    map[string]*template.Template
	sessions *session.Manager
	cart     services.CartService
}

// NewBase parses the layouts and partials once, then clones them for every
// page so each page can define its own "content" block.
func NewBase(fsys fs.FS, sessions *session.Manager, cart services.CartService) (*Base, error) {
	layout, err := template.New("layout").Funcs(TemplateFuncs()).ParseFS(fsys, "layouts/*.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse layouts: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, dir := range pageDirs {
		files, err := fs.Glob(fsys, dir+"/*.html")
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			t, err := layout.Clone()
			if err != nil {
				return nil, err
			}
			if _, err := t.ParseFS(fsys, file); err != nil {
				return nil, fmt.Errorf("parse %s: %w", file, err)
			}
			pages[dir+"/"+strings.TrimSuffix(path.Base(file), ".html")] = t
		}
	}

	return &Base{pages: pages, sessions: sessions, cart: cart}, nil
}

// Render writes a full page. Pending flashes are popped here, which saves
// the session, so it has to happen before the body is written.
func (b *Base) Render(c *gin.Context, status int, page string, data gin.H) {
	t, ok := b.pages[page]
	if !ok {
		logger.Error(c, "unknown page", nil, zap.String("page", page))
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}
	if data == nil {
		data = gin.H{}
	}

	st := middleware.GetSession(c)
	flashes, err := b.sessions.Flashes(c.Writer, c.Request)
	if err != nil {
		logger.Warn(c, "failed to pop flash messages", zap.Error(err))
	}

	data["Session"] = st
	data["User"] = st.User
	data["Flashes"] = flashes
	data["CartCount"] = b.cartCount(c, st)
	data["Path"] = c.Request.URL.Path
	data["Query"] = c.Request.URL.Query()
	data["Year"] = time.Now().Year()
	if _, ok := data["Admin"]; !ok {
		data["Admin"] = strings.HasPrefix(c.Request.URL.Path, "/admin")
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logger.Error(c, "failed to render page", err, zap.String("page", page))
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (b *Base) cartCount(c *gin.Context, st *session.State) int {
	if b.cart == nil || st.VisitorID == "" {
		return 0
	}
	cart, serr := b.cart.Get(c.Request.Context(), st.VisitorID)
	if serr != nil {
		return 0
	}
	return cart.TotalItems()
}

func (b *Base) Flash(c *gin.Context, kind session.FlashKind, msg string) {
	if err := b.sessions.AddFlash(c.Writer, c.Request, kind, msg); err != nil {
		logger.Warn(c, "failed to store flash message", zap.Error(err))
	}
}

// Redirect finishes a POST with a 303 so the browser follows up with a GET.
func (b *Base) Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// Fail handles a service error outside of a form. A rejected token signs
// the visitor out and sends them to the sign-in page; anything else is left
// to the error middleware.
func (b *Base) Fail(c *gin.Context, serr *services.ServiceError) {
	if serr.Unauthorized() {
		if err := b.sessions.SignOut(c.Writer, c.Request); err != nil {
			logger.Warn(c, "failed to sign out", zap.Error(err))
		}
		b.Flash(c, session.FlashInfo, serr.Message)

		from := c.Request.URL.RequestURI()
		if c.Request.Method != http.MethodGet {
			from = c.Request.Referer()
			if !SafeRedirect(from) {
				from = ""
			}
		}
		b.Redirect(c, middleware.LoginURL(from))
		c.Abort()
		return
	}
	_ = c.Error(serr)
}

// RenderForm re-renders a form page with the error and the submitted values.
func (b *Base) RenderForm(c *gin.Context, page string, serr *services.ServiceError, data gin.H) {
	if serr.Unauthorized() {
		b.Fail(c, serr)
		return
	}
	if data == nil {
		data = gin.H{}
	}
	data["Error"] = serr.Message
	data["Errors"] = serr.Fields
	b.Render(c, serr.StatusCode, page, data)
}

// FailAndBack flashes a service error and returns to fallback, used by the
// small action forms in listings.
func (b *Base) FailAndBack(c *gin.Context, serr *services.ServiceError, fallback string) {
	if serr.Unauthorized() {
		b.Fail(c, serr)
		return
	}
	b.Flash(c, session.FlashError, serr.Message)
	b.Back(c, fallback)
}

// Back redirects to the posted "redirect" field when it is a local path.
func (b *Base) Back(c *gin.Context, fallback string) {
	if to := c.PostForm("redirect"); SafeRedirect(to) {
		b.Redirect(c, to)
		return
	}
	b.Redirect(c, fallback)
}

// ErrorPage renders the error page for the error middleware.
func (b *Base) ErrorPage(c *gin.Context, e *apperrors.Error) {
	if e.Code >= http.StatusInternalServerError {
		logger.Error(c, "request failed", e.Err, zap.Int("status", e.Code))
	}
	b.Render(c, e.Code, "store/error", gin.H{
		"Title":   http.StatusText(e.Code),
		"Status":  e.Code,
		"Message": e.Message,
	})
}

// NotFound is the fallback route.
func (b *Base) NotFound(c *gin.Context) {
	_ = c.Error(apperrors.ErrNotFound)
}

// SafeRedirect reports whether to is a path on this site. Absolute and
// protocol-relative URLs are refused.
func SafeRedirect(to string) bool {
	if to == "" || !strings.HasPrefix(to, "/") {
		return false
	}
	return !strings.HasPrefix(to, "//") && !strings.HasPrefix(to, "/\\")
}

// paramID reads a numeric route parameter. A malformed id is a 404.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		_ = c.Error(apperrors.ErrNotFound)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if n, err := strconv.Atoi(c.Query(key)); err == nil {
		return n
	}
	return fallback
}

func queryInt64(c *gin.Context, key string) int64 {
	n, _ := strconv.ParseInt(c.Query(key), 10, 64)
	return n
}

// postedIDs reads the checked ids of a bulk form, skipping junk values.
func postedIDs(c *gin.Context) []int64 {
	var ids []int64
	for _, raw := range c.PostFormArray("ids") {
		if id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil && id > 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

// bindError is the message shown when the posted form cannot be decoded.
var bindError = &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Please correct the highlighted fields"}
