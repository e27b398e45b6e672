package controllers_test

import (
	"context"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"bookstore-web/clients"
	"bookstore-web/controllers"
	apperrors "bookstore-web/errors"
	"bookstore-web/middleware"
	"bookstore-web/models"
	"bookstore-web/repository"
	"bookstore-web/routes"
	"bookstore-web/services"
	"bookstore-web/session"
	"bookstore-web/templates"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testVisitor = "visitor-1"

// --- Mock book lookup ---

type mockBooks map[int64]models.Book

func (m mockBooks) GetBook(_ context.Context, id int64) (*models.Book, error) {
	b, ok := m[id]
	if !ok {
		return nil, &clients.APIError{Status: http.StatusNotFound, Message: "Book not found"}
	}
	return &b, nil
}

func testBooks() mockBooks {
	return mockBooks{
		1: {ID: 1, Title: "Dune", Author: "Frank Herbert", Price: decimal.NewFromInt(120000), Stock: 3},
		2: {ID: 2, Title: "Emma", Author: "Jane Austen", Price: decimal.NewFromInt(80000), Stock: 10},
	}
}

// --- Mock catalog ---

type mockCatalog struct {
	homeFn   func(ctx context.Context) (*services.HomePage, *services.ServiceError)
	booksFn  func(ctx context.Context, f models.BookFilter) (models.Page[models.Book], *services.ServiceError)
	detailFn func(ctx context.Context, id int64) (*services.BookDetail, *services.ServiceError)
}

func (m *mockCatalog) Home(ctx context.Context) (*services.HomePage, *services.ServiceError) {
	if m.homeFn != nil {
		return m.homeFn(ctx)
	}
	return &services.HomePage{}, nil
}

func (m *mockCatalog) Books(ctx context.Context, f models.BookFilter) (models.Page[models.Book], *services.ServiceError) {
	if m.booksFn != nil {
		return m.booksFn(ctx, f)
	}
	return models.Page[models.Book]{CurrentPage: 1}, nil
}

func (m *mockCatalog) BookDetail(ctx context.Context, id int64) (*services.BookDetail, *services.ServiceError) {
	if m.detailFn != nil {
		return m.detailFn(ctx, id)
	}
	return nil, &services.ServiceError{StatusCode: http.StatusNotFound, Message: "Book not found"}
}

func (m *mockCatalog) Categories(context.Context) ([]models.Category, *services.ServiceError) {
	return []models.Category{{ID: 1, Name: "Novels"}}, nil
}

func (m *mockCatalog) Authors(context.Context) ([]models.Author, *services.ServiceError) {
	return []models.Author{{ID: 1, Name: "Frank Herbert"}}, nil
}

func (m *mockCatalog) InvalidateCatalog(context.Context) error { return nil }

// --- Mock auth ---

type mockAuth struct {
	loginFn    func(ctx context.Context, form models.LoginForm) (*services.SignedIn, *services.ServiceError)
	registerFn func(ctx context.Context, form models.RegisterForm) *services.ServiceError
	refreshFn  func(ctx context.Context, token string) (*models.User, *services.ServiceError)
}

func (m *mockAuth) Login(ctx context.Context, form models.LoginForm) (*services.SignedIn, *services.ServiceError) {
	return m.loginFn(ctx, form)
}

func (m *mockAuth) Register(ctx context.Context, form models.RegisterForm) *services.ServiceError {
	if m.registerFn != nil {
		return m.registerFn(ctx, form)
	}
	return nil
}

func (m *mockAuth) Refresh(ctx context.Context, token string) (*models.User, *services.ServiceError) {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, token)
	}
	return nil, &services.ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"}
}

// --- Mock order backend for the real checkout service ---

type mockOrders struct {
	created []models.NewOrder
	err     error
}

func (m *mockOrders) CreateOrder(_ context.Context, _ string, in models.NewOrder) (*models.Order, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, in)
	return &models.Order{ID: 42, Status: models.OrderPending}, nil
}

// --- Mock account ---

type mockAccount struct {
	services.AccountService
	ordersFn func(ctx context.Context, token string) ([]models.Order, *services.ServiceError)
}

func (m *mockAccount) MyOrders(ctx context.Context, token string) ([]models.Order, *services.ServiceError) {
	return m.ordersFn(ctx, token)
}

// --- Mock admin ---

// mockAdmin implements only what the tests call; anything else panics on
// the nil embedded interface.
type mockAdmin struct {
	services.AdminService
	overviewFn     func(ctx context.Context, token string) (*models.AdminOverview, *services.ServiceError)
	updateStatusFn func(ctx context.Context, token string, id int64, status models.OrderStatus) *services.ServiceError
	bulkStatusFn   func(ctx context.Context, token string, ids []int64, status models.OrderStatus) (services.BulkResult[int64], *services.ServiceError)
}

func (m *mockAdmin) Overview(ctx context.Context, token string) (*models.AdminOverview, *services.ServiceError) {
	return m.overviewFn(ctx, token)
}

func (m *mockAdmin) LargestOrders(context.Context, string, int) ([]models.Order, *services.ServiceError) {
	return nil, &services.ServiceError{StatusCode: http.StatusServiceUnavailable, Message: "unavailable"}
}

func (m *mockAdmin) UpdateOrderStatus(ctx context.Context, token string, id int64, status models.OrderStatus) *services.ServiceError {
	return m.updateStatusFn(ctx, token, id, status)
}

func (m *mockAdmin) BulkUpdateOrderStatus(ctx context.Context, token string, ids []int64, status models.OrderStatus) (services.BulkResult[int64], *services.ServiceError) {
	return m.bulkStatusFn(ctx, token, ids, status)
}

// --- Mock images ---

type mockImages struct {
	services.ImageService
	uploaded []string
	uploadFn func(name string) *services.ServiceError
}

func (m *mockImages) Upload(_ context.Context, _ string, fh *multipart.FileHeader) (string, *services.ServiceError) {
	if m.uploadFn != nil {
		if serr := m.uploadFn(fh.Filename); serr != nil {
			return "", serr
		}
	}
	m.uploaded = append(m.uploaded, fh.Filename)
	return "/uploads/" + fh.Filename, nil
}

// --- Harness ---

type harness struct {
	router   *gin.Engine
	sessions *session.Manager
	cart     services.CartService
	catalog  *mockCatalog
	auth     *mockAuth
	orders   *mockOrders
	account  *mockAccount
	admin    *mockAdmin
	images   *mockImages
}

type option func(*gin.Engine)

// signedIn replaces the cookie session with a signed-in one.
func signedIn(user models.User) option {
	return func(r *gin.Engine) {
		r.Use(func(c *gin.Context) {
			c.Set(middleware.SessionContextKey, &session.State{
				VisitorID: testVisitor,
				Token:     "token-1",
				User:      &user,
				ExpiresAt: time.Now().Add(time.Hour),
			})
			c.Next()
		})
	}
}

func customer() models.User {
	return models.User{ID: 7, Name: "Lan", Email: "lan@example.com", Phone: "0912345678", Address: "1 Le Loi", Role: models.RoleUser}
}

func adminUser() models.User {
	return models.User{ID: 1, Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin}
}

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()

	h := &harness{
		sessions: session.NewManager(session.NewCookieStore([]byte("0123456789abcdef0123456789abcdef"), false), ""),
		catalog:  &mockCatalog{},
		auth:     &mockAuth{},
		orders:   &mockOrders{},
		account:  &mockAccount{},
		admin:    &mockAdmin{},
		images:   &mockImages{},
	}
	h.cart = services.NewCartService(repository.NewMemoryCartStore(time.Hour), testBooks(), nil, zap.NewNop())
	checkout := services.NewCheckoutService(h.cart, h.orders, nil, "", nil, zap.NewNop())

	base, err := controllers.NewBase(templates.FS, h.sessions, h.cart)
	require.NoError(t, err)
	static, err := fs.Sub(templates.FS, "static")
	require.NoError(t, err)

	r := gin.New()
	r.Use(middleware.Session(h.sessions))
	for _, opt := range opts {
		opt(r)
	}
	r.Use(apperrors.ErrorMiddleware(base.ErrorPage))

	routes.RegisterRoutes(r, routes.Handlers{
		Store:    controllers.NewStoreController(base, h.catalog),
		Cart:     controllers.NewCartController(base),
		Auth:     controllers.NewAuthController(base, h.auth),
		Checkout: controllers.NewCheckoutController(base, checkout, h.auth),
		Account:  controllers.NewAccountController(base, h.account),
		Admin:    controllers.NewAdminController(base, h.admin, h.images),
		Sessions: h.sessions,
		Static:   static,
	})
	h.router = r
	return h
}

func (h *harness) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func (h *harness) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (h *harness) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req, cookies...)
}

// sessionCookie returns the last session cookie written, which carries the
// final state of the request.
func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	var last *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			last = c
		}
	}
	require.NotNil(t, last, "no session cookie set")
	return last
}
