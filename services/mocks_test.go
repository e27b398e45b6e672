package services_test

import (
	"context"
	"sync"

	"bookstore-web/clients"
	"bookstore-web/models"
	"bookstore-web/repository"
	"bookstore-web/services"
)

func notFound() error {
	return &clients.APIError{Status: 404, Message: "Not found"}
}

func unauthorized() error {
	return &clients.APIError{Status: 401, Message: "Unauthorized"}
}

// --- Mock SNS Publisher ---

type mockSNSPublisher struct {
	mu        sync.Mutex
	published []string
	messages  [][]byte
	err       error
}

func (m *mockSNSPublisher) Publish(_ context.Context, topicArn, eventType string, message []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, topicArn+":"+eventType)
	m.messages = append(m.messages, message)
	return nil
}

// --- Mock catalog cache ---

type mockCache struct {
	mu          sync.Mutex
	gets        map[string]int
	sets        map[string]any
	invalidated int
}

func newMockCache() *mockCache {
	return &mockCache{gets: map[string]int{}, sets: map[string]any{}}
}

// Get always misses so every read reaches the backend.
func (m *mockCache) Get(_ context.Context, key string, _ any) (repository.CacheVersion, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets[key]++
	return 1, false
}

func (m *mockCache) SetAsync(_ repository.CacheVersion, key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[key] = value
}

func (m *mockCache) Invalidate(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
	return nil
}

// --- Mock catalog service ---

type mockCatalogService struct {
	services.CatalogService
	invalidateFn func(ctx context.Context) error
	invalidated  int
}

func (m *mockCatalogService) InvalidateCatalog(ctx context.Context) error {
	m.invalidated++
	if m.invalidateFn != nil {
		return m.invalidateFn(ctx)
	}
	return nil
}

// --- Mock backend ---

// mockBackend implements every backend interface the services use. Calls to
// methods without a function set panic through the nil embedded interface.
type mockBackend struct {
	services.AdminBackend

	loginFn          func(ctx context.Context, login, password string) (*clients.LoginResult, error)
	registerFn       func(ctx context.Context, in clients.RegisterInput) error
	meFn             func(ctx context.Context, token string) (*models.User, error)
	updateMeFn       func(ctx context.Context, token string, in models.ProfileInput) (*models.User, error)
	changePasswordFn func(ctx context.Context, token string, in models.PasswordInput) error
	myOrdersFn       func(ctx context.Context, token string, page, size int) ([]models.Order, error)
	getOrderFn       func(ctx context.Context, token string, id int64) (*models.Order, error)
	cancelOrderFn    func(ctx context.Context, token string, id int64) error
	createOrderFn    func(ctx context.Context, token string, in models.NewOrder) (*models.Order, error)

	listBooksFn      func(ctx context.Context, f models.BookFilter) (models.Page[models.Book], error)
	getBookFn        func(ctx context.Context, id int64) (*models.Book, error)
	latestBooksFn    func(ctx context.Context, limit int) ([]models.Book, error)
	bestSellersFn    func(ctx context.Context, limit int) ([]models.Book, error)
	listCategoriesFn func(ctx context.Context) ([]models.Category, error)
	listAuthorsFn    func(ctx context.Context) ([]models.Author, error)

	createBookFn        func(ctx context.Context, token string, in models.BookInput) (*models.Book, error)
	deleteBookFn        func(ctx context.Context, token string, id int64) error
	createCategoryFn    func(ctx context.Context, token string, in models.CategoryInput) (*models.Category, error)
	updateOrderStatusFn func(ctx context.Context, token string, id int64, status models.OrderStatus) error
	adminListOrdersFn   func(ctx context.Context, token string, f models.OrderFilter) (models.Page[models.Order], error)
	overviewFn          func(ctx context.Context, token string) (*models.Overview, error)
	adminBestSellersFn  func(ctx context.Context, token string, limit int) ([]models.Book, error)
	toggleUserStatusFn  func(ctx context.Context, token string, id int64) error
	changeUserRoleFn    func(ctx context.Context, token string, id int64, role models.Role) error
	deleteUserFn        func(ctx context.Context, token string, id int64) error
}

func (m *mockBackend) Login(ctx context.Context, login, password string) (*clients.LoginResult, error) {
	return m.loginFn(ctx, login, password)
}

func (m *mockBackend) Register(ctx context.Context, in clients.RegisterInput) error {
	return m.registerFn(ctx, in)
}

func (m *mockBackend) Me(ctx context.Context, token string) (*models.User, error) {
	return m.meFn(ctx, token)
}

func (m *mockBackend) UpdateMe(ctx context.Context, token string, in models.ProfileInput) (*models.User, error) {
	return m.updateMeFn(ctx, token, in)
}

func (m *mockBackend) ChangePassword(ctx context.Context, token string, in models.PasswordInput) error {
	return m.changePasswordFn(ctx, token, in)
}

func (m *mockBackend) MyOrders(ctx context.Context, token string, page, size int) ([]models.Order, error) {
	return m.myOrdersFn(ctx, token, page, size)
}

func (m *mockBackend) GetOrder(ctx context.Context, token string, id int64) (*models.Order, error) {
	return m.getOrderFn(ctx, token, id)
}

func (m *mockBackend) CancelOrder(ctx context.Context, token string, id int64) error {
	return m.cancelOrderFn(ctx, token, id)
}

func (m *mockBackend) CreateOrder(ctx context.Context, token string, in models.NewOrder) (*models.Order, error) {
	return m.createOrderFn(ctx, token, in)
}

func (m *mockBackend) ListBooks(ctx context.Context, f models.BookFilter) (models.Page[models.Book], error) {
	return m.listBooksFn(ctx, f)
}

func (m *mockBackend) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	return m.getBookFn(ctx, id)
}

func (m *mockBackend) LatestBooks(ctx context.Context, limit int) ([]models.Book, error) {
	return m.latestBooksFn(ctx, limit)
}

func (m *mockBackend) BestSellers(ctx context.Context, limit int) ([]models.Book, error) {
	return m.bestSellersFn(ctx, limit)
}

func (m *mockBackend) ListCategories(ctx context.Context) ([]models.Category, error) {
	return m.listCategoriesFn(ctx)
}

func (m *mockBackend) ListAuthors(ctx context.Context) ([]models.Author, error) {
	return m.listAuthorsFn(ctx)
}

func (m *mockBackend) CreateBook(ctx context.Context, token string, in models.BookInput) (*models.Book, error) {
	return m.createBookFn(ctx, token, in)
}

func (m *mockBackend) DeleteBook(ctx context.Context, token string, id int64) error {
	return m.deleteBookFn(ctx, token, id)
}

func (m *mockBackend) CreateCategory(ctx context.Context, token string, in models.CategoryInput) (*models.Category, error) {
	return m.createCategoryFn(ctx, token, in)
}

func (m *mockBackend) UpdateOrderStatus(ctx context.Context, token string, id int64, status models.OrderStatus) error {
	return m.updateOrderStatusFn(ctx, token, id, status)
}

func (m *mockBackend) AdminListOrders(ctx context.Context, token string, f models.OrderFilter) (models.Page[models.Order], error) {
	return m.adminListOrdersFn(ctx, token, f)
}

func (m *mockBackend) Overview(ctx context.Context, token string) (*models.Overview, error) {
	return m.overviewFn(ctx, token)
}

func (m *mockBackend) AdminBestSellers(ctx context.Context, token string, limit int) ([]models.Book, error) {
	return m.adminBestSellersFn(ctx, token, limit)
}

func (m *mockBackend) ToggleUserStatus(ctx context.Context, token string, id int64) error {
	return m.toggleUserStatusFn(ctx, token, id)
}

func (m *mockBackend) ChangeUserRole(ctx context.Context, token string, id int64, role models.Role) error {
	return m.changeUserRoleFn(ctx, token, id, role)
}

func (m *mockBackend) DeleteUser(ctx context.Context, token string, id int64) error {
	return m.deleteUserFn(ctx, token, id)
}
