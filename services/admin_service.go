package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"bookstore-web/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	overviewLatestOrders = 5
	overviewBestSellers  = 5
)

type BookAdminBackend interface {
	AdminListBooks(ctx context.Context, token string, f models.BookFilter) (models.Page[models.Book], error)
	AdminGetBook(ctx context.Context, token string, id int64) (*models.Book, error)
	CreateBook(ctx context.Context, token string, in models.BookInput) (*models.Book, error)
	UpdateBook(ctx context.Context, token string, id int64, in models.BookInput) (*models.Book, error)
	DeleteBook(ctx context.Context, token string, id int64) error
	BulkDeleteBooks(ctx context.Context, token string, ids []int64) error
	ToggleBookStock(ctx context.Context, token string, id int64) error
	BookStatistics(ctx context.Context, token string) (*models.BookStatistics, error)
}

type AuthorAdminBackend interface {
	ListAuthors(ctx context.Context) ([]models.Author, error)
	AdminListAuthors(ctx context.Context, token string, f models.AuthorFilter) (models.Page[models.Author], error)
	AdminGetAuthor(ctx context.Context, token string, id int64) (*models.Author, error)
	SearchAuthors(ctx context.Context, token, term string) ([]models.Author, error)
	AuthorNationalities(ctx context.Context, token string) ([]string, error)
	CreateAuthor(ctx context.Context, token string, in models.AuthorInput) (*models.Author, error)
	UpdateAuthor(ctx context.Context, token string, id int64, in models.AuthorInput) (*models.Author, error)
	DeleteAuthor(ctx context.Context, token string, id int64) error
	BulkDeleteAuthors(ctx context.Context, token string, ids []int64) error
	AuthorStatistics(ctx context.Context, token string) (*models.AuthorStatistics, error)
}

type CategoryAdminBackend interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	CreateCategory(ctx context.Context, token string, in models.CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, token string, id int64, in models.CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, token string, id int64) error
}

type OrderAdminBackend interface {
	AdminListOrders(ctx context.Context, token string, f models.OrderFilter) (models.Page[models.Order], error)
	GetOrder(ctx context.Context, token string, id int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, token string, id int64, status models.OrderStatus) error
	OrderStatistics(ctx context.Context, token string) (*models.OrderStatistics, error)
	LargestOrders(ctx context.Context, token string, limit int) ([]models.Order, error)
}

type UserAdminBackend interface {
	AdminListUsers(ctx context.Context, token string, f models.UserFilter) (models.Page[models.User], error)
	AdminGetUser(ctx context.Context, token string, id int64) (*models.User, error)
	ToggleUserStatus(ctx context.Context, token string, id int64) error
	ChangeUserRole(ctx context.Context, token string, id int64, role models.Role) error
	DeleteUser(ctx context.Context, token string, id int64) error
	UserStatistics(ctx context.Context, token string) (*models.UserStatistics, error)
}

type DashboardBackend interface {
	Overview(ctx context.Context, token string) (*models.Overview, error)
	AdminBestSellers(ctx context.Context, token string, limit int) ([]models.Book, error)
}

// AdminBackend is everything the admin console calls on the backend.
type AdminBackend interface {
	BookAdminBackend
	AuthorAdminBackend
	CategoryAdminBackend
	OrderAdminBackend
	UserAdminBackend
	DashboardBackend
}

// BulkResult summarises an operation applied item by item.
type BulkResult[K any] struct {
	Succeeded int
	Failed    []K
}

// BookFormOptions feeds the author and category pickers of the book editor.
type BookFormOptions struct {
	Authors    []models.Author
	Categories []models.Category
}

type AdminService interface {
	Overview(ctx context.Context, token string) (*models.AdminOverview, *ServiceError)

	ListBooks(ctx context.Context, token string, filter models.BookFilter) (models.Page[models.Book], *ServiceError)
	Book(ctx context.Context, token string, id int64) (*models.Book, *ServiceError)
	BookFormOptions(ctx context.Context) (*BookFormOptions, *ServiceError)
	CreateBook(ctx context.Context, token string, form models.BookForm) (*models.Book, *ServiceError)
	UpdateBook(ctx context.Context, token string, id int64, form models.BookForm) (*models.Book, *ServiceError)
	DeleteBook(ctx context.Context, token string, id int64) *ServiceError
	BulkDeleteBooks(ctx context.Context, token string, ids []int64) *ServiceError
	ToggleBookStock(ctx context.Context, token string, id int64) *ServiceError
	BookStatistics(ctx context.Context, token string) (*models.BookStatistics, *ServiceError)

	ListAuthors(ctx context.Context, token string, filter models.AuthorFilter) (models.Page[models.Author], *ServiceError)
	Author(ctx context.Context, token string, id int64) (*models.Author, *ServiceError)
	SearchAuthors(ctx context.Context, token, term string) ([]models.Author, *ServiceError)
	AuthorNationalities(ctx context.Context, token string) ([]string, *ServiceError)
	CreateAuthor(ctx context.Context, token string, form models.AuthorForm) (*models.Author, *ServiceError)
	UpdateAuthor(ctx context.Context, token string, id int64, form models.AuthorForm) (*models.Author, *ServiceError)
	DeleteAuthor(ctx context.Context, token string, id int64) *ServiceError
	BulkDeleteAuthors(ctx context.Context, token string, ids []int64) *ServiceError
	AuthorStatistics(ctx context.Context, token string) (*models.AuthorStatistics, *ServiceError)

	Categories(ctx context.Context) ([]models.Category, *ServiceError)
	Category(ctx context.Context, id int64) (*models.Category, *ServiceError)
	CreateCategory(ctx context.Context, token string, form models.CategoryForm) (*models.Category, *ServiceError)
	UpdateCategory(ctx context.Context, token string, id int64, form models.CategoryForm) (*models.Category, *ServiceError)
	DeleteCategory(ctx context.Context, token string, id int64) *ServiceError

	ListOrders(ctx context.Context, token string, filter models.OrderFilter) (models.Page[models.Order], *ServiceError)
	Order(ctx context.Context, token string, id int64) (*models.Order, *ServiceError)
	UpdateOrderStatus(ctx context.Context, token string, id int64, status models.OrderStatus) *ServiceError
	BulkUpdateOrderStatus(ctx context.Context, token string, ids []int64, status models.OrderStatus) (BulkResult[int64], *ServiceError)
	OrderStatistics(ctx context.Context, token string) (*models.OrderStatistics, *ServiceError)
	LargestOrders(ctx context.Context, token string, limit int) ([]models.Order, *ServiceError)

	ListUsers(ctx context.Context, token string, filter models.UserFilter) (models.Page[models.User], *ServiceError)
	User(ctx context.Context, token string, id int64) (*models.User, *ServiceError)
	ToggleUserStatus(ctx context.Context, token string, actorID, id int64) *ServiceError
	ChangeUserRole(ctx context.Context, token string, actorID, id int64, role models.Role) *ServiceError
	DeleteUser(ctx context.Context, token string, actorID, id int64) *ServiceError
	UserStatistics(ctx context.Context, token string) (*models.UserStatistics, *ServiceError)
}

type adminServiceImpl struct {
	backend AdminBackend
	catalog CatalogService
	logger  *zap.Logger
}

// NewAdminService creates the admin console service. catalog is used to
// drop cached storefront data after every catalogue change.
func NewAdminService(backend AdminBackend, catalog CatalogService, logger *zap.Logger) AdminService {
	return &adminServiceImpl{backend: backend, catalog: catalog, logger: logger}
}

func (s *adminServiceImpl) invalidate(ctx context.Context) {
	if s.catalog == nil {
		return
	}
	_ = s.catalog.InvalidateCatalog(ctx)
}

// Overview loads the dashboard figures, the latest orders and the best sellers.
func (s *adminServiceImpl) Overview(ctx context.Context, token string) (*models.AdminOverview, *ServiceError) {
	var out models.AdminOverview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ov, err := s.backend.Overview(gctx, token)
		if err == nil {
			out.Overview = *ov
		}
		return err
	})
	g.Go(func() error {
		page, err := s.backend.AdminListOrders(gctx, token, models.OrderFilter{Page: 1, Size: overviewLatestOrders})
		out.LatestOrders = page.Data
		return err
	})
	g.Go(func() error {
		books, err := s.backend.AdminBestSellers(gctx, token, overviewBestSellers)
		out.BestSellers = books
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load admin overview", zap.Error(err))
		return nil, fromBackend(err, "Failed to load the dashboard")
	}
	return &out, nil
}

// --- Books ---

func (s *adminServiceImpl) ListBooks(ctx context.Context, token string, filter models.BookFilter) (models.Page[models.Book], *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 10
	}
	page, err := s.backend.AdminListBooks(ctx, token, filter)
	if err != nil {
		return models.Page[models.Book]{}, fromBackend(err, "Failed to load books")
	}
	return page, nil
}

func (s *adminServiceImpl) Book(ctx context.Context, token string, id int64) (*models.Book, *ServiceError) {
	book, err := s.backend.AdminGetBook(ctx, token, id)
	if err != nil {
		return nil, fromBackend(err, "Failed to load the book")
	}
	return book, nil
}

func (s *adminServiceImpl) BookFormOptions(ctx context.Context) (*BookFormOptions, *ServiceError) {
	var opts BookFormOptions
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		authors, err := s.backend.ListAuthors(gctx)
		opts.Authors = authors
		return err
	})
	g.Go(func() error {
		categories, err := s.backend.ListCategories(gctx)
		opts.Categories = categories
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fromBackend(err, "Failed to load authors and categories")
	}
	return &opts, nil
}

// bookInput validates the editor form and converts it to the backend payload.
func bookInput(form models.BookForm) (models.BookInput, *ServiceError) {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	form.Price = strings.TrimSpace(form.Price)
	images := splitImageURLs(form.Images)
	form.Images = strings.Join(images, "\n")

	fields := map[string]string{}
	if serr := validateForm(form); serr != nil {
		if serr.Fields == nil {
			return models.BookInput{}, serr
		}
		fields = serr.Fields
	}

	price, err := decimal.NewFromString(form.Price)
	if _, seen := fields["price"]; !seen && (err != nil || !price.IsPositive()) {
		fields["price"] = "Price must be greater than 0"
	}
	if len(fields) > 0 {
		return models.BookInput{}, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Please correct the highlighted fields", Fields: fields}
	}

	return models.BookInput{
		Title:       form.Title,
		Description: form.Description,
		Price:       price,
		Stock:       form.Stock,
		CategoryID:  form.CategoryID,
		AuthorID:    form.AuthorID,
		Images:      images,
	}, nil
}

// splitImageURLs accepts one URL per line or comma separated URLs.
func splitImageURLs(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	urls := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			urls = append(urls, f)
		}
	}
	return urls
}

func (s *adminServiceImpl) CreateBook(ctx context.Context, token string, form models.BookForm) (*models.Book, *ServiceError) {
	in, serr := bookInput(form)
	if serr != nil {
		return nil, serr
	}

	book, err := s.backend.CreateBook(ctx, token, in)
	if err != nil {
		s.logger.Warn("Book create failed", zap.String("title", in.Title), zap.Error(err))
		return nil, fromBackend(err, "Failed to create the book")
	}

	s.invalidate(ctx)
	s.logger.Info("Book created", zap.Int64("book_id", book.ID), zap.String("title", book.Title))
	return book, nil
}

func (s *adminServiceImpl) UpdateBook(ctx context.Context, token string, id int64, form models.BookForm) (*models.Book, *ServiceError) {
	in, serr := bookInput(form)
	if serr != nil {
		return nil, serr
	}

	book, err := s.backend.UpdateBook(ctx, token, id, in)
	if err != nil {
		s.logger.Warn("Book update failed", zap.Int64("book_id", id), zap.Error(err))
		return nil, fromBackend(err, "Failed to update the book")
	}

	s.invalidate(ctx)
	s.logger.Info("Book updated", zap.Int64("book_id", id))
	return book, nil
}

func (s *adminServiceImpl) DeleteBook(ctx context.Context, token string, id int64) *ServiceError {
	if err := s.backend.DeleteBook(ctx, token, id); err != nil {
		return fromBackend(err, "Failed to delete the book")
	}
	s.invalidate(ctx)
	s.logger.Info("Book deleted", zap.Int64("book_id", id))
	return nil
}

func (s *adminServiceImpl) BulkDeleteBooks(ctx context.Context, token string, ids []int64) *ServiceError {
	if len(ids) == 0 {
		return badRequest("Select at least one book")
	}
	if err := s.backend.BulkDeleteBooks(ctx, token, ids); err != nil {
		return fromBackend(err, "Failed to delete the selected books")
	}
	s.invalidate(ctx)
	s.logger.Info("Books deleted", zap.Int("count", len(ids)))
	return nil
}

func (s *adminServiceImpl) ToggleBookStock(ctx context.Context, token string, id int64) *ServiceError {
	if err := s.backend.ToggleBookStock(ctx, token, id); err != nil {
		return fromBackend(err, "Failed to update the stock")
	}
	s.invalidate(ctx)
	return nil
}

func (s *adminServiceImpl) BookStatistics(ctx context.Context, token string) (*models.BookStatistics, *ServiceError) {
	stats, err := s.backend.BookStatistics(ctx, token)
	if err != nil {
		return nil, fromBackend(err, "Failed to load book statistics")
	}
	return stats, nil
}

// --- Authors ---

func (s *adminServiceImpl) ListAuthors(ctx context.Context, token string, filter models.AuthorFilter) (models.Page[models.Author], *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 {
		filter.Size = 10
	}
	page, err := s.backend.AdminListAuthors(ctx, token, filter)
	if err != nil {
		return models.Page[models.Author]{}, fromBackend(err, "Failed to load authors")
	}
	return page, nil
}

func (s *adminServiceImpl) Author(ctx context.Context, token string, id int64) (*models.Author, *ServiceError) {
	author, err := s.backend.AdminGetAuthor(ctx, token, id)
	if err != nil {
		return nil, fromBackend(err, "Failed to load the author")
	}
	return author, nil
}

func (s *adminServiceImpl) SearchAuthors(ctx context.Context, token, term string) ([]models.Author, *ServiceError) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []models.Author{}, nil
	}
	authors, err := s.backend.SearchAuthors(ctx, token, term)
	if err != nil {
		return nil, fromBackend(err, "Failed to search authors")
	}
	return authors, nil
}

func (s *adminServiceImpl) AuthorNationalities(ctx context.Context, token string) ([]string, *ServiceError) {
	nationalities, err := s.backend.AuthorNationalities(ctx, token)
	if err != nil {
		return nil, fromBackend(err, "Failed to load nationalities")
	}
	return nationalities, nil
}

func authorInput(form models.AuthorForm) (models.AuthorInput, *ServiceError) {
	form.Name = strings.TrimSpace(form.Name)
	form.Nationality = strings.TrimSpace(form.Nationality)
	form.BirthDate = strings.TrimSpace(form.BirthDate)
	form.ImageURL = strings.TrimSpace(form.ImageURL)
	if serr := validateForm(form); serr != nil {
		return models.AuthorInput{}, serr
	}
	return models.AuthorInput{
		Name:        form.Name,
		Biography:   strings.TrimSpace(form.Biography),
		BirthDate:   form.BirthDate,
		Nationality: form.Nationality,
		ImageURL:    form.ImageURL,
	}, nil
}

func (s *adminServiceImpl) CreateAuthor(ctx context.Context, token string, form models.AuthorForm) (*models.Author, *ServiceError) {
	in, serr := authorInput(form)
	if serr != nil {
		return nil, serr
	}
	author, err := s.backend.CreateAuthor(ctx, token, in)
	if err != nil {
		return nil, fromBackend(err, "Failed to create the author")
	}
	s.invalidate(ctx)
	s.logger.Info("Author created", zap.Int64("author_id", author.ID))
	return author, nil
}

func (s *adminServiceImpl) UpdateAuthor(ctx context.Context, token string, id int64, form models.AuthorForm) (*models.Author, *ServiceError) {
	in, serr := authorInput(form)
	if serr != nil {
		return nil, serr
	}
	author, err := s.backend.UpdateAuthor(ctx, token, id, in)
	if err != nil {
		return nil, fromBackend(err, "Failed to update the author")
	}
	s.invalidate(ctx)
	return author, nil
}

func (s *adminServiceImpl) DeleteAuthor(ctx context.Context, token string, id int64) *ServiceError {
	if err := s.backend.DeleteAuthor(ctx, token, id); err != nil {
		return fromBackend(err, "Failed to delete the author")
	}
	s.invalidate(ctx)
	s.logger.Info("Author deleted", zap.Int64("author_id", id))
	return nil
}

func (s *adminServiceImpl) BulkDeleteAuthors(ctx context.Context, token string, ids []int64) *ServiceError {
	if len(ids) == 0 {
		return badRequest("Select at least one author")
	}
	if err := s.backend.BulkDeleteAuthors(ctx, token, ids); err != nil {
		return fromBackend(err, "Failed to delete the selected authors")
	}
	s.invalidate(ctx)
	return nil
}

func (s *adminServiceImpl) AuthorStatistics(ctx context.Context, token string) (*models.AuthorStatistics, *ServiceError) {
	stats, err := s.backend.AuthorStatistics(ctx, token)
	if err != nil {
		return nil, fromBackend(err, "Failed to load author statistics")
	}
	return stats, nil
}

// --- Categories ---

func (s *adminServiceImpl) Categories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := s.backend.ListCategories(ctx)
	if err != nil {
		return nil, fromBackend(err, "Failed to load categories")
	}
	return categories, nil
}

func (s *adminServiceImpl) Category(ctx context.Context, id int64) (*models.Category, *ServiceError) {
	category, err := s.backend.GetCategory(ctx, id)
	if err != nil {
		return nil, fromBackend(err, "Failed to load the category")
	}
	return category, nil
}

func categoryInput(form models.CategoryForm) (models.CategoryInput, *ServiceError) {
	form.Name = strings.TrimSpace(form.Name)
	if serr := validateForm(form); serr != nil {
		return models.CategoryInput{}, serr
	}
	return models.CategoryInput{Name: form.Name, Description: strings.TrimSpace(form.Description)}, nil
}

func (s *adminServiceImpl) CreateCategory(ctx context.Context, token string, form models.CategoryForm) (*models.Category, *ServiceError) {
	in, serr := categoryInput(form)
	if serr != nil {
		return nil, serr
	}
	category, err := s.backend.CreateCategory(ctx, token, in)
	if err != nil {
		return nil, fromBackend(err, "Failed to create the category")
	}
	s.invalidate(ctx)
	s.logger.Info("Category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

func (s *adminServiceImpl) UpdateCategory(ctx context.Context, token string, id int64, form models.CategoryForm) (*models.Category, *ServiceError) {
	in, serr := categoryInput(form)
	if serr != nil {
		return nil, serr
	}
	category, err := s.backend.UpdateCategory(ctx, token, id, in)
	if err != nil {
		return nil, fromBackend(err, "Failed to update the category")
	}
	s.invalidate(ctx)
	return category, nil
}

func (s *adminServiceImpl) DeleteCategory(ctx context.Context, token string, id int64) *ServiceError {
	if err := s.backend.DeleteCategory(ctx, token, id); err != nil {
		return fromBackend(err, "Failed to delete the category")
	}
	s.invalidate(ctx)
	s.logger.Info("Category deleted", zap.Int64("category_id", id))
	return nil
}

// --- Orders ---

func (s *adminServiceImpl) ListOrders(ctx context.Context, token string, filter models.OrderFilter) (models.Page[models.Order], *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 {
		filter.Size = 10
	}
	if filter.Status != "" && !filter.Status.Valid() {
		filter.Status = ""
	}
	page, err := s.backend.AdminListOrders(ctx, token, filter)
	if err != nil {
		return models.Page[models.Order]{}, fromBackend(err, "Failed to load orders")
	}
	return page, nil
}

func (s *adminServiceImpl) Order(ctx context.Context, token string, id int64) (*models.Order, *ServiceError) {
	order, err := s.backend.GetOrder(ctx, token, id)
	if err != nil {
		return nil, fromBackend(err, "Failed to load the order")
	}
	return order, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Moves that skip a
// step or leave a final status are refused before reaching the backend.
func (s *adminServiceImpl) UpdateOrderStatus(ctx context.Context, token string, id int64, status models.OrderStatus) *ServiceError {
	if !status.Valid() {
		return badRequest("Unknown order status")
	}

	order, serr := s.Order(ctx, token, id)
	if serr != nil {
		return serr
	}
	if !order.Status.CanTransitionTo(status) {
		return &ServiceError{
			StatusCode: http.StatusConflict,
			Message:    fmt.Sprintf("Order #%d cannot move from %s to %s", id, order.Status.Label(), status.Label()),
		}
	}

	if err := s.backend.UpdateOrderStatus(ctx, token, id, status); err != nil {
		s.logger.Warn("Order status update failed", zap.Int64("order_id", id), zap.String("status", string(status)), zap.Error(err))
		return fromBackend(err, "Failed to update the order")
	}

	s.logger.Info("Order status updated",
		zap.Int64("order_id", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)),
	)
	return nil
}

// BulkUpdateOrderStatus applies UpdateOrderStatus to each order and reports
// the ones that were refused or failed.
func (s *adminServiceImpl) BulkUpdateOrderStatus(ctx context.Context, token string, ids []int64, status models.OrderStatus) (BulkResult[int64], *ServiceError) {
	var res BulkResult[int64]
	if len(ids) == 0 {
		return res, badRequest("Select at least one order")
	}
	if !status.Valid() {
		return res, badRequest("Unknown order status")
	}

	for _, id := range ids {
		if serr := s.UpdateOrderStatus(ctx, token, id, status); serr != nil {
			if serr.Unauthorized() {
				return res, serr
			}
			res.Failed = append(res.Failed, id)
			continue
		}
		res.Succeeded++
	}
	return res, nil
}

func (s *adminServiceImpl) OrderStatistics(ctx context.Context, token string) (*models.OrderStatistics, *ServiceError) {
	stats, err := s.backend.OrderStatistics(ctx, token)
	if err != nil {
		return nil, fromBackend(err, "Failed to load order statistics")
	}
	return stats, nil
}

func (s *adminServiceImpl) LargestOrders(ctx context.Context, token string, limit int) ([]models.Order, *ServiceError) {
	if limit < 1 {
		limit = 5
	}
	orders, err := s.backend.LargestOrders(ctx, token, limit)
	if err != nil {
		return nil, fromBackend(err, "Failed to load the largest orders")
	}
	return orders, nil
}

// --- Users ---

var errSelfModification = &ServiceError{StatusCode: http.StatusForbidden, Message: "You cannot change your own account from the admin console"}

func (s *adminServiceImpl) ListUsers(ctx context.Context, token string, filter models.UserFilter) (models.Page[models.User], *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 {
		filter.Size = 10
	}
	page, err := s.backend.AdminListUsers(ctx, token, filter)
	if err != nil {
		return models.Page[models.User]{}, fromBackend(err, "Failed to load users")
	}
	return page, nil
}

func (s *adminServiceImpl) User(ctx context.Context, token string, id int64) (*models.User, *ServiceError) {
	user, err := s.backend.AdminGetUser(ctx, token, id)
	if err != nil {
		return nil, fromBackend(err, "Failed to load the user")
	}
	return user, nil
}

func (s *adminServiceImpl) ToggleUserStatus(ctx context.Context, token string, actorID, id int64) *ServiceError {
	if actorID == id {
		return errSelfModification
	}
	if err := s.backend.ToggleUserStatus(ctx, token, id); err != nil {
		return fromBackend(err, "Failed to update the user")
	}
	s.logger.Info("User status toggled", zap.Int64("user_id", id), zap.Int64("actor_id", actorID))
	return nil
}

func (s *adminServiceImpl) ChangeUserRole(ctx context.Context, token string, actorID, id int64, role models.Role) *ServiceError {
	if actorID == id {
		return errSelfModification
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return badRequest("Unknown role")
	}
	if err := s.backend.ChangeUserRole(ctx, token, id, role); err != nil {
		return fromBackend(err, "Failed to change the role")
	}
	s.logger.Info("User role changed", zap.Int64("user_id", id), zap.String("role", string(role)), zap.Int64("actor_id", actorID))
	return nil
}

func (s *adminServiceImpl) DeleteUser(ctx context.Context, token string, actorID, id int64) *ServiceError {
	if actorID == id {
		return errSelfModification
	}
	if err := s.backend.DeleteUser(ctx, token, id); err != nil {
		return fromBackend(err, "Failed to delete the user")
	}
	s.logger.Info("User deleted", zap.Int64("user_id", id), zap.Int64("actor_id", actorID))
	return nil
}

func (s *adminServiceImpl) UserStatistics(ctx context.Context, token string) (*models.UserStatistics, *ServiceError) {
	stats, err := s.backend.UserStatistics(ctx, token)
	if err != nil {
		return nil, fromBackend(err, "Failed to load user statistics")
	}
	return stats, nil
}
