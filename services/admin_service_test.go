package services_test

import (
	"context"
	"errors"
	"testing"

	"bookstore-web/models"
	"bookstore-web/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validBookForm() models.BookForm {
	return models.BookForm{
		Title:       "Dune",
		AuthorID:    3,
		Description: "Desert planet",
		Price:       "120000",
		Stock:       5,
		CategoryID:  2,
		Images:      "https://img/1.jpg\n https://img/2.jpg ,\n",
	}
}

func TestCreateBook_ConvertsForm(t *testing.T) {
	var got models.BookInput
	backend := &mockBackend{
		createBookFn: func(_ context.Context, _ string, in models.BookInput) (*models.Book, error) {
			got = in
			return &models.Book{ID: 9, Title: in.Title}, nil
		},
	}
	catalog := &mockCatalogService{}
	svc := services.NewAdminService(backend, catalog, zap.NewNop())

	book, serr := svc.CreateBook(context.Background(), "tok", validBookForm())
	require.Nil(t, serr)
	assert.Equal(t, int64(9), book.ID)
	assert.True(t, decimal.NewFromInt(120000).Equal(got.Price))
	assert.Equal(t, []string{"https://img/1.jpg", "https://img/2.jpg"}, got.Images)
	assert.Equal(t, 1, catalog.invalidated)
}

func TestCreateBook_Validation(t *testing.T) {
	svc := services.NewAdminService(&mockBackend{}, &mockCatalogService{}, zap.NewNop())

	tests := []struct {
		name  string
		edit  func(f *models.BookForm)
		field string
	}{
		{"title required", func(f *models.BookForm) { f.Title = " " }, "title"},
		{"author required", func(f *models.BookForm) { f.AuthorID = 0 }, "authorId"},
		{"price must be positive", func(f *models.BookForm) { f.Price = "0" }, "price"},
		{"price must be a number", func(f *models.BookForm) { f.Price = "abc" }, "price"},
		{"stock not negative", func(f *models.BookForm) { f.Stock = -1 }, "stock"},
		{"category required", func(f *models.BookForm) { f.CategoryID = 0 }, "categoryId"},
		{"one image required", func(f *models.BookForm) { f.Images = " \n , " }, "images"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validBookForm()
			tt.edit(&form)
			_, serr := svc.CreateBook(context.Background(), "tok", form)
			require.NotNil(t, serr)
			assert.Equal(t, 400, serr.StatusCode)
			assert.Contains(t, serr.Fields, tt.field)
		})
	}
}

func TestCreateCategory_NameRequired(t *testing.T) {
	backend := &mockBackend{
		createCategoryFn: func(_ context.Context, _ string, in models.CategoryInput) (*models.Category, error) {
			return &models.Category{ID: 1, Name: in.Name}, nil
		},
	}
	svc := services.NewAdminService(backend, &mockCatalogService{}, zap.NewNop())

	_, serr := svc.CreateCategory(context.Background(), "tok", models.CategoryForm{Name: "  "})
	require.NotNil(t, serr)
	assert.Contains(t, serr.Fields, "name")

	cat, serr := svc.CreateCategory(context.Background(), "tok", models.CategoryForm{Name: " Poetry "})
	require.Nil(t, serr)
	assert.Equal(t, "Poetry", cat.Name)
}

func TestDeleteBook_InvalidatesCatalog(t *testing.T) {
	backend := &mockBackend{
		deleteBookFn: func(context.Context, string, int64) error { return nil },
	}
	catalog := &mockCatalogService{}
	svc := services.NewAdminService(backend, catalog, zap.NewNop())

	require.Nil(t, svc.DeleteBook(context.Background(), "tok", 3))
	assert.Equal(t, 1, catalog.invalidated)

	backend.deleteBookFn = func(context.Context, string, int64) error { return notFound() }
	serr := svc.DeleteBook(context.Background(), "tok", 3)
	require.NotNil(t, serr)
	assert.Equal(t, 1, catalog.invalidated, "failed mutations keep the cache")
}

func orderBackend(statuses map[int64]models.OrderStatus) (*mockBackend, *[]int64) {
	var updated []int64
	backend := &mockBackend{
		getOrderFn: func(_ context.Context, _ string, id int64) (*models.Order, error) {
			s, ok := statuses[id]
			if !ok {
				return nil, notFound()
			}
			return &models.Order{ID: id, Status: s}, nil
		},
		updateOrderStatusFn: func(_ context.Context, _ string, id int64, status models.OrderStatus) error {
			statuses[id] = status
			updated = append(updated, id)
			return nil
		},
	}
	return backend, &updated
}

func TestUpdateOrderStatus_Transitions(t *testing.T) {
	backend, updated := orderBackend(map[int64]models.OrderStatus{
		1: models.OrderPending,
		2: models.OrderDelivered,
		3: models.OrderPending,
	})
	svc := services.NewAdminService(backend, nil, zap.NewNop())
	ctx := context.Background()

	assert.Nil(t, svc.UpdateOrderStatus(ctx, "tok", 1, models.OrderConfirmed))

	serr := svc.UpdateOrderStatus(ctx, "tok", 2, models.OrderCancelled)
	require.NotNil(t, serr)
	assert.Equal(t, 409, serr.StatusCode)
	assert.Equal(t, "Order #2 cannot move from Delivered to Cancelled", serr.Message)

	serr = svc.UpdateOrderStatus(ctx, "tok", 3, models.OrderShipped)
	require.NotNil(t, serr)
	assert.Equal(t, 409, serr.StatusCode)

	serr = svc.UpdateOrderStatus(ctx, "tok", 3, "LOST")
	require.NotNil(t, serr)
	assert.Equal(t, 400, serr.StatusCode)

	assert.Equal(t, []int64{1}, *updated)
}

func TestBulkUpdateOrderStatus(t *testing.T) {
	backend, updated := orderBackend(map[int64]models.OrderStatus{
		1: models.OrderPending,
		2: models.OrderConfirmed,
		3: models.OrderShipped,
	})
	svc := services.NewAdminService(backend, nil, zap.NewNop())

	res, serr := svc.BulkUpdateOrderStatus(context.Background(), "tok", []int64{1, 2, 3, 4}, models.OrderCancelled)
	require.Nil(t, serr)
	assert.Equal(t, 2, res.Succeeded)
	assert.Equal(t, []int64{3, 4}, res.Failed)
	assert.Equal(t, []int64{1, 2}, *updated)

	_, serr = svc.BulkUpdateOrderStatus(context.Background(), "tok", nil, models.OrderCancelled)
	require.NotNil(t, serr)
}

func TestBulkUpdateOrderStatus_StopsOnExpiredSession(t *testing.T) {
	backend := &mockBackend{
		getOrderFn: func(context.Context, string, int64) (*models.Order, error) { return nil, unauthorized() },
	}
	svc := services.NewAdminService(backend, nil, zap.NewNop())

	_, serr := svc.BulkUpdateOrderStatus(context.Background(), "tok", []int64{1, 2}, models.OrderConfirmed)
	require.NotNil(t, serr)
	assert.True(t, serr.Unauthorized())
}

func TestUserMutations_RefuseSelf(t *testing.T) {
	var calls []string
	backend := &mockBackend{
		toggleUserStatusFn: func(context.Context, string, int64) error { calls = append(calls, "toggle"); return nil },
		changeUserRoleFn: func(_ context.Context, _ string, _ int64, role models.Role) error {
			calls = append(calls, "role:"+string(role))
			return nil
		},
		deleteUserFn: func(context.Context, string, int64) error { calls = append(calls, "delete"); return nil },
	}
	svc := services.NewAdminService(backend, nil, zap.NewNop())
	ctx := context.Background()

	for _, serr := range []*services.ServiceError{
		svc.ToggleUserStatus(ctx, "tok", 1, 1),
		svc.ChangeUserRole(ctx, "tok", 1, 1, models.RoleUser),
		svc.DeleteUser(ctx, "tok", 1, 1),
	} {
		require.NotNil(t, serr)
		assert.Equal(t, 403, serr.StatusCode)
	}
	assert.Empty(t, calls)

	assert.Nil(t, svc.ToggleUserStatus(ctx, "tok", 1, 2))
	assert.Nil(t, svc.ChangeUserRole(ctx, "tok", 1, 2, models.RoleAdmin))
	assert.NotNil(t, svc.ChangeUserRole(ctx, "tok", 1, 2, "ROOT"))
	assert.Nil(t, svc.DeleteUser(ctx, "tok", 1, 2))
	assert.Equal(t, []string{"toggle", "role:ADMIN", "delete"}, calls)
}

func TestOverview(t *testing.T) {
	backend := &mockBackend{
		overviewFn: func(context.Context, string) (*models.Overview, error) {
			return &models.Overview{TotalBooks: 42}, nil
		},
		adminListOrdersFn: func(_ context.Context, _ string, f models.OrderFilter) (models.Page[models.Order], error) {
			assert.Equal(t, 5, f.Size)
			return models.Page[models.Order]{Data: []models.Order{{ID: 1}, {ID: 2}}}, nil
		},
		adminBestSellersFn: func(_ context.Context, _ string, limit int) ([]models.Book, error) {
			return make([]models.Book, limit), nil
		},
	}
	svc := services.NewAdminService(backend, nil, zap.NewNop())

	ov, serr := svc.Overview(context.Background(), "tok")
	require.Nil(t, serr)
	assert.Equal(t, int64(42), ov.Overview.TotalBooks)
	assert.Len(t, ov.LatestOrders, 2)
	assert.Len(t, ov.BestSellers, 5)

	backend.overviewFn = func(context.Context, string) (*models.Overview, error) { return nil, errors.New("boom") }
	_, serr = svc.Overview(context.Background(), "tok")
	require.NotNil(t, serr)
}
