package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookstore-web/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *BackendClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackendClient(srv.URL+"/api", 2*time.Second)
}

func TestListBooks_AdaptsSpringPage(t *testing.T) {
	var gotQuery map[string]string
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/books", r.URL.Path)
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"content": [{"id": 7, "title": "Dế Mèn", "price": 45000, "stockQuantity": 3,
			             "authorName": "Tô Hoài", "categoryId": 2, "categoryName": "Thiếu nhi",
			             "imageUrl": "http://img/1.jpg", "createdAt": "2024-05-01T10:00:00"}],
			"totalElements": 25, "totalPages": 3, "number": 1, "size": 12
		}`)
	})

	page, err := client.ListBooks(context.Background(), models.BookFilter{Page: 2, Limit: 12, CategoryID: 2, Sort: models.SortPriceDesc})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"page": "1", "limit": "12", "category": "2", "sortBy": "price", "sortDir": "desc",
	}, gotQuery)
	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages)
	assert.EqualValues(t, 25, page.TotalItems)
	require.Len(t, page.Data, 1)

	book := page.Data[0]
	assert.EqualValues(t, 7, book.ID)
	assert.Equal(t, "Tô Hoài", book.Author)
	assert.Equal(t, 3, book.Stock)
	assert.Equal(t, []string{"http://img/1.jpg"}, book.Images)
	assert.Equal(t, "Thiếu nhi", book.Category.Name)
	assert.True(t, decimal.NewFromInt(45000).Equal(book.Price))
	assert.Equal(t, 2024, book.CreatedAt.Year())
}

func TestBookDTO_AlternateShapes(t *testing.T) {
	var dto bookDTO
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "12", "title": "X", "price": "99.5", "quantity": 0,
		"author": {"id": 4, "name": "Nguyễn Nhật Ánh"},
		"category": {"id": 1, "name": "Văn học"},
		"images": ["a.jpg", "b.jpg"], "createdAt": [2023, 12, 24, 8, 30, 0]
	}`), &dto))

	book := dto.toModel()
	assert.EqualValues(t, 12, book.ID)
	assert.Equal(t, "Nguyễn Nhật Ánh", book.Author)
	assert.EqualValues(t, 4, book.AuthorID)
	assert.Equal(t, 0, book.Stock)
	assert.Equal(t, "a.jpg", book.CoverImage())
	assert.EqualValues(t, 1, book.CategoryID())
	assert.Equal(t, time.December, book.CreatedAt.Month())
}

func TestBackendError_UsesMessage(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Login failed","message":"Bad credentials"}`)
	})

	_, err := client.Login(context.Background(), "a@b.c", "wrong")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Bad credentials", apiErr.Message)
	assert.False(t, IsUnauthorized(err))
}

func TestBackendError_Unauthorized(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Me(context.Background(), "stale")
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Please sign in to continue", err.Error())
}

func TestErrorMessage_FieldErrors(t *testing.T) {
	msg := errorMessage(http.StatusBadRequest, []byte(`{"size":"File too large"}`))
	assert.Equal(t, "File too large", msg)
	assert.Equal(t, "The bookstore service is unavailable", errorMessage(http.StatusBadGateway, []byte("<html>")))
}

func TestLogin_MapsUser(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@shop.vn", body["usernameOrEmail"])
		_, _ = io.WriteString(w, `{"token":"jwt-token","id":1,"email":"admin@shop.vn","firstName":"An","lastName":"Nguyễn","role":"ADMIN"}`)
	})

	res, err := client.Login(context.Background(), "admin@shop.vn", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", res.Token)
	assert.Equal(t, "An Nguyễn", res.User.Name)
	assert.Equal(t, models.RoleAdmin, res.User.Role)
}

func TestMyOrders_BareArray(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "0", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("size"))
		_, _ = io.WriteString(w, `[{"id": 3, "status": "pending", "totalAmount": 90000, "orderDate": "2024-06-01T09:00:00",
			"orderItems": [{"bookId": 7, "bookTitle": "Dế Mèn", "quantity": 2, "price": 45000}]}]`)
	})

	orders, err := client.MyOrders(context.Background(), "tok", 1, 20)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderPending, orders[0].Status)
	assert.Equal(t, 2, orders[0].ItemCount())
	assert.Equal(t, "Dế Mèn", orders[0].Items[0].Title)
}

func TestCreateOrder_Payload(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"shippingAddress":"1 Lê Lợi","paymentMethod":"COD","orderItems":[{"bookId":7,"quantity":2}]}`, string(raw))
		_, _ = io.WriteString(w, `{"id": 99, "status": "PENDING"}`)
	})

	order, err := client.CreateOrder(context.Background(), "tok", models.NewOrder{
		ShippingAddress: "1 Lê Lợi",
		PaymentMethod:   models.PaymentCOD,
		Items:           []models.NewOrderItem{{BookID: 7, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 99, order.ID)
}

func TestUploadImage_Multipart(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cover.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "pngdata", string(data))
		_, _ = io.WriteString(w, `{"success":true,"url":"http://localhost:8080/uploads/cover.png"}`)
	})

	u, err := client.UploadImage(context.Background(), "tok", "cover.png", "image/png", strings.NewReader("pngdata"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/cover.png", u)
}

func TestOverview_Flattens(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"books":{"total":40,"available":35},"categories":{"total":6},"authors":{"total":12},
			"orders":{"total":9,"pending":2,"confirmed":3,"shipped":1,"delivered":2,"cancelled":1},"totalRevenue":1250000}`)
	})

	ov, err := client.Overview(context.Background(), "tok")
	require.NoError(t, err)
	assert.EqualValues(t, 35, ov.AvailableBooks)
	assert.EqualValues(t, 2, ov.Orders.Pending)
	assert.True(t, decimal.NewFromInt(1250000).Equal(ov.TotalRevenue))
}

func TestSplitName(t *testing.T) {
	first, last := splitName("Nguyễn Văn An")
	assert.Equal(t, "An", first)
	assert.Equal(t, "Nguyễn Văn", last)

	first, last = splitName("Cher")
	assert.Equal(t, "Cher", first)
	assert.Empty(t, last)
}

func TestAdminListOrders_ForwardsFilter(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/admin/status/SHIPPED", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "10", q.Get("size"))
		assert.Equal(t, "totalAmount", q.Get("sortBy"))
		assert.Equal(t, "asc", q.Get("sortDir"))
		assert.Equal(t, "lan@example.com", q.Get("userEmail"))
		_, _ = io.WriteString(w, `{"content": [{"id": 9, "status": "SHIPPED", "userEmail": "lan@example.com"}],
			"totalElements": 11, "totalPages": 2, "number": 1, "size": 10}`)
	})

	page, err := client.AdminListOrders(context.Background(), "tok", models.OrderFilter{
		Page: 2, Size: 10, Status: models.OrderShipped,
		UserEmail: "lan@example.com", SortBy: "totalAmount", SortDir: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, page.CurrentPage)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(9), page.Data[0].ID)
}

func TestAdminListOrders_OmitsEmptyFilters(t *testing.T) {
	client := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/orders/admin/all", r.URL.Path)
		q := r.URL.Query()
		assert.NotContains(t, q, "sortBy")
		assert.NotContains(t, q, "userEmail")
		_, _ = io.WriteString(w, `{"content": [], "totalElements": 0, "totalPages": 0, "number": 0, "size": 10}`)
	})

	_, err := client.AdminListOrders(context.Background(), "tok", models.OrderFilter{Page: 1, Size: 10})
	require.NoError(t, err)
}
