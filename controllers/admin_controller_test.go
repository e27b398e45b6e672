package controllers_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"bookstore-web/models"
	"bookstore-web/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func overview(context.Context, string) (*models.AdminOverview, *services.ServiceError) {
	return &models.AdminOverview{
		Overview: models.Overview{
			TotalBooks:     1250,
			AvailableBooks: 1100,
			Orders:         models.OrderCounts{Total: 40, Pending: 6},
			TotalRevenue:   decimal.NewFromInt(15750000),
		},
		LatestOrders: []models.Order{{ID: 77, UserName: "Lan", Status: models.OrderPending, TotalAmount: decimal.NewFromInt(120000)}},
	}, nil
}

func TestAdmin_AccessControl(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		h := newHarness(t)
		w := h.get("/admin/books")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login?from=%2Fadmin%2Fbooks", w.Header().Get("Location"))
	})

	t.Run("customer", func(t *testing.T) {
		h := newHarness(t, signedIn(customer()))
		w := h.get("/admin")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
	})
}

func TestAdminDashboard(t *testing.T) {
	h := newHarness(t, signedIn(adminUser()))
	h.admin.overviewFn = overview

	w := h.get("/admin")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "1,250")
	assert.Contains(t, body, "15.750.000 ₫")
	assert.Contains(t, body, `href="/admin/orders/77"`)
	assert.Contains(t, body, `class="sidebar"`)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	h := newHarness(t, signedIn(adminUser()))
	h.admin.overviewFn = overview
	var gotID int64
	var gotStatus models.OrderStatus
	h.admin.updateStatusFn = func(_ context.Context, token string, id int64, status models.OrderStatus) *services.ServiceError {
		gotID, gotStatus = id, status
		if status == models.OrderPending {
			return &services.ServiceError{StatusCode: http.StatusConflict, Message: "Cannot change a Delivered order to Pending"}
		}
		return nil
	}

	w := h.post("/admin/orders/5/status", url.Values{"status": {"SHIPPED"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/orders/5", w.Header().Get("Location"))
	assert.Equal(t, int64(5), gotID)
	assert.Equal(t, models.OrderShipped, gotStatus)
	page := h.get("/admin", sessionCookie(t, w))
	assert.Contains(t, page.Body.String(), "Order #5 is now Shipped")

	w = h.post("/admin/orders/5/status", url.Values{"status": {"PENDING"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/orders/5", w.Header().Get("Location"))
	page = h.get("/admin", sessionCookie(t, w))
	assert.Contains(t, page.Body.String(), "Cannot change a Delivered order to Pending")
}

func TestAdminBulkUpdateOrderStatus(t *testing.T) {
	h := newHarness(t, signedIn(adminUser()))
	h.admin.overviewFn = overview
	var gotIDs []int64
	h.admin.bulkStatusFn = func(_ context.Context, _ string, ids []int64, status models.OrderStatus) (services.BulkResult[int64], *services.ServiceError) {
		gotIDs = ids
		return services.BulkResult[int64]{Succeeded: 1, Failed: []int64{3, 4}}, nil
	}

	w := h.post("/admin/orders/bulk-status", url.Values{
		"ids":      {"3", "4", "x", "5"},
		"status":   {"SHIPPED"},
		"redirect": {"/admin/orders?status=CONFIRMED"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/orders?status=CONFIRMED", w.Header().Get("Location"))
	assert.Equal(t, []int64{3, 4, 5}, gotIDs)

	page := h.get("/admin", sessionCookie(t, w))
	body := page.Body.String()
	assert.Contains(t, body, "1 orders are now Shipped")
	assert.Contains(t, body, "Could not update #3, #4")
}

func TestAdminUploadImages(t *testing.T) {
	h := newHarness(t, signedIn(adminUser()))
	h.admin.overviewFn = overview
	h.images.uploadFn = func(name string) *services.ServiceError {
		if name == "notes.txt" {
			return &services.ServiceError{StatusCode: http.StatusBadRequest, Message: "Only JPEG, PNG and GIF images are allowed"}
		}
		return nil
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, name := range []string{"cover.png", "notes.txt"} {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, _ = part.Write([]byte("data"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/images", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := h.do(req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/images", w.Header().Get("Location"))
	assert.Equal(t, []string{"cover.png"}, h.images.uploaded)

	page := h.get("/admin", sessionCookie(t, w))
	assert.Contains(t, page.Body.String(), "1 images uploaded")
	assert.Contains(t, page.Body.String(), "notes.txt: Only JPEG, PNG and GIF images are allowed")
}

func TestAdminUploadImages_NoFiles(t *testing.T) {
	h := newHarness(t, signedIn(adminUser()))

	w := h.post("/admin/images", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/images", w.Header().Get("Location"))
	assert.Empty(t, h.images.uploaded)
}
