package services_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bookstore-web/models"
	"bookstore-web/repository"
	"bookstore-web/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validCheckoutForm() models.CheckoutForm {
	return models.CheckoutForm{
		CustomerName:  "Ana Nguyen",
		Phone:         "0912345678",
		Email:         "ana@example.com",
		Address:       "12 Hang Bai, Hanoi",
		PaymentMethod: models.PaymentCOD,
	}
}

type checkoutFixture struct {
	cart    services.CartService
	sns     *mockSNSPublisher
	backend *mockBackend
	svc     services.CheckoutService
	placed  *models.NewOrder
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	f := &checkoutFixture{sns: &mockSNSPublisher{}}
	f.cart = services.NewCartService(repository.NewMemoryCartStore(time.Hour), testBooks(), nil, zap.NewNop())
	f.backend = &mockBackend{
		createOrderFn: func(_ context.Context, token string, in models.NewOrder) (*models.Order, error) {
			if token != "tok" {
				return nil, unauthorized()
			}
			f.placed = &in
			return &models.Order{
				ID:          55,
				Status:      models.OrderPending,
				TotalAmount: decimal.NewFromInt(320000),
				Items:       []models.OrderItem{{BookID: 1, Quantity: 1}, {BookID: 2, Quantity: 2}},
			}, nil
		},
	}
	f.svc = services.NewCheckoutService(f.cart, f.backend, f.sns, "arn:orders", nil, zap.NewNop())
	return f
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, serr := f.svc.PlaceOrder(context.Background(), "v1", "tok", validCheckoutForm())
	require.NotNil(t, serr)
	assert.Equal(t, "Your cart is empty", serr.Message)
	assert.Nil(t, f.placed)
}

func TestPlaceOrder_Validation(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	_, serr := f.cart.Add(ctx, "v1", 1, 1)
	require.Nil(t, serr)

	form := validCheckoutForm()
	form.Phone = "123"
	form.Email = "ana"
	form.Address = "   "
	_, serr = f.svc.PlaceOrder(ctx, "v1", "tok", form)
	require.NotNil(t, serr)
	assert.Equal(t, 400, serr.StatusCode)
	assert.Contains(t, serr.Fields, "phone")
	assert.Contains(t, serr.Fields, "email")
	assert.Contains(t, serr.Fields, "address")

	form = validCheckoutForm()
	form.PaymentMethod = models.PaymentOnline
	_, serr = f.svc.PlaceOrder(ctx, "v1", "tok", form)
	require.NotNil(t, serr)
	assert.Contains(t, serr.Fields, "paymentMethod")

	form.PaymentMethod = "BITCOIN"
	_, serr = f.svc.PlaceOrder(ctx, "v1", "tok", form)
	require.NotNil(t, serr)
	assert.Contains(t, serr.Fields, "paymentMethod")

	assert.Nil(t, f.placed)
}

func TestPlaceOrder_Success(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	_, _ = f.cart.Add(ctx, "v1", 1, 1)
	_, _ = f.cart.Add(ctx, "v1", 2, 2)

	form := validCheckoutForm()
	form.Note = "Call before delivery"
	order, serr := f.svc.PlaceOrder(ctx, "v1", "tok", form)
	require.Nil(t, serr)
	assert.Equal(t, int64(55), order.ID)

	require.NotNil(t, f.placed)
	assert.Equal(t, models.PaymentCOD, f.placed.PaymentMethod)
	assert.Equal(t, []models.NewOrderItem{{BookID: 1, Quantity: 1}, {BookID: 2, Quantity: 2}}, f.placed.Items)
	assert.Equal(t, "Ana Nguyen - 0912345678 - 12 Hang Bai, Hanoi (Call before delivery)", f.placed.ShippingAddress)

	cart, serr := f.cart.Get(ctx, "v1")
	require.Nil(t, serr)
	assert.True(t, cart.Empty(), "the cart is cleared after a successful order")

	require.Len(t, f.sns.published, 1)
	assert.Equal(t, "arn:orders:"+services.EventOrderPlaced, f.sns.published[0])

	var event services.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(f.sns.messages[0], &event))
	assert.Equal(t, int64(55), event.OrderID)
	assert.Equal(t, 3, event.ItemCount)
	assert.Equal(t, "ana@example.com", event.CustomerEmail)
}

func TestPlaceOrder_BackendFailureKeepsCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()
	_, _ = f.cart.Add(ctx, "v1", 1, 1)

	_, serr := f.svc.PlaceOrder(ctx, "v1", "expired", validCheckoutForm())
	require.NotNil(t, serr)
	assert.True(t, serr.Unauthorized())

	cart, _ := f.cart.Get(ctx, "v1")
	assert.Equal(t, 1, cart.TotalItems())
	assert.Empty(t, f.sns.published)
}

func TestPrefill(t *testing.T) {
	f := newCheckoutFixture(t)

	form := f.svc.Prefill(&models.User{Name: "Ana", Email: "ana@example.com", Phone: "0912345678", Address: "Hanoi"})
	assert.Equal(t, "Ana", form.CustomerName)
	assert.Equal(t, "Hanoi", form.Address)
	assert.Equal(t, models.PaymentCOD, form.PaymentMethod)

	assert.Equal(t, models.PaymentCOD, f.svc.Prefill(nil).PaymentMethod)
}
