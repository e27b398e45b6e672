package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bookstore-web/models"
	aws_pkg "bookstore-web/pkg/aws"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const EventOrderPlaced = "order.placed"

type OrderBackend interface {
	CreateOrder(ctx context.Context, token string, in models.NewOrder) (*models.Order, error)
}

// OrderPlacedEvent is published once an order has been accepted.
type OrderPlacedEvent struct {
	EventType     string               `json:"event_type"`
	OrderID       int64                `json:"order_id"`
	CustomerEmail string               `json:"customer_email"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	ItemCount     int                  `json:"item_count"`
	TotalAmount   decimal.Decimal      `json:"total_amount"`
	Timestamp     time.Time            `json:"timestamp"`
}

type CheckoutService interface {
	Prefill(user *models.User) models.CheckoutForm
	PlaceOrder(ctx context.Context, visitorID, token string, form models.CheckoutForm) (*models.Order, *ServiceError)
}

type checkoutServiceImpl struct {
	cart        CartService
	orders      OrderBackend
	snsClient   aws_pkg.SNSPublisher
	snsTopicArn string
	metrics     Counter
	logger      *zap.Logger
}

func NewCheckoutService(
	cart CartService,
	orders OrderBackend,
	snsClient aws_pkg.SNSPublisher,
	snsTopicArn string,
	metrics Counter,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		cart:        cart,
		orders:      orders,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		metrics:     metrics,
		logger:      logger,
	}
}

// Prefill seeds the checkout form from the signed-in user's profile.
func (s *checkoutServiceImpl) Prefill(user *models.User) models.CheckoutForm {
	form := models.CheckoutForm{PaymentMethod: models.PaymentCOD}
	if user != nil {
		form.CustomerName = user.Name
		form.Email = user.Email
		form.Phone = user.Phone
		form.Address = user.Address
	}
	return form
}

func (s *checkoutServiceImpl) PlaceOrder(ctx context.Context, visitorID, token string, form models.CheckoutForm) (*models.Order, *ServiceError) {
	cart, serr := s.cart.Get(ctx, visitorID)
	if serr != nil {
		return nil, serr
	}
	if cart.Empty() {
		return nil, badRequest("Your cart is empty")
	}

	form = trimCheckout(form)
	if serr := validateForm(form); serr != nil {
		return nil, serr
	}
	if !form.PaymentMethod.Enabled() {
		return nil, &ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    "This payment method is not available yet",
			Fields:     map[string]string{"paymentMethod": "Choose cash on delivery"},
		}
	}

	req := models.NewOrder{
		ShippingAddress: shippingAddress(form),
		PaymentMethod:   form.PaymentMethod,
		Items:           make([]models.NewOrderItem, 0, len(cart.Items)),
	}
	for _, it := range cart.Items {
		req.Items = append(req.Items, models.NewOrderItem{BookID: it.BookID, Quantity: it.Quantity})
	}

	order, err := s.orders.CreateOrder(ctx, token, req)
	if err != nil {
		count(s.metrics, aws_pkg.MetricCheckoutFailed)
		s.logger.Warn("Order placement failed", zap.String("visitor_id", visitorID), zap.Error(err))
		return nil, fromBackend(err, "Failed to place your order")
	}

	// The order exists at this point; a stale cart is only an annoyance.
	if serr := s.cart.Clear(ctx, visitorID); serr != nil {
		s.logger.Warn("Failed to clear cart after checkout", zap.String("visitor_id", visitorID))
	}

	count(s.metrics, aws_pkg.MetricOrdersPlaced)
	s.publishOrderPlacedEvent(ctx, order, form)

	s.logger.Info("Order placed",
		zap.Int64("order_id", order.ID),
		zap.Int("items", len(req.Items)),
		zap.String("total", order.TotalAmount.String()),
	)
	return order, nil
}

func trimCheckout(form models.CheckoutForm) models.CheckoutForm {
	form.CustomerName = strings.TrimSpace(form.CustomerName)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.TrimSpace(form.Email)
	form.Address = strings.TrimSpace(form.Address)
	form.Note = strings.TrimSpace(form.Note)
	return form
}

// shippingAddress folds the recipient details into the single address field
// the backend stores.
func shippingAddress(form models.CheckoutForm) string {
	parts := []string{form.CustomerName, form.Phone, form.Address}
	addr := strings.Join(parts, " - ")
	if form.Note != "" {
		addr += " (" + form.Note + ")"
	}
	return addr
}

func (s *checkoutServiceImpl) publishOrderPlacedEvent(ctx context.Context, order *models.Order, form models.CheckoutForm) {
	if s.snsClient == nil || s.snsTopicArn == "" {
		s.logger.Debug("SNS client not configured, skipping order.placed event")
		return
	}

	event := OrderPlacedEvent{
		EventType:     EventOrderPlaced,
		OrderID:       order.ID,
		CustomerEmail: form.Email,
		PaymentMethod: form.PaymentMethod,
		ItemCount:     order.ItemCount(),
		TotalAmount:   order.TotalAmount,
		Timestamp:     time.Now().UTC(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal order.placed event", zap.Error(err))
		return
	}

	if err := s.snsClient.Publish(ctx, s.snsTopicArn, EventOrderPlaced, eventBytes); err != nil {
		s.logger.Error("Failed to publish order.placed event", zap.Int64("order_id", order.ID), zap.Error(err))
		return
	}

	s.logger.Info("Published order.placed event", zap.Int64("order_id", order.ID))
}
