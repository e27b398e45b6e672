package services

import (
	"context"
	"net/http"
	"sort"
	"strings"

	"bookstore-web/models"

	"go.uber.org/zap"
)

const myOrdersPageSize = 20

type AccountBackend interface {
	Me(ctx context.Context, token string) (*models.User, error)
	UpdateMe(ctx context.Context, token string, in models.ProfileInput) (*models.User, error)
	ChangePassword(ctx context.Context, token string, in models.PasswordInput) error
	MyOrders(ctx context.Context, token string, page, size int) ([]models.Order, error)
	GetOrder(ctx context.Context, token string, id int64) (*models.Order, error)
	CancelOrder(ctx context.Context, token string, id int64) error
}

// AccountService covers the signed-in customer's own profile and orders.
type AccountService interface {
	Profile(ctx context.Context, token string) (*models.User, *ServiceError)
	UpdateProfile(ctx context.Context, token string, form models.ProfileForm) (*models.User, *ServiceError)
	ChangePassword(ctx context.Context, token string, form models.PasswordForm) *ServiceError
	MyOrders(ctx context.Context, token string) ([]models.Order, *ServiceError)
	Order(ctx context.Context, token string, id int64) (*models.Order, *ServiceError)
	CancelOrder(ctx context.Context, token string, id int64) *ServiceError
}

type accountServiceImpl struct {
	backend AccountBackend
	logger  *zap.Logger
}

func NewAccountService(backend AccountBackend, logger *zap.Logger) AccountService {
	return &accountServiceImpl{backend: backend, logger: logger}
}

func (s *accountServiceImpl) Profile(ctx context.Context, token string) (*models.User, *ServiceError) {
	user, err := s.backend.Me(ctx, token)
	if err != nil {
		return nil, fromBackend(err, "Failed to load your profile")
	}
	return user, nil
}

func (s *accountServiceImpl) UpdateProfile(ctx context.Context, token string, form models.ProfileForm) (*models.User, *ServiceError) {
	form.Name = strings.TrimSpace(form.Name)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Address = strings.TrimSpace(form.Address)
	if serr := validateForm(form); serr != nil {
		return nil, serr
	}

	user, err := s.backend.UpdateMe(ctx, token, models.ProfileInput{
		Name:    form.Name,
		Address: form.Address,
		Phone:   form.Phone,
	})
	if err != nil {
		s.logger.Warn("Profile update failed", zap.Error(err))
		return nil, fromBackend(err, "Failed to update your profile")
	}
	return user, nil
}

func (s *accountServiceImpl) ChangePassword(ctx context.Context, token string, form models.PasswordForm) *ServiceError {
	if serr := validateForm(form); serr != nil {
		return serr
	}

	err := s.backend.ChangePassword(ctx, token, models.PasswordInput{
		OldPassword: form.OldPassword,
		NewPassword: form.NewPassword,
	})
	if err != nil {
		return fromBackend(err, "Failed to change your password")
	}
	return nil
}

// MyOrders returns the customer's most recent orders, newest first.
func (s *accountServiceImpl) MyOrders(ctx context.Context, token string) ([]models.Order, *ServiceError) {
	orders, err := s.backend.MyOrders(ctx, token, 1, myOrdersPageSize)
	if err != nil {
		return nil, fromBackend(err, "Failed to load your orders")
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders, nil
}

func (s *accountServiceImpl) Order(ctx context.Context, token string, id int64) (*models.Order, *ServiceError) {
	order, err := s.backend.GetOrder(ctx, token, id)
	if err != nil {
		return nil, fromBackend(err, "Failed to load the order")
	}
	return order, nil
}

// CancelOrder cancels an order that has not been confirmed yet.
func (s *accountServiceImpl) CancelOrder(ctx context.Context, token string, id int64) *ServiceError {
	order, serr := s.Order(ctx, token, id)
	if serr != nil {
		return serr
	}
	if order.Status != models.OrderPending {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Only pending orders can be cancelled"}
	}

	if err := s.backend.CancelOrder(ctx, token, id); err != nil {
		s.logger.Warn("Order cancel failed", zap.Int64("order_id", id), zap.Error(err))
		return fromBackend(err, "Failed to cancel the order")
	}

	s.logger.Info("Order cancelled by customer", zap.Int64("order_id", id))
	return nil
}
