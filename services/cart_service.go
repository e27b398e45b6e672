package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bookstore-web/models"
	aws_pkg "bookstore-web/pkg/aws"
	"bookstore-web/repository"

	"go.uber.org/zap"
)

// BookLookup fetches the current state of a book from the catalogue.
type BookLookup interface {
	GetBook(ctx context.Context, id int64) (*models.Book, error)
}

// CartUpdate is the result of a quantity change.
type CartUpdate struct {
	Cart models.Cart
	// Clamped is set when the requested quantity exceeded the stock.
	Clamped bool
	Removed bool
}

// CartService defines the shopping cart operations for one visitor.
type CartService interface {
	Get(ctx context.Context, visitorID string) (models.Cart, *ServiceError)
	Add(ctx context.Context, visitorID string, bookID int64, qty int) (models.Cart, *ServiceError)
	UpdateQuantity(ctx context.Context, visitorID string, bookID int64, qty int) (*CartUpdate, *ServiceError)
	Remove(ctx context.Context, visitorID string, bookID int64) (models.Cart, *ServiceError)
	Clear(ctx context.Context, visitorID string) *ServiceError
	ItemQuantity(ctx context.Context, visitorID string, bookID int64) (int, *ServiceError)
}

type cartServiceImpl struct {
	store   repository.CartStore
	books   BookLookup
	metrics Counter
	logger  *zap.Logger
}

func NewCartService(store repository.CartStore, books BookLookup, metrics Counter, logger *zap.Logger) CartService {
	return &cartServiceImpl{
		store:   store,
		books:   books,
		metrics: metrics,
		logger:  logger,
	}
}

func (s *cartServiceImpl) load(ctx context.Context, visitorID string) (models.Cart, *ServiceError) {
	items, err := s.store.Load(ctx, visitorID)
	if err != nil {
		s.logger.Error("Failed to load cart", zap.String("visitor_id", visitorID), zap.Error(err))
		return models.Cart{}, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to load your cart"}
	}
	return models.Cart{Items: items}, nil
}

var errChangeRefused = errors.New("cart change refused")

// mutate applies change to the stored cart in one atomic store update. A
// ServiceError from change is returned as is and nothing is written.
func (s *cartServiceImpl) mutate(ctx context.Context, visitorID string, change func(models.Cart) (models.Cart, *ServiceError)) (models.Cart, *ServiceError) {
	var (
		out     models.Cart
		refused *ServiceError
	)
	err := s.store.Update(ctx, visitorID, func(items []models.CartItem) ([]models.CartItem, error) {
		next, serr := change(models.Cart{Items: items})
		if serr != nil {
			refused = serr
			return nil, errChangeRefused
		}
		out = next
		return next.Items, nil
	})
	if refused != nil {
		return models.Cart{}, refused
	}
	if err != nil {
		s.logger.Error("Failed to update cart", zap.String("visitor_id", visitorID), zap.Error(err))
		return models.Cart{}, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update your cart"}
	}
	return out, nil
}

func (s *cartServiceImpl) Get(ctx context.Context, visitorID string) (models.Cart, *ServiceError) {
	return s.load(ctx, visitorID)
}

// Add puts qty copies of the book into the cart. The book is fetched from
// the backend so price and stock come from the catalogue, not the form.
func (s *cartServiceImpl) Add(ctx context.Context, visitorID string, bookID int64, qty int) (models.Cart, *ServiceError) {
	if qty < 1 {
		return models.Cart{}, badRequest("Quantity must be at least 1")
	}

	book, err := s.books.GetBook(ctx, bookID)
	if err != nil {
		return models.Cart{}, fromBackend(err, "Failed to load the book")
	}

	cart, serr := s.mutate(ctx, visitorID, func(cart models.Cart) (models.Cart, *ServiceError) {
		return addItem(cart, *book, qty)
	})
	if serr != nil {
		return models.Cart{}, serr
	}

	count(s.metrics, aws_pkg.MetricCartAdds)
	s.logger.Debug("Cart item added", zap.String("visitor_id", visitorID), zap.Int64("book_id", bookID), zap.Int("quantity", qty))
	return cart, nil
}

func (s *cartServiceImpl) UpdateQuantity(ctx context.Context, visitorID string, bookID int64, qty int) (*CartUpdate, *ServiceError) {
	var update CartUpdate
	_, serr := s.mutate(ctx, visitorID, func(cart models.Cart) (models.Cart, *ServiceError) {
		update = updateQuantity(cart, bookID, qty)
		return update.Cart, nil
	})
	if serr != nil {
		return nil, serr
	}
	return &update, nil
}

func (s *cartServiceImpl) Remove(ctx context.Context, visitorID string, bookID int64) (models.Cart, *ServiceError) {
	return s.mutate(ctx, visitorID, func(cart models.Cart) (models.Cart, *ServiceError) {
		return removeItem(cart, bookID), nil
	})
}

func (s *cartServiceImpl) Clear(ctx context.Context, visitorID string) *ServiceError {
	if err := s.store.Delete(ctx, visitorID); err != nil {
		s.logger.Error("Failed to clear cart", zap.String("visitor_id", visitorID), zap.Error(err))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to clear your cart"}
	}
	return nil
}

func (s *cartServiceImpl) ItemQuantity(ctx context.Context, visitorID string, bookID int64) (int, *ServiceError) {
	cart, serr := s.load(ctx, visitorID)
	if serr != nil {
		return 0, serr
	}
	return cart.Quantity(bookID), nil
}

// addItem merges qty copies of book into cart, refusing to go past the
// book's stock.
func addItem(cart models.Cart, book models.Book, qty int) (models.Cart, *ServiceError) {
	inCart := cart.Quantity(book.ID)
	if available := book.Stock - inCart; qty > available {
		if available < 0 {
			available = 0
		}
		return cart, badRequest(fmt.Sprintf("Only %d copies of %s are available", available, book.Title))
	}

	items := append([]models.CartItem(nil), cart.Items...)
	if i := cart.Find(book.ID); i >= 0 {
		items[i].Quantity += qty
		items[i].Stock = book.Stock
		items[i].Price = book.Price
	} else {
		items = append(items, models.CartItem{
			BookID:   book.ID,
			Title:    book.Title,
			Price:    book.Price,
			Image:    book.CoverImage(),
			Quantity: qty,
			Stock:    book.Stock,
		})
	}
	return models.Cart{Items: items}, nil
}

func updateQuantity(cart models.Cart, bookID int64, qty int) CartUpdate {
	i := cart.Find(bookID)
	if i < 0 {
		return CartUpdate{Cart: cart}
	}
	if qty <= 0 {
		return CartUpdate{Cart: removeItem(cart, bookID), Removed: true}
	}

	items := append([]models.CartItem(nil), cart.Items...)
	clamped := false
	if qty > items[i].Stock {
		qty = items[i].Stock
		clamped = true
	}
	if qty <= 0 {
		return CartUpdate{Cart: removeItem(cart, bookID), Clamped: clamped, Removed: true}
	}
	items[i].Quantity = qty
	return CartUpdate{Cart: models.Cart{Items: items}, Clamped: clamped}
}

func removeItem(cart models.Cart, bookID int64) models.Cart {
	items := make([]models.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		if it.BookID != bookID {
			items = append(items, it)
		}
	}
	return models.Cart{Items: items}
}
