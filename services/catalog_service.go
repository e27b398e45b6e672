package services

import (
	"context"
	"fmt"
	"slices"

	"bookstore-web/models"
	aws_pkg "bookstore-web/pkg/aws"
	"bookstore-web/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBookPageSize = 12
	homeLatestCount     = 8
	homeBestSellerCount = 4
	relatedBookCount    = 4
)

type CatalogBackend interface {
	ListBooks(ctx context.Context, f models.BookFilter) (models.Page[models.Book], error)
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	LatestBooks(ctx context.Context, limit int) ([]models.Book, error)
	BestSellers(ctx context.Context, limit int) ([]models.Book, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListAuthors(ctx context.Context) ([]models.Author, error)
}

type HomePage struct {
	Latest      []models.Book
	BestSellers []models.Book
	Categories  []models.Category
}

type BookDetail struct {
	Book    models.Book
	Related []models.Book
}

// CatalogService serves the public storefront reads.
type CatalogService interface {
	Home(ctx context.Context) (*HomePage, *ServiceError)
	Books(ctx context.Context, filter models.BookFilter) (models.Page[models.Book], *ServiceError)
	BookDetail(ctx context.Context, id int64) (*BookDetail, *ServiceError)
	Categories(ctx context.Context) ([]models.Category, *ServiceError)
	Authors(ctx context.Context) ([]models.Author, *ServiceError)
	InvalidateCatalog(ctx context.Context) error
}

type catalogServiceImpl struct {
	backend CatalogBackend
	cache   repository.CatalogCache
	metrics Counter
	logger  *zap.Logger
}

func NewCatalogService(backend CatalogBackend, cache repository.CatalogCache, metrics Counter, logger *zap.Logger) CatalogService {
	if cache == nil {
		cache = repository.NoopCatalogCache{}
	}
	return &catalogServiceImpl{
		backend: backend,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// cached returns the value stored under key, loading and caching it on a miss.
func cached[T any](ctx context.Context, s *catalogServiceImpl, key string, load func(context.Context) (T, error)) (T, error) {
	var v T
	version, hit := s.cache.Get(ctx, key, &v)
	if hit {
		count(s.metrics, aws_pkg.MetricCatalogHits)
		return v, nil
	}
	count(s.metrics, aws_pkg.MetricCatalogMisses)

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	s.cache.SetAsync(version, key, v)
	return v, nil
}

func (s *catalogServiceImpl) Home(ctx context.Context) (*HomePage, *ServiceError) {
	var home HomePage
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		books, err := cached(gctx, s, fmt.Sprintf("books:latest:%d", homeLatestCount), func(ctx context.Context) ([]models.Book, error) {
			return s.backend.LatestBooks(ctx, homeLatestCount)
		})
		home.Latest = books
		return err
	})
	g.Go(func() error {
		books, err := cached(gctx, s, fmt.Sprintf("books:bestsellers:%d", homeBestSellerCount), func(ctx context.Context) ([]models.Book, error) {
			return s.backend.BestSellers(ctx, homeBestSellerCount)
		})
		home.BestSellers = books
		return err
	})
	g.Go(func() error {
		categories, err := cached(gctx, s, "categories", s.backend.ListCategories)
		home.Categories = categories
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to load home page", zap.Error(err))
		return nil, fromBackend(err, "Failed to load the store")
	}
	return &home, nil
}

// Books lists books for the storefront. Unknown sort keys and non-positive
// paging fall back to the defaults.
func (s *catalogServiceImpl) Books(ctx context.Context, filter models.BookFilter) (models.Page[models.Book], *ServiceError) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultBookPageSize
	}
	if !slices.Contains(models.SortOptions, filter.Sort) {
		filter.Sort = models.SortDefault
	}

	page, err := s.backend.ListBooks(ctx, filter)
	if err != nil {
		return models.Page[models.Book]{}, fromBackend(err, "Failed to load books")
	}
	return page, nil
}

func (s *catalogServiceImpl) BookDetail(ctx context.Context, id int64) (*BookDetail, *ServiceError) {
	book, err := s.backend.GetBook(ctx, id)
	if err != nil {
		return nil, fromBackend(err, "Failed to load the book")
	}

	detail := &BookDetail{Book: *book}
	if book.CategoryID() == 0 {
		return detail, nil
	}

	page, err := s.backend.ListBooks(ctx, models.BookFilter{
		Page:       1,
		Limit:      relatedBookCount + 1,
		CategoryID: book.CategoryID(),
		Sort:       models.SortDefault,
	})
	if err != nil {
		// Related books are decoration.
		s.logger.Warn("Failed to load related books", zap.Int64("book_id", id), zap.Error(err))
		return detail, nil
	}

	for _, b := range page.Data {
		if b.ID == book.ID {
			continue
		}
		detail.Related = append(detail.Related, b)
		if len(detail.Related) == relatedBookCount {
			break
		}
	}
	return detail, nil
}

func (s *catalogServiceImpl) Categories(ctx context.Context) ([]models.Category, *ServiceError) {
	categories, err := cached(ctx, s, "categories", s.backend.ListCategories)
	if err != nil {
		return nil, fromBackend(err, "Failed to load categories")
	}
	return categories, nil
}

func (s *catalogServiceImpl) Authors(ctx context.Context) ([]models.Author, *ServiceError) {
	authors, err := cached(ctx, s, "authors", s.backend.ListAuthors)
	if err != nil {
		return nil, fromBackend(err, "Failed to load authors")
	}
	return authors, nil
}

func (s *catalogServiceImpl) InvalidateCatalog(ctx context.Context) error {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("Failed to invalidate catalog cache", zap.Error(err))
		return err
	}
	s.logger.Debug("Catalog cache invalidated")
	return nil
}
