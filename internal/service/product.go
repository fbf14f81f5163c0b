package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/repository"
	"github.com/tiendalabs/tienda/internal/telemetry"
)

// ProductService implements domain.ProductService. Catalog reads are plain
// pool queries; no transactions needed.
type ProductService struct {
	store   repository.Store
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

func NewProductService(store repository.Store, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *ProductService {
	return &ProductService{store: store, metrics: metrics, logger: logger}
}

var _ domain.ProductService = (*ProductService)(nil)

func (s *ProductService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	const op = "ProductService.ListProducts"

	params := repository.ListActiveProductsParams{}
	if filter.CategorySlug != "" {
		params.CategorySlug = pgtype.Text{String: filter.CategorySlug, Valid: true}
	}
	if filter.Search != "" {
		params.Search = pgtype.Text{String: filter.Search, Valid: true}
	}
	if filter.MaxPrice != nil {
		params.MaxPrice = decimal.NullDecimal{Decimal: *filter.MaxPrice, Valid: true}
	}

	rows, err := s.store.ListActiveProducts(ctx, params)
	if err != nil {
		return nil, domain.Internal(err, op, "listing products")
	}

	if s.metrics != nil {
		s.metrics.ProductSearches.WithLabelValues(filterType(filter)).Inc()
	}

	products := make([]domain.Product, 0, len(rows))
	for _, p := range rows {
		products = append(products, productFromRepo(p))
	}
	return products, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductService.GetProduct"

	p, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, op, "loading product")
	}
	if !p.Active {
		return nil, domain.ErrProductNotFound
	}

	if s.metrics != nil {
		s.metrics.ProductViews.WithLabelValues(strconv.FormatInt(id, 10)).Inc()
	}

	product := productFromRepo(p)
	return &product, nil
}

func (s *ProductService) SearchProducts(ctx context.Context, query string) ([]domain.Product, error) {
	return s.ListProducts(ctx, domain.ProductFilter{Search: query})
}

func (s *ProductService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	const op = "ProductService.ListCategories"

	rows, err := s.store.ListActiveCategories(ctx)
	if err != nil {
		return nil, domain.Internal(err, op, "listing categories")
	}

	categories := make([]domain.Category, 0, len(rows))
	for _, c := range rows {
		categories = append(categories, categoryFromRepo(c))
	}
	return categories, nil
}

func (s *ProductService) GetCategoryWithProducts(ctx context.Context, slug string) (*domain.Category, []domain.Product, error) {
	const op = "ProductService.GetCategoryWithProducts"

	c, err := s.store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, domain.ErrCategoryNotFound
		}
		return nil, nil, domain.Internal(err, op, "loading category")
	}

	rows, err := s.store.ListProductsByCategory(ctx, c.ID)
	if err != nil {
		return nil, nil, domain.Internal(err, op, "listing category products")
	}

	category := categoryFromRepo(c)
	products := make([]domain.Product, 0, len(rows))
	for _, p := range rows {
		products = append(products, productFromRepo(p))
	}
	return &category, products, nil
}

func filterType(filter domain.ProductFilter) string {
	switch {
	case filter.CategorySlug != "":
		return "category"
	case filter.Search != "":
		return "search"
	case filter.MaxPrice != nil:
		return "price"
	default:
		return "none"
	}
}
