package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product-related domain errors.
var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}
)

// Product is a storefront catalog item. Stock is the authoritative available
// inventory count: it is decremented when an order is placed and incremented
// when a pending order is cancelled, and is never allowed below zero.
type Product struct {
	ID          int64
	CategoryID  int64
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int32
	ImageURL    string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Category groups products for the storefront navigation.
type Category struct {
	ID     int64
	Name   string
	Slug   string
	Active bool
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	CategorySlug string
	Search       string
	MaxPrice     *decimal.Decimal
}

// ProductService provides read-only catalog operations for the storefront.
type ProductService interface {
	// ListProducts returns active products matching the filter.
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)

	// GetProduct retrieves a single active product by ID.
	GetProduct(ctx context.Context, id int64) (*Product, error)

	// SearchProducts performs a name/description search over active products.
	SearchProducts(ctx context.Context, query string) ([]Product, error)

	// ListCategories returns all active categories.
	ListCategories(ctx context.Context) ([]Category, error)

	// GetCategoryWithProducts retrieves a category by slug along with its
	// active products.
	GetCategoryWithProducts(ctx context.Context, slug string) (*Category, []Product, error)
}
