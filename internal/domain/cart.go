package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Cart-related domain errors.
var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// Cart is the mutable pre-order container for a session or user. The cart row
// itself is stable: clearing a cart removes its items, not the cart.
type Cart struct {
	ID        int64
	UserID    int64 // 0 for anonymous carts
	SessionID string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is one product line in a cart. UnitPrice is captured when the item
// is first added and is not re-read from the catalog on later views, so a
// price change cannot silently alter a cart mid-session.
type CartItem struct {
	ID          int64
	ProductID   int64
	ProductName string
	ImageURL    string
	Quantity    int32
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Stock       int32 // live stock, informational for the storefront
}

// CartSummary aggregates a cart with its items and calculated totals.
type CartSummary struct {
	Cart      Cart
	Items     []CartItem
	Total     decimal.Decimal
	ItemCount int32
}

// CartService provides business logic for shopping cart operations.
type CartService interface {
	// GetOrCreateCart resolves the cart for a session/user pair, creating it
	// lazily on first use.
	GetOrCreateCart(ctx context.Context, sessionID string, userID int64) (*Cart, error)

	// GetCartSummary retrieves the cart with all items and totals. Returns an
	// empty summary (not an error) when the session has no cart yet.
	GetCartSummary(ctx context.Context, sessionID string, userID int64) (*CartSummary, error)

	// AddItem adds a product to the cart, or increments the quantity of the
	// existing line for that product. The combined quantity is validated
	// against live stock.
	AddItem(ctx context.Context, sessionID string, userID int64, productID int64, quantity int32) (*CartSummary, error)

	// UpdateItemQuantity sets the quantity of a cart item, validated against
	// live stock.
	UpdateItemQuantity(ctx context.Context, sessionID string, userID int64, itemID int64, quantity int32) (*CartSummary, error)

	// RemoveItem deletes a single line from the cart.
	RemoveItem(ctx context.Context, sessionID string, userID int64, itemID int64) error

	// ClearCart removes all items; the cart row persists.
	ClearCart(ctx context.Context, sessionID string, userID int64) error
}
