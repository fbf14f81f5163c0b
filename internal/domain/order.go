package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	// OrderStatusPending is the initial state after checkout. Only pending
	// orders may be cancelled.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusCancelled is terminal; reserved stock has been restored.
	OrderStatusCancelled OrderStatus = "cancelled"
	// OrderStatusShipped and OrderStatusDelivered are set by fulfillment,
	// outside this service. They are terminal with respect to cancellation.
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
)

// Order-related domain errors.
var (
	ErrOrderNotFound       = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrEmptyCart           = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrNotAuthenticated    = &Error{Code: EUNAUTHORIZED, Message: "You must be logged in to place an order"}
	ErrOrderCreationFailed = &Error{Code: EINTERNAL, Message: "Failed to create order"}
)

// ProductNotFoundError reports a cart line whose product no longer exists in
// the catalog at checkout time.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %d not found", e.ProductID)
}

// ErrorCode implements Coder.
func (e *ProductNotFoundError) ErrorCode() string { return ENOTFOUND }

// InsufficientStockError reports a cart line requesting more units than the
// product has available at the moment of commit.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Available   int32
	Requested   int32
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = fmt.Sprintf("product %d", e.ProductID)
	}
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d", name, e.Available, e.Requested)
}

// ErrorCode implements Coder.
func (e *InsufficientStockError) ErrorCode() string { return ECONFLICT }

// InvalidStateError reports a cancellation attempt against an order that is
// no longer pending.
type InvalidStateError struct {
	Current OrderStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot cancel an order in state %q", e.Current)
}

// ErrorCode implements Coder.
func (e *InvalidStateError) ErrorCode() string { return ECONFLICT }

// ShippingInfo is the checkout input captured onto the order.
type ShippingInfo struct {
	Address       string
	City          string
	Phone         string
	PaymentMethod string
	Notes         string
}

// Order is an immutable-once-created record of a completed checkout. Total
// always equals the sum of its line subtotals at creation time and is never
// recomputed, even if catalog prices change later.
type Order struct {
	ID            int64
	OrderNumber   string
	UserID        int64
	Total         decimal.Decimal
	Address       string
	City          string
	Phone         string
	PaymentMethod string
	Notes         string
	Status        OrderStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem is one product's quantity/price snapshot within an order.
// Subtotal = Quantity x UnitPrice, fixed at creation.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	ImageURL    string
	Quantity    int32
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// OrderDetail aggregates an order with its line items.
type OrderDetail struct {
	Order Order
	Items []OrderItem
}

// OrderConfirmation is the success payload of PlaceOrder.
type OrderConfirmation struct {
	OrderID     int64
	OrderNumber string
	Total       decimal.Decimal
	LineCount   int
}

// OrderService provides the checkout transaction and order lifecycle.
type OrderService interface {
	// PlaceOrder converts the user's cart into an order atomically: it
	// validates stock, snapshots prices and quantities into order lines,
	// decrements inventory, and clears the cart. Either every effect commits
	// or none do; after a failed call, product stock and cart contents are
	// exactly as they were before it.
	PlaceOrder(ctx context.Context, userID int64, sessionID string, info ShippingInfo) (*OrderConfirmation, error)

	// CancelOrder cancels a pending order owned by the user, restoring the
	// reserved stock of every line. Non-pending orders fail with
	// InvalidStateError and mutate nothing.
	CancelOrder(ctx context.Context, userID int64, orderID int64) error

	// ListOrders returns the user's orders, newest first.
	ListOrders(ctx context.Context, userID int64) ([]Order, error)

	// GetOrder retrieves one of the user's orders with its line items.
	GetOrder(ctx context.Context, userID int64, orderID int64) (*OrderDetail, error)
}
