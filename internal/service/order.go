package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/email"
	"github.com/tiendalabs/tienda/internal/events"
	"github.com/tiendalabs/tienda/internal/repository"
	"github.com/tiendalabs/tienda/internal/telemetry"
	"github.com/tiendalabs/tienda/internal/worker"
)

// OrderService implements domain.OrderService. Checkout and cancellation run
// inside a single database transaction; events, metrics and emails happen
// only after commit.
type OrderService struct {
	store   repository.Store
	events  events.Publisher
	mailer  *email.Service
	jobs    *worker.Pool
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

func NewOrderService(
	store repository.Store,
	publisher events.Publisher,
	mailer *email.Service,
	jobs *worker.Pool,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) *OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &OrderService{
		store:   store,
		events:  publisher,
		mailer:  mailer,
		jobs:    jobs,
		metrics: metrics,
		logger:  logger,
	}
}

var _ domain.OrderService = (*OrderService)(nil)

// PlaceOrder converts the user's cart into an order. All writes happen in one
// transaction: stock is decremented with a conditional update so two
// concurrent checkouts can never oversell, and any failure rolls everything
// back leaving stock and cart untouched.
func (s *OrderService) PlaceOrder(ctx context.Context, userID int64, sessionID string, info domain.ShippingInfo) (*domain.OrderConfirmation, error) {
	const op = "OrderService.PlaceOrder"

	if userID == 0 {
		return nil, domain.ErrNotAuthenticated
	}
	if err := validateShippingInfo(info); err != nil {
		return nil, err
	}
	if strings.TrimSpace(info.PaymentMethod) == "" {
		info.PaymentMethod = "cash_on_delivery"
	}

	var (
		order     domain.Order
		lineCount int
	)

	txErr := s.store.ExecTx(ctx, func(q repository.Querier) error {
		cart, err := q.GetCart(ctx, repository.GetCartParams{
			SessionID: sessionID,
			UserID:    nullableUserID(userID),
		})
		if err != nil {
			if repository.IsNotFound(err) {
				return domain.ErrEmptyCart
			}
			return domain.Internal(err, op, "loading cart")
		}

		items, err := q.GetCartItems(ctx, cart.ID)
		if err != nil {
			return domain.Internal(err, op, "loading cart items")
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}

		// Validate every line before mutating anything, so a failure on the
		// last line does not strand partial writes for the tx to undo.
		for _, it := range items {
			p, err := q.GetProductByID(ctx, it.ProductID)
			if err != nil {
				if repository.IsNotFound(err) {
					return &domain.ProductNotFoundError{ProductID: it.ProductID}
				}
				return domain.Internal(err, op, "loading product")
			}
			if !p.Active {
				return &domain.ProductNotFoundError{ProductID: it.ProductID}
			}
			if p.Stock < it.Quantity {
				return &domain.InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   it.Quantity,
				}
			}
		}

		// Total comes from the cart's snapshot prices, not the live catalog.
		total := decimal.Zero
		for _, it := range items {
			total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity)))
		}

		created, err := s.createNumberedOrder(ctx, q, repository.CreateOrderParams{
			UserID:        userID,
			Total:         total,
			Address:       info.Address,
			City:          info.City,
			Phone:         info.Phone,
			PaymentMethod: info.PaymentMethod,
			Notes:         info.Notes,
			Status:        string(domain.OrderStatusPending),
		})
		if err != nil {
			return err
		}

		for _, it := range items {
			subtotal := it.UnitPrice.Mul(decimal.NewFromInt32(it.Quantity))
			if _, err := q.CreateOrderItem(ctx, repository.CreateOrderItemParams{
				OrderID:     created.ID,
				ProductID:   it.ProductID,
				ProductName: it.ProductName,
				Quantity:    it.Quantity,
				UnitPrice:   it.UnitPrice,
				Subtotal:    subtotal,
			}); err != nil {
				return domain.Internal(err, op, "creating order item")
			}

			n, err := q.DecrementProductStock(ctx, repository.DecrementProductStockParams{
				ID:       it.ProductID,
				Quantity: it.Quantity,
			})
			if err != nil {
				return domain.Internal(err, op, "decrementing stock")
			}
			if n == 0 {
				// A concurrent checkout took the remaining units between our
				// read and this update. Abort; the tx rolls back.
				avail := int32(0)
				if p, perr := q.GetProductByID(ctx, it.ProductID); perr == nil {
					avail = p.Stock
				}
				return &domain.InsufficientStockError{
					ProductID:   it.ProductID,
					ProductName: it.ProductName,
					Available:   avail,
					Requested:   it.Quantity,
				}
			}
		}

		if err := q.ClearCartItems(ctx, cart.ID); err != nil {
			return domain.Internal(err, op, "clearing cart")
		}

		order = orderFromRepo(created)
		lineCount = len(items)
		return nil
	})
	if txErr != nil {
		var ise *domain.InsufficientStockError
		if errors.As(txErr, &ise) && s.metrics != nil {
			s.metrics.StockRejections.WithLabelValues(strconv.FormatInt(ise.ProductID, 10)).Inc()
		}
		return nil, txErr
	}

	s.logger.Info("order placed",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"user_id", userID,
		"total", order.Total,
		"lines", lineCount,
	)

	if s.metrics != nil {
		s.metrics.OrdersPlaced.Inc()
		s.metrics.OrderValue.Observe(order.Total.InexactFloat64())
		s.metrics.OrderItemCount.Observe(float64(lineCount))
	}

	if err := s.events.Publish(events.SubjectOrderPlaced, events.OrderPlaced{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Total:       order.Total,
		LineCount:   lineCount,
		PlacedAt:    order.CreatedAt,
	}); err != nil {
		s.logger.Warn("publishing order placed event", "order_id", order.ID, "error", err)
	}

	s.enqueueConfirmationEmail(order)

	return &domain.OrderConfirmation{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
		LineCount:   lineCount,
	}, nil
}

// CancelOrder cancels a pending order and restores its reserved stock. The
// row lock taken by the initial read makes concurrent double-cancels settle
// into exactly one success.
func (s *OrderService) CancelOrder(ctx context.Context, userID int64, orderID int64) error {
	const op = "OrderService.CancelOrder"

	if userID == 0 {
		return domain.ErrNotAuthenticated
	}

	var cancelled domain.Order

	txErr := s.store.ExecTx(ctx, func(q repository.Querier) error {
		o, err := q.GetOrderForUserForUpdate(ctx, repository.GetOrderForUserForUpdateParams{
			ID:     orderID,
			UserID: userID,
		})
		if err != nil {
			if repository.IsNotFound(err) {
				return domain.ErrOrderNotFound
			}
			return domain.Internal(err, op, "loading order")
		}

		if domain.OrderStatus(o.Status) != domain.OrderStatusPending {
			return &domain.InvalidStateError{Current: domain.OrderStatus(o.Status)}
		}

		items, err := q.GetOrderItems(ctx, o.ID)
		if err != nil {
			return domain.Internal(err, op, "loading order items")
		}

		for _, it := range items {
			if err := q.IncrementProductStock(ctx, repository.IncrementProductStockParams{
				ID:       it.ProductID,
				Quantity: it.Quantity,
			}); err != nil {
				return domain.Internal(err, op, "restoring stock")
			}
		}

		if _, err := q.UpdateOrderStatus(ctx, repository.UpdateOrderStatusParams{
			ID:     o.ID,
			Status: string(domain.OrderStatusCancelled),
		}); err != nil {
			return domain.Internal(err, op, "updating order status")
		}

		cancelled = orderFromRepo(o)
		cancelled.Status = domain.OrderStatusCancelled
		return nil
	})
	if txErr != nil {
		return txErr
	}

	s.logger.Info("order cancelled",
		"order_id", cancelled.ID,
		"order_number", cancelled.OrderNumber,
		"user_id", userID,
	)

	if s.metrics != nil {
		s.metrics.OrdersCancelled.Inc()
	}

	if err := s.events.Publish(events.SubjectOrderCancelled, events.OrderCancelled{
		OrderID:     cancelled.ID,
		OrderNumber: cancelled.OrderNumber,
		UserID:      cancelled.UserID,
		CancelledAt: time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("publishing order cancelled event", "order_id", cancelled.ID, "error", err)
	}

	if s.jobs != nil && s.mailer != nil {
		o := cancelled
		s.jobs.Submit("order_cancelled_email", func(ctx context.Context) error {
			u, err := s.store.GetUserByID(ctx, o.UserID)
			if err != nil {
				return fmt.Errorf("loading user %d: %w", o.UserID, err)
			}
			user := userFromRepo(u)
			return s.mailer.SendOrderCancelled(ctx, &user, &o)
		})
	}

	return nil
}

// ListOrders returns the user's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	const op = "OrderService.ListOrders"

	if userID == 0 {
		return nil, domain.ErrNotAuthenticated
	}

	rows, err := s.store.ListOrdersForUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, op, "listing orders")
	}

	orders := make([]domain.Order, 0, len(rows))
	for _, o := range rows {
		orders = append(orders, orderFromRepo(o))
	}
	return orders, nil
}

// GetOrder retrieves one of the user's orders with its line items.
func (s *OrderService) GetOrder(ctx context.Context, userID int64, orderID int64) (*domain.OrderDetail, error) {
	const op = "OrderService.GetOrder"

	if userID == 0 {
		return nil, domain.ErrNotAuthenticated
	}

	o, err := s.store.GetOrderForUser(ctx, repository.GetOrderForUserParams{
		ID:     orderID,
		UserID: userID,
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, op, "loading order")
	}

	rows, err := s.store.GetOrderItems(ctx, o.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "loading order items")
	}

	detail := &domain.OrderDetail{Order: orderFromRepo(o)}
	for _, r := range rows {
		detail.Items = append(detail.Items, orderItemFromRow(r))
	}
	return detail, nil
}

// createNumberedOrder inserts the order under a fresh order number. A number
// already taken is regenerated once; losing the race twice gives up.
func (s *OrderService) createNumberedOrder(ctx context.Context, q repository.Querier, params repository.CreateOrderParams) (repository.Order, error) {
	const op = "OrderService.PlaceOrder"

	for attempt := 0; attempt < 2; attempt++ {
		number, err := newOrderNumber()
		if err != nil {
			return repository.Order{}, domain.Internal(err, op, "generating order number")
		}

		exists, err := q.OrderNumberExists(ctx, number)
		if err != nil {
			return repository.Order{}, domain.Internal(err, op, "checking order number")
		}
		if exists {
			if s.metrics != nil {
				s.metrics.OrderNumberRetry.Inc()
			}
			s.logger.Warn("order number collision, regenerating", "order_number", number)
			continue
		}

		params.OrderNumber = number
		created, err := q.CreateOrder(ctx, params)
		if err != nil {
			if repository.IsUniqueViolation(err, "orders_order_number_key") {
				return repository.Order{}, domain.ErrOrderCreationFailed
			}
			return repository.Order{}, domain.Internal(err, op, "creating order")
		}
		return created, nil
	}

	return repository.Order{}, domain.ErrOrderCreationFailed
}

func (s *OrderService) enqueueConfirmationEmail(order domain.Order) {
	if s.jobs == nil || s.mailer == nil {
		return
	}

	o := order
	s.jobs.Submit("order_confirmation_email", func(ctx context.Context) error {
		u, err := s.store.GetUserByID(ctx, o.UserID)
		if err != nil {
			return fmt.Errorf("loading user %d: %w", o.UserID, err)
		}
		rows, err := s.store.GetOrderItems(ctx, o.ID)
		if err != nil {
			return fmt.Errorf("loading order items: %w", err)
		}

		items := make([]domain.OrderItem, 0, len(rows))
		for _, r := range rows {
			items = append(items, orderItemFromRow(r))
		}

		user := userFromRepo(u)
		return s.mailer.SendOrderConfirmation(ctx, &user, &o, items)
	})
}

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newOrderNumber returns an order number like ORD-20260901-K7Q2MX. The date
// keeps numbers roughly sortable; the random suffix keeps them unguessable.
func newOrderNumber() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("ORD-")
	sb.WriteString(time.Now().UTC().Format("20060102"))
	sb.WriteByte('-')
	for _, b := range buf {
		sb.WriteByte(orderNumberAlphabet[int(b)%len(orderNumberAlphabet)])
	}
	return sb.String(), nil
}

func validateShippingInfo(info domain.ShippingInfo) error {
	var err error
	if strings.TrimSpace(info.Address) == "" {
		err = domain.AddFieldError(err, "address", "Shipping address is required")
	}
	if strings.TrimSpace(info.City) == "" {
		err = domain.AddFieldError(err, "city", "City is required")
	}
	if strings.TrimSpace(info.Phone) == "" {
		err = domain.AddFieldError(err, "phone", "Contact phone is required")
	}
	return err
}
