package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/repository"
	"github.com/tiendalabs/tienda/internal/telemetry"
)

// CartService implements domain.CartService.
type CartService struct {
	store   repository.Store
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

func NewCartService(store repository.Store, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *CartService {
	return &CartService{store: store, metrics: metrics, logger: logger}
}

var _ domain.CartService = (*CartService)(nil)

func (s *CartService) GetOrCreateCart(ctx context.Context, sessionID string, userID int64) (*domain.Cart, error) {
	const op = "CartService.GetOrCreateCart"

	cart, err := s.store.GetCart(ctx, repository.GetCartParams{
		SessionID: sessionID,
		UserID:    nullableUserID(userID),
	})
	if err == nil {
		// A cart created anonymously gets attached to the user on first
		// authenticated touch, so login keeps the session's cart.
		if userID != 0 && !cart.UserID.Valid {
			if err := s.store.AttachCartToUser(ctx, repository.AttachCartToUserParams{
				ID:     cart.ID,
				UserID: nullableUserID(userID),
			}); err != nil {
				return nil, domain.Internal(err, op, "attaching cart to user")
			}
			cart.UserID = nullableUserID(userID)
		}
		c := cartFromRepo(cart)
		return &c, nil
	}
	if !repository.IsNotFound(err) {
		return nil, domain.Internal(err, op, "loading cart")
	}

	created, err := s.store.CreateCart(ctx, repository.CreateCartParams{
		UserID:    nullableUserID(userID),
		SessionID: sessionID,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "creating cart")
	}

	c := cartFromRepo(created)
	return &c, nil
}

func (s *CartService) GetCartSummary(ctx context.Context, sessionID string, userID int64) (*domain.CartSummary, error) {
	const op = "CartService.GetCartSummary"

	cart, err := s.store.GetCart(ctx, repository.GetCartParams{
		SessionID: sessionID,
		UserID:    nullableUserID(userID),
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return &domain.CartSummary{Total: decimal.Zero}, nil
		}
		return nil, domain.Internal(err, op, "loading cart")
	}

	summary, err := s.buildSummary(ctx, cart)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil && len(summary.Items) > 0 {
		s.metrics.CartValue.Observe(summary.Total.InexactFloat64())
	}
	return summary, nil
}

func (s *CartService) AddItem(ctx context.Context, sessionID string, userID int64, productID int64, quantity int32) (*domain.CartSummary, error) {
	const op = "CartService.AddItem"

	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, op, "loading product")
	}
	if !product.Active {
		return nil, domain.ErrProductNotFound
	}

	cart, err := s.GetOrCreateCart(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	// Adding an already-carted product merges quantities; the merged total
	// must still fit within live stock.
	merged := quantity
	existing, err := s.store.GetCartItem(ctx, repository.GetCartItemParams{
		CartID:    cart.ID,
		ProductID: productID,
	})
	if err == nil {
		merged += existing.Quantity
	} else if !repository.IsNotFound(err) {
		return nil, domain.Internal(err, op, "loading cart item")
	}

	if merged > product.Stock {
		return nil, &domain.InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   merged,
		}
	}

	if _, err := s.store.UpsertCartItem(ctx, repository.UpsertCartItemParams{
		CartID:    cart.ID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: product.Price,
	}); err != nil {
		return nil, domain.Internal(err, op, "adding cart item")
	}

	if s.metrics != nil {
		s.metrics.CartItemsAdded.WithLabelValues(strconv.FormatInt(productID, 10)).Inc()
	}
	s.logger.Debug("cart item added", "cart_id", cart.ID, "product_id", productID, "quantity", quantity)

	return s.GetCartSummary(ctx, sessionID, userID)
}

func (s *CartService) UpdateItemQuantity(ctx context.Context, sessionID string, userID int64, itemID int64, quantity int32) (*domain.CartSummary, error) {
	const op = "CartService.UpdateItemQuantity"

	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	cart, err := s.requireCart(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.GetCartItemByID(ctx, repository.GetCartItemByIDParams{
		ID:     itemID,
		CartID: cart.ID,
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, domain.ErrCartItemNotFound
		}
		return nil, domain.Internal(err, op, "loading cart item")
	}

	if quantity > item.Stock {
		return nil, &domain.InsufficientStockError{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Available:   item.Stock,
			Requested:   quantity,
		}
	}

	if _, err := s.store.UpdateCartItemQuantity(ctx, repository.UpdateCartItemQuantityParams{
		ID:       itemID,
		CartID:   cart.ID,
		Quantity: quantity,
	}); err != nil {
		return nil, domain.Internal(err, op, "updating cart item")
	}

	return s.GetCartSummary(ctx, sessionID, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID string, userID int64, itemID int64) error {
	const op = "CartService.RemoveItem"

	cart, err := s.requireCart(ctx, sessionID, userID)
	if err != nil {
		return err
	}

	n, err := s.store.DeleteCartItem(ctx, repository.DeleteCartItemParams{
		ID:     itemID,
		CartID: cart.ID,
	})
	if err != nil {
		return domain.Internal(err, op, "removing cart item")
	}
	if n == 0 {
		return domain.ErrCartItemNotFound
	}

	if s.metrics != nil {
		s.metrics.CartItemRemoved.Inc()
	}
	return nil
}

func (s *CartService) ClearCart(ctx context.Context, sessionID string, userID int64) error {
	const op = "CartService.ClearCart"

	cart, err := s.requireCart(ctx, sessionID, userID)
	if err != nil {
		return err
	}

	if err := s.store.ClearCartItems(ctx, cart.ID); err != nil {
		return domain.Internal(err, op, "clearing cart")
	}

	if s.metrics != nil {
		s.metrics.CartCleared.Inc()
	}
	return nil
}

func (s *CartService) requireCart(ctx context.Context, sessionID string, userID int64) (repository.Cart, error) {
	const op = "CartService.requireCart"

	cart, err := s.store.GetCart(ctx, repository.GetCartParams{
		SessionID: sessionID,
		UserID:    nullableUserID(userID),
	})
	if err != nil {
		if repository.IsNotFound(err) {
			return repository.Cart{}, domain.ErrCartNotFound
		}
		return repository.Cart{}, domain.Internal(err, op, "loading cart")
	}
	return cart, nil
}

func (s *CartService) buildSummary(ctx context.Context, cart repository.Cart) (*domain.CartSummary, error) {
	const op = "CartService.buildSummary"

	rows, err := s.store.GetCartItems(ctx, cart.ID)
	if err != nil {
		return nil, domain.Internal(err, op, "loading cart items")
	}

	summary := &domain.CartSummary{
		Cart:  cartFromRepo(cart),
		Total: decimal.Zero,
	}
	for _, r := range rows {
		item := cartItemFromRow(r)
		summary.Items = append(summary.Items, item)
		summary.Total = summary.Total.Add(item.Subtotal)
		summary.ItemCount += item.Quantity
	}
	return summary, nil
}
