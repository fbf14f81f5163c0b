package service

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestOrderService(store repository.Store) *OrderService {
	return NewOrderService(store, nil, nil, nil, nil, testLogger())
}

var testShipping = domain.ShippingInfo{
	Address: "Calle Mayor 1",
	City:    "Madrid",
	Phone:   "+34 600 000 000",
}

// seedCheckout creates a user with a two-line cart: 2 x 1000.00 and 1 x 500.00.
func seedCheckout(t *testing.T, store *memStore) (user repository.User, sessionID string, p1, p2 repository.Product) {
	t.Helper()

	user = store.seedUser(repository.User{Name: "Ana", Email: "ana@example.com"})
	p1 = store.seedProduct(repository.Product{Name: "Laptop", Price: mustDecimal("1000.00"), Stock: 10, Active: true})
	p2 = store.seedProduct(repository.Product{Name: "Mouse", Price: mustDecimal("500.00"), Stock: 10, Active: true})

	sessionID = "sess-" + user.Email
	cart := store.seedCart(user.ID, sessionID)
	store.seedCartItem(cart.ID, p1.ID, 2, "1000.00")
	store.seedCartItem(cart.ID, p2.ID, 1, "500.00")
	return user, sessionID, p1, p2
}

func TestPlaceOrder(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, p1, p2 := seedCheckout(t, store)

	conf, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)
	require.NotNil(t, conf)

	assert.True(t, conf.Total.Equal(mustDecimal("2500.00")), "total = %s", conf.Total)
	assert.Equal(t, 2, conf.LineCount)
	assert.Regexp(t, regexp.MustCompile(`^ORD-\d{8}-[A-Z2-9]{6}$`), conf.OrderNumber)

	// Stock decremented per line.
	assert.Equal(t, int32(8), store.d.products[p1.ID].Stock)
	assert.Equal(t, int32(9), store.d.products[p2.ID].Stock)

	// Cart emptied, order pending with snapshot lines.
	assert.Empty(t, store.d.cartItems)
	order := store.d.orders[conf.OrderID]
	assert.Equal(t, string(domain.OrderStatusPending), order.Status)
	assert.True(t, order.Total.Equal(mustDecimal("2500.00")))

	items, err := store.GetOrderItems(context.Background(), conf.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Laptop", items[0].ProductName)
	assert.True(t, items[0].Subtotal.Equal(mustDecimal("2000.00")))
}

func TestPlaceOrderUsesCartPriceSnapshot(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, p1, _ := seedCheckout(t, store)

	// Catalog price changes after the item was carted; the order keeps the
	// carted price.
	p := store.d.products[p1.ID]
	p.Price = mustDecimal("1500.00")
	store.d.products[p1.ID] = p

	conf, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)
	assert.True(t, conf.Total.Equal(mustDecimal("2500.00")), "total = %s", conf.Total)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)

	user := store.seedUser(repository.User{Name: "Ana", Email: "ana@example.com"})
	p := store.seedProduct(repository.Product{Name: "Laptop", Price: mustDecimal("1000.00"), Stock: 3, Active: true})
	cart := store.seedCart(user.ID, "sess-1")
	store.seedCartItem(cart.ID, p.ID, 5, "1000.00")

	_, err := svc.PlaceOrder(context.Background(), user.ID, "sess-1", testShipping)

	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, p.ID, ise.ProductID)
	assert.Equal(t, int32(3), ise.Available)
	assert.Equal(t, int32(5), ise.Requested)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	// Nothing committed: stock and cart are untouched, no order exists.
	assert.Equal(t, int32(3), store.d.products[p.ID].Stock)
	assert.Len(t, store.d.cartItems, 1)
	assert.Empty(t, store.d.orders)
}

func TestPlaceOrderRollsBackOnLaterLineFailure(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)

	user := store.seedUser(repository.User{Name: "Ana", Email: "ana@example.com"})
	ok := store.seedProduct(repository.Product{Name: "Laptop", Price: mustDecimal("1000.00"), Stock: 10, Active: true})
	gone := store.seedProduct(repository.Product{Name: "Discontinued", Price: mustDecimal("50.00"), Stock: 10, Active: false})

	cart := store.seedCart(user.ID, "sess-1")
	store.seedCartItem(cart.ID, ok.ID, 2, "1000.00")
	store.seedCartItem(cart.ID, gone.ID, 1, "50.00")

	_, err := svc.PlaceOrder(context.Background(), user.ID, "sess-1", testShipping)

	var pnf *domain.ProductNotFoundError
	require.ErrorAs(t, err, &pnf)
	assert.Equal(t, gone.ID, pnf.ProductID)

	// The valid first line must not leave any trace.
	assert.Equal(t, int32(10), store.d.products[ok.ID].Stock)
	assert.Len(t, store.d.cartItems, 2)
	assert.Empty(t, store.d.orders)
	assert.Empty(t, store.d.orderItems)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)

	user := store.seedUser(repository.User{Name: "Ana", Email: "ana@example.com"})
	store.seedCart(user.ID, "sess-1")

	_, err := svc.PlaceOrder(context.Background(), user.ID, "sess-1", testShipping)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)

	// No cart at all behaves the same.
	_, err = svc.PlaceOrder(context.Background(), user.ID, "sess-none", testShipping)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
}

func TestPlaceOrderRequiresAuthentication(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)

	_, err := svc.PlaceOrder(context.Background(), 0, "sess-1", testShipping)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestPlaceOrderValidatesShippingInfo(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, p1, _ := seedCheckout(t, store)

	_, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, domain.ShippingInfo{City: "Madrid"})
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))

	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "address")
	assert.Contains(t, fields, "phone")
	assert.NotContains(t, fields, "city")

	// Precondition failures never touch state.
	assert.Equal(t, int32(10), store.d.products[p1.ID].Stock)
	assert.Len(t, store.d.cartItems, 2)
}

func TestPlaceOrderConcurrentStockRace(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)

	p := store.seedProduct(repository.Product{Name: "Last unit", Price: mustDecimal("99.00"), Stock: 1, Active: true})

	u1 := store.seedUser(repository.User{Name: "Ana", Email: "ana@example.com"})
	u2 := store.seedUser(repository.User{Name: "Ben", Email: "ben@example.com"})
	c1 := store.seedCart(u1.ID, "sess-1")
	c2 := store.seedCart(u2.ID, "sess-2")
	store.seedCartItem(c1.ID, p.ID, 1, "99.00")
	store.seedCartItem(c2.ID, p.ID, 1, "99.00")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, attempt := range []struct {
		userID  int64
		session string
	}{
		{u1.ID, "sess-1"},
		{u2.ID, "sess-2"},
	} {
		wg.Add(1)
		go func(i int, userID int64, session string) {
			defer wg.Done()
			_, errs[i] = svc.PlaceOrder(context.Background(), userID, session, testShipping)
		}(i, attempt.userID, attempt.session)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		if err == nil {
			won++
		} else {
			var ise *domain.InsufficientStockError
			assert.ErrorAs(t, err, &ise)
			lost++
		}
	}
	assert.Equal(t, 1, won, "exactly one checkout may take the last unit")
	assert.Equal(t, 1, lost)
	assert.Equal(t, int32(0), store.d.products[p.ID].Stock)
	assert.Len(t, store.d.orders, 1)
}

func TestCancelOrder(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, p1, p2 := seedCheckout(t, store)

	conf, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)
	require.Equal(t, int32(8), store.d.products[p1.ID].Stock)

	err = svc.CancelOrder(context.Background(), user.ID, conf.OrderID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.OrderStatusCancelled), store.d.orders[conf.OrderID].Status)
	assert.Equal(t, int32(10), store.d.products[p1.ID].Stock)
	assert.Equal(t, int32(10), store.d.products[p2.ID].Stock)
}

func TestCancelOrderOnlyPending(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, p1, _ := seedCheckout(t, store)

	conf, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)

	require.NoError(t, svc.CancelOrder(context.Background(), user.ID, conf.OrderID))

	// A second cancel must fail and must not restore stock twice.
	err = svc.CancelOrder(context.Background(), user.ID, conf.OrderID)
	var ise *domain.InvalidStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, domain.OrderStatusCancelled, ise.Current)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))
	assert.Equal(t, int32(10), store.d.products[p1.ID].Stock)
}

func TestCancelShippedOrderFails(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, p1, _ := seedCheckout(t, store)

	conf, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)

	o := store.d.orders[conf.OrderID]
	o.Status = string(domain.OrderStatusShipped)
	store.d.orders[conf.OrderID] = o

	err = svc.CancelOrder(context.Background(), user.ID, conf.OrderID)
	var ise *domain.InvalidStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, domain.OrderStatusShipped, ise.Current)
	assert.Equal(t, int32(8), store.d.products[p1.ID].Stock, "stock stays reserved")
}

func TestCancelOrderScopedToOwner(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, _, _ := seedCheckout(t, store)
	other := store.seedUser(repository.User{Name: "Eve", Email: "eve@example.com"})

	conf, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)

	err = svc.CancelOrder(context.Background(), other.ID, conf.OrderID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	err = svc.CancelOrder(context.Background(), user.ID, 99999)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestListAndGetOrders(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, p1, _ := seedCheckout(t, store)

	first, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)

	cart, err := store.GetCart(context.Background(), repository.GetCartParams{SessionID: sessionID})
	require.NoError(t, err)
	store.seedCartItem(cart.ID, p1.ID, 1, "1000.00")

	second, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)

	orders, err := svc.ListOrders(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.OrderID, orders[0].ID, "newest first")
	assert.Equal(t, first.OrderID, orders[1].ID)

	detail, err := svc.GetOrder(context.Background(), user.ID, first.OrderID)
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, detail.Order.OrderNumber)
	assert.Len(t, detail.Items, 2)

	// Orders are invisible to other users.
	other := store.seedUser(repository.User{Name: "Eve", Email: "eve@example.com"})
	_, err = svc.GetOrder(context.Background(), other.ID, first.OrderID)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

// collidingQuerier reports the first n generated order numbers as taken,
// simulating another checkout having claimed them.
type collidingQuerier struct {
	repository.Querier
	collisions int
	checked    []string
}

func (q *collidingQuerier) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	q.checked = append(q.checked, number)
	if q.collisions > 0 {
		q.collisions--
		return true, nil
	}
	return q.Querier.OrderNumberExists(ctx, number)
}

// takenAtInsertQuerier passes the existence check but loses the insert race,
// the way a concurrent commit between check and insert would.
type takenAtInsertQuerier struct {
	repository.Querier
}

func (q takenAtInsertQuerier) OrderNumberExists(ctx context.Context, number string) (bool, error) {
	return false, nil
}

func (q takenAtInsertQuerier) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	return repository.Order{}, uniqueViolation("orders_order_number_key")
}

func TestOrderNumberCollisionRetries(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user := store.seedUser(repository.User{Name: "Ana", Email: "ana@example.com"})

	params := repository.CreateOrderParams{
		UserID:        user.ID,
		Total:         mustDecimal("25.00"),
		Address:       testShipping.Address,
		City:          testShipping.City,
		Phone:         testShipping.Phone,
		PaymentMethod: "cash_on_delivery",
		Status:        "pending",
	}

	q := &collidingQuerier{Querier: &store.memQuerier, collisions: 1}
	created, err := svc.createNumberedOrder(context.Background(), q, params)
	require.NoError(t, err)
	require.Len(t, q.checked, 2, "one collision forces one regeneration")
	assert.NotEqual(t, q.checked[0], created.OrderNumber)
	assert.Equal(t, q.checked[1], created.OrderNumber)
}

func TestOrderNumberCollisionExhaustsRetries(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user := store.seedUser(repository.User{Name: "Ana", Email: "ana@example.com"})

	params := repository.CreateOrderParams{UserID: user.ID, Total: mustDecimal("25.00"), Status: "pending"}

	q := &collidingQuerier{Querier: &store.memQuerier, collisions: 999}
	_, err := svc.createNumberedOrder(context.Background(), q, params)
	assert.ErrorIs(t, err, domain.ErrOrderCreationFailed)
	assert.Len(t, q.checked, 2, "gives up after the second taken number")

	_, err = svc.createNumberedOrder(context.Background(), takenAtInsertQuerier{Querier: &store.memQuerier}, params)
	assert.ErrorIs(t, err, domain.ErrOrderCreationFailed, "losing the insert race surfaces the same failure")
}

func TestOrderNumbersDistinct(t *testing.T) {
	store := newMemStore()
	svc := newTestOrderService(store)
	user, sessionID, _, _ := seedCheckout(t, store)

	conf, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)
	require.NotEmpty(t, conf.OrderNumber)

	// Distinct orders get distinct numbers even within the same instant.
	cart, err := store.GetCart(context.Background(), repository.GetCartParams{SessionID: sessionID})
	require.NoError(t, err)
	p := store.seedProduct(repository.Product{Name: "Keyboard", Price: mustDecimal("75.00"), Stock: 5, Active: true})
	store.seedCartItem(cart.ID, p.ID, 1, "75.00")

	conf2, err := svc.PlaceOrder(context.Background(), user.ID, sessionID, testShipping)
	require.NoError(t, err)
	assert.NotEqual(t, conf.OrderNumber, conf2.OrderNumber)
}
