package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda/internal/repository"
)

// memStore is an in-memory repository.Store for service tests. ExecTx
// snapshots the data and restores it when fn fails, mirroring a rollback;
// the mutex serializes transactions the way row locks do in Postgres.
type memStore struct {
	mu sync.Mutex
	memQuerier
}

func newMemStore() *memStore {
	s := &memStore{}
	s.d = &memData{
		products:   map[int64]repository.Product{},
		categories: map[int64]repository.Category{},
		carts:      map[int64]repository.Cart{},
		cartItems:  map[int64]repository.CartItem{},
		orders:     map[int64]repository.Order{},
		orderItems: map[int64]repository.OrderItem{},
		users:      map[int64]repository.User{},
		sessions:   map[int64]repository.Session{},
		contacts:   map[int64]repository.ContactMessage{},
	}
	return s
}

var _ repository.Store = (*memStore)(nil)

func (s *memStore) ExecTx(ctx context.Context, fn func(repository.Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.d.clone()
	if err := fn(&s.memQuerier); err != nil {
		*s.d = *snap
		return err
	}
	return nil
}

type memData struct {
	products   map[int64]repository.Product
	categories map[int64]repository.Category
	carts      map[int64]repository.Cart
	cartItems  map[int64]repository.CartItem
	orders     map[int64]repository.Order
	orderItems map[int64]repository.OrderItem
	users      map[int64]repository.User
	sessions   map[int64]repository.Session
	contacts   map[int64]repository.ContactMessage
	lastID     int64
}

func (d *memData) clone() *memData {
	c := &memData{
		products:   make(map[int64]repository.Product, len(d.products)),
		categories: make(map[int64]repository.Category, len(d.categories)),
		carts:      make(map[int64]repository.Cart, len(d.carts)),
		cartItems:  make(map[int64]repository.CartItem, len(d.cartItems)),
		orders:     make(map[int64]repository.Order, len(d.orders)),
		orderItems: make(map[int64]repository.OrderItem, len(d.orderItems)),
		users:      make(map[int64]repository.User, len(d.users)),
		sessions:   make(map[int64]repository.Session, len(d.sessions)),
		contacts:   make(map[int64]repository.ContactMessage, len(d.contacts)),
		lastID:     d.lastID,
	}
	for k, v := range d.products {
		c.products[k] = v
	}
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.carts {
		c.carts[k] = v
	}
	for k, v := range d.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = v
	}
	for k, v := range d.orderItems {
		c.orderItems[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.sessions {
		c.sessions[k] = v
	}
	for k, v := range d.contacts {
		c.contacts[k] = v
	}
	return c
}

func (d *memData) nextID() int64 {
	d.lastID++
	return d.lastID
}

// memQuerier implements repository.Querier against memData.
type memQuerier struct {
	d *memData
}

var _ repository.Querier = (*memQuerier)(nil)

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// ---- products ----

func (q *memQuerier) GetProductByID(ctx context.Context, id int64) (repository.Product, error) {
	p, ok := q.d.products[id]
	if !ok {
		return repository.Product{}, pgx.ErrNoRows
	}
	return p, nil
}

func (q *memQuerier) DecrementProductStock(ctx context.Context, arg repository.DecrementProductStockParams) (int64, error) {
	p, ok := q.d.products[arg.ID]
	if !ok || p.Stock < arg.Quantity {
		return 0, nil
	}
	p.Stock -= arg.Quantity
	p.UpdatedAt = time.Now()
	q.d.products[arg.ID] = p
	return 1, nil
}

func (q *memQuerier) IncrementProductStock(ctx context.Context, arg repository.IncrementProductStockParams) error {
	p, ok := q.d.products[arg.ID]
	if !ok {
		return nil
	}
	p.Stock += arg.Quantity
	p.UpdatedAt = time.Now()
	q.d.products[arg.ID] = p
	return nil
}

func (q *memQuerier) ListActiveProducts(ctx context.Context, arg repository.ListActiveProductsParams) ([]repository.Product, error) {
	var out []repository.Product
	for _, p := range q.d.products {
		if !p.Active {
			continue
		}
		if arg.CategorySlug.Valid {
			c, ok := q.d.categories[p.CategoryID]
			if !ok || c.Slug != arg.CategorySlug.String {
				continue
			}
		}
		if arg.Search.Valid {
			needle := strings.ToLower(arg.Search.String)
			if !strings.Contains(strings.ToLower(p.Name), needle) &&
				!strings.Contains(strings.ToLower(p.Description), needle) {
				continue
			}
		}
		if arg.MaxPrice.Valid && p.Price.GreaterThan(arg.MaxPrice.Decimal) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (q *memQuerier) ListProductsByCategory(ctx context.Context, categoryID int64) ([]repository.Product, error) {
	var out []repository.Product
	for _, p := range q.d.products {
		if p.Active && p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (q *memQuerier) ListActiveCategories(ctx context.Context) ([]repository.Category, error) {
	var out []repository.Category
	for _, c := range q.d.categories {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (q *memQuerier) GetCategoryBySlug(ctx context.Context, slug string) (repository.Category, error) {
	for _, c := range q.d.categories {
		if c.Slug == slug && c.Active {
			return c, nil
		}
	}
	return repository.Category{}, pgx.ErrNoRows
}

// ---- carts ----

func (q *memQuerier) GetCart(ctx context.Context, arg repository.GetCartParams) (repository.Cart, error) {
	var found *repository.Cart
	for _, c := range q.d.carts {
		match := c.SessionID == arg.SessionID ||
			(arg.UserID.Valid && c.UserID.Valid && c.UserID.Int64 == arg.UserID.Int64)
		if !match {
			continue
		}
		c := c
		if found == nil || c.UpdatedAt.After(found.UpdatedAt) {
			found = &c
		}
	}
	if found == nil {
		return repository.Cart{}, pgx.ErrNoRows
	}
	return *found, nil
}

func (q *memQuerier) CreateCart(ctx context.Context, arg repository.CreateCartParams) (repository.Cart, error) {
	now := time.Now()
	c := repository.Cart{
		ID:        q.d.nextID(),
		UserID:    arg.UserID,
		SessionID: arg.SessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	q.d.carts[c.ID] = c
	return c, nil
}

func (q *memQuerier) AttachCartToUser(ctx context.Context, arg repository.AttachCartToUserParams) error {
	c, ok := q.d.carts[arg.ID]
	if !ok {
		return nil
	}
	c.UserID = arg.UserID
	c.UpdatedAt = time.Now()
	q.d.carts[arg.ID] = c
	return nil
}

func (q *memQuerier) GetCartItems(ctx context.Context, cartID int64) ([]repository.GetCartItemsRow, error) {
	var out []repository.GetCartItemsRow
	for _, it := range q.d.cartItems {
		if it.CartID != cartID {
			continue
		}
		p := q.d.products[it.ProductID]
		out = append(out, repository.GetCartItemsRow{
			ID:          it.ID,
			CartID:      it.CartID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			ProductName: p.Name,
			ImageUrl:    p.ImageUrl,
			Stock:       p.Stock,
			Active:      p.Active,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q *memQuerier) GetCartItem(ctx context.Context, arg repository.GetCartItemParams) (repository.CartItem, error) {
	for _, it := range q.d.cartItems {
		if it.CartID == arg.CartID && it.ProductID == arg.ProductID {
			return it, nil
		}
	}
	return repository.CartItem{}, pgx.ErrNoRows
}

func (q *memQuerier) GetCartItemByID(ctx context.Context, arg repository.GetCartItemByIDParams) (repository.GetCartItemByIDRow, error) {
	it, ok := q.d.cartItems[arg.ID]
	if !ok || it.CartID != arg.CartID {
		return repository.GetCartItemByIDRow{}, pgx.ErrNoRows
	}
	p := q.d.products[it.ProductID]
	return repository.GetCartItemByIDRow{
		ID:          it.ID,
		CartID:      it.CartID,
		ProductID:   it.ProductID,
		Quantity:    it.Quantity,
		UnitPrice:   it.UnitPrice,
		ProductName: p.Name,
		Stock:       p.Stock,
	}, nil
}

func (q *memQuerier) UpsertCartItem(ctx context.Context, arg repository.UpsertCartItemParams) (repository.CartItem, error) {
	for id, it := range q.d.cartItems {
		if it.CartID == arg.CartID && it.ProductID == arg.ProductID {
			it.Quantity += arg.Quantity
			q.d.cartItems[id] = it
			return it, nil
		}
	}
	it := repository.CartItem{
		ID:        q.d.nextID(),
		CartID:    arg.CartID,
		ProductID: arg.ProductID,
		Quantity:  arg.Quantity,
		UnitPrice: arg.UnitPrice,
		CreatedAt: time.Now(),
	}
	q.d.cartItems[it.ID] = it
	return it, nil
}

func (q *memQuerier) UpdateCartItemQuantity(ctx context.Context, arg repository.UpdateCartItemQuantityParams) (int64, error) {
	it, ok := q.d.cartItems[arg.ID]
	if !ok || it.CartID != arg.CartID {
		return 0, nil
	}
	it.Quantity = arg.Quantity
	q.d.cartItems[arg.ID] = it
	return 1, nil
}

func (q *memQuerier) DeleteCartItem(ctx context.Context, arg repository.DeleteCartItemParams) (int64, error) {
	it, ok := q.d.cartItems[arg.ID]
	if !ok || it.CartID != arg.CartID {
		return 0, nil
	}
	delete(q.d.cartItems, arg.ID)
	return 1, nil
}

func (q *memQuerier) ClearCartItems(ctx context.Context, cartID int64) error {
	for id, it := range q.d.cartItems {
		if it.CartID == cartID {
			delete(q.d.cartItems, id)
		}
	}
	return nil
}

// ---- orders ----

func (q *memQuerier) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (repository.Order, error) {
	for _, o := range q.d.orders {
		if o.OrderNumber == arg.OrderNumber {
			return repository.Order{}, uniqueViolation("orders_order_number_key")
		}
	}
	now := time.Now()
	o := repository.Order{
		ID:            q.d.nextID(),
		OrderNumber:   arg.OrderNumber,
		UserID:        arg.UserID,
		Total:         arg.Total,
		Address:       arg.Address,
		City:          arg.City,
		Phone:         arg.Phone,
		PaymentMethod: arg.PaymentMethod,
		Notes:         arg.Notes,
		Status:        arg.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	q.d.orders[o.ID] = o
	return o, nil
}

func (q *memQuerier) CreateOrderItem(ctx context.Context, arg repository.CreateOrderItemParams) (repository.OrderItem, error) {
	it := repository.OrderItem{
		ID:          q.d.nextID(),
		OrderID:     arg.OrderID,
		ProductID:   arg.ProductID,
		ProductName: arg.ProductName,
		Quantity:    arg.Quantity,
		UnitPrice:   arg.UnitPrice,
		Subtotal:    arg.Subtotal,
	}
	q.d.orderItems[it.ID] = it
	return it, nil
}

func (q *memQuerier) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	for _, o := range q.d.orders {
		if o.OrderNumber == orderNumber {
			return true, nil
		}
	}
	return false, nil
}

func (q *memQuerier) GetOrderForUser(ctx context.Context, arg repository.GetOrderForUserParams) (repository.Order, error) {
	o, ok := q.d.orders[arg.ID]
	if !ok || o.UserID != arg.UserID {
		return repository.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (q *memQuerier) GetOrderForUserForUpdate(ctx context.Context, arg repository.GetOrderForUserForUpdateParams) (repository.Order, error) {
	return q.GetOrderForUser(ctx, repository.GetOrderForUserParams(arg))
}

func (q *memQuerier) GetOrderItems(ctx context.Context, orderID int64) ([]repository.GetOrderItemsRow, error) {
	var out []repository.GetOrderItemsRow
	for _, it := range q.d.orderItems {
		if it.OrderID != orderID {
			continue
		}
		p := q.d.products[it.ProductID]
		out = append(out, repository.GetOrderItemsRow{
			ID:          it.ID,
			OrderID:     it.OrderID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			ImageUrl:    p.ImageUrl,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (q *memQuerier) ListOrdersForUser(ctx context.Context, userID int64) ([]repository.Order, error) {
	var out []repository.Order
	for _, o := range q.d.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (q *memQuerier) UpdateOrderStatus(ctx context.Context, arg repository.UpdateOrderStatusParams) (int64, error) {
	o, ok := q.d.orders[arg.ID]
	if !ok {
		return 0, nil
	}
	o.Status = arg.Status
	o.UpdatedAt = time.Now()
	q.d.orders[arg.ID] = o
	return 1, nil
}

// ---- users & sessions ----

func (q *memQuerier) CreateUser(ctx context.Context, arg repository.CreateUserParams) (repository.User, error) {
	for _, u := range q.d.users {
		if u.Email == arg.Email {
			return repository.User{}, uniqueViolation("users_email_key")
		}
	}
	u := repository.User{
		ID:           q.d.nextID(),
		Name:         arg.Name,
		Email:        arg.Email,
		PasswordHash: arg.PasswordHash,
		Phone:        arg.Phone,
		Address:      arg.Address,
		City:         arg.City,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	q.d.users[u.ID] = u
	return u, nil
}

func (q *memQuerier) GetUserByEmail(ctx context.Context, email string) (repository.User, error) {
	for _, u := range q.d.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, pgx.ErrNoRows
}

func (q *memQuerier) GetUserByID(ctx context.Context, id int64) (repository.User, error) {
	u, ok := q.d.users[id]
	if !ok {
		return repository.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (q *memQuerier) UpdateUserProfile(ctx context.Context, arg repository.UpdateUserProfileParams) (repository.User, error) {
	u, ok := q.d.users[arg.ID]
	if !ok {
		return repository.User{}, pgx.ErrNoRows
	}
	if arg.Name.Valid {
		u.Name = arg.Name.String
	}
	if arg.Phone.Valid {
		u.Phone = arg.Phone.String
	}
	if arg.Address.Valid {
		u.Address = arg.Address.String
	}
	if arg.City.Valid {
		u.City = arg.City.String
	}
	q.d.users[arg.ID] = u
	return u, nil
}

func (q *memQuerier) UpdateUserPassword(ctx context.Context, arg repository.UpdateUserPasswordParams) error {
	u, ok := q.d.users[arg.ID]
	if !ok {
		return nil
	}
	u.PasswordHash = arg.PasswordHash
	q.d.users[arg.ID] = u
	return nil
}

func (q *memQuerier) CreateSession(ctx context.Context, arg repository.CreateSessionParams) (repository.Session, error) {
	s := repository.Session{
		ID:        q.d.nextID(),
		Token:     arg.Token,
		UserID:    arg.UserID,
		ExpiresAt: arg.ExpiresAt,
		CreatedAt: time.Now(),
	}
	q.d.sessions[s.ID] = s
	return s, nil
}

func (q *memQuerier) GetSessionByToken(ctx context.Context, token string) (repository.Session, error) {
	for _, s := range q.d.sessions {
		if s.Token == token && s.ExpiresAt.After(time.Now()) {
			return s, nil
		}
	}
	return repository.Session{}, pgx.ErrNoRows
}

func (q *memQuerier) DeleteSession(ctx context.Context, token string) error {
	for id, s := range q.d.sessions {
		if s.Token == token {
			delete(q.d.sessions, id)
		}
	}
	return nil
}

func (q *memQuerier) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	var n int64
	for id, s := range q.d.sessions {
		if s.ExpiresAt.Before(time.Now()) {
			delete(q.d.sessions, id)
			n++
		}
	}
	return n, nil
}

// ---- contact ----

func (q *memQuerier) CreateContactMessage(ctx context.Context, arg repository.CreateContactMessageParams) (repository.ContactMessage, error) {
	m := repository.ContactMessage{
		ID:        q.d.nextID(),
		Name:      arg.Name,
		Email:     arg.Email,
		Phone:     arg.Phone,
		Subject:   arg.Subject,
		Message:   arg.Message,
		CreatedAt: time.Now(),
	}
	q.d.contacts[m.ID] = m
	return m, nil
}

func (q *memQuerier) ListContactMessages(ctx context.Context, unreadOnly bool) ([]repository.ContactMessage, error) {
	var out []repository.ContactMessage
	for _, m := range q.d.contacts {
		if unreadOnly && m.Read {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (q *memQuerier) MarkContactMessageRead(ctx context.Context, id int64) (int64, error) {
	m, ok := q.d.contacts[id]
	if !ok {
		return 0, nil
	}
	m.Read = true
	q.d.contacts[id] = m
	return 1, nil
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedProduct inserts a product directly into the store for test setup.
func (s *memStore) seedProduct(p repository.Product) repository.Product {
	if p.ID == 0 {
		p.ID = s.d.nextID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
	}
	s.d.products[p.ID] = p
	return p
}

func (s *memStore) seedUser(u repository.User) repository.User {
	if u.ID == 0 {
		u.ID = s.d.nextID()
	}
	u.Active = true
	s.d.users[u.ID] = u
	return u
}

func (s *memStore) seedCart(userID int64, sessionID string) repository.Cart {
	c := repository.Cart{
		ID:        s.d.nextID(),
		SessionID: sessionID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if userID != 0 {
		c.UserID = pgtype.Int8{Int64: userID, Valid: true}
	}
	s.d.carts[c.ID] = c
	return c
}

func (s *memStore) seedCartItem(cartID, productID int64, qty int32, price string) repository.CartItem {
	it := repository.CartItem{
		ID:        s.d.nextID(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
		UnitPrice: mustDecimal(price),
		CreatedAt: time.Now(),
	}
	s.d.cartItems[it.ID] = it
	return it
}
