package service

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/repository"
)

// Conversions between repository rows and domain types. Kept together so the
// column-to-field mapping lives in one place.

func productFromRepo(p repository.Product) domain.Product {
	return domain.Product{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		ImageURL:    p.ImageUrl,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func categoryFromRepo(c repository.Category) domain.Category {
	return domain.Category{
		ID:     c.ID,
		Name:   c.Name,
		Slug:   c.Slug,
		Active: c.Active,
	}
}

func cartFromRepo(c repository.Cart) domain.Cart {
	var userID int64
	if c.UserID.Valid {
		userID = c.UserID.Int64
	}
	return domain.Cart{
		ID:        c.ID,
		UserID:    userID,
		SessionID: c.SessionID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func cartItemFromRow(r repository.GetCartItemsRow) domain.CartItem {
	return domain.CartItem{
		ID:          r.ID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		ImageURL:    r.ImageUrl,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Subtotal:    r.UnitPrice.Mul(decimal.NewFromInt32(r.Quantity)),
		Stock:       r.Stock,
	}
}

func orderFromRepo(o repository.Order) domain.Order {
	return domain.Order{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Total:         o.Total,
		Address:       o.Address,
		City:          o.City,
		Phone:         o.Phone,
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		Status:        domain.OrderStatus(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

func orderItemFromRow(r repository.GetOrderItemsRow) domain.OrderItem {
	return domain.OrderItem{
		ID:          r.ID,
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		ImageURL:    r.ImageUrl,
		Quantity:    r.Quantity,
		UnitPrice:   r.UnitPrice,
		Subtotal:    r.Subtotal,
	}
}

func userFromRepo(u repository.User) domain.User {
	return domain.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Phone:        u.Phone,
		Address:      u.Address,
		City:         u.City,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt,
	}
}

func contactFromRepo(m repository.ContactMessage) domain.ContactMessage {
	return domain.ContactMessage{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Message,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

// nullableUserID maps the domain convention (0 = anonymous) onto the
// nullable column.
func nullableUserID(userID int64) pgtype.Int8 {
	if userID == 0 {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: userID, Valid: true}
}
