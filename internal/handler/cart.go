package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/middleware"
)

// CartHandler serves the shopping cart endpoints. Carts are keyed by the
// anonymous cart cookie plus the authenticated user (if any), so all
// operations work for guests and logged-in shoppers alike.
type CartHandler struct {
	carts domain.CartService
}

func NewCartHandler(carts domain.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartItemResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Stock       int32           `json:"stock"`
}

type cartResponse struct {
	Items     []cartItemResponse `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int32              `json:"item_count"`
}

func toCartResponse(summary *domain.CartSummary) cartResponse {
	items := make([]cartItemResponse, 0, len(summary.Items))
	for _, it := range summary.Items {
		items = append(items, cartItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ImageURL:    it.ImageURL,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			Stock:       it.Stock,
		})
	}
	return cartResponse{Items: items, Total: summary.Total, ItemCount: summary.ItemCount}
}

// Get handles GET /api/carrito
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetCartSession(r.Context())
	userID := middleware.GetUserID(r.Context())

	summary, err := h.carts.GetCartSummary(r.Context(), sessionID, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartResponse(summary))
}

type addItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

// AddItem handles POST /api/carrito
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sessionID := middleware.GetCartSession(r.Context())
	userID := middleware.GetUserID(r.Context())

	summary, err := h.carts.AddItem(r.Context(), sessionID, userID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartResponse(summary))
}

type updateItemRequest struct {
	Quantity int32 `json:"quantity"`
}

// UpdateItem handles PUT /api/carrito/{id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	sessionID := middleware.GetCartSession(r.Context())
	userID := middleware.GetUserID(r.Context())

	summary, err := h.carts.UpdateItemQuantity(r.Context(), sessionID, userID, itemID, req.Quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toCartResponse(summary))
}

// RemoveItem handles DELETE /api/carrito/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	sessionID := middleware.GetCartSession(r.Context())
	userID := middleware.GetUserID(r.Context())

	if err := h.carts.RemoveItem(r.Context(), sessionID, userID, itemID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Item removed from cart")
}

// Clear handles DELETE /api/carrito
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetCartSession(r.Context())
	userID := middleware.GetUserID(r.Context())

	if err := h.carts.ClearCart(r.Context(), sessionID, userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Cart cleared")
}
