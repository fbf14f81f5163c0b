package handler

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/middleware"
)

// OrderHandler serves checkout and order history. Every route here sits
// behind RequireAuth, so GetUserID is always non-zero.
type OrderHandler struct {
	orders domain.OrderService
}

func NewOrderHandler(orders domain.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type placeOrderRequest struct {
	Address       string `json:"address"`
	City          string `json:"city"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
	Notes         string `json:"notes"`
}

type orderConfirmationResponse struct {
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Total       decimal.Decimal `json:"total"`
	LineCount   int             `json:"line_count"`
}

type orderResponse struct {
	ID            int64           `json:"id"`
	OrderNumber   string          `json:"order_number"`
	Total         decimal.Decimal `json:"total"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Phone         string          `json:"phone"`
	PaymentMethod string          `json:"payment_method"`
	Notes         string          `json:"notes,omitempty"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
}

type orderItemResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	ImageURL    string          `json:"image_url"`
	Quantity    int32           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type orderDetailResponse struct {
	orderResponse
	Items []orderItemResponse `json:"items"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		Total:         o.Total,
		Address:       o.Address,
		City:          o.City,
		Phone:         o.Phone,
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
	}
}

// Place handles POST /api/pedidos
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	sessionID := middleware.GetCartSession(r.Context())

	confirmation, err := h.orders.PlaceOrder(r.Context(), userID, sessionID, domain.ShippingInfo{
		Address:       req.Address,
		City:          req.City,
		Phone:         req.Phone,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondData(w, http.StatusCreated, orderConfirmationResponse{
		OrderID:     confirmation.OrderID,
		OrderNumber: confirmation.OrderNumber,
		Total:       confirmation.Total,
		LineCount:   confirmation.LineCount,
	})
}

// List handles GET /api/pedidos
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	orders, err := h.orders.ListOrders(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	respondData(w, http.StatusOK, out)
}

// Get handles GET /api/pedidos/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())

	detail, err := h.orders.GetOrder(r.Context(), userID, orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := orderDetailResponse{orderResponse: toOrderResponse(detail.Order)}
	resp.Items = make([]orderItemResponse, 0, len(detail.Items))
	for _, it := range detail.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ImageURL:    it.ImageURL,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	respondData(w, http.StatusOK, resp)
}

// Cancel handles PUT /api/pedidos/{id}/cancelar
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())

	if err := h.orders.CancelOrder(r.Context(), userID, orderID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Order cancelled")
}
