package handler

import (
	"net/http"
	"time"

	"github.com/tiendalabs/tienda/internal/domain"
)

// ContactHandler serves the public contact form and the admin inbox.
type ContactHandler struct {
	contact domain.ContactService
}

func NewContactHandler(contact domain.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type contactResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func toContactResponse(m domain.ContactMessage) contactResponse {
	return contactResponse{
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

// Submit handles POST /api/contacto
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := h.contact.Submit(r.Context(), req.Name, req.Email, req.Phone, req.Subject, req.Message); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Message received")
}

// List handles GET /api/contacto?no_leidos=true
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("no_leidos") == "true"

	messages, err := h.contact.List(r.Context(), unreadOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]contactResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toContactResponse(m))
	}
	respondData(w, http.StatusOK, out)
}

// MarkRead handles PUT /api/contacto/{id}/leido
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.contact.MarkRead(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Message marked as read")
}
