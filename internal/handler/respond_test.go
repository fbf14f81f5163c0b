package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tiendalabs/tienda/internal/domain"
)

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ETOOLARGE, http.StatusRequestEntityTooLarge},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{domain.ENOTIMPL, http.StatusNotImplemented},
		{"unknown_code", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := ErrorCodeToHTTPStatus(tt.code); got != tt.expected {
				t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.expected)
			}
		})
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decoding envelope: %v", err)
	}
	return env
}

func TestRespondError_Envelope(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:           "domain error",
			err:            domain.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "Order not found",
		},
		{
			name:           "typed conflict error",
			err:            &domain.InvalidStateError{Current: domain.OrderStatusShipped},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "internal error hides details",
			err:            domain.Internal(errors.New("connection refused"), "order.place", "db down"),
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			rec := httptest.NewRecorder()

			respondError(rec, req, tt.err)

			if rec.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.expectedStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}

			env := decodeEnvelope(t, rec)
			if env.Success {
				t.Error("expected success=false")
			}
			if tt.expectedMsg != "" && env.Message != tt.expectedMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.expectedMsg)
			}
		})
	}
}

func TestRespondError_ValidationFields(t *testing.T) {
	verr := domain.NewValidationError("checkout", "address", "Address is required")
	verr = domain.AddFieldError(verr, "phone", "Phone is required")

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, verr)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Errors["address"] != "Address is required" {
		t.Errorf("errors[address] = %q", env.Errors["address"])
	}
	if env.Errors["phone"] != "Phone is required" {
		t.Errorf("errors[phone] = %q", env.Errors["phone"])
	}
}

func TestRespondError_InsufficientStockDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rec := httptest.NewRecorder()

	respondError(rec, req, &domain.InsufficientStockError{
		ProductID: 42,
		Available: 3,
		Requested: 5,
	})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}

	env := decodeEnvelope(t, rec)
	detail, ok := env.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected detail map in data, got %T", env.Data)
	}
	if detail["product_id"] != float64(42) {
		t.Errorf("product_id = %v", detail["product_id"])
	}
	if detail["available"] != float64(3) || detail["requested"] != float64(5) {
		t.Errorf("available/requested = %v/%v", detail["available"], detail["requested"])
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		value   string
		want    int64
		wantErr bool
	}{
		{"5", 5, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.SetPathValue("id", tt.value)

		got, err := pathID(req, "id")
		if tt.wantErr {
			if err == nil {
				t.Errorf("pathID(%q): expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("pathID(%q): %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("pathID(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}
