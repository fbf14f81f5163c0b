// Package handler implements the JSON API surface. Every response uses the
// same envelope: {"success": bool, "message": string, "data": ...}.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/middleware"
	"github.com/tiendalabs/tienda/internal/telemetry"
)

const maxBodyBytes = 1 << 20 // 1 MiB

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, env envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(env)
}

// respondData writes a success envelope with a payload.
func respondData(w http.ResponseWriter, status int, data interface{}) {
	respondJSON(w, status, envelope{Success: true, Data: data})
}

// respondMessage writes a success envelope with a message and no payload.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{Success: true, Message: message})
}

// respondError maps a domain error onto the envelope and an HTTP status.
// Internal errors are logged and reported; their details stay server-side.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if status >= 500 {
		logger.Error("request failed", attrs...)
		telemetry.CaptureErrorFromContext(r.Context(), err, map[string]interface{}{
			"path":   r.URL.Path,
			"method": r.Method,
		})
	} else {
		logger.Info("request rejected", attrs...)
	}

	env := envelope{
		Success: false,
		Message: domain.ErrorMessage(err),
		Errors:  domain.GetValidationFields(err),
	}

	// Stock conflicts carry enough detail for the storefront to adjust the
	// cart line without another round trip.
	var ise *domain.InsufficientStockError
	if errors.As(err, &ise) {
		env.Data = map[string]interface{}{
			"product_id": ise.ProductID,
			"available":  ise.Available,
			"requested":  ise.Requested,
		}
	}

	respondJSON(w, status, env)
}

// decodeJSON reads the request body into dst, bounding its size.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.Errorf(domain.ETOOLARGE, "", "Request body too large")
		}
		return domain.Errorf(domain.EINVALID, "", "Invalid JSON body")
	}
	return nil
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge // 413
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.EINTERNAL:
		return http.StatusInternalServerError // 500
	case domain.ENOTIMPL:
		return http.StatusNotImplemented // 501
	default:
		return http.StatusInternalServerError // 500
	}
}

// pathID extracts a numeric {id} path segment.
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		return 0, domain.Errorf(domain.EINVALID, "", "Invalid %s", name)
	}
	return id, nil
}
