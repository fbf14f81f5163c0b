package handler

import (
	"net/http"
	"time"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/middleware"
)

// UserHandler serves registration, sessions and the account profile.
type UserHandler struct {
	users  domain.UserService
	secure bool // Secure flag on the session cookie
}

func NewUserHandler(users domain.UserService, secure bool) *UserHandler {
	return &UserHandler{users: users, secure: secure}
}

type userResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Address: u.Address,
		City:    u.City,
	}
}

func (h *UserHandler) setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// Register handles POST /api/usuarios/registro
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Name, req.Email, req.Password, req.Phone, req.Address, req.City)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, toUserResponse(user))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/usuarios/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, time.Now().Add(domain.SessionDuration))
	respondData(w, http.StatusOK, toUserResponse(user))
}

// Logout handles POST /api/usuarios/logout
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := h.users.Logout(r.Context(), cookie.Value); err != nil {
			respondError(w, r, err)
			return
		}
	}

	h.setSessionCookie(w, "", time.Unix(0, 0))
	respondMessage(w, http.StatusOK, "Logged out")
}

// Me handles GET /api/usuarios/actual
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		respondError(w, r, domain.ErrInvalidCredentials)
		return
	}
	respondData(w, http.StatusOK, toUserResponse(user))
}

type updateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	City    *string `json:"city"`
}

// UpdateProfile handles PUT /api/usuarios/perfil
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	user, err := h.users.UpdateProfile(r.Context(), userID, domain.ProfileUpdate{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, toUserResponse(user))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword handles PUT /api/usuarios/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	userID := middleware.GetUserID(r.Context())
	if err := h.users.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Password updated")
}
