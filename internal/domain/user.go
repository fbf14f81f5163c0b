package domain

import (
	"context"
	"time"
)

// SessionDuration is how long an issued session token stays valid.
const SessionDuration = 30 * 24 * time.Hour

// User-related domain errors.
var (
	ErrUserNotFound       = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrEmailTaken         = &Error{Code: ECONFLICT, Message: "Email is already registered"}
	ErrInvalidCredentials = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrSessionNotFound    = &Error{Code: ENOTFOUND, Message: "Session not found"}
)

// User is a storefront account. PasswordHash is bcrypt and never leaves the
// service layer.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Address      string
	City         string
	Active       bool
	CreatedAt    time.Time
}

// ProfileUpdate carries the optional fields of a partial profile update.
// Nil pointers mean "leave unchanged".
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
	City    *string
}

// UserService provides account and session operations.
type UserService interface {
	// Register creates an account with a bcrypt-hashed password.
	Register(ctx context.Context, name, email, password, phone, address, city string) (*User, error)

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, email, password string) (*User, string, error)

	// Logout revokes a session token. Unknown tokens are not an error.
	Logout(ctx context.Context, token string) error

	// GetUserBySessionToken resolves the user for a live session token.
	GetUserBySessionToken(ctx context.Context, token string) (*User, error)

	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id int64) (*User, error)

	// UpdateProfile applies a partial profile update.
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*User, error)

	// ChangePassword verifies the current password and stores a new hash.
	ChangePassword(ctx context.Context, userID int64, current, next string) error
}
