package domain

import (
	"context"
	"time"
)

// ErrContactMessageNotFound is returned when marking an unknown message read.
var ErrContactMessageNotFound = &Error{Code: ENOTFOUND, Message: "Contact message not found"}

// ContactMessage is a storefront contact-form submission.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string
	Phone     string
	Subject   string
	Message   string
	Read      bool
	CreatedAt time.Time
}

// ContactService stores contact-form submissions and the admin read flag.
type ContactService interface {
	// Submit validates and stores a contact message.
	Submit(ctx context.Context, name, email, phone, subject, message string) (*ContactMessage, error)

	// List returns messages, optionally only unread, newest first.
	List(ctx context.Context, unreadOnly bool) ([]ContactMessage, error)

	// MarkRead flags a message as read.
	MarkRead(ctx context.Context, id int64) error
}
