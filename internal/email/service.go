package email

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/telemetry"
)

// Service builds and sends storefront notification emails.
type Service struct {
	sender    Sender
	storeName string
	adminAddr string
	metrics   *telemetry.BusinessMetrics
	logger    *slog.Logger
}

func NewService(sender Sender, storeName, adminAddr string, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *Service {
	return &Service{
		sender:    sender,
		storeName: storeName,
		adminAddr: adminAddr,
		metrics:   metrics,
		logger:    logger,
	}
}

// SendOrderConfirmation emails the customer the order summary.
func (s *Service) SendOrderConfirmation(ctx context.Context, user *domain.User, order *domain.Order, items []domain.OrderItem) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", user.Name)
	fmt.Fprintf(&b, "Thanks for your order %s.\n\n", order.OrderNumber)
	for _, it := range items {
		fmt.Fprintf(&b, "  %d x %-30s %s\n", it.Quantity, it.ProductName, it.Subtotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", order.Total.StringFixed(2))
	fmt.Fprintf(&b, "Shipping to: %s, %s\n\n", order.Address, order.City)
	fmt.Fprintf(&b, "%s\n", s.storeName)

	return s.send(ctx, &Email{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("Order %s confirmed", order.OrderNumber),
		Body:    b.String(),
	})
}

// SendOrderCancelled emails the customer that the order was cancelled and
// stock was returned.
func (s *Service) SendOrderCancelled(ctx context.Context, user *domain.User, order *domain.Order) error {
	body := fmt.Sprintf("Hi %s,\n\nYour order %s has been cancelled. If you paid on delivery no charge applies.\n\n%s\n",
		user.Name, order.OrderNumber, s.storeName)

	return s.send(ctx, &Email{
		To:      []string{user.Email},
		Subject: fmt.Sprintf("Order %s cancelled", order.OrderNumber),
		Body:    body,
	})
}

// SendContactNotification forwards a contact form submission to the store
// owner's mailbox.
func (s *Service) SendContactNotification(ctx context.Context, msg *domain.ContactMessage) error {
	if s.adminAddr == "" {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "New contact message from %s <%s>\n", msg.Name, msg.Email)
	if msg.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", msg.Phone)
	}
	fmt.Fprintf(&b, "\n%s\n", msg.Message)

	return s.send(ctx, &Email{
		To:      []string{s.adminAddr},
		Subject: fmt.Sprintf("[contact] %s", msg.Subject),
		Body:    b.String(),
	})
}

func (s *Service) send(ctx context.Context, email *Email) error {
	if err := s.sender.Send(ctx, email); err != nil {
		if s.metrics != nil {
			s.metrics.EmailFailed.Inc()
		}
		return err
	}
	if s.metrics != nil {
		s.metrics.EmailSent.Inc()
	}
	return nil
}
