package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/tiendalabs/tienda/internal/domain"
	"github.com/tiendalabs/tienda/internal/email"
	"github.com/tiendalabs/tienda/internal/repository"
	"github.com/tiendalabs/tienda/internal/telemetry"
	"github.com/tiendalabs/tienda/internal/worker"
)

// ContactService implements domain.ContactService.
type ContactService struct {
	store   repository.Store
	mailer  *email.Service
	jobs    *worker.Pool
	metrics *telemetry.BusinessMetrics
	logger  *slog.Logger
}

func NewContactService(store repository.Store, mailer *email.Service, jobs *worker.Pool, metrics *telemetry.BusinessMetrics, logger *slog.Logger) *ContactService {
	return &ContactService{
		store:   store,
		mailer:  mailer,
		jobs:    jobs,
		metrics: metrics,
		logger:  logger,
	}
}

var _ domain.ContactService = (*ContactService)(nil)

func (s *ContactService) Submit(ctx context.Context, name, emailAddr, phone, subject, message string) (*domain.ContactMessage, error) {
	const op = "ContactService.Submit"

	name = strings.TrimSpace(name)
	emailAddr = strings.TrimSpace(emailAddr)
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)

	var verr error
	if name == "" {
		verr = domain.AddFieldError(verr, "name", "Name is required")
	}
	if _, err := mail.ParseAddress(emailAddr); err != nil {
		verr = domain.AddFieldError(verr, "email", "A valid email address is required")
	}
	if subject == "" {
		verr = domain.AddFieldError(verr, "subject", "Subject is required")
	}
	if message == "" {
		verr = domain.AddFieldError(verr, "message", "Message is required")
	}
	if verr != nil {
		return nil, verr
	}

	created, err := s.store.CreateContactMessage(ctx, repository.CreateContactMessageParams{
		Name:    name,
		Email:   emailAddr,
		Phone:   strings.TrimSpace(phone),
		Subject: subject,
		Message: message,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "storing contact message")
	}

	if s.metrics != nil {
		s.metrics.ContactMessages.Inc()
	}
	s.logger.Info("contact message received", "message_id", created.ID)

	msg := contactFromRepo(created)

	if s.jobs != nil && s.mailer != nil {
		m := msg
		s.jobs.Submit("contact_notification_email", func(ctx context.Context) error {
			return s.mailer.SendContactNotification(ctx, &m)
		})
	}

	return &msg, nil
}

func (s *ContactService) List(ctx context.Context, unreadOnly bool) ([]domain.ContactMessage, error) {
	const op = "ContactService.List"

	rows, err := s.store.ListContactMessages(ctx, unreadOnly)
	if err != nil {
		return nil, domain.Internal(err, op, "listing contact messages")
	}

	msgs := make([]domain.ContactMessage, 0, len(rows))
	for _, m := range rows {
		msgs = append(msgs, contactFromRepo(m))
	}
	return msgs, nil
}

func (s *ContactService) MarkRead(ctx context.Context, id int64) error {
	const op = "ContactService.MarkRead"

	n, err := s.store.MarkContactMessageRead(ctx, id)
	if err != nil {
		return domain.Internal(err, op, "marking message read")
	}
	if n == 0 {
		return domain.ErrContactMessageNotFound
	}
	return nil
}
