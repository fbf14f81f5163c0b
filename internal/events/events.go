// Package events publishes order lifecycle events to NATS so downstream
// consumers (fulfillment, analytics) can react without coupling to the API.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
)

const (
	SubjectOrderPlaced    = "orders.placed"
	SubjectOrderCancelled = "orders.cancelled"
)

// OrderPlaced is the payload for orders.placed.
type OrderPlaced struct {
	OrderID     int64           `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	UserID      int64           `json:"user_id"`
	Total       decimal.Decimal `json:"total"`
	LineCount   int             `json:"line_count"`
	PlacedAt    time.Time       `json:"placed_at"`
}

// OrderCancelled is the payload for orders.cancelled.
type OrderCancelled struct {
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      int64     `json:"user_id"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// Publisher emits domain events. Implementations must not block request
// handling on broker availability.
type Publisher interface {
	Publish(subject string, payload any) error
	Close()
}

// NATSPublisher publishes events over a NATS connection.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// NewNATSPublisher connects to the NATS server at url.
func NewNATSPublisher(url string, logger *slog.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("tienda-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	logger.Info("connected to NATS", "url", url)
	return &NATSPublisher{conn: conn, logger: logger}, nil
}

func (p *NATSPublisher) Publish(subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling event payload: %w", err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publishing %s: %w", subject, err)
	}
	return nil
}

func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("draining nats connection", "error", err)
	}
}

// NoopPublisher is used when NATS_URL is not configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(string, any) error { return nil }
func (NoopPublisher) Close()                    {}
