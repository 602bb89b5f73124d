package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects for listing lifecycle events.
const (
	SubjectPropertyCreated  = "listings.property.created"
	SubjectPropertyUpdated  = "listings.property.updated"
	SubjectPropertyDeleted  = "listings.property.deleted"
	SubjectPropertiesClear  = "listings.property.cleared"
	SubjectActivityRecorded = "listings.customer.activity"
)

// PropertyEvent is published on property lifecycle changes.
type PropertyEvent struct {
	EventType  string    `json:"event_type"`
	PropertyID string    `json:"property_id,omitempty"`
	AgentID    string    `json:"agent_id,omitempty"`
	Title      string    `json:"title,omitempty"`
	Count      int64     `json:"count,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ActivityEvent is published when a customer activity is recorded.
type ActivityEvent struct {
	EventType    string    `json:"event_type"`
	UserID       string    `json:"user_id"`
	ActivityType string    `json:"activity_type"`
	Points       int       `json:"points"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher publishes listing events to NATS. A nil *Publisher is valid and
// drops events, so the service runs without a broker.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewPublisher connects to NATS. Connection failures at startup are retried
// in the background rather than failing the service.
func NewPublisher(url string, logger *logrus.Logger) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{
		conn:   conn,
		logger: logger.WithField("component", "events.publisher"),
	}, nil
}

// Publish sends one event. Publishing is best-effort: failures are logged,
// never surfaced to the request path.
func (p *Publisher) Publish(subject string, event interface{}) {
	if p == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to marshal event")
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("Failed to publish event")
	}
}

// IsConnected reports whether the NATS connection is up.
func (p *Publisher) IsConnected() bool {
	return p != nil && p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}
