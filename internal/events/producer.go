// Package events publishes employee change notifications to NATS. Downstream
// consumers (badge printing, onboarding automation) subscribe to
// <prefix>.created|updated|deleted.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"employee-service/internal/employee"

	"github.com/nats-io/nats.go"
)

type EmployeeEvent struct {
	Action string    `json:"action"`
	ID     int64     `json:"id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	At     time.Time `json:"at"`
}

type Producer struct {
	conn          *nats.Conn
	subjectPrefix string
	logger        *slog.Logger
}

func NewProducer(url string, subjectPrefix string, logger *slog.Logger) (*Producer, error) {
	nc, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS producer initialized", "url", url, "subject_prefix", subjectPrefix)

	return &Producer{
		conn:          nc,
		subjectPrefix: subjectPrefix,
		logger:        logger,
	}, nil
}

// Publish sends one change event. Failures are logged and swallowed; events
// are best-effort and never fail the originating request.
func (p *Producer) Publish(ctx context.Context, action string, e *employee.Employee) {
	event := EmployeeEvent{
		Action: action,
		ID:     e.ID,
		Email:  e.Email,
		Name:   e.Name,
		At:     time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return
	}

	subject := p.subjectPrefix + "." + action
	if err := p.conn.Publish(subject, payload); err != nil {
		p.logger.ErrorContext(ctx, "failed to publish event", "subject", subject, "error", err)
		return
	}

	p.logger.InfoContext(ctx, "event published", "subject", subject, "id", e.ID)
}

func (p *Producer) Close() error {
	p.conn.Close()
	return nil
}
