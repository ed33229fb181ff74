package messaging

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Narendra1431-dot/Portfolio-web-development/common/metrics"
	"github.com/Narendra1431-dot/Portfolio-web-development/internal/contact"

	"github.com/nats-io/nats.go"
)

// Publisher sends contact events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewPublisher(url string, subject string, logger *slog.Logger, m *metrics.Metrics) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("portfolio-service"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, err
	}

	logger.Info("NATS publisher initialized", "url", url, "subject", subject)

	return &Publisher{
		conn:    nc,
		subject: subject,
		logger:  logger,
		metrics: m,
	}, nil
}

func (p *Publisher) NotifyContactSubmitted(ctx context.Context, event contact.SubmittedEvent) error {
	valueBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to marshal event", "error", err)
		return err
	}

	start := time.Now()
	err = p.conn.Publish(p.subject, valueBytes)
	p.metrics.Messaging.RecordPublish(ctx, "nats", p.subject, time.Since(start), err)
	if err != nil {
		p.logger.ErrorContext(ctx, "failed to send event to NATS", "error", err)
		return err
	}

	p.logger.InfoContext(ctx, "event sent to NATS", "subject", p.subject, "id", event.ID)
	return nil
}

// Close flushes pending events and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
