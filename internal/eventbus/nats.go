// Package eventbus publishes generation outcome events to NATS.
package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/domaingen/api/internal/models"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// conn is the subset of *nats.Conn the publisher uses
type conn interface {
	Publish(subject string, data []byte) error
	Close()
}

// Publisher sends one message per finished generation request to
// <prefix>.<status>. A nil *Publisher discards events.
type Publisher struct {
	conn   conn
	prefix string
	logger *zap.Logger
}

// Connect dials the NATS server at url
func Connect(url, prefix string, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("domaingen-api"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(3),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	logger.Info("NATS publisher initialized", zap.String("url", nc.ConnectedUrl()), zap.String("prefix", prefix))
	return newPublisher(nc, prefix, logger), nil
}

func newPublisher(c conn, prefix string, logger *zap.Logger) *Publisher {
	return &Publisher{conn: c, prefix: prefix, logger: logger}
}

// Subject returns the subject an event with the given status is published on
func (p *Publisher) Subject(status models.GenerationStatus) string {
	return p.prefix + "." + string(status)
}

// PublishGeneration encodes the event as JSON and publishes it
func (p *Publisher) PublishGeneration(ctx context.Context, event models.GenerationEvent) error {
	if p == nil || p.conn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode generation event: %w", err)
	}
	if err := p.conn.Publish(p.Subject(event.Status), data); err != nil {
		return fmt.Errorf("failed to publish generation event: %w", err)
	}
	return nil
}

// Close closes the underlying connection
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	p.conn.Close()
}
