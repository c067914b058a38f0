package invalidation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Haleralex/jobportal/internal/application/ports"
)

// NATSConfig configures the NATS sink.
type NATSConfig struct {
	URL     string
	Subject string
	Name    string
}

type natsConn interface {
	Publish(subject string, data []byte) error
	Drain() error
}

// NATSPublisher publishes each path on a NATS subject.
type NATSPublisher struct {
	conn    natsConn
	subject string
	logger  *slog.Logger
}

var _ ports.Invalidator = (*NATSPublisher)(nil)

// NewNATSPublisher connects to NATS. The client reconnects on its own.
func NewNATSPublisher(cfg NATSConfig, log *slog.Logger) (*NATSPublisher, error) {
	if log == nil {
		log = slog.Default()
	}
	conn, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("NATS disconnected", slog.String("error", err.Error()))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", slog.String("url", nc.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return newNATSPublisher(conn, cfg, log), nil
}

func newNATSPublisher(conn natsConn, cfg NATSConfig, log *slog.Logger) *NATSPublisher {
	if log == nil {
		log = slog.Default()
	}
	return &NATSPublisher{conn: conn, subject: cfg.Subject, logger: log}
}

// Invalidate publishes path. NATS buffers the message, so this never blocks on the network.
func (p *NATSPublisher) Invalidate(ctx context.Context, path string) {
	err := p.conn.Publish(p.subject, []byte(path))
	report(ctx, p.logger, "nats", path, err)
}

// Close flushes buffered messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
