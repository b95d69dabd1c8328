package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ericman314/pinewood-server/internal/platform/logger"
)

type NATSConfig struct {
	URL           string
	Subject       string
	MaxReconnect  int
	ReconnectWait time.Duration
}

type natsBus struct {
	log     *logger.Logger
	conn    *nats.Conn
	subject string
}

func NewNATSBus(log *logger.Logger, cfg NATSConfig) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		url = nats.DefaultURL
	}
	subject := strings.TrimSpace(cfg.Subject)
	if subject == "" {
		subject = "pinewood.updates"
	}
	if cfg.ReconnectWait == 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	busLog := log.With("service", "NATSUpdateBus")

	conn, err := nats.Connect(url,
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				busLog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			busLog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			busLog.Warn("NATS connection closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	busLog.Info("Connected to NATS", "url", url, "subject", subject)

	return &natsBus{log: busLog, conn: conn, subject: subject}, nil
}

func (b *natsBus) Publish(ctx context.Context, env Envelope) error {
	if b == nil || b.conn == nil {
		return fmt.Errorf("nats update bus not initialized")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if err := b.conn.Publish(b.subject, raw); err != nil {
		return fmt.Errorf("publish to NATS: %w", err)
	}
	return nil
}

func (b *natsBus) StartForwarder(ctx context.Context, onMsg func(env Envelope)) error {
	if b == nil || b.conn == nil {
		return fmt.Errorf("nats update bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	sub, err := b.conn.Subscribe(b.subject, func(m *nats.Msg) {
		var env Envelope
		if err := json.Unmarshal(m.Data, &env); err != nil {
			b.log.Warn("bad NATS update payload", "error", err)
			return
		}
		onMsg(env)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}
	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	return nil
}

func (b *natsBus) Close() error {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.Drain()
}
