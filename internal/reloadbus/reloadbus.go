// Package reloadbus wires an optional NATS subscription that triggers
// an index reload whenever a message arrives on the configured
// subject, for deployments that push a "new index is ready" event
// instead of relying on the mtime-poll watcher or SIGUSR1.
package reloadbus

import (
	"context"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/pombredanne/prefix-match-server/internal/config"
	"github.com/pombredanne/prefix-match-server/internal/index"
	"github.com/pombredanne/prefix-match-server/internal/server"
	"github.com/pombredanne/prefix-match-server/pkg/xlog"
)

// Bus holds the NATS connection and subscription backing a reload
// trigger. The zero value is unconnected; Connect must succeed before
// Close is meaningful.
type Bus struct {
	mu   sync.Mutex
	conn *nats.Conn
	sub  *nats.Subscription
}

// Connect dials cfg.Extra.NATS.URL and subscribes cfg.Extra.NATS.Subject,
// calling registry.Reload with an empty path (the configured default)
// on every message. A disabled config is a no-op returning a nil *Bus.
func Connect(cfg config.Settings, registry *index.Registry, metrics *server.Metrics) (*Bus, error) {
	nc := cfg.Extra.NATS
	if !nc.Enabled {
		return nil, nil
	}
	if nc.URL == "" {
		return nil, fmt.Errorf("reloadbus: nats enabled but no url configured")
	}
	if nc.Subject == "" {
		return nil, fmt.Errorf("reloadbus: nats enabled but no subject configured")
	}

	conn, err := nats.Connect(nc.URL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				xlog.Warnf("reloadbus: disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			xlog.Notef("reloadbus: reconnected to %s", c.ConnectedUrl())
		}),
		nats.ErrorHandler(func(_ *nats.Conn, _ *nats.Subscription, err error) {
			xlog.Errorf("reloadbus: %v", err)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("reloadbus: connect: %w", err)
	}

	b := &Bus{conn: conn}
	sub, err := conn.Subscribe(nc.Subject, func(msg *nats.Msg) {
		path := string(msg.Data)
		if err := registry.Reload(context.Background(), path); err != nil {
			xlog.Warnf("reloadbus: reload %q: %v", path, err)
			return
		}
		metrics.ReloadCompleted()
		xlog.Notef("reloadbus: reloaded index from %q", registry.ActivePath())
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("reloadbus: subscribe %q: %w", nc.Subject, err)
	}
	b.sub = sub

	xlog.Infof("reloadbus: subscribed to %q on %s", nc.Subject, nc.URL)
	return b, nil
}

// Close unsubscribes and closes the underlying NATS connection. Safe to
// call on a nil *Bus.
func (b *Bus) Close() {
	if b == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		b.sub.Unsubscribe()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
