package pairing

import (
	"context"
	"time"

	"github.com/okian/duoquiz/internal/adapters/mq/worker"
	"github.com/okian/duoquiz/pkg/logger"
)

// Default channel configuration.
const (
	DefaultRetryDelay = 1500 * time.Millisecond
	DefaultInboxSize  = 64
	stateQueueSize    = 64
)

// StateFunc observes state changes. Calls are made in transition order from
// a single goroutine.
type StateFunc func(ctx context.Context, s State)

// Option applies a configuration option to a Channel.
type Option func(*Channel)

// WithMaxRetries bounds consecutive failed attempts before the channel
// gives up. Zero retries forever.
func WithMaxRetries(n int) Option {
	return func(c *Channel) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithRetryDelay sets the constant delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Channel) {
		if d > 0 {
			c.retryDelay = d
		}
	}
}

// WithAutoRetry toggles automatic reconnects. When off, the first failure
// is terminal.
func WithAutoRetry(on bool) Option {
	return func(c *Channel) {
		c.autoRetry = on
	}
}

// WithSessionID sets the session id known at construction time.
func WithSessionID(sid string) Option {
	return func(c *Channel) {
		c.sid = sid
	}
}

// WithAutoStart makes the channel connect as soon as a session id is known.
func WithAutoStart(on bool) Option {
	return func(c *Channel) {
		c.autoStart = on
	}
}

// WithHandler sets the inbound message handler.
func WithHandler(h worker.Handler) Option {
	return func(c *Channel) {
		if h != nil {
			c.handler = h
		}
	}
}

// WithStateListener registers a state observer.
func WithStateListener(fn StateFunc) Option {
	return func(c *Channel) {
		if fn != nil {
			c.onState = fn
		}
	}
}

// WithSendBuffer enables a bounded outbound buffer replayed in order on the
// next connect. Zero drops messages sent while disconnected.
func WithSendBuffer(n int) Option {
	return func(c *Channel) {
		if n >= 0 {
			c.sendBuffer = n
		}
	}
}

// WithInboxSize sets the inbound frame queue capacity.
func WithInboxSize(n int) Option {
	return func(c *Channel) {
		if n > 0 {
			c.inboxSize = n
		}
	}
}

// WithLogger sets a custom logger for the channel.
func WithLogger(l logger.Logger) Option {
	return func(c *Channel) {
		if l != nil {
			c.logger = l
		}
	}
}
