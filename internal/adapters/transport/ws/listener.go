// Package ws is the network pairing transport. The owner serves
// GET /pair/{sid} and waits for the guest to dial it.
package ws

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/okian/duoquiz/internal/adapters/pairing"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/pkg/logger"
)

// PathPrefix is where the listener is mounted.
const PathPrefix = "/pair/"

type waiter struct {
	conns chan *websocket.Conn
	done  chan struct{}
	once  sync.Once
}

func (w *waiter) cancel() {
	w.once.Do(func() { close(w.done) })
}

// Listener accepts guest connections for sessions with a pending Open.
type Listener struct {
	mu           sync.Mutex
	waiting      map[string]*waiter
	upgrader     websocket.Upgrader
	writeTimeout time.Duration
	logger       logger.Logger
}

// Option configures a Listener or Dialer.
type Option func(*options)

type options struct {
	writeTimeout time.Duration
	logger       logger.Logger
	dialer       *websocket.Dialer
}

// WithWriteTimeout bounds each frame write.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.writeTimeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDialer replaces the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(o *options) {
		if d != nil {
			o.dialer = d
		}
	}
}

func resolve(opts []Option) options {
	o := options{writeTimeout: defaultWriteTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("ws")
	}
	return o
}

// NewListener creates the owner side transport.
func NewListener(opts ...Option) *Listener {
	o := resolve(opts)
	return &Listener{
		waiting: make(map[string]*waiter),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		writeTimeout: o.writeTimeout,
		logger:       o.logger,
	}
}

var _ pairing.Transport = (*Listener)(nil)

// Open waits for a guest to dial sid.
func (l *Listener) Open(ctx context.Context, sid string, role model.Role) (pairing.Link, error) {
	if role != model.RoleOwner {
		return nil, fmt.Errorf("%w: %s", ErrWrongRole, role)
	}
	w := &waiter{conns: make(chan *websocket.Conn), done: make(chan struct{})}

	l.mu.Lock()
	if old, ok := l.waiting[sid]; ok {
		old.cancel()
	}
	l.waiting[sid] = w
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		if l.waiting[sid] == w {
			delete(l.waiting, sid)
		}
		w.cancel()
		l.mu.Unlock()
	}()

	select {
	case c := <-w.conns:
		return newConn(c, l.writeTimeout), nil
	case <-w.done:
		return nil, fmt.Errorf("listener for %s replaced", sid)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Waiting reports whether an Open is pending for sid.
func (l *Listener) Waiting(sid string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.waiting[sid]
	return ok
}

// ServeHTTP upgrades a guest connection and hands it to the pending Open.
func (l *Listener) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sid := r.PathValue("sid")
	if sid == "" {
		sid = path.Base(r.URL.Path)
	}

	l.mu.Lock()
	wt, ok := l.waiting[sid]
	if ok {
		delete(l.waiting, sid)
	}
	l.mu.Unlock()
	if !ok {
		http.Error(w, "no host waiting for this session", http.StatusConflict)
		return
	}

	c, err := l.upgrader.Upgrade(w, r, nil)
	if err != nil {
		l.logger.Warn(r.Context(), "upgrade failed", logger.String("sid", sid), logger.Error(err))
		l.mu.Lock()
		select {
		case <-wt.done:
		default:
			if _, taken := l.waiting[sid]; !taken {
				l.waiting[sid] = wt
			}
		}
		l.mu.Unlock()
		return
	}

	select {
	case wt.conns <- c:
		l.logger.Debug(r.Context(), "guest attached", logger.String("sid", sid))
	case <-wt.done:
		_ = c.Close()
	}
}
