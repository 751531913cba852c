// Package memory is an in-process pairing transport. The owner listens on a
// session id and the guest dials it; both ends live in the same process.
package memory

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/duoquiz/internal/adapters/pairing"
	"github.com/okian/duoquiz/internal/domain/model"
)

const defaultLinkBuffer = 64

var (
	// ErrPeerUnavailable is returned to a dialer when nobody listens on the id.
	ErrPeerUnavailable = errors.New("peer unavailable")
	// ErrLinkClosed is returned by link operations after either end closed.
	ErrLinkClosed = errors.New("link closed")
)

// Hub pairs listeners and dialers by session id.
type Hub struct {
	mu      sync.Mutex
	waiting map[string]chan *end
	live    map[string]*pipe
	buffer  int
}

// Option configures a Hub.
type Option func(*Hub)

// WithLinkBuffer sets how many frames may be in flight per direction.
func WithLinkBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

// NewHub creates an empty hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		waiting: make(map[string]chan *end),
		live:    make(map[string]*pipe),
		buffer:  defaultLinkBuffer,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ pairing.Transport = (*Hub)(nil)

// Open implements pairing.Transport.
func (h *Hub) Open(ctx context.Context, sid string, role model.Role) (pairing.Link, error) {
	switch role {
	case model.RoleOwner:
		return h.listen(ctx, sid)
	case model.RoleGuest:
		return h.dial(sid)
	default:
		return nil, fmt.Errorf("memory: invalid role %q", role)
	}
}

// Listening reports whether a listener is waiting on sid.
func (h *Hub) Listening(sid string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.waiting[sid]
	return ok
}

// Drop severs the live link for sid, if any. Both ends see the link as lost.
func (h *Hub) Drop(sid string) bool {
	h.mu.Lock()
	p, ok := h.live[sid]
	delete(h.live, sid)
	h.mu.Unlock()
	if ok {
		p.close()
	}
	return ok
}

func (h *Hub) listen(ctx context.Context, sid string) (pairing.Link, error) {
	ch := make(chan *end, 1)
	h.mu.Lock()
	h.waiting[sid] = ch
	h.mu.Unlock()

	select {
	case e := <-ch:
		return e, nil
	case <-ctx.Done():
		h.mu.Lock()
		if h.waiting[sid] == ch {
			delete(h.waiting, sid)
		}
		h.mu.Unlock()
		// a dialer may have raced the cancellation
		select {
		case e := <-ch:
			_ = e.Close()
		default:
		}
		return nil, ctx.Err()
	}
}

func (h *Hub) dial(sid string) (pairing.Link, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.waiting[sid]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPeerUnavailable, sid)
	}
	delete(h.waiting, sid)

	p := newPipe(h.buffer)
	if old, ok := h.live[sid]; ok {
		old.close()
	}
	h.live[sid] = p
	ch <- p.listener
	return p.dialer, nil
}

type pipe struct {
	listener *end
	dialer   *end
	done     chan struct{}
	once     sync.Once
}

func newPipe(buffer int) *pipe {
	a := make(chan []byte, buffer)
	b := make(chan []byte, buffer)
	p := &pipe{done: make(chan struct{})}
	p.listener = &end{in: a, out: b, p: p}
	p.dialer = &end{in: b, out: a, p: p}
	return p
}

func (p *pipe) close() {
	p.once.Do(func() { close(p.done) })
}

type end struct {
	in  <-chan []byte
	out chan<- []byte
	p   *pipe
}

func (e *end) Send(ctx context.Context, frame []byte) error {
	select {
	case <-e.p.done:
		return ErrLinkClosed
	default:
	}
	select {
	case e.out <- slices.Clone(frame):
		return nil
	case <-e.p.done:
		return ErrLinkClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *end) Receive(ctx context.Context) ([]byte, error) {
	select {
	case f := <-e.in:
		return f, nil
	case <-e.p.done:
		return nil, ErrLinkClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *end) Close() error {
	e.p.close()
	return nil
}
