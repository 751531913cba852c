// Package pairing owns the peer connection lifecycle of one quiz session.
//
// A Channel is an explicit state machine driven by transport events, retry
// timers and manual connect/restart calls. Public operations never block
// on the network: connection progress is observed through state changes,
// and inbound messages are validated and handed to a handler in order.
package pairing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/duoquiz/internal/adapters/mq/queue"
	"github.com/okian/duoquiz/internal/adapters/mq/worker"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/protocol"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/okian/duoquiz/pkg/metrics"
)

// Channel is the pairing state machine for one participant.
type Channel struct {
	transport Transport
	role      model.Role

	maxRetries int
	retryDelay time.Duration
	autoRetry  bool
	autoStart  bool
	sendBuffer int
	inboxSize  int
	handler    worker.Handler
	onState    StateFunc
	logger     logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	sid           string
	state         State
	epoch         uint64 // bumped on every attempt and teardown; stale callbacks compare against it
	failures      int
	cause         error
	link          Link
	cancelAttempt context.CancelFunc
	timer         *time.Timer
	closed        bool

	sendMu sync.Mutex // serializes writes so frames leave in send order
	outbox *queue.InMemoryQueue[[]byte]

	inbox    *queue.InMemoryQueue[worker.Frame]
	dispatch *worker.InMemoryWorker
	states   *queue.InMemoryQueue[State]
	notified chan struct{}

	wg sync.WaitGroup
}

// NewChannel creates a channel for role over t. If a session id is given
// and auto start is on, the first attempt begins immediately.
func NewChannel(t Transport, role model.Role, opts ...Option) (*Channel, error) {
	if t == nil {
		return nil, errors.New("pairing: nil transport")
	}
	if !role.Valid() {
		return nil, fmt.Errorf("pairing: invalid role %q", role)
	}

	c := &Channel{
		transport:  t,
		role:       role,
		retryDelay: DefaultRetryDelay,
		autoRetry:  true,
		autoStart:  true,
		inboxSize:  DefaultInboxSize,
		handler:    worker.HandlerFunc(func(context.Context, protocol.Message) error { return nil }),
		onState:    func(context.Context, State) {},
		state:      StateIdle,
		notified:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logger.Get().Named("pairing")
	}
	c.logger = c.logger.Named(string(role))

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.inbox = queue.NewInMemoryQueue[worker.Frame](queue.WithCapacity(c.inboxSize), queue.WithName("inbox"))
	c.states = queue.NewInMemoryQueue[State](queue.WithCapacity(stateQueueSize), queue.WithName("states"))
	if c.sendBuffer > 0 {
		c.outbox = queue.NewInMemoryQueue[[]byte](queue.WithCapacity(c.sendBuffer), queue.WithName("outbox"))
	}
	c.dispatch = worker.NewInMemoryWorker(c.inbox, c.handler,
		worker.WithName("dispatch"),
		worker.WithLogger(c.logger.Named("dispatch")),
	)

	go c.dispatch.Run(c.ctx)
	go c.notify()

	if c.autoStart && c.sid != "" {
		if err := c.Connect(c.sid); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

// Connect starts a connection lifecycle for sid. Calling it again with the
// same id while connected or an attempt is in flight is a no-op; any other
// call tears the current link down and starts over with a fresh budget.
func (c *Channel) Connect(sid string) error {
	if sid == "" {
		return ErrNoSession
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if sid == c.sid {
		switch c.state {
		case StateConnected, StateConnecting, StateListening:
			return nil
		}
	}
	c.beginLocked(sid)
	return nil
}

// Restart forces a full teardown and a fresh attempt for the current
// session id, resetting the retry budget.
func (c *Channel) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if c.sid == "" {
		return ErrNoSession
	}
	c.beginLocked(c.sid)
	return nil
}

// Send delivers m if the channel is connected. Otherwise the message is
// buffered when a send buffer is configured, or dropped with
// ErrNotConnected. Delivery is at most once.
func (c *Channel) Send(ctx context.Context, m protocol.Message) error {
	data, err := protocol.Marshal(m)
	if err != nil {
		return err
	}
	kind := string(m.Kind())

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		metrics.RecordMessageDropped(kind, "closed")
		return ErrClosed
	}
	if c.state != StateConnected {
		state := c.state
		c.mu.Unlock()
		return c.hold(ctx, kind, data, state)
	}
	link := c.link
	c.mu.Unlock()

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.flushLocked(ctx, link)
	if err := link.Send(ctx, data); err != nil {
		metrics.RecordMessageDropped(kind, "send_failed")
		return fmt.Errorf("send %s: %w", kind, err)
	}
	metrics.RecordMessageSent(kind)
	return nil
}

func (c *Channel) hold(ctx context.Context, kind string, data []byte, state State) error {
	if c.outbox == nil {
		metrics.RecordMessageDropped(kind, "not_connected")
		c.logger.Debug(ctx, "dropping message", logger.String("kind", kind), logger.String("state", string(state)))
		return ErrNotConnected
	}
	if !c.outbox.Enqueue(ctx, data) {
		metrics.RecordMessageDropped(kind, "buffer_full")
		return ErrBufferFull
	}
	// the link may have come up while we were queueing
	if c.State() == StateConnected {
		c.flush(ctx)
	}
	return nil
}

// State returns the current state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Status returns the human-readable label of the current state.
func (c *Channel) Status() string {
	return c.State().Status()
}

// Err returns the cause of the error state, or nil.
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cause
}

// SessionID returns the session the channel is bound to.
func (c *Channel) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sid
}

// Role returns the local participant's role.
func (c *Channel) Role() model.Role {
	return c.role
}

// Close releases the link, cancels any pending retry and stops delivery.
// No callback runs after Close returns. It must not be called from the
// message handler or state listener.
func (c *Channel) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.teardownLocked()
	c.state = StateIdle
	c.mu.Unlock()

	c.wg.Wait()
	_ = c.inbox.Close()
	_ = c.states.Close()
	if c.outbox != nil {
		_ = c.outbox.Close()
	}
	c.cancel()
	<-c.dispatch.Done()
	<-c.notified
	return nil
}

func (c *Channel) dialState() State {
	if c.role == model.RoleOwner {
		return StateListening
	}
	return StateConnecting
}

func (c *Channel) beginLocked(sid string) {
	c.teardownLocked()
	c.sid = sid
	c.failures = 0
	c.cause = nil
	c.setStateLocked(c.dialState())
	c.launchLocked()
}

func (c *Channel) teardownLocked() {
	c.epoch++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancelAttempt != nil {
		c.cancelAttempt()
		c.cancelAttempt = nil
	}
	if c.link != nil {
		_ = c.link.Close()
		c.link = nil
	}
}

func (c *Channel) launchLocked() {
	if c.cancelAttempt != nil {
		c.cancelAttempt()
	}
	c.epoch++
	ctx, cancel := context.WithCancel(c.ctx)
	c.cancelAttempt = cancel

	c.wg.Add(1)
	go c.attempt(ctx, c.epoch, c.sid)
}

func (c *Channel) attempt(ctx context.Context, epoch uint64, sid string) {
	defer c.wg.Done()

	link, err := c.transport.Open(ctx, sid, c.role)
	metrics.RecordConnectAttempt(string(c.role), err != nil)

	c.mu.Lock()
	if c.closed || epoch != c.epoch {
		c.mu.Unlock()
		if link != nil {
			_ = link.Close()
		}
		return
	}
	if err != nil {
		c.failLocked(ctx, err)
		c.mu.Unlock()
		return
	}
	c.link = link
	c.failures = 0
	c.cause = nil
	c.setStateLocked(StateConnected)
	c.mu.Unlock()

	c.flush(ctx)
	c.read(ctx, epoch, link)
}

func (c *Channel) read(ctx context.Context, epoch uint64, link Link) {
	for {
		data, err := link.Receive(ctx)
		if err != nil {
			c.lost(ctx, epoch, link, err)
			return
		}
		if !c.inbox.Enqueue(ctx, worker.NewFrame(data)) {
			metrics.RecordMessageDropped("inbound", "inbox_full")
			c.logger.Warn(ctx, "inbox full, dropping frame", logger.Int("bytes", len(data)))
		}
	}
}

func (c *Channel) lost(ctx context.Context, epoch uint64, link Link, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || epoch != c.epoch || c.link != link {
		return
	}
	_ = link.Close()
	c.link = nil

	cause := fmt.Errorf("%w: %w", ErrLinkLost, err)
	c.logger.Info(ctx, "link lost", logger.Error(err))
	if !c.autoRetry {
		c.giveUpLocked(ctx, cause)
		return
	}
	c.scheduleRetryLocked(ctx)
}

func (c *Channel) failLocked(ctx context.Context, err error) {
	c.failures++
	c.logger.Debug(ctx, "attempt failed", logger.Int("failures", c.failures), logger.Error(err))

	if !c.autoRetry || (c.maxRetries > 0 && c.failures >= c.maxRetries) {
		c.giveUpLocked(ctx, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.failures, err))
		return
	}
	c.scheduleRetryLocked(ctx)
}

func (c *Channel) giveUpLocked(ctx context.Context, cause error) {
	if c.cancelAttempt != nil {
		c.cancelAttempt()
		c.cancelAttempt = nil
	}
	c.cause = cause
	c.setStateLocked(StateError)
	c.logger.Warn(ctx, "pairing failed", logger.Error(cause))
}

func (c *Channel) scheduleRetryLocked(ctx context.Context) {
	c.setStateLocked(StateRetrying)
	epoch := c.epoch
	c.timer = time.AfterFunc(c.retryDelay, func() { c.retry(epoch) })
	metrics.RecordRetryScheduled()
	c.logger.Info(ctx, "retry scheduled",
		logger.Duration("delay", c.retryDelay),
		logger.Int("failures", c.failures),
	)
}

func (c *Channel) retry(epoch uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || epoch != c.epoch {
		return
	}
	c.timer = nil
	c.launchLocked()
}

func (c *Channel) setStateLocked(to State) {
	from := c.state
	if !CanTransition(from, to) {
		if from != to {
			c.logger.Warn(c.ctx, "illegal transition", logger.String("from", string(from)), logger.String("to", string(to)))
		}
		return
	}
	c.state = to
	metrics.RecordStateTransition(string(from), string(to))
	c.logger.Debug(c.ctx, "state changed", logger.String("from", string(from)), logger.String("to", string(to)))

	if !c.states.Enqueue(c.ctx, to) {
		c.logger.Warn(c.ctx, "state listener lagging, dropping notification", logger.String("state", string(to)))
	}
}

func (c *Channel) flush(ctx context.Context) {
	if c.outbox == nil {
		return
	}
	c.mu.Lock()
	link := c.link
	c.mu.Unlock()
	if link == nil {
		return
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	c.flushLocked(ctx, link)
}

// flushLocked replays buffered frames. sendMu must be held.
func (c *Channel) flushLocked(ctx context.Context, link Link) {
	if c.outbox == nil {
		return
	}
	for {
		data, ok := c.outbox.TryDequeue()
		if !ok {
			return
		}
		if err := link.Send(ctx, data); err != nil {
			metrics.RecordMessageDropped("buffered", "send_failed")
			c.logger.Warn(ctx, "buffered send failed", logger.Error(err))
			return
		}
		metrics.RecordMessageSent("buffered")
	}
}

func (c *Channel) notify() {
	defer close(c.notified)
	for s := range c.states.Dequeue(c.ctx) {
		c.onState(c.ctx, s)
	}
}
