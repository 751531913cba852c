// Package worker dispatches inbound pairing frames to a message handler.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/duoquiz/internal/domain/protocol"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/okian/duoquiz/pkg/metrics"
)

// Frame is one raw inbound message with its arrival time.
type Frame struct {
	Data     []byte
	Received time.Time
}

// NewFrame stamps data with the current time.
func NewFrame(data []byte) Frame {
	return Frame{Data: data, Received: time.Now()}
}

// Handler consumes validated protocol messages.
type Handler interface {
	Handle(ctx context.Context, msg protocol.Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg protocol.Message) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, msg protocol.Message) error {
	return f(ctx, msg)
}

// Queue defines how workers receive frames.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Frame
}

// Worker processes frames in arrival order.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker and waits for the current frame to finish.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker is a single sequential dispatcher. Frames are handled one
// at a time so messages reach the handler in the order they arrived.
type InMemoryWorker struct {
	queue   Queue
	handler Handler
	name    string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, handler Handler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		handler:  handler,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	frames := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case f, ok := <-frames:
			if !ok {
				return
			}
			if err := w.process(ctx, f); err != nil {
				w.logger.Error(ctx, "error handling message", logger.Error(err))
			}
		}
	}
}

// Done is closed once Run has returned.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, f Frame) error {
	msg, err := protocol.ParseErr(f.Data)
	if err != nil {
		metrics.RecordMessageDiscarded()
		w.logger.Debug(ctx, "discarding frame", logger.Int("bytes", len(f.Data)), logger.Error(err))
		return nil
	}

	defer func() {
		metrics.RecordMessageReceived(string(msg.Kind()), time.Since(f.Received))
	}()

	if err := w.handler.Handle(ctx, msg); err != nil {
		metrics.RecordErrorByComponent("worker", "handler_error")
		return fmt.Errorf("handle %s: %w", msg.Kind(), err)
	}
	return nil
}
