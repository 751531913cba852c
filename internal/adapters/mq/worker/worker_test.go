package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/duoquiz/internal/adapters/mq/queue"
	"github.com/okian/duoquiz/internal/adapters/mq/worker"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/protocol"
	logging "github.com/okian/duoquiz/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	_ = logging.Init()
}

type recorder struct {
	mu   sync.Mutex
	msgs []protocol.Message
	err  error
}

func (r *recorder) Handle(_ context.Context, msg protocol.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return r.err
}

func (r *recorder) seen() []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]protocol.Message(nil), r.msgs...)
}

func frame(m protocol.Message) worker.Frame {
	data, err := protocol.Marshal(m)
	if err != nil {
		panic(err)
	}
	return worker.NewFrame(data)
}

func TestInMemoryWorker(t *testing.T) {
	convey.Convey("Given a worker reading an inbox", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		inbox := queue.NewInMemoryQueue[worker.Frame](queue.WithCapacity(16), queue.WithName("inbox"))
		rec := &recorder{}
		w := worker.NewInMemoryWorker(inbox, rec, worker.WithName("dispatch"), worker.WithLogger(logging.Nop()))

		convey.Convey("When valid and invalid frames are queued", func() {
			answers := model.NewUserAnswers(map[int]int{1: 3, 2: 4})
			inbox.Enqueue(ctx, frame(protocol.AnswerSummary{Answers: answers}))
			inbox.Enqueue(ctx, worker.NewFrame([]byte(`{"kind":"HELLO","payload":1}`)))
			inbox.Enqueue(ctx, worker.NewFrame([]byte(`not json`)))
			inbox.Enqueue(ctx, frame(protocol.PairResult{ResultID: 1043}))
			_ = inbox.Close()

			w.Run(ctx)

			convey.Convey("Then only valid messages reach the handler, in order", func() {
				got := rec.seen()
				convey.So(got, convey.ShouldHaveLength, 2)
				convey.So(got[0].Kind(), convey.ShouldEqual, protocol.KindAnswerSummary)
				convey.So(got[1], convey.ShouldResemble, protocol.PairResult{ResultID: 1043})
			})
		})

		convey.Convey("When the handler fails", func() {
			rec.err = errors.New("boom")
			inbox.Enqueue(ctx, frame(protocol.PairResult{ResultID: 2011}))
			inbox.Enqueue(ctx, frame(protocol.PairResult{ResultID: 2012}))
			_ = inbox.Close()

			w.Run(ctx)

			convey.Convey("Then the worker keeps dispatching", func() {
				convey.So(rec.seen(), convey.ShouldHaveLength, 2)
			})
		})

		convey.Convey("When the worker is shut down", func() {
			go w.Run(ctx)

			sctx, scancel := context.WithTimeout(context.Background(), time.Second)
			defer scancel()

			convey.Convey("Then Run returns and a second shutdown is harmless", func() {
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
				convey.So(w.Shutdown(sctx), convey.ShouldBeNil)
				select {
				case <-w.Done():
				default:
					convey.So("worker still running", convey.ShouldBeEmpty)
				}
			})
		})

		convey.Convey("When shutdown outlives its deadline", func() {
			blocked := worker.HandlerFunc(func(ctx context.Context, _ protocol.Message) error {
				<-ctx.Done()
				return ctx.Err()
			})
			slow := worker.NewInMemoryWorker(inbox, blocked, worker.WithLogger(logging.Nop()))
			inbox.Enqueue(ctx, frame(protocol.PairResult{ResultID: 1011}))
			go slow.Run(ctx)

			time.Sleep(20 * time.Millisecond)
			sctx, scancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer scancel()

			convey.Convey("Then it reports the timeout", func() {
				convey.So(slow.Shutdown(sctx), convey.ShouldNotBeNil)
				cancel()
				<-slow.Done()
			})
		})
	})
}
