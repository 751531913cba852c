package pairing_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/duoquiz/internal/adapters/mq/worker"
	"github.com/okian/duoquiz/internal/adapters/pairing"
	"github.com/okian/duoquiz/internal/adapters/transport/memory"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/protocol"
	"github.com/okian/duoquiz/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func init() {
	_ = logger.Init()
}

var errDial = errors.New("dial refused")

type fakeLink struct {
	in     chan []byte
	sent   chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeLink() *fakeLink {
	return &fakeLink{in: make(chan []byte, 16), sent: make(chan []byte, 16), closed: make(chan struct{})}
}

func (l *fakeLink) Send(ctx context.Context, frame []byte) error {
	select {
	case <-l.closed:
		return errors.New("closed")
	case l.sent <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *fakeLink) Receive(ctx context.Context) ([]byte, error) {
	select {
	case f := <-l.in:
		return f, nil
	case <-l.closed:
		return nil, errors.New("closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *fakeLink) Close() error {
	l.once.Do(func() { close(l.closed) })
	return nil
}

type fakeTransport struct {
	mu    sync.Mutex
	opens int
	fail  bool
	links chan *fakeLink
}

func newFakeTransport(fail bool) *fakeTransport {
	return &fakeTransport{fail: fail, links: make(chan *fakeLink, 16)}
}

func (f *fakeTransport) Open(_ context.Context, _ string, _ model.Role) (pairing.Link, error) {
	f.mu.Lock()
	f.opens++
	fail := f.fail
	f.mu.Unlock()
	if fail {
		return nil, errDial
	}
	l := newFakeLink()
	f.links <- l
	return l, nil
}

func (f *fakeTransport) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func (f *fakeTransport) SetFail(fail bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = fail
}

type stateLog struct {
	mu     sync.Mutex
	states []pairing.State
}

func (s *stateLog) record(_ context.Context, st pairing.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = append(s.states, st)
}

func (s *stateLog) all() []pairing.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]pairing.State(nil), s.states...)
}

func eventually(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(2 * time.Millisecond)
	}
	return cond()
}

func newChannel(t pairing.Transport, role model.Role, opts ...pairing.Option) *pairing.Channel {
	opts = append([]pairing.Option{
		pairing.WithLogger(logger.Nop()),
		pairing.WithRetryDelay(5 * time.Millisecond),
	}, opts...)
	ch, err := pairing.NewChannel(t, role, opts...)
	So(err, ShouldBeNil)
	return ch
}

func TestConnect(t *testing.T) {
	Convey("Given an always-succeeding transport", t, func() {
		tr := newFakeTransport(false)
		states := &stateLog{}
		ch := newChannel(tr, model.RoleGuest, pairing.WithStateListener(states.record))
		Reset(func() { _ = ch.Close() })

		So(ch.State(), ShouldEqual, pairing.StateIdle)
		So(ch.Status(), ShouldEqual, "Idle")

		Convey("When connect is called", func() {
			So(ch.Connect("sid-1"), ShouldBeNil)

			Convey("Then the channel reaches connected", func() {
				So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
				So(ch.Status(), ShouldEqual, "Connected")
				So(ch.SessionID(), ShouldEqual, "sid-1")
				So(ch.Err(), ShouldBeNil)
				So(eventually(func() bool { return len(states.all()) == 2 }), ShouldBeTrue)
				So(states.all(), ShouldResemble, []pairing.State{pairing.StateConnecting, pairing.StateConnected})
			})

			Convey("Then connecting again with the same id is a no-op", func() {
				So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
				So(ch.Connect("sid-1"), ShouldBeNil)
				So(tr.Opens(), ShouldEqual, 1)
			})

			Convey("Then connecting with a new id starts over", func() {
				So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
				So(ch.Connect("sid-2"), ShouldBeNil)
				So(eventually(func() bool { return tr.Opens() == 2 && ch.State() == pairing.StateConnected }), ShouldBeTrue)
				So(ch.SessionID(), ShouldEqual, "sid-2")
			})
		})

		Convey("Connect without an id is rejected", func() {
			So(errors.Is(ch.Connect(""), pairing.ErrNoSession), ShouldBeTrue)
			So(errors.Is(ch.Restart(), pairing.ErrNoSession), ShouldBeTrue)
		})
	})

	Convey("Given an owner with a session id and auto start", t, func() {
		tr := newFakeTransport(false)
		ch := newChannel(tr, model.RoleOwner, pairing.WithSessionID("sid-9"))
		Reset(func() { _ = ch.Close() })

		Convey("Then it connects without an explicit call", func() {
			So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
			So(ch.Role(), ShouldEqual, model.RoleOwner)
		})
	})

	Convey("Given auto start disabled", t, func() {
		tr := newFakeTransport(false)
		ch := newChannel(tr, model.RoleOwner, pairing.WithSessionID("sid-9"), pairing.WithAutoStart(false))
		Reset(func() { _ = ch.Close() })

		time.Sleep(20 * time.Millisecond)
		So(ch.State(), ShouldEqual, pairing.StateIdle)
		So(tr.Opens(), ShouldEqual, 0)

		Convey("Restart starts the owner listening", func() {
			So(ch.Restart(), ShouldBeNil)
			So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
		})
	})

	Convey("Invalid construction is rejected", t, func() {
		_, err := pairing.NewChannel(nil, model.RoleOwner)
		So(err, ShouldNotBeNil)
		_, err = pairing.NewChannel(newFakeTransport(false), model.Role("x"))
		So(err, ShouldNotBeNil)
	})
}

func TestRetries(t *testing.T) {
	Convey("Given an always-failing transport with a bounded budget", t, func() {
		tr := newFakeTransport(true)
		ch := newChannel(tr, model.RoleGuest, pairing.WithMaxRetries(3))
		Reset(func() { _ = ch.Close() })

		So(ch.Connect("sid"), ShouldBeNil)

		Convey("Then the channel errors after exactly maxRetries attempts", func() {
			So(eventually(func() bool { return ch.State() == pairing.StateError }), ShouldBeTrue)
			time.Sleep(30 * time.Millisecond)
			So(tr.Opens(), ShouldEqual, 3)
			So(errors.Is(ch.Err(), pairing.ErrRetriesExhausted), ShouldBeTrue)
			So(errors.Is(ch.Err(), errDial), ShouldBeTrue)
			So(ch.Status(), ShouldEqual, "An error occurred")
		})

		Convey("Then a manual restart resets the budget", func() {
			So(eventually(func() bool { return ch.State() == pairing.StateError }), ShouldBeTrue)
			tr.SetFail(false)
			So(ch.Restart(), ShouldBeNil)
			So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
			So(ch.Err(), ShouldBeNil)
		})

		Convey("Then connect with the same id recovers from error", func() {
			So(eventually(func() bool { return ch.State() == pairing.StateError }), ShouldBeTrue)
			tr.SetFail(false)
			So(ch.Connect("sid"), ShouldBeNil)
			So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
		})
	})

	Convey("Given an unlimited budget", t, func() {
		tr := newFakeTransport(true)
		ch := newChannel(tr, model.RoleGuest, pairing.WithMaxRetries(0), pairing.WithRetryDelay(time.Millisecond))
		Reset(func() { _ = ch.Close() })

		So(ch.Connect("sid"), ShouldBeNil)

		Convey("Then it keeps retrying and never errors on its own", func() {
			So(eventually(func() bool { return tr.Opens() > 20 }), ShouldBeTrue)
			So(ch.State(), ShouldNotEqual, pairing.StateError)
			So(ch.Err(), ShouldBeNil)
		})
	})

	Convey("Given automatic retry disabled", t, func() {
		tr := newFakeTransport(true)
		ch := newChannel(tr, model.RoleGuest, pairing.WithAutoRetry(false))
		Reset(func() { _ = ch.Close() })

		So(ch.Connect("sid"), ShouldBeNil)
		So(eventually(func() bool { return ch.State() == pairing.StateError }), ShouldBeTrue)
		So(tr.Opens(), ShouldEqual, 1)
	})
}

func TestLinkLoss(t *testing.T) {
	Convey("Given a connected channel", t, func() {
		tr := newFakeTransport(false)
		states := &stateLog{}
		ch := newChannel(tr, model.RoleOwner, pairing.WithStateListener(states.record))
		Reset(func() { _ = ch.Close() })

		So(ch.Connect("sid"), ShouldBeNil)
		first := <-tr.links
		So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)

		Convey("When the link drops", func() {
			_ = first.Close()

			Convey("Then it retries and reconnects", func() {
				So(eventually(func() bool { return tr.Opens() == 2 && ch.State() == pairing.StateConnected }), ShouldBeTrue)
				So(eventually(func() bool { return len(states.all()) == 4 }), ShouldBeTrue)
				So(states.all(), ShouldResemble, []pairing.State{
					pairing.StateListening, pairing.StateConnected, pairing.StateRetrying, pairing.StateConnected,
				})
			})
		})
	})

	Convey("Given a connected channel without automatic retry", t, func() {
		tr := newFakeTransport(false)
		ch := newChannel(tr, model.RoleGuest, pairing.WithAutoRetry(false))
		Reset(func() { _ = ch.Close() })

		So(ch.Connect("sid"), ShouldBeNil)
		link := <-tr.links
		So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
		_ = link.Close()

		So(eventually(func() bool { return ch.State() == pairing.StateError }), ShouldBeTrue)
		So(errors.Is(ch.Err(), pairing.ErrLinkLost), ShouldBeTrue)
	})
}

func TestSend(t *testing.T) {
	ctx := context.Background()
	msg := protocol.PairResult{ResultID: 1044}

	Convey("Given a channel that is not connected", t, func() {
		tr := newFakeTransport(true)
		ch := newChannel(tr, model.RoleGuest, pairing.WithAutoRetry(false))
		Reset(func() { _ = ch.Close() })

		Convey("Sending is dropped without panicking", func() {
			So(func() { _ = ch.Send(ctx, msg) }, ShouldNotPanic)
			So(errors.Is(ch.Send(ctx, msg), pairing.ErrNotConnected), ShouldBeTrue)
		})

		Convey("Dropped messages never reach the peer after connecting", func() {
			_ = ch.Send(ctx, msg)
			tr.SetFail(false)
			So(ch.Connect("sid"), ShouldBeNil)
			link := <-tr.links
			So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
			time.Sleep(10 * time.Millisecond)
			So(len(link.sent), ShouldEqual, 0)
		})
	})

	Convey("Given a connected channel", t, func() {
		tr := newFakeTransport(false)
		ch := newChannel(tr, model.RoleGuest)
		Reset(func() { _ = ch.Close() })
		So(ch.Connect("sid"), ShouldBeNil)
		link := <-tr.links
		So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)

		Convey("Messages leave in send order", func() {
			for id := 1011; id <= 1014; id++ {
				So(ch.Send(ctx, protocol.PairResult{ResultID: id}), ShouldBeNil)
			}
			for id := 1011; id <= 1014; id++ {
				m, ok := protocol.Parse(<-link.sent)
				So(ok, ShouldBeTrue)
				So(m, ShouldResemble, protocol.PairResult{ResultID: id})
			}
		})
	})

	Convey("Given a send buffer", t, func() {
		tr := newFakeTransport(false)
		ch := newChannel(tr, model.RoleGuest, pairing.WithSendBuffer(1))
		Reset(func() { _ = ch.Close() })

		So(ch.Send(ctx, protocol.PairResult{ResultID: 1011}), ShouldBeNil)
		So(errors.Is(ch.Send(ctx, protocol.PairResult{ResultID: 1012}), pairing.ErrBufferFull), ShouldBeTrue)

		Convey("Buffered messages are replayed on connect", func() {
			So(ch.Connect("sid"), ShouldBeNil)
			link := <-tr.links
			So(eventually(func() bool { return ch.State() == pairing.StateConnected }), ShouldBeTrue)
			So(ch.Send(ctx, protocol.PairResult{ResultID: 1013}), ShouldBeNil)

			first, ok := protocol.Parse(<-link.sent)
			So(ok, ShouldBeTrue)
			So(first, ShouldResemble, protocol.PairResult{ResultID: 1011})
			second, _ := protocol.Parse(<-link.sent)
			So(second, ShouldResemble, protocol.PairResult{ResultID: 1013})
		})
	})
}

func TestInbound(t *testing.T) {
	Convey("Given a connected channel with a handler", t, func() {
		got := make(chan protocol.Message, 8)
		handler := func(_ context.Context, m protocol.Message) error {
			got <- m
			return nil
		}
		tr := newFakeTransport(false)
		ch := newChannel(tr, model.RoleOwner, pairing.WithHandler(worker.HandlerFunc(handler)), pairing.WithInboxSize(8))
		Reset(func() { _ = ch.Close() })
		So(ch.Connect("sid"), ShouldBeNil)
		link := <-tr.links

		Convey("Then only well-formed frames are delivered", func() {
			link.in <- []byte(`garbage`)
			link.in <- []byte(`{"kind":"HELLO","payload":{}}`)
			link.in <- []byte(`{"kind":"PAIR_RESULT","payload":9999}`)
			link.in <- []byte(`{"kind":"ANSWER_SUMMARY","payload":{"answers":{"1":3}}}`)

			m := <-got
			So(m.Kind(), ShouldEqual, protocol.KindAnswerSummary)
			So(m.(protocol.AnswerSummary).Answers.Answers, ShouldResemble, map[int]int{1: 3})
			So(ch.State(), ShouldEqual, pairing.StateConnected)
		})
	})
}

func TestClose(t *testing.T) {
	Convey("Given a channel waiting to retry", t, func() {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		tr := newFakeTransport(true)
		ch := newChannel(tr, model.RoleGuest, pairing.WithRetryDelay(20*time.Millisecond))
		So(ch.Connect("sid"), ShouldBeNil)
		So(eventually(func() bool { return ch.State() == pairing.StateRetrying }), ShouldBeTrue)

		Convey("When it is closed", func() {
			So(ch.Close(), ShouldBeNil)
			opens := tr.Opens()
			time.Sleep(60 * time.Millisecond)

			Convey("Then no retry fires afterwards", func() {
				So(tr.Opens(), ShouldEqual, opens)
				So(ch.State(), ShouldEqual, pairing.StateIdle)
				So(ch.Close(), ShouldBeNil)
			})

			Convey("Then every operation reports closure", func() {
				So(errors.Is(ch.Connect("sid"), pairing.ErrClosed), ShouldBeTrue)
				So(errors.Is(ch.Restart(), pairing.ErrClosed), ShouldBeTrue)
				So(errors.Is(ch.Send(context.Background(), protocol.PairResult{ResultID: 1011}), pairing.ErrClosed), ShouldBeTrue)
			})
		})
	})

	Convey("Given two channels paired over the memory hub", t, func() {
		defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

		hub := memory.NewHub()
		owner := newChannel(hub, model.RoleOwner, pairing.WithSessionID("live"))
		guest := newChannel(hub, model.RoleGuest, pairing.WithSessionID("live"))

		So(eventually(func() bool {
			return owner.State() == pairing.StateConnected && guest.State() == pairing.StateConnected
		}), ShouldBeTrue)

		Convey("Closing both releases every goroutine", func() {
			So(guest.Close(), ShouldBeNil)
			So(owner.Close(), ShouldBeNil)
		})
	})
}


func TestStateTable(t *testing.T) {
	Convey("The transition table matches the lifecycle", t, func() {
		So(pairing.CanTransition(pairing.StateIdle, pairing.StateListening), ShouldBeTrue)
		So(pairing.CanTransition(pairing.StateIdle, pairing.StateConnected), ShouldBeFalse)
		So(pairing.CanTransition(pairing.StateConnected, pairing.StateRetrying), ShouldBeTrue)
		So(pairing.CanTransition(pairing.StateRetrying, pairing.StateConnected), ShouldBeTrue)
		So(pairing.CanTransition(pairing.StateError, pairing.StateConnected), ShouldBeFalse)
		So(pairing.CanTransition(pairing.StateError, pairing.StateConnecting), ShouldBeTrue)
		for _, s := range pairing.States {
			So(s.Status(), ShouldNotBeEmpty)
		}
	})
}
