// Package service orchestrates one participant's side of a pairing session:
// it exchanges answers over the pairing channel, computes the pair result on
// the owner side exactly once, and exposes the result for the local view.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/duoquiz/internal/adapters/pairing"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/dedupe"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/protocol"
	"github.com/okian/duoquiz/internal/domain/scoring"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/okian/duoquiz/pkg/metrics"
)

// Sender delivers protocol messages to the partner.
type Sender interface {
	Send(ctx context.Context, m protocol.Message) error
}

// NewSessionID returns a fresh opaque session id.
func NewSessionID() string {
	return uuid.NewString()
}

// Session is the orchestrator for one participant.
type Session struct {
	invite codec.Invite
	role   model.Role
	engine *scoring.Engine
	gate   dedupe.Deduper
	logger logger.Logger

	minimalNotice bool

	mu        sync.Mutex
	sender    Sender
	connected bool
	local     *model.UserAnswers
	remote    *model.UserAnswers
	payloads  *codec.PairPayloads
	ready     chan struct{} // closed once a full payload is known
	closed    bool
}

// Option applies a configuration option to a Session.
type Option func(*Session)

// WithDeduper shares an at-most-once gate between sessions.
func WithDeduper(d dedupe.Deduper) Option {
	return func(s *Session) {
		if d != nil {
			s.gate = d
		}
	}
}

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMinimalNotice makes the owner announce the bare result id before the
// full payload, for partners that only understand PAIR_RESULT.
func WithMinimalNotice(on bool) Option {
	return func(s *Session) {
		s.minimalNotice = on
	}
}

// NewSession creates the orchestrator for role within invite's session.
func NewSession(invite codec.Invite, role model.Role, engine *scoring.Engine, opts ...Option) (*Session, error) {
	if err := invite.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInvite, err)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("invalid role %q", role)
	}
	if engine == nil {
		engine = scoring.NewEngine()
	}
	s := &Session{
		invite: invite,
		role:   role,
		engine: engine,
		ready:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gate == nil {
		s.gate = dedupe.NewInMemoryDeduper()
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("session")
	}
	s.logger = s.logger.Named(string(role))

	metrics.AddActiveSessions(1)
	return s, nil
}

// Bind attaches the channel used for outbound messages.
func (s *Session) Bind(sender Sender) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sender = sender
}

// Invite returns the invite this session belongs to.
func (s *Session) Invite() codec.Invite { return s.invite }

// Role returns the local role.
func (s *Session) Role() model.Role { return s.role }

// View returns the result view the local participant reads.
func (s *Session) View() model.View { return model.ViewOf(s.role) }

// SubmitAnswers records the local answers. They are sent whenever the
// channel is connected.
func (s *Session) SubmitAnswers(ctx context.Context, answers model.UserAnswers) error {
	if err := answers.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.local != nil {
		s.mu.Unlock()
		return ErrAlreadySubmitted
	}
	a := answers.Clone()
	s.local = &a

	var out []protocol.Message
	if s.connected {
		out = append(out, protocol.AnswerSummary{Answers: a})
	}
	out = append(out, s.computeLocked(ctx)...)
	sender := s.sender
	s.mu.Unlock()

	s.send(ctx, sender, out)
	return nil
}

// Handle implements worker.Handler for inbound protocol messages.
func (s *Session) Handle(ctx context.Context, msg protocol.Message) error {
	s.mu.Lock()
	var out []protocol.Message
	switch m := msg.(type) {
	case protocol.AnswerSummary:
		if s.remote != nil {
			if s.payloads != nil && s.payloads.Full() {
				metrics.RecordPairDuplicate()
			}
			s.logger.Debug(ctx, "ignoring repeated answer summary")
			break
		}
		a := m.Answers.Clone()
		s.remote = &a
		out = s.computeLocked(ctx)
	case protocol.PairResult:
		if s.payloads != nil && s.payloads.Full() {
			break
		}
		p := codec.MinimalPair(s.invite.SID, m.ResultID)
		s.payloads = &p
	case protocol.PairResultPayload:
		if s.role == model.RoleOwner {
			s.logger.Debug(ctx, "owner ignoring partner payload")
			break
		}
		if m.Payloads.A.SID != s.invite.SID {
			s.logger.Debug(ctx, "ignoring payload for another session", logger.String("sid", m.Payloads.A.SID))
			break
		}
		p := m.Payloads
		s.storeLocked(p)
	}
	sender := s.sender
	s.mu.Unlock()

	s.send(ctx, sender, out)
	return nil
}

// HandleState implements pairing.StateFunc. Entering connected resends the
// local answers and, on the owner side, the cached result.
func (s *Session) HandleState(ctx context.Context, st pairing.State) {
	s.mu.Lock()
	s.connected = st == pairing.StateConnected
	var out []protocol.Message
	if s.connected {
		if s.local != nil {
			out = append(out, protocol.AnswerSummary{Answers: *s.local})
		}
		out = append(out, s.resultMessagesLocked()...)
	}
	sender := s.sender
	s.mu.Unlock()

	s.send(ctx, sender, out)
}

// computeLocked runs the pair computation once both answer sets are known.
// Only the owner computes; the guest waits for the owner's payload.
func (s *Session) computeLocked(ctx context.Context) []protocol.Message {
	if s.role != model.RoleOwner || s.local == nil || s.remote == nil {
		return nil
	}

	var (
		payloads codec.PairPayloads
		res      scoring.PairResult
	)
	ran, _ := dedupe.Once(ctx, s.gate, "pair:"+s.invite.SID, func() error {
		payloads, res = BuildPayloads(s.engine, s.invite, *s.local, *s.remote)
		return nil
	})
	if !ran {
		metrics.RecordPairDuplicate()
		return nil
	}

	metrics.RecordPairComputed(string(res.DuoVariant))
	s.logger.Info(ctx, "pair computed",
		logger.Int("result_id", res.ResultID),
		logger.String("duo_variant", string(res.DuoVariant)),
	)
	s.storeLocked(payloads)
	if !s.connected {
		return nil
	}
	return s.resultMessagesLocked()
}

func (s *Session) resultMessagesLocked() []protocol.Message {
	if s.role != model.RoleOwner || s.payloads == nil || !s.payloads.Full() {
		return nil
	}
	var out []protocol.Message
	if s.minimalNotice {
		out = append(out, protocol.PairResult{ResultID: s.payloads.A.ResultID})
	}
	return append(out, protocol.PairResultPayload{Payloads: *s.payloads})
}

func (s *Session) storeLocked(p codec.PairPayloads) {
	s.payloads = &p
	if p.Full() {
		select {
		case <-s.ready:
		default:
			close(s.ready)
		}
	}
}

func (s *Session) send(ctx context.Context, sender Sender, msgs []protocol.Message) {
	if sender == nil {
		return
	}
	for _, m := range msgs {
		if err := sender.Send(ctx, m); err != nil {
			s.logger.Debug(ctx, "send skipped", logger.String("kind", string(m.Kind())), logger.Error(err))
		}
	}
}

// Payloads returns the latest known payloads, full or minimal.
func (s *Session) Payloads() (codec.PairPayloads, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.payloads == nil {
		return codec.PairPayloads{}, false
	}
	return *s.payloads, true
}

// Latest returns the local view of the latest known payloads.
func (s *Session) Latest() (codec.ResultPayload, bool) {
	p, ok := s.Payloads()
	if !ok {
		return codec.ResultPayload{}, false
	}
	return p.For(s.View()), true
}

// Wait blocks until a full result for the local view is known.
func (s *Session) Wait(ctx context.Context) (codec.ResultPayload, error) {
	select {
	case <-s.ready:
		p, _ := s.Latest()
		return p, nil
	case <-ctx.Done():
		return codec.ResultPayload{}, fmt.Errorf("%w: %w", ErrNoResult, ctx.Err())
	}
}

// Solo classifies the local answers.
func (s *Session) Solo() (scoring.PersonalResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.local == nil {
		return scoring.PersonalResult{}, false
	}
	return s.engine.Classify(*s.local), true
}

// RemoteReady reports whether the partner's answers arrived.
func (s *Session) RemoteReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remote != nil
}

// Close releases the session's bookkeeping.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	metrics.AddActiveSessions(-1)
}

// Attach creates the pairing channel for s over t and binds it. When
// autoStart is set the channel starts connecting right away; otherwise the
// caller calls Connect on the returned channel.
func Attach(s *Session, t pairing.Transport, autoStart bool, opts ...pairing.Option) (*pairing.Channel, error) {
	opts = append(opts,
		pairing.WithHandler(s),
		pairing.WithStateListener(s.HandleState),
		pairing.WithSessionID(s.invite.SID),
		pairing.WithAutoStart(false),
	)
	ch, err := pairing.NewChannel(t, s.role, opts...)
	if err != nil {
		return nil, err
	}
	s.Bind(ch)
	if autoStart {
		if err := ch.Connect(s.invite.SID); err != nil {
			_ = ch.Close()
			return nil, err
		}
	}
	return ch, nil
}
