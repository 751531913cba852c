package pairsim

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/okian/duoquiz/internal/adapters/pairing"
	"github.com/okian/duoquiz/internal/adapters/transport/memory"
	service "github.com/okian/duoquiz/internal/app"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/dedupe"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
	"github.com/okian/duoquiz/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Defaults applied to zero config fields.
const (
	defaultTimeout    = 5 * time.Second
	defaultRetryDelay = 10 * time.Millisecond
	mirrorEvery       = 3
)

// ErrVerification is returned when any pairing broke an expected property.
var ErrVerification = errors.New("verification failed")

// Run executes cfg.Pairs pairings and verifies every outcome.
func Run(ctx context.Context, cfg Config, engine *scoring.Engine) (*Stats, error) {
	if cfg.Pairs <= 0 {
		return nil, fmt.Errorf("pairs must be > 0, got %d", cfg.Pairs)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if engine == nil {
		engine = scoring.NewEngine()
	}

	log := logger.Get().Named("pairsim")
	stats := &Stats{StartTime: time.Now(), DuoVariants: map[string]int{}}
	log.Info(ctx, "starting pair simulation",
		logger.Int("pairs", cfg.Pairs),
		logger.Int("workers", cfg.Workers),
		logger.Int("dropEvery", cfg.DropEvery),
	)

	r := &runner{
		cfg:    cfg,
		engine: engine,
		hub:    memory.NewHub(),
		gate:   dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(cfg.Pairs)),
		log:    log,
	}

	outcomes := make([]Outcome, cfg.Pairs)
	var (
		mu       sync.Mutex
		failures []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range cfg.Pairs {
		g.Go(func() error {
			out, err := r.runPair(gctx, i)
			if err != nil {
				// a single broken pairing is reported, not fatal to the run
				mu.Lock()
				failures = append(failures, fmt.Errorf("pair %d: %w", i, err))
				mu.Unlock()
				return nil
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	stats.PairsFailed = len(failures)
	completed := make([]Outcome, 0, len(outcomes))
	for _, o := range outcomes {
		if o.SID != "" {
			completed = append(completed, o)
		}
	}
	verr := verify(engine, completed, stats)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if err := errors.Join(append(failures, verr)...); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

type runner struct {
	cfg    Config
	engine *scoring.Engine
	hub    *memory.Hub
	gate   dedupe.Deduper
	log    logger.Logger
}

// runPair plays one owner and one guest through the whole flow.
func (r *runner) runPair(ctx context.Context, i int) (Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	rng := rand.New(rand.NewPCG(r.cfg.Seed, uint64(i))) //nolint:gosec // simulation input
	ownerIn := generateAnswers(rng, r.engine, r.cfg.Followups)
	guestIn := generateAnswers(rng, r.engine, r.cfg.Followups)
	if i%mirrorEvery == mirrorEvery-1 {
		guestIn = mirror(r.engine, ownerIn)
	}

	inv := codec.Invite{Role: model.RoleGuest, SID: service.NewSessionID()}
	if i%2 == 0 {
		inv.BonusQ = "How adventurous should the next trip be?"
		inv.BonusMin, inv.BonusMax = "calm", "wild"
	}
	// the guest only ever sees the invite through its token
	token, err := codec.Encode(inv)
	if err != nil {
		return Outcome{}, err
	}
	guestInv, err := codec.Decode[codec.Invite](token)
	if err != nil {
		return Outcome{}, err
	}

	owner, ownerCh, err := r.join(inv, model.RoleOwner)
	if err != nil {
		return Outcome{}, err
	}
	defer owner.Close()
	defer ownerCh.Close()
	guest, guestCh, err := r.join(guestInv, model.RoleGuest)
	if err != nil {
		return Outcome{}, err
	}
	defer guest.Close()
	defer guestCh.Close()

	if err := owner.SubmitAnswers(ctx, ownerIn); err != nil {
		return Outcome{}, fmt.Errorf("owner answers: %w", err)
	}
	dropped := false
	if r.cfg.DropEvery > 0 && i%r.cfg.DropEvery == 0 {
		dropped = r.hub.Drop(inv.SID)
	}
	if err := guest.SubmitAnswers(ctx, guestIn); err != nil {
		return Outcome{}, fmt.Errorf("guest answers: %w", err)
	}

	ownerRes, err := owner.Wait(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("owner result (channel %s): %w", ownerCh.State(), err)
	}
	guestRes, err := guest.Wait(ctx)
	if err != nil {
		return Outcome{}, fmt.Errorf("guest result (channel %s): %w", guestCh.State(), err)
	}

	if r.cfg.Verbose {
		r.log.Info(ctx, "pairing finished",
			logger.String("sid", inv.SID),
			logger.Int("resultId", ownerRes.ResultID),
			logger.String("duo", string(ownerRes.DuoVariant)),
			logger.Bool("dropped", dropped),
		)
	}
	return Outcome{
		SID:         inv.SID,
		OwnerInput:  ownerIn,
		GuestInput:  guestIn,
		OwnerResult: ownerRes,
		GuestResult: guestRes,
		Dropped:     dropped,
	}, nil
}

func (r *runner) join(inv codec.Invite, role model.Role) (*service.Session, *pairing.Channel, error) {
	s, err := service.NewSession(inv, role, r.engine,
		service.WithDeduper(r.gate),
		service.WithLogger(logger.Nop()),
	)
	if err != nil {
		return nil, nil, err
	}
	ch, err := service.Attach(s, r.hub, true,
		pairing.WithRetryDelay(r.cfg.RetryDelay),
		pairing.WithLogger(logger.Nop()),
	)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return s, ch, nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "simulation statistics",
		logger.Int("pairsRun", stats.PairsRun),
		logger.Int("pairsAgreed", stats.PairsAgreed),
		logger.Int("pairsFailed", stats.PairsFailed),
		logger.Int("linksDropped", stats.LinksDropped),
		logger.Int("distinctResultIds", stats.DistinctResultIDs),
		logger.Any("duoVariants", stats.DuoVariants),
		logger.Duration("duration", stats.Duration),
	)
}
