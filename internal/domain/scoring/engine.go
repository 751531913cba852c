// Package scoring turns quiz answers into personal types, solo variants,
// duo variants and pair results. Every function is total: unknown question
// ids and option values count as unanswered.
package scoring

import (
	"math/rand/v2"
	"sync"

	"github.com/okian/duoquiz/internal/domain/quiz"
)

// Default tuning constants.
const (
	DefaultFollowupCount = 5

	defaultSyncTightMaxDiff        = 6
	defaultComplementInitiativeGap = 4
	defaultContrastMinDiff         = 12
	defaultDriftInitiativeGap      = 4
)

// MatchThresholds holds the integer cutoffs used by MatchPair.
type MatchThresholds struct {
	// SyncTightMaxDiff is the largest top-3 difference sum still rated sync-strong.
	SyncTightMaxDiff int
	// ComplementInitiativeGap splits complement-active from complement-gentle.
	ComplementInitiativeGap int
	// ContrastMinDiff is the smallest top-3 difference sum rated contrast.
	ContrastMinDiff int
	// DriftInitiativeGap splits drift-bridge from drift-stable.
	DriftInitiativeGap int
}

// DefaultThresholds returns the stock cutoffs.
func DefaultThresholds() MatchThresholds {
	return MatchThresholds{
		SyncTightMaxDiff:        defaultSyncTightMaxDiff,
		ComplementInitiativeGap: defaultComplementInitiativeGap,
		ContrastMinDiff:         defaultContrastMinDiff,
		DriftInitiativeGap:      defaultDriftInitiativeGap,
	}
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCatalog replaces the built-in question catalog.
func WithCatalog(c *quiz.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithThresholds sets the duo matching cutoffs.
func WithThresholds(t MatchThresholds) Option {
	return func(e *Engine) {
		e.thresholds = t
	}
}

// WithRand injects the random source used for follow-up selection.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed makes follow-up selection reproducible.
func WithSeed(seed1, seed2 uint64) Option {
	return func(e *Engine) {
		e.rng = rand.New(rand.NewPCG(seed1, seed2)) //nolint:gosec // shuffling quiz questions
	}
}

// Engine scores answers against a catalog. It is safe for concurrent use.
type Engine struct {
	catalog    *quiz.Catalog
	thresholds MatchThresholds

	// rng is not goroutine safe.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine creates an engine over the default catalog.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		catalog:    quiz.Default(),
		thresholds: DefaultThresholds(),
		rng:        rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), //nolint:gosec // shuffling quiz questions
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Catalog returns the engine's question catalog.
func (e *Engine) Catalog() *quiz.Catalog { return e.catalog }

// Thresholds returns the configured match cutoffs.
func (e *Engine) Thresholds() MatchThresholds { return e.thresholds }

func (e *Engine) shuffle(qs []quiz.Question) []quiz.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return quiz.Shuffle(e.rng, qs)
}
