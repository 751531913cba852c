// Package pairsim runs simulated pairings end to end over an in-process
// transport and checks that both participants agree on every result.
package pairsim

import (
	"time"

	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
)

// Config holds configuration for a simulation run.
type Config struct {
	Pairs      int           // Number of pairings to run
	Workers    int           // Pairings in flight at once
	Timeout    time.Duration // Per-pairing deadline
	RetryDelay time.Duration // Delay between connection attempts
	Followups  int           // Follow-up questions answered per participant
	DropEvery  int           // Sever every Nth link after answers are sent; 0 never
	Seed       uint64        // Seed for answer generation
	Verbose    bool          // Log every pairing
}

// Outcome is what one simulated pairing produced.
type Outcome struct {
	SID         string
	OwnerInput  model.UserAnswers
	GuestInput  model.UserAnswers
	OwnerResult codec.ResultPayload
	GuestResult codec.ResultPayload
	Dropped     bool
}

// Stats holds run statistics.
type Stats struct {
	PairsRun          int
	PairsAgreed       int
	PairsFailed       int
	LinksDropped      int
	DistinctResultIDs int
	DuoVariants       map[string]int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
