package scoring

import "github.com/okian/duoquiz/internal/domain/quiz"

// DuoVariant is one of the eight joint outcomes.
type DuoVariant string

// Duo variants grouped by family.
const (
	DuoSyncStrong       DuoVariant = "sync-strong"
	DuoSyncSoft         DuoVariant = "sync-soft"
	DuoComplementActive DuoVariant = "complement-active"
	DuoComplementGentle DuoVariant = "complement-gentle"
	DuoContrastGuard    DuoVariant = "contrast-guard"
	DuoContrastExplore  DuoVariant = "contrast-explore"
	DuoDriftBridge      DuoVariant = "drift-bridge"
	DuoDriftStable      DuoVariant = "drift-stable"
)

// DuoVariants lists every duo variant in display order.
var DuoVariants = []DuoVariant{ //nolint:gochecknoglobals // immutable list
	DuoSyncStrong, DuoSyncSoft,
	DuoComplementActive, DuoComplementGentle,
	DuoContrastGuard, DuoContrastExplore,
	DuoDriftBridge, DuoDriftStable,
}

// Valid reports whether d is a known duo variant.
func (d DuoVariant) Valid() bool {
	_, ok := duoProfiles[d]
	return ok
}

// Family returns the variant's prefix: sync, complement, contrast or drift.
func (d DuoVariant) Family() string {
	for i := range len(d) {
		if d[i] == '-' {
			return string(d[:i])
		}
	}
	return string(d)
}

// MatchPair compares the host's three dominant axes with the guest's scores.
func (e *Engine) MatchPair(host, guest PersonalResult) DuoVariant {
	return MatchVectors(host.Score, guest.Score, e.thresholds)
}

// MatchVectors is the decision tree behind MatchPair.
func MatchVectors(host, guest quiz.Vector, t MatchThresholds) DuoVariant {
	ranked := host.Ranked()
	top3 := ranked[:3]

	matches, diffSum := 0, 0
	for _, axis := range top3 {
		if signOf(host[axis]) == signOf(guest[axis]) {
			matches++
		}
		diffSum += abs(host[axis] - guest[axis])
	}

	initiativeGap := abs(host[quiz.Initiative] - guest[quiz.Initiative])

	switch {
	case matches >= 2:
		if diffSum <= t.SyncTightMaxDiff {
			return DuoSyncStrong
		}
		return DuoSyncSoft
	case matches == 1:
		if initiativeGap >= t.ComplementInitiativeGap {
			return DuoComplementActive
		}
		return DuoComplementGentle
	}

	if diffSum >= t.ContrastMinDiff {
		securityGap := abs(host[quiz.Security] - guest[quiz.Security])
		distanceGap := abs(host[quiz.Distance] - guest[quiz.Distance])
		if securityGap >= distanceGap {
			return DuoContrastGuard
		}
		return DuoContrastExplore
	}
	if initiativeGap >= t.DriftInitiativeGap {
		return DuoDriftBridge
	}
	return DuoDriftStable
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
