package pairsim

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
)

var archetypes = []scoring.Archetype{ //nolint:gochecknoglobals // immutable list
	scoring.ArchetypeHarmony, scoring.ArchetypeMyPace,
	scoring.ArchetypeLead, scoring.ArchetypeAffection,
}

// verify checks every outcome and the result id layout, filling stats.
func verify(engine *scoring.Engine, outcomes []Outcome, stats *Stats) error {
	errs := []error{verifyResultIDs()}

	ids := map[int]struct{}{}
	for _, o := range outcomes {
		stats.PairsRun++
		if o.Dropped {
			stats.LinksDropped++
		}
		if err := verifyOutcome(engine, o); err != nil {
			errs = append(errs, fmt.Errorf("session %s: %w", o.SID, err))
			continue
		}
		stats.PairsAgreed++
		ids[o.OwnerResult.ResultID] = struct{}{}
		stats.DuoVariants[string(o.OwnerResult.DuoVariant)]++
	}
	stats.DistinctResultIDs = len(ids)
	return errors.Join(errs...)
}

// verifyOutcome checks that both sides agree, that the result matches a
// local recomputation and that both payloads survive a token round trip.
func verifyOutcome(engine *scoring.Engine, o Outcome) error {
	a, b := o.OwnerResult, o.GuestResult
	switch {
	case a.View != model.ViewA || b.View != model.ViewB:
		return fmt.Errorf("views %s/%s", a.View, b.View)
	case a.SID != o.SID || b.SID != o.SID:
		return errors.New("session id mismatch")
	case a.ResultID != b.ResultID:
		return fmt.Errorf("result ids disagree: %d vs %d", a.ResultID, b.ResultID)
	case a.DuoVariant != b.DuoVariant:
		return fmt.Errorf("duo variants disagree: %s vs %s", a.DuoVariant, b.DuoVariant)
	case a.SoloVariantSelf != b.SoloVariantPartner || a.SoloVariantPartner != b.SoloVariantSelf:
		return errors.New("solo variants are not mirrored")
	case !a.Full() || !b.Full():
		return errors.New("payload is not full")
	}
	if d := cmp.Diff(a.Answers.Self, b.Answers.Partner); d != "" {
		return fmt.Errorf("owner answers differ across views (-A +B):\n%s", d)
	}

	want := engine.CalculatePair(o.OwnerInput, o.GuestInput)
	if want.ResultID != a.ResultID || want.DuoVariant != a.DuoVariant {
		return fmt.Errorf("recomputed %d/%s, got %d/%s", want.ResultID, want.DuoVariant, a.ResultID, a.DuoVariant)
	}
	keyMatch, _, _, ok := scoring.DecodeResultID(a.ResultID)
	if !ok || keyMatch != scoring.KeyMatch(o.OwnerInput, o.GuestInput) {
		return fmt.Errorf("result id %d does not carry the key match", a.ResultID)
	}

	for _, p := range []codec.ResultPayload{a, b} {
		got, err := codec.Decode[codec.ResultPayload](codec.MustEncode(p))
		if err != nil {
			return fmt.Errorf("round trip %s: %w", p.View, err)
		}
		if d := cmp.Diff(p, got); d != "" {
			return fmt.Errorf("round trip %s changed the payload (-want +got):\n%s", p.View, d)
		}
	}
	return nil
}

// verifyResultIDs checks that every (match, typeA, typeB) triple has its
// own id and decodes back to itself.
func verifyResultIDs() error {
	seen := map[int]bool{}
	for _, match := range []bool{true, false} {
		for _, x := range archetypes {
			for _, y := range archetypes {
				id := scoring.EncodeResultID(match, x, y)
				if seen[id] {
					return fmt.Errorf("result id %d is not unique", id)
				}
				seen[id] = true
				m, gx, gy, ok := scoring.DecodeResultID(id)
				if !ok || m != match || gx != x || gy != y {
					return fmt.Errorf("result id %d does not decode back", id)
				}
			}
		}
	}
	return nil
}
