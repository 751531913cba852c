package scoring

import (
	"fmt"
	"slices"

	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/quiz"
)

// Archetype is one of the four personal types, numbered 1..4.
type Archetype int

// Archetypes.
const (
	ArchetypeHarmony   Archetype = 1
	ArchetypeMyPace    Archetype = 2
	ArchetypeLead      Archetype = 3
	ArchetypeAffection Archetype = 4
)

// Valid reports whether a is one of the four archetypes.
func (a Archetype) Valid() bool { return a >= ArchetypeHarmony && a <= ArchetypeAffection }

// Sign is the polarity of a dominant axis.
type Sign string

// Signs. Zero counts as positive.
const (
	SignPos Sign = "pos"
	SignNeg Sign = "neg"
)

func signOf(n int) Sign {
	if n >= 0 {
		return SignPos
	}
	return SignNeg
}

// SoloVariant identifies an archetype plus the signs of its two dominant
// axes, e.g. "4-pos-neg".
type SoloVariant string

// NewSoloVariant formats a solo variant id.
func NewSoloVariant(a Archetype, first, second Sign) SoloVariant {
	return SoloVariant(fmt.Sprintf("%d-%s-%s", a, first, second))
}

// PersonalResult is one participant's classification.
type PersonalResult struct {
	Archetype Archetype
	// Score sums base questions only.
	Score   quiz.Vector
	Variant SoloVariant
}

// Profile returns the archetype's display profile.
func (r PersonalResult) Profile() PersonalProfile {
	return personalProfile(r.Archetype)
}

// Avatar prefers the solo variant's avatar and falls back to the archetype's.
func (r PersonalResult) Avatar() string {
	if p, ok := SoloProfile(r.Variant); ok {
		return p.Avatar
	}
	return r.Profile().Avatar
}

// ScoreVector sums the deltas of every answered option in the catalog.
func (e *Engine) ScoreVector(answers map[int]int) quiz.Vector {
	return e.accumulate(answers, nil)
}

func (e *Engine) accumulate(answers map[int]int, filter func(quiz.Question) bool) quiz.Vector {
	var v quiz.Vector
	for id, value := range answers {
		q, ok := e.catalog.Lookup(id)
		if !ok {
			continue
		}
		if filter != nil && !filter(q) {
			continue
		}
		o, ok := q.Option(value)
		if !ok {
			continue
		}
		v = v.Add(o.Delta)
	}
	return v
}

// PickArchetype applies the fixed rule order to a base score vector.
// Closeness is the negated distance.
func PickArchetype(v quiz.Vector) Archetype {
	closeness := -v[quiz.Distance]
	switch {
	case v[quiz.Affection] >= 2 || (closeness >= 2 && v[quiz.Affection] >= 1):
		return ArchetypeAffection
	case v[quiz.Initiative] >= 2:
		return ArchetypeLead
	case v[quiz.Distance] >= 2:
		return ArchetypeMyPace
	default:
		return ArchetypeHarmony
	}
}

// Classify scores the base questions, picks the archetype and derives the
// solo variant from the two dominant axes.
func (e *Engine) Classify(u model.UserAnswers) PersonalResult {
	base := e.accumulate(u.Answers, func(q quiz.Question) bool { return !q.IsFollowup() })
	arch := PickArchetype(base)
	ranked := base.Ranked()

	return PersonalResult{
		Archetype: arch,
		Score:     base,
		Variant:   NewSoloVariant(arch, e.axisSign(u.Answers, base, ranked[0]), e.axisSign(u.Answers, base, ranked[1])),
	}
}

// axisSign takes the sign of the lowest-id answered follow-up focused on
// axis, else the base score's sign.
func (e *Engine) axisSign(answers map[int]int, base quiz.Vector, axis quiz.Axis) Sign {
	ids := make([]int, 0, len(answers))
	for id := range answers {
		if id >= quiz.FollowupMinID {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	for _, id := range ids {
		q, ok := e.catalog.Lookup(id)
		if !ok || q.Focus != axis {
			continue
		}
		o, ok := q.Option(answers[id])
		if !ok {
			continue
		}
		return signOf(o.Delta.Get(axis))
	}
	return signOf(base.Get(axis))
}
