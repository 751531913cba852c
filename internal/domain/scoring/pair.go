package scoring

import (
	"fmt"

	"github.com/okian/duoquiz/internal/domain/model"
)

// Result id layout: 1xxx when the key question matched, 2xxx otherwise;
// the tens digit is participant A's archetype, the units digit B's.
const (
	resultIDMatched    = 1000
	resultIDMismatched = 2000

	// guestAvatarSeedOffset shifts B's avatar seed away from A's.
	guestAvatarSeedOffset = 7
)

// EncodeResultID packs the key match flag and both archetypes.
func EncodeResultID(keyMatch bool, a, b Archetype) int {
	base := resultIDMismatched
	if keyMatch {
		base = resultIDMatched
	}
	return base + int(a)*10 + int(b)
}

// DecodeResultID unpacks an id produced by EncodeResultID. ok is false for
// ids outside the valid domain.
func DecodeResultID(id int) (keyMatch bool, a, b Archetype, ok bool) {
	if id < resultIDMatched || id >= resultIDMismatched+resultIDMatched {
		return false, 0, 0, false
	}
	keyMatch = id < resultIDMismatched
	rem := id % 1000
	a, b = Archetype(rem/10), Archetype(rem%10)
	if !a.Valid() || !b.Valid() {
		return false, 0, 0, false
	}
	return keyMatch, a, b, true
}

// PairView is the narrative one participant sees.
type PairView struct {
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Tips    []string `json:"tips"`
}

// PairResult is the joint outcome for participants A (owner) and B (guest).
type PairResult struct {
	ResultID   int
	KeyMatch   bool
	A, B       PersonalResult
	ViewA      PairView
	ViewB      PairView
	DuoVariant DuoVariant
}

// KeyMatch reports whether both participants picked the same key question
// and the same answer to it.
func KeyMatch(a, b model.UserAnswers) bool {
	if !a.HasKey() || !b.HasKey() {
		return false
	}
	return *a.KeyQuestionID == *b.KeyQuestionID && *a.KeyAnswer == *b.KeyAnswer
}

// CalculatePair classifies both participants and builds both views.
func (e *Engine) CalculatePair(a, b model.UserAnswers) PairResult {
	ra, rb := e.Classify(a), e.Classify(b)
	keyMatch := KeyMatch(a, b)
	id := EncodeResultID(keyMatch, ra.Archetype, rb.Archetype)

	avatarA := avatarFor(ra, id)
	avatarB := avatarFor(rb, id+guestAvatarSeedOffset)

	return PairResult{
		ResultID:   id,
		KeyMatch:   keyMatch,
		A:          ra,
		B:          rb,
		ViewA:      buildView(ra.Profile(), rb.Profile(), avatarA, avatarB, keyMatch, true),
		ViewB:      buildView(rb.Profile(), ra.Profile(), avatarB, avatarA, keyMatch, false),
		DuoVariant: e.MatchPair(ra, rb),
	}
}

func avatarFor(r PersonalResult, seed int) string {
	if p, ok := SoloProfile(r.Variant); ok {
		return p.Avatar
	}
	return PickAvatar(r.Profile(), seed)
}

// PickAvatar chooses one of the profile's avatars by seed.
func PickAvatar(p PersonalProfile, seed int) string {
	options := p.AvatarOptions
	if len(options) == 0 {
		return p.Avatar
	}
	return options[abs(seed)%len(options)]
}

// BuildPairViewFromResult rebuilds a view from a bare result id.
func BuildPairViewFromResult(id int, view model.View) (PairView, bool) {
	keyMatch, a, b, ok := DecodeResultID(id)
	if !ok || !view.Valid() {
		return PairView{}, false
	}
	self, partner := personalProfile(a), personalProfile(b)
	selfSeed, partnerSeed := id, id+guestAvatarSeedOffset
	if view == model.ViewB {
		self, partner = partner, self
		selfSeed, partnerSeed = partnerSeed, selfSeed
	}
	return buildView(self, partner, PickAvatar(self, selfSeed), PickAvatar(partner, partnerSeed), keyMatch, view == model.ViewA), true
}

// DuoView renders a duo variant's profile as a view.
func DuoView(d DuoVariant) (PairView, bool) {
	p, ok := duoProfiles[d]
	if !ok {
		return PairView{}, false
	}
	return PairView{
		Title:   p.Title + " " + p.Emoji,
		Message: p.Message,
		Tips:    append([]string(nil), p.Tips...),
	}, true
}

func buildView(self, partner PersonalProfile, selfAvatar, partnerAvatar string, keyMatch, isOwner bool) PairView {
	first := tipShareValues
	if keyMatch {
		first = tipKeyMatch
	}
	tips := []string{
		first,
		fmt.Sprintf("Your partner is good at %q. Respect that and balance it with your own strength, %q.", partner.Strengths[0], self.Strengths[0]),
		"Watch out: " + partner.Caution,
	}
	if isOwner && keyMatch {
		tips = append(tips, hostBonusTip(partner.ID))
	}
	return PairView{
		Title:   fmt.Sprintf("DUO: %s × %s", selfAvatar, partnerAvatar),
		Message: fmt.Sprintf("%s. Here is how you (%s) and your partner (%s) fit together.", partner.Headline, selfAvatar, partnerAvatar),
		Tips:    tips,
	}
}
