package service

import (
	"maps"
	"slices"

	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
)

// BuildPayloads computes the pair result for owner and guest answers and
// renders both views. View A belongs to the owner.
func BuildPayloads(e *scoring.Engine, invite codec.Invite, owner, guest model.UserAnswers) (codec.PairPayloads, scoring.PairResult) {
	res := e.CalculatePair(owner, guest)

	var bonus *codec.BonusDetail
	if invite.HasBonus() {
		bonus = &codec.BonusDetail{
			Question:      invite.BonusQ,
			Label:         invite.BonusLabel,
			MinLabel:      invite.BonusMin,
			MaxLabel:      invite.BonusMax,
			OwnerAnswer:   cloneInt(owner.Bonus),
			PartnerAnswer: cloneInt(guest.Bonus),
		}
	}

	hlA, hlB := highlights(e, owner.Answers, guest.Answers)

	a := codec.ResultPayload{
		SID:                invite.SID,
		View:               model.ViewA,
		ResultID:           res.ResultID,
		DuoVariant:         res.DuoVariant,
		SoloVariantSelf:    res.A.Variant,
		SoloVariantPartner: res.B.Variant,
		SoloAvatarSelf:     res.A.Avatar(),
		SoloAvatarPartner:  res.B.Avatar(),
		Highlight:          hlA,
		BonusDetail:        bonus,
		Answers:            &codec.AnswerPair{Self: maps.Clone(owner.Answers), Partner: maps.Clone(guest.Answers)},
	}
	b := codec.ResultPayload{
		SID:                invite.SID,
		View:               model.ViewB,
		ResultID:           res.ResultID,
		DuoVariant:         res.DuoVariant,
		SoloVariantSelf:    res.B.Variant,
		SoloVariantPartner: res.A.Variant,
		SoloAvatarSelf:     res.B.Avatar(),
		SoloAvatarPartner:  res.A.Avatar(),
		Highlight:          hlB,
		BonusDetail:        cloneBonus(bonus),
		Answers:            &codec.AnswerPair{Self: maps.Clone(guest.Answers), Partner: maps.Clone(owner.Answers)},
	}
	return codec.PairPayloads{A: a, B: b}, res
}

// highlights picks the lowest question id either side answered.
func highlights(e *scoring.Engine, owner, guest map[int]int) (a, b *codec.Highlight) {
	ids := slices.AppendSeq(slices.Collect(maps.Keys(owner)), maps.Keys(guest))
	if len(ids) == 0 {
		return nil, nil
	}
	id := slices.Min(ids)
	q, ok := e.Catalog().Lookup(id)
	if !ok {
		return nil, nil
	}
	mine, theirs := answerPtr(owner, id), answerPtr(guest, id)
	a = &codec.Highlight{QuestionID: id, Question: q.Text, MyAnswer: mine, PartnerAnswer: theirs}
	b = &codec.Highlight{QuestionID: id, Question: q.Text, MyAnswer: cloneInt(theirs), PartnerAnswer: cloneInt(mine)}
	return a, b
}

func answerPtr(m map[int]int, id int) *int {
	v, ok := m[id]
	if !ok {
		return nil
	}
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBonus(b *codec.BonusDetail) *codec.BonusDetail {
	if b == nil {
		return nil
	}
	c := *b
	c.OwnerAnswer = cloneInt(b.OwnerAnswer)
	c.PartnerAnswer = cloneInt(b.PartnerAnswer)
	return &c
}

// PairViewFor renders the narrative for a result payload. A known duo
// variant wins over the view rebuilt from the bare result id.
func PairViewFor(p codec.ResultPayload) (scoring.PairView, bool) {
	if p.DuoVariant != "" {
		if v, ok := scoring.DuoView(p.DuoVariant); ok {
			return v, true
		}
	}
	return scoring.BuildPairViewFromResult(p.ResultID, p.View)
}
