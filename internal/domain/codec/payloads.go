package codec

import (
	"errors"
	"fmt"

	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
)

var (
	errNoSID      = errors.New("missing session id")
	errBadRole    = errors.New("unknown role")
	errBadView    = errors.New("unknown view")
	errBadResult  = errors.New("result id out of range")
	errBadVariant = errors.New("unknown duo variant")
)

// Invite is published by the owner and followed by the guest.
type Invite struct {
	// Role is the role the link's follower takes.
	Role model.Role `json:"role"`
	SID  string     `json:"sid"`
	// Addr is where the owner listens for the guest, if known.
	Addr       string `json:"addr,omitempty"`
	BonusQ     string `json:"bonusQ,omitempty"`
	BonusLabel string `json:"bonusLabel,omitempty"`
	BonusMin   string `json:"bonusMin,omitempty"`
	BonusMax   string `json:"bonusMax,omitempty"`
}

// Kind implements Payload.
func (Invite) Kind() Kind { return KindInvite }

// Validate implements Payload.
func (i Invite) Validate() error {
	if i.SID == "" {
		return errNoSID
	}
	if !i.Role.Valid() {
		return fmt.Errorf("%w %q", errBadRole, i.Role)
	}
	return nil
}

// HasBonus reports whether the owner attached a bonus question.
func (i Invite) HasBonus() bool { return i.BonusQ != "" }

// AnswerSummary carries one participant's full answers.
type AnswerSummary struct {
	SID     string            `json:"sid"`
	Answers model.UserAnswers `json:"answers"`
}

// Kind implements Payload.
func (AnswerSummary) Kind() Kind { return KindAnswers }

// Validate implements Payload.
func (a AnswerSummary) Validate() error {
	if a.SID == "" {
		return errNoSID
	}
	return a.Answers.Validate()
}

// Highlight pairs both answers to one question.
type Highlight struct {
	QuestionID    int    `json:"questionId"`
	Question      string `json:"question"`
	MyAnswer      *int   `json:"myAnswer,omitempty"`
	PartnerAnswer *int   `json:"partnerAnswer,omitempty"`
}

// BonusDetail carries the bonus question and both answers to it.
type BonusDetail struct {
	Question      string `json:"question"`
	Label         string `json:"label,omitempty"`
	MinLabel      string `json:"minLabel,omitempty"`
	MaxLabel      string `json:"maxLabel,omitempty"`
	OwnerAnswer   *int   `json:"ownerAnswer,omitempty"`
	PartnerAnswer *int   `json:"partnerAnswer,omitempty"`
}

// AnswerPair holds raw answers from the viewer's perspective.
type AnswerPair struct {
	Self    map[int]int `json:"self"`
	Partner map[int]int `json:"partner"`
}

// ResultPayload renders a pair result for one view without re-deriving it.
// A minimal payload carries only the session, view and result id.
type ResultPayload struct {
	SID                string              `json:"sid"`
	View               model.View          `json:"view"`
	ResultID           int                 `json:"resultId"`
	DuoVariant         scoring.DuoVariant  `json:"duoVariant,omitempty"`
	SoloVariantSelf    scoring.SoloVariant `json:"soloVariantSelf,omitempty"`
	SoloVariantPartner scoring.SoloVariant `json:"soloVariantPartner,omitempty"`
	SoloAvatarSelf     string              `json:"soloAvatarSelf,omitempty"`
	SoloAvatarPartner  string              `json:"soloAvatarPartner,omitempty"`
	Highlight          *Highlight          `json:"highlight,omitempty"`
	BonusDetail        *BonusDetail        `json:"bonusDetail,omitempty"`
	Answers            *AnswerPair         `json:"answers,omitempty"`
}

// Kind implements Payload.
func (ResultPayload) Kind() Kind { return KindResult }

// Validate implements Payload.
func (r ResultPayload) Validate() error {
	if r.SID == "" {
		return errNoSID
	}
	if !r.View.Valid() {
		return fmt.Errorf("%w %q", errBadView, r.View)
	}
	if _, _, _, ok := scoring.DecodeResultID(r.ResultID); !ok {
		return fmt.Errorf("%w: %d", errBadResult, r.ResultID)
	}
	if r.DuoVariant != "" && !r.DuoVariant.Valid() {
		return fmt.Errorf("%w %q", errBadVariant, r.DuoVariant)
	}
	return nil
}

// Full reports whether the payload carries the complete answer data.
func (r ResultPayload) Full() bool { return r.Answers != nil }

// MinimalResult builds the bare payload for a view.
func MinimalResult(sid string, view model.View, resultID int) ResultPayload {
	return ResultPayload{SID: sid, View: view, ResultID: resultID}
}

// PairPayloads bundles both views of one pair result.
type PairPayloads struct {
	A ResultPayload `json:"A"`
	B ResultPayload `json:"B"`
}

// Validate checks both views and that they describe the same result.
func (p PairPayloads) Validate() error {
	if err := p.A.Validate(); err != nil {
		return fmt.Errorf("A: %w", err)
	}
	if err := p.B.Validate(); err != nil {
		return fmt.Errorf("B: %w", err)
	}
	if p.A.View != model.ViewA || p.B.View != model.ViewB {
		return fmt.Errorf("%w: views swapped", errBadView)
	}
	if p.A.ResultID != p.B.ResultID || p.A.SID != p.B.SID {
		return fmt.Errorf("%w: views disagree", errBadResult)
	}
	return nil
}

// For returns the payload read by view v.
func (p PairPayloads) For(v model.View) ResultPayload {
	if v == model.ViewB {
		return p.B
	}
	return p.A
}

// Full reports whether both views carry complete data.
func (p PairPayloads) Full() bool { return p.A.Full() && p.B.Full() }

// MinimalPair builds minimal payloads for both views.
func MinimalPair(sid string, resultID int) PairPayloads {
	return PairPayloads{
		A: MinimalResult(sid, model.ViewA, resultID),
		B: MinimalResult(sid, model.ViewB, resultID),
	}
}
