// Package types contains read shapes shared by the HTTP API and the CLI.
package types

import (
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
)

// Catalog lists every personal type, solo variant and duo variant.
type Catalog struct {
	Personal []scoring.PersonalProfile    `json:"personal"`
	Solo     []scoring.SoloVariantProfile `json:"solo"`
	Duo      []scoring.DuoVariantProfile  `json:"duo"`
}

// NewCatalog builds the type catalog.
func NewCatalog() Catalog {
	c := Catalog{
		Solo: scoring.SoloProfiles(),
		Duo:  scoring.DuoProfiles(),
	}
	for _, a := range []scoring.Archetype{
		scoring.ArchetypeHarmony, scoring.ArchetypeMyPace,
		scoring.ArchetypeLead, scoring.ArchetypeAffection,
	} {
		if p, ok := scoring.Profile(a); ok {
			c.Personal = append(c.Personal, p)
		}
	}
	return c
}

// InviteView is what a guest sees when following an invite link.
type InviteView struct {
	SID           string     `json:"sid"`
	Role          model.Role `json:"role"`
	Addr          string     `json:"addr,omitempty"`
	Bonus         *Bonus     `json:"bonus,omitempty"`
	BaseQuestions int        `json:"baseQuestions"`
}

// Bonus is the owner's free-text bonus question.
type Bonus struct {
	Question string `json:"question"`
	Label    string `json:"label,omitempty"`
	MinLabel string `json:"minLabel,omitempty"`
	MaxLabel string `json:"maxLabel,omitempty"`
}

// NewInviteView flattens an invite for display.
func NewInviteView(inv codec.Invite, baseQuestions int) InviteView {
	v := InviteView{SID: inv.SID, Role: inv.Role, Addr: inv.Addr, BaseQuestions: baseQuestions}
	if inv.HasBonus() {
		v.Bonus = &Bonus{
			Question: inv.BonusQ,
			Label:    inv.BonusLabel,
			MinLabel: inv.BonusMin,
			MaxLabel: inv.BonusMax,
		}
	}
	return v
}

// ResultView is the standalone rendering of a result payload.
type ResultView struct {
	Payload     codec.ResultPayload         `json:"payload"`
	View        scoring.PairView            `json:"view"`
	Duo         *scoring.DuoVariantProfile  `json:"duo,omitempty"`
	SoloSelf    *scoring.SoloVariantProfile `json:"soloSelf,omitempty"`
	SoloPartner *scoring.SoloVariantProfile `json:"soloPartner,omitempty"`
}

// NewResultView attaches the rendered narrative and any known profiles.
func NewResultView(p codec.ResultPayload, view scoring.PairView) ResultView {
	r := ResultView{Payload: p, View: view}
	if d, ok := scoring.DuoProfile(p.DuoVariant); ok {
		r.Duo = &d
	}
	if s, ok := scoring.SoloProfile(p.SoloVariantSelf); ok {
		r.SoloSelf = &s
	}
	if s, ok := scoring.SoloProfile(p.SoloVariantPartner); ok {
		r.SoloPartner = &s
	}
	return r
}
