// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"maps"
)

// Role is the participant's side of a session.
type Role string

// Roles. The owner publishes the invite and listens; the guest follows it and dials.
const (
	RoleOwner Role = "owner"
	RoleGuest Role = "guest"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool { return r == RoleOwner || r == RoleGuest }

// Peer returns the opposite role.
func (r Role) Peer() Role {
	if r == RoleOwner {
		return RoleGuest
	}
	return RoleOwner
}

// View selects participant A (owner) or B (guest) in a pair result.
type View string

// Views.
const (
	ViewA View = "A"
	ViewB View = "B"
)

// Valid reports whether v is a known view.
func (v View) Valid() bool { return v == ViewA || v == ViewB }

// ViewOf maps a role to the pair result view it reads.
func ViewOf(r Role) View {
	if r == RoleGuest {
		return ViewB
	}
	return ViewA
}

// UserAnswers is one participant's submitted quiz.
// Answers maps question id to chosen option value.
type UserAnswers struct {
	Answers       map[int]int `json:"answers" yaml:"answers"`
	Bonus         *int        `json:"bonus,omitempty" yaml:"bonus,omitempty"`
	KeyQuestionID *int        `json:"keyQuestionId,omitempty" yaml:"key_question_id,omitempty"`
	KeyAnswer     *int        `json:"keyAnswer,omitempty" yaml:"key_answer,omitempty"`
}

// NewUserAnswers copies answers into a fresh record.
func NewUserAnswers(answers map[int]int) UserAnswers {
	return UserAnswers{Answers: maps.Clone(answers)}
}

// Clone returns a deep copy.
func (u UserAnswers) Clone() UserAnswers {
	out := UserAnswers{Answers: maps.Clone(u.Answers)}
	if out.Answers == nil {
		out.Answers = map[int]int{}
	}
	out.Bonus = cloneInt(u.Bonus)
	out.KeyQuestionID = cloneInt(u.KeyQuestionID)
	out.KeyAnswer = cloneInt(u.KeyAnswer)
	return out
}

// WithKey sets the key question answer.
func (u UserAnswers) WithKey(questionID, value int) UserAnswers {
	u.KeyQuestionID = &questionID
	u.KeyAnswer = &value
	return u
}

// WithBonus sets the bonus answer.
func (u UserAnswers) WithBonus(value int) UserAnswers {
	u.Bonus = &value
	return u
}

// HasKey reports whether both key question fields are present.
func (u UserAnswers) HasKey() bool {
	return u.KeyQuestionID != nil && u.KeyAnswer != nil
}

// Validate checks the structural shape of a decoded record.
func (u UserAnswers) Validate() error {
	if u.Answers == nil {
		return fmt.Errorf("answers: %w", ErrMissingAnswers)
	}
	if (u.KeyQuestionID == nil) != (u.KeyAnswer == nil) {
		return fmt.Errorf("key question: %w", ErrPartialKey)
	}
	return nil
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
