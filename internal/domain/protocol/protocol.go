// Package protocol defines the messages exchanged over a pairing channel.
//
// Frames are JSON objects {"kind":<tag>,"payload":<body>}. Parse is the only
// way inbound frames become Messages: anything that does not match a known
// kind and its payload shape is rejected.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/internal/domain/scoring"
)

// Kind tags a message.
type Kind string

// Message kinds.
const (
	KindAnswerSummary     Kind = "ANSWER_SUMMARY"
	KindPairResult        Kind = "PAIR_RESULT"
	KindPairResultPayload Kind = "PAIR_RESULT_PAYLOAD"
)

// Message is the closed set of protocol messages.
type Message interface {
	Kind() Kind
	sealed()
}

// AnswerSummary carries the sender's full answers.
type AnswerSummary struct {
	Answers model.UserAnswers
}

// PairResult is the minimal result notification.
type PairResult struct {
	ResultID int
}

// PairResultPayload carries both fully rendered views.
type PairResultPayload struct {
	Payloads codec.PairPayloads
}

// Kind implements Message.
func (AnswerSummary) Kind() Kind { return KindAnswerSummary }

// Kind implements Message.
func (PairResult) Kind() Kind { return KindPairResult }

// Kind implements Message.
func (PairResultPayload) Kind() Kind { return KindPairResultPayload }

func (AnswerSummary) sealed()     {}
func (PairResult) sealed()        {}
func (PairResultPayload) sealed() {}

type frame struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// Marshal encodes m as a wire frame.
func Marshal(m Message) ([]byte, error) {
	var body any
	switch msg := m.(type) {
	case AnswerSummary:
		body = msg.Answers
	case PairResult:
		body = msg.ResultID
	case PairResultPayload:
		body = msg.Payloads
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownKind, m)
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", m.Kind(), err)
	}
	return json.Marshal(frame{Kind: m.Kind(), Payload: raw})
}

// Parse validates an inbound frame. ok is false for anything malformed,
// foreign or of an unknown kind.
func Parse(data []byte) (Message, bool) {
	m, err := ParseErr(data)
	return m, err == nil
}

// ParseErr is Parse with the rejection reason.
func ParseErr(data []byte) (Message, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if len(f.Payload) == 0 || bytes.Equal(f.Payload, []byte("null")) {
		return nil, fmt.Errorf("%w: missing payload", ErrMalformed)
	}

	switch f.Kind {
	case KindAnswerSummary:
		var u model.UserAnswers
		if err := json.Unmarshal(f.Payload, &u); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if err := u.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return AnswerSummary{Answers: u}, nil
	case KindPairResult:
		var id int
		if err := json.Unmarshal(f.Payload, &id); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if _, _, _, ok := scoring.DecodeResultID(id); !ok {
			return nil, fmt.Errorf("%w: result id %d", ErrMalformed, id)
		}
		return PairResult{ResultID: id}, nil
	case KindPairResultPayload:
		var p codec.PairPayloads
		if err := json.Unmarshal(f.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		return PairResultPayload{Payloads: p}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, f.Kind)
	}
}
