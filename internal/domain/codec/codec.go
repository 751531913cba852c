// Package codec turns session payloads into compact URL-safe tokens and back.
//
// A token is the unpadded base64url encoding of a JSON envelope
// {"v":<version>,"t":<kind>,"p":<payload>}. The version is checked before
// anything else, so a token from an incompatible encoder never yields a
// partially populated payload.
package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Version is the only envelope version this encoder writes and accepts.
const Version = 1

// Kind tags the payload carried by a token.
type Kind string

// Payload kinds.
const (
	KindInvite  Kind = "invite"
	KindAnswers Kind = "answers"
	KindResult  Kind = "result"
)

// Payload is a value that can travel inside a token.
type Payload interface {
	Kind() Kind
	Validate() error
}

var encoding = base64.RawURLEncoding //nolint:gochecknoglobals // stateless encoding

type envelope struct {
	V *int            `json:"v"`
	T Kind            `json:"t"`
	P json.RawMessage `json:"p"`
}

// Encode serialises p into a token. It fails only when p does not pass its
// own shape check.
func Encode[P Payload](p P) (string, error) {
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("encode %s: %w: %w", p.Kind(), ErrShape, err)
	}
	body, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", p.Kind(), err)
	}
	v := Version
	raw, err := json.Marshal(envelope{V: &v, T: p.Kind(), P: body})
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", p.Kind(), err)
	}
	return encoding.EncodeToString(raw), nil
}

// MustEncode is Encode for payloads known to be valid.
func MustEncode[P Payload](p P) string {
	s, err := Encode(p)
	if err != nil {
		panic(err)
	}
	return s
}

// Decode parses a token into a P. Every failure is a *DecodeError.
func Decode[P Payload](token string) (P, error) {
	var zero P

	raw, err := encoding.DecodeString(token)
	if err != nil {
		return zero, decodeErr(ErrMalformed, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, decodeErr(ErrMalformed, err)
	}
	if env.V == nil {
		return zero, decodeErr(ErrVersion, errors.New("missing version"))
	}
	if *env.V != Version {
		return zero, decodeErr(ErrVersion, fmt.Errorf("got %d, want %d", *env.V, Version))
	}
	if env.T != zero.Kind() {
		return zero, decodeErr(ErrKind, fmt.Errorf("got %q, want %q", env.T, zero.Kind()))
	}
	if len(env.P) == 0 || bytes.Equal(env.P, []byte("null")) {
		return zero, decodeErr(ErrShape, errors.New("missing payload"))
	}

	var out P
	if err := strictUnmarshal(env.P, &out); err != nil {
		return zero, decodeErr(ErrShape, err)
	}
	if err := out.Validate(); err != nil {
		return zero, decodeErr(ErrShape, err)
	}
	return out, nil
}

// PeekKind reports the kind and version of a token without decoding the payload.
func PeekKind(token string) (Kind, error) {
	raw, err := encoding.DecodeString(token)
	if err != nil {
		return "", decodeErr(ErrMalformed, err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", decodeErr(ErrMalformed, err)
	}
	if env.V == nil || *env.V != Version {
		return "", decodeErr(ErrVersion, nil)
	}
	return env.T, nil
}

func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("trailing data after payload")
	}
	return nil
}
