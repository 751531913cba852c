package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformed indicates the token is not valid base64url JSON.
	ErrMalformed = errors.New("malformed token")
	// ErrVersion indicates the token's version field is missing or unsupported.
	ErrVersion = errors.New("unsupported version")
	// ErrShape indicates the payload does not match the expected structure.
	ErrShape = errors.New("payload shape mismatch")
	// ErrKind indicates the token carries a different payload kind.
	ErrKind = errors.New("unexpected payload kind")
)

// DecodeError is returned by Decode for every rejected token.
// errors.Is matches both the reason sentinel and the underlying cause.
type DecodeError struct {
	Reason error
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decode: " + e.Reason.Error()
	}
	return fmt.Sprintf("decode: %v: %v", e.Reason, e.Err)
}

// Unwrap exposes the reason and the cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Reason}
	}
	return []error{e.Reason, e.Err}
}

func decodeErr(reason, err error) error {
	return &DecodeError{Reason: reason, Err: err}
}
