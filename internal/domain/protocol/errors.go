package protocol

import "errors"

var (
	// ErrMalformed indicates a frame that is not a well-formed message.
	ErrMalformed = errors.New("malformed message")
	// ErrUnknownKind indicates a frame with an unrecognised kind tag.
	ErrUnknownKind = errors.New("unknown message kind")
)
