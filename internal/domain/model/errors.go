package model

import "errors"

var (
	// ErrMissingAnswers indicates the answers map is absent.
	ErrMissingAnswers = errors.New("missing answers")
	// ErrPartialKey indicates only one of key question id and value is set.
	ErrPartialKey = errors.New("key question id and answer must be set together")
)
