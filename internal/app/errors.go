package service

import "errors"

var (
	// ErrAlreadySubmitted is returned when local answers are submitted twice.
	ErrAlreadySubmitted = errors.New("answers already submitted")
	// ErrInvalidInvite is returned for an invite that fails validation.
	ErrInvalidInvite = errors.New("invalid invite")
	// ErrNoResult is returned by Wait when no full result arrived in time.
	ErrNoResult = errors.New("no pair result yet")
)
