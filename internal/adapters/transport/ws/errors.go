package ws

import "errors"

var (
	// ErrPeerUnavailable is returned to a dialer when the host is not waiting.
	ErrPeerUnavailable = errors.New("peer unavailable")
	// ErrWrongRole is returned when a transport is opened for the other side.
	ErrWrongRole = errors.New("transport does not serve this role")
)
