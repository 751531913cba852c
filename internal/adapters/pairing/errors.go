package pairing

import "errors"

var (
	// ErrNotConnected is returned by Send when the message was dropped.
	ErrNotConnected = errors.New("channel not connected")
	// ErrBufferFull is returned by Send when the outbound buffer has no room.
	ErrBufferFull = errors.New("send buffer full")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("channel closed")
	// ErrRetriesExhausted is the terminal cause once the retry budget is spent.
	ErrRetriesExhausted = errors.New("could not reach partner")
	// ErrNoSession is returned by Restart before any session id is known.
	ErrNoSession = errors.New("no session id")
	// ErrLinkLost wraps the transport error that ended a live link.
	ErrLinkLost = errors.New("connection lost")
)
