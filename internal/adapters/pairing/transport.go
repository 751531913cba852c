package pairing

import (
	"context"

	"github.com/okian/duoquiz/internal/domain/model"
)

// Transport establishes links between the two peers of a session.
//
// The owner publishes the invite and is the listening side: Open blocks
// until a guest arrives. The guest follows the invite and is the dialing
// side: Open fails fast if nobody is listening. Open may be called
// repeatedly for the same session id.
type Transport interface {
	Open(ctx context.Context, sessionID string, role model.Role) (Link, error)
}

// Link is an established bidirectional frame stream.
type Link interface {
	Send(ctx context.Context, frame []byte) error
	// Receive blocks for the next frame. Any error means the link is gone.
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, sessionID string, role model.Role) (Link, error)

// Open implements Transport.
func (f TransportFunc) Open(ctx context.Context, sessionID string, role model.Role) (Link, error) {
	return f(ctx, sessionID, role)
}
