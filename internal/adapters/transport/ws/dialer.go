package ws

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/okian/duoquiz/internal/adapters/pairing"
	"github.com/okian/duoquiz/internal/domain/model"
	"github.com/okian/duoquiz/pkg/logger"
)

// Dialer is the guest side transport.
type Dialer struct {
	base         *url.URL
	dialer       *websocket.Dialer
	writeTimeout time.Duration
	logger       logger.Logger
}

// NewDialer targets a host address: host:port, http(s):// or ws(s):// URL.
func NewDialer(addr string, opts ...Option) (*Dialer, error) {
	u, err := baseURL(addr)
	if err != nil {
		return nil, err
	}
	o := resolve(opts)
	d := o.dialer
	if d == nil {
		d = &websocket.Dialer{HandshakeTimeout: 5 * time.Second, Proxy: http.ProxyFromEnvironment}
	}
	return &Dialer{base: u, dialer: d, writeTimeout: o.writeTimeout, logger: o.logger}, nil
}

func baseURL(addr string) (*url.URL, error) {
	if addr == "" {
		return nil, errors.New("ws: empty address")
	}
	if !strings.Contains(addr, "://") {
		addr = "ws://" + addr
	}
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("ws: parse address: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("ws: unsupported scheme %q", u.Scheme)
	}
	return u, nil
}

// URL is the socket address for sid.
func (d *Dialer) URL(sid string) string {
	u := *d.base
	u.Path = strings.TrimSuffix(u.Path, "/") + PathPrefix + url.PathEscape(sid)
	return u.String()
}

var _ pairing.Transport = (*Dialer)(nil)

// Open dials the host. A host that is not waiting yields ErrPeerUnavailable.
func (d *Dialer) Open(ctx context.Context, sid string, role model.Role) (pairing.Link, error) {
	if role != model.RoleGuest {
		return nil, fmt.Errorf("%w: %s", ErrWrongRole, role)
	}
	c, resp, err := d.dialer.DialContext(ctx, d.URL(sid), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusConflict {
			return nil, fmt.Errorf("%w: %s", ErrPeerUnavailable, sid)
		}
		return nil, fmt.Errorf("dial %s: %w", sid, err)
	}
	d.logger.Debug(ctx, "dialed host", logger.String("sid", sid))
	return newConn(c, d.writeTimeout), nil
}
