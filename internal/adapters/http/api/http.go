// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/okian/duoquiz/internal/domain/quiz"
	"github.com/okian/duoquiz/pkg/logger"
)

// Server wires HTTP routes for the host.
type Server struct {
	healthHandler  *HealthHandler
	linkHandler    *LinkHandler
	catalogHandler *CatalogHandler
	pairing        http.Handler
}

// Option configures a Server.
type Option func(*serverOptions)

type serverOptions struct {
	pairing http.Handler
	catalog *quiz.Catalog
	logger  logger.Logger
}

// WithPairing mounts h on GET /pair/{sid}.
func WithPairing(h http.Handler) Option {
	return func(o *serverOptions) { o.pairing = h }
}

// WithCatalog sets the question catalog used to describe invites.
func WithCatalog(c *quiz.Catalog) Option {
	return func(o *serverOptions) {
		if c != nil {
			o.catalog = c
		}
	}
}

// WithLogger sets the logger for handlers.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(opts ...Option) *Server {
	o := serverOptions{catalog: quiz.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Get().Named("api")
	}
	return &Server{
		healthHandler:  NewHealthHandler(),
		linkHandler:    NewLinkHandler(o.catalog, o.logger),
		catalogHandler: NewCatalogHandler(),
		pairing:        o.pairing,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.Metrics())
	mux.HandleFunc("GET /invite", MetricsMiddleware(s.linkHandler.HandleInvite, "invite"))
	mux.HandleFunc("GET /result", MetricsMiddleware(s.linkHandler.HandleResult, "result"))
	mux.HandleFunc("GET /types", MetricsMiddleware(s.catalogHandler.HandleTypes, "types"))
	if s.pairing != nil {
		mux.HandleFunc("GET /pair/{sid}", MetricsMiddleware(s.pairing.ServeHTTP, "pair"))
	}
}

// Handler returns a mux with every route registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return mux
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
