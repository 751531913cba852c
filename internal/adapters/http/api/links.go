package api

import (
	"errors"
	"net/http"

	service "github.com/okian/duoquiz/internal/app"
	"github.com/okian/duoquiz/internal/domain/codec"
	"github.com/okian/duoquiz/internal/domain/quiz"
	"github.com/okian/duoquiz/internal/domain/types"
	"github.com/okian/duoquiz/pkg/logger"
	"github.com/okian/duoquiz/pkg/metrics"
)

const (
	tokenParam      = "d"
	codeInvalidLink = "invalid_link"
)

// LinkHandler decodes invite and result links.
type LinkHandler struct {
	catalog *quiz.Catalog
	logger  logger.Logger
}

// NewLinkHandler creates a new link handler.
func NewLinkHandler(c *quiz.Catalog, l logger.Logger) *LinkHandler {
	return &LinkHandler{catalog: c, logger: l}
}

// HandleInvite handles GET /invite?d=TOKEN.
func (h *LinkHandler) HandleInvite(w http.ResponseWriter, r *http.Request) {
	inv, err := codec.Decode[codec.Invite](r.URL.Query().Get(tokenParam))
	if err != nil {
		h.reject(w, r, "invite", err)
		return
	}
	writeJSON(w, http.StatusOK, types.NewInviteView(inv, len(h.catalog.Base())))
}

// HandleResult handles GET /result?d=TOKEN.
func (h *LinkHandler) HandleResult(w http.ResponseWriter, r *http.Request) {
	p, err := codec.Decode[codec.ResultPayload](r.URL.Query().Get(tokenParam))
	if err != nil {
		h.reject(w, r, "result", err)
		return
	}
	view, ok := service.PairViewFor(p)
	if !ok {
		h.reject(w, r, "result", codec.ErrShape)
		return
	}
	writeJSON(w, http.StatusOK, types.NewResultView(p, view))
}

// reject answers every undecodable link the same way.
func (h *LinkHandler) reject(w http.ResponseWriter, r *http.Request, link string, err error) {
	reason := decodeReason(err)
	metrics.RecordDecodeError(reason)
	h.logger.Debug(r.Context(), "rejected link",
		logger.String("link", link),
		logger.String("reason", reason),
		logger.Error(err),
	)
	writeError(w, http.StatusBadRequest, codeInvalidLink, ErrInvalidLink)
}

func decodeReason(err error) string {
	switch {
	case errors.Is(err, codec.ErrVersion):
		return "version"
	case errors.Is(err, codec.ErrKind):
		return "kind"
	case errors.Is(err, codec.ErrShape):
		return "shape"
	default:
		return "malformed"
	}
}
