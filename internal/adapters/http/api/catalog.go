package api

import (
	"net/http"

	"github.com/okian/duoquiz/internal/domain/types"
)

// CatalogHandler serves the solo and duo type catalog.
type CatalogHandler struct {
	catalog types.Catalog
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{catalog: types.NewCatalog()}
}

// HandleTypes handles GET /types requests.
func (h *CatalogHandler) HandleTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog)
}
