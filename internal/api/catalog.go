package api

import (
	"net/http"

	"github.com/mfc9812ops/Amaze-Picking/internal/catalog"
)

// CatalogHandler exposes manual cache control for the sheet-backed catalog.
type CatalogHandler struct {
	Cache *catalog.Cache
}

// Refresh handles POST /api/catalog/refresh: drop all cached sheets so the
// next lookup rereads the store, e.g. after the catalog was edited.
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	h.Cache.Invalidate("")
	jsonResponse(w, http.StatusOK, map[string]string{"message": "catalog cache refreshed"})
}
