package api

import (
	"log/slog"
	"net/http"

	"github.com/mfc9812ops/Amaze-Picking/internal/store"
)

// FilesHandler serves stored photos back by file ID. Ledger rows link here
// through the configured URL template.
type FilesHandler struct {
	Store *store.Store
}

// Get handles GET /api/files/{id}.
func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	file, data, err := h.Store.GetFile(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get file", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if file == nil {
		jsonError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", file.MIME)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write file response", "error", err)
	}
}
