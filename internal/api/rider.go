package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mfc9812ops/Amaze-Picking/internal/folder"
	"github.com/mfc9812ops/Amaze-Picking/internal/pack"
	"github.com/mfc9812ops/Amaze-Picking/internal/picklog"
	"github.com/mfc9812ops/Amaze-Picking/internal/store"
)

// RiderHandler implements the rider handoff: one extra photo into the order
// folder created earlier by the packing flow.
type RiderHandler struct {
	Resolver *folder.Resolver
	Files    *store.Store
	Ledger   *picklog.Ledger
	Now      func() time.Time
}

type riderFolderRequest struct {
	OrderID string `json:"order_id"`
}

type riderFolderResponse struct {
	FolderID   string `json:"folder_id"`
	FolderName string `json:"folder_name"`
}

// FindFolder handles POST /api/rider/folder: find-only resolution of
// today's folder for an order. It never creates folders, so a mistyped
// order cannot fragment an existing order's photos.
func (h *RiderHandler) FindFolder(w http.ResponseWriter, r *http.Request) {
	var req riderFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	orderID := strings.ToUpper(strings.TrimSpace(req.OrderID))
	if orderID == "" {
		jsonError(w, http.StatusBadRequest, "order_id required")
		return
	}

	found, err := h.Resolver.FindExisting(r.Context(), orderID, h.Now())
	if err != nil {
		transitionError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, riderFolderResponse{FolderID: found.ID, FolderName: found.Name})
}

type riderCommitResponse struct {
	PhotoFileID string `json:"photo_file_id"`
	FolderID    string `json:"folder_id"`
	FolderName  string `json:"folder_name"`
}

// Commit handles POST /api/rider/commit (multipart: "order_id" field plus a
// "photo" file). The folder is re-resolved server side rather than trusting
// a client-cached ID, then the photo and one rider ledger row are recorded.
func (h *RiderHandler) Commit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	photo, ok := readPhoto(w, r)
	if !ok {
		return
	}
	orderID := strings.ToUpper(strings.TrimSpace(r.FormValue("order_id")))
	if orderID == "" {
		jsonError(w, http.StatusBadRequest, "order_id required")
		return
	}

	now := h.Now()
	found, err := h.Resolver.FindExisting(r.Context(), orderID, now)
	if err != nil {
		transitionError(w, err)
		return
	}

	fileID, err := pack.CommitRider(r.Context(), h.Files, h.Ledger, pack.RiderRequest{
		FolderID:   found.ID,
		FolderName: found.Name,
		OrderID:    orderID,
		PickerName: claims.Name,
		Photo:      photo,
		Now:        now,
	})
	if err != nil {
		transitionError(w, err)
		return
	}

	slog.Info("rider handoff recorded", "order", orderID, "picker", claims.EmployeeID, "folder", found.Name)
	jsonResponse(w, http.StatusOK, riderCommitResponse{
		PhotoFileID: fileID,
		FolderID:    found.ID,
		FolderName:  found.Name,
	})
}
