package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mfc9812ops/Amaze-Picking/internal/catalog"
	"github.com/mfc9812ops/Amaze-Picking/internal/folder"
	"github.com/mfc9812ops/Amaze-Picking/internal/model"
	"github.com/mfc9812ops/Amaze-Picking/internal/pack"
	"github.com/mfc9812ops/Amaze-Picking/internal/picklog"
	"github.com/mfc9812ops/Amaze-Picking/internal/session"
	"github.com/mfc9812ops/Amaze-Picking/internal/store"
)

// maxPhotoUpload caps a single photo upload request body.
const maxPhotoUpload = 15 << 20

// SessionHandler drives the picking workflow for the authenticated picker.
type SessionHandler struct {
	Sessions *session.Manager
	Catalog  *catalog.Catalog
	Resolver *folder.Resolver
	Files    *store.Store
	Ledger   *picklog.Ledger
	Now      func() time.Time
}

// sessionView is the JSON projection of a session. Gallery photos are
// reported by count only; raw bytes never leave the server before commit.
type sessionView struct {
	OrderID        string           `json:"order_id"`
	Phase          string           `json:"phase"`
	ItemBarcode    string           `json:"item_barcode,omitempty"`
	ItemName       string           `json:"item_name,omitempty"`
	TargetLocation string           `json:"target_location,omitempty"`
	Location       string           `json:"location,omitempty"`
	Quantity       int              `json:"quantity"`
	Cart           []model.CartItem `json:"cart"`
	PhotoCount     int              `json:"photo_count"`
	GalleryFull    bool             `json:"gallery_full"`
	CamCounter     int              `json:"cam_counter"`
}

func viewOf(s *session.Session) sessionView {
	cart := s.Cart
	if cart == nil {
		cart = []model.CartItem{}
	}
	return sessionView{
		OrderID:        s.OrderID,
		Phase:          s.Phase,
		ItemBarcode:    s.ItemBarcode,
		ItemName:       s.ItemName,
		TargetLocation: s.TargetLocation,
		Location:       s.Location,
		Quantity:       s.Quantity,
		Cart:           cart,
		PhotoCount:     len(s.Gallery),
		GalleryFull:    len(s.Gallery) >= session.MaxPhotos,
		CamCounter:     s.CamCounter,
	}
}

// transitionError maps workflow errors onto HTTP statuses: validation errors
// are 409/400 (state preserved, retryable after correction), missing folders
// are 404, anything else is a service failure.
func transitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrLocationMismatch),
		errors.Is(err, session.ErrOrderAlreadySet),
		errors.Is(err, session.ErrItemPending),
		errors.Is(err, session.ErrWrongPhase),
		errors.Is(err, session.ErrGalleryFull):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrOrderNotSet),
		errors.Is(err, session.ErrNoItemPending),
		errors.Is(err, session.ErrLocationNotSet),
		errors.Is(err, session.ErrInvalidQuantity),
		errors.Is(err, session.ErrEmptyCart),
		errors.Is(err, session.ErrNoPhotos),
		errors.Is(err, session.ErrBadIndex),
		errors.Is(err, pack.ErrNoPhotos):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, folder.ErrNoYearFolder),
		errors.Is(err, folder.ErrNoMonthFolder),
		errors.Is(err, folder.ErrNoDateFolder),
		errors.Is(err, folder.ErrNoOrderFolder):
		jsonError(w, http.StatusNotFound, err.Error())
	default:
		slog.Error("workflow operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *SessionHandler) do(w http.ResponseWriter, r *http.Request, fn func(*session.Session) error) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var view sessionView
	err := h.Sessions.Do(claims.EmployeeID, claims.Name, func(s *session.Session) error {
		if err := fn(s); err != nil {
			return err
		}
		view = viewOf(s)
		return nil
	})
	if err != nil {
		transitionError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, view)
}

// Get handles GET /api/session.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *session.Session) error { return nil })
}

type orderRequest struct {
	OrderID string `json:"order_id"`
}

// SetOrder handles POST /api/session/order. Accepts manually typed or
// barcode-decoded text; either way the ID is normalized to uppercase.
func (h *SessionHandler) SetOrder(w http.ResponseWriter, r *http.Request) {
	var req orderRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.do(w, r, func(s *session.Session) error {
		return s.SetOrder(req.OrderID)
	})
}

type itemRequest struct {
	Barcode string `json:"barcode"`
}

// SetItem handles POST /api/session/item: barcode lookup plus the start of
// the location-confirm loop.
func (h *SessionHandler) SetItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Barcode == "" {
		jsonError(w, http.StatusBadRequest, "barcode required")
		return
	}

	product, err := h.Catalog.Lookup(r.Context(), req.Barcode)
	if err != nil {
		slog.Error("catalog lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if product == nil {
		jsonError(w, http.StatusNotFound, "unknown barcode")
		return
	}

	h.do(w, r, func(s *session.Session) error {
		return s.SetItem(*product)
	})
}

// ClearItem handles POST /api/session/item/clear: abandon the in-progress
// scan and rescan with a fresh capture widget.
func (h *SessionHandler) ClearItem(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *session.Session) error {
		s.ClearItem()
		return nil
	})
}

type locationRequest struct {
	Location string `json:"location"`
}

// ConfirmLocation handles POST /api/session/location. A mismatch clears only
// the location field so the picker can rescan it without losing the item.
func (h *SessionHandler) ConfirmLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.do(w, r, func(s *session.Session) error {
		return s.ConfirmLocation(req.Location)
	})
}

type cartRequest struct {
	Quantity int `json:"quantity"`
}

// AddToCart handles POST /api/session/cart.
func (h *SessionHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	h.do(w, r, func(s *session.Session) error {
		if err := s.SetQuantity(req.Quantity); err != nil {
			return err
		}
		_, err := s.AddToCart()
		return err
	})
}

// RemoveCartItem handles DELETE /api/session/cart/{index}.
func (h *SessionHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid index")
		return
	}
	h.do(w, r, func(s *session.Session) error {
		return s.RemoveCartItem(index)
	})
}

// Advance handles POST /api/session/advance: scan phase to pack phase.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *session.Session) error {
		return s.AdvanceToPack()
	})
}

// Back handles POST /api/session/back: pack phase back to scan, discarding
// captured photos.
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *session.Session) error {
		return s.BackToScan()
	})
}

// AddPhoto handles POST /api/session/photos (multipart field "photo").
func (h *SessionHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	jpeg, ok := readPhoto(w, r)
	if !ok {
		return
	}
	h.do(w, r, func(s *session.Session) error {
		return s.AddPhoto(jpeg)
	})
}

// RemovePhoto handles DELETE /api/session/photos/{index}.
func (h *SessionHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid index")
		return
	}
	h.do(w, r, func(s *session.Session) error {
		return s.RemovePhoto(index)
	})
}

type commitResponse struct {
	Uploaded    int         `json:"uploaded"`
	Logged      int         `json:"logged"`
	PhotoFileID string      `json:"photo_file_id"`
	FolderID    string      `json:"folder_id"`
	FolderName  string      `json:"folder_name"`
	Session     sessionView `json:"session"`
}

// Commit handles POST /api/session/commit. A fresh order folder is always
// created, photos upload in gallery order, one ledger row is appended per
// cart line, and on success the session is fully reset. On any upload
// failure the session is left untouched so the picker can retry.
func (h *SessionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var resp commitResponse
	err := h.Sessions.Do(claims.EmployeeID, claims.Name, func(s *session.Session) error {
		if s.Phase != session.PhasePack {
			return session.ErrWrongPhase
		}
		if len(s.Gallery) == 0 {
			return pack.ErrNoPhotos
		}

		now := h.Now()
		orderFolder, err := h.Resolver.ResolveOrCreate(r.Context(), s.OrderID, now)
		if err != nil {
			return err
		}

		result, err := pack.Commit(r.Context(), h.Files, h.Ledger, pack.Request{
			FolderID:   orderFolder.ID,
			OrderID:    s.OrderID,
			PickerName: s.UserName,
			UserID:     s.UserID,
			Cart:       s.Cart,
			Photos:     s.Gallery,
			Now:        now,
		})
		if err != nil {
			return err
		}

		slog.Info("order committed",
			"order", s.OrderID, "picker", s.UserID,
			"items", len(s.Cart), "photos", result.Uploaded, "folder", orderFolder.Name)

		s.Reset()
		resp = commitResponse{
			Uploaded:    result.Uploaded,
			Logged:      result.Logged,
			PhotoFileID: result.CanonicalFileID,
			FolderID:    orderFolder.ID,
			FolderName:  orderFolder.Name,
			Session:     viewOf(s),
		}
		return nil
	})
	if err != nil {
		transitionError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Reset handles POST /api/session/reset: explicit full cancellation.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, func(s *session.Session) error {
		s.Reset()
		return nil
	})
}
