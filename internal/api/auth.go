package api

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/mfc9812ops/Amaze-Picking/internal/auth"
	"github.com/mfc9812ops/Amaze-Picking/internal/catalog"
	"github.com/mfc9812ops/Amaze-Picking/internal/session"
	"github.com/mfc9812ops/Amaze-Picking/internal/store"
)

// AuthHandler handles badge lookup, login, and logout.
type AuthHandler struct {
	Directory *catalog.Directory
	Store     *store.Store
	Sessions  *session.Manager
	JWTSecret string
}

type lookupRequest struct {
	EmployeeID string `json:"employee_id"`
}

type lookupResponse struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
}

type loginRequest struct {
	EmployeeID string `json:"employee_id"`
	Password   string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// Lookup handles POST /api/auth/lookup. It resolves a scanned badge to the
// employee's display name so the login screen can ask for just the password.
func (h *AuthHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req lookupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EmployeeID == "" {
		jsonError(w, http.StatusBadRequest, "employee_id required")
		return
	}

	emp, err := h.Directory.Lookup(r.Context(), req.EmployeeID)
	if err != nil {
		slog.Error("employee lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if emp == nil {
		jsonError(w, http.StatusNotFound, "unknown employee id")
		return
	}

	jsonResponse(w, http.StatusOK, lookupResponse{EmployeeID: emp.ID, Name: emp.Name})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EmployeeID == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "employee_id and password required")
		return
	}

	emp, err := h.Directory.Lookup(r.Context(), req.EmployeeID)
	if err != nil {
		slog.Error("employee lookup failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if emp == nil {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "employee", emp.ID, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, emp.ID, emp.Name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("picker logged in", "employee", emp.ID, "name", emp.Name)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Name: emp.Name})
}

// Logout handles POST /api/auth/logout. The token's JTI is revoked and the
// picker's session is discarded.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if claims.ExpiresAt != nil {
		if err := h.Store.RevokeToken(r.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
			slog.Error("failed to revoke token", "error", err)
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	h.Sessions.Drop(claims.EmployeeID)

	slog.Info("picker logged out", "employee", claims.EmployeeID)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}
