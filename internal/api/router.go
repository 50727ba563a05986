package api

import (
	"net/http"
	"time"

	"github.com/mfc9812ops/Amaze-Picking/internal/catalog"
	"github.com/mfc9812ops/Amaze-Picking/internal/folder"
	"github.com/mfc9812ops/Amaze-Picking/internal/picklog"
	"github.com/mfc9812ops/Amaze-Picking/internal/session"
	"github.com/mfc9812ops/Amaze-Picking/internal/store"
)

// Config wires the router's collaborators.
type Config struct {
	Store     *store.Store
	Sessions  *session.Manager
	Catalog   *catalog.Catalog
	Directory *catalog.Directory
	Cache     *catalog.Cache
	Resolver  *folder.Resolver
	Ledger    *picklog.Ledger
	JWTSecret string
	Now       func() time.Time
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(cfg Config) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{
		Directory: cfg.Directory,
		Store:     cfg.Store,
		Sessions:  cfg.Sessions,
		JWTSecret: cfg.JWTSecret,
	}
	scanHandler := &ScanHandler{}
	sessionHandler := &SessionHandler{
		Sessions: cfg.Sessions,
		Catalog:  cfg.Catalog,
		Resolver: cfg.Resolver,
		Files:    cfg.Store,
		Ledger:   cfg.Ledger,
		Now:      cfg.Now,
	}
	riderHandler := &RiderHandler{
		Resolver: cfg.Resolver,
		Files:    cfg.Store,
		Ledger:   cfg.Ledger,
		Now:      cfg.Now,
	}
	filesHandler := &FilesHandler{Store: cfg.Store}
	catalogHandler := &CatalogHandler{Cache: cfg.Cache}

	authMW := AuthMiddleware(cfg.JWTSecret, cfg.Store)

	// Public: badge lookup and login.
	mux.HandleFunc("POST /api/auth/lookup", authHandler.Lookup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Barcode decoding.
	mux.Handle("POST /api/scan", authMW(http.HandlerFunc(scanHandler.Decode)))

	// Picking workflow.
	mux.Handle("GET /api/session", authMW(http.HandlerFunc(sessionHandler.Get)))
	mux.Handle("POST /api/session/order", authMW(http.HandlerFunc(sessionHandler.SetOrder)))
	mux.Handle("POST /api/session/item", authMW(http.HandlerFunc(sessionHandler.SetItem)))
	mux.Handle("POST /api/session/item/clear", authMW(http.HandlerFunc(sessionHandler.ClearItem)))
	mux.Handle("POST /api/session/location", authMW(http.HandlerFunc(sessionHandler.ConfirmLocation)))
	mux.Handle("POST /api/session/cart", authMW(http.HandlerFunc(sessionHandler.AddToCart)))
	mux.Handle("DELETE /api/session/cart/{index}", authMW(http.HandlerFunc(sessionHandler.RemoveCartItem)))
	mux.Handle("POST /api/session/advance", authMW(http.HandlerFunc(sessionHandler.Advance)))
	mux.Handle("POST /api/session/back", authMW(http.HandlerFunc(sessionHandler.Back)))
	mux.Handle("POST /api/session/photos", authMW(http.HandlerFunc(sessionHandler.AddPhoto)))
	mux.Handle("DELETE /api/session/photos/{index}", authMW(http.HandlerFunc(sessionHandler.RemovePhoto)))
	mux.Handle("POST /api/session/commit", authMW(http.HandlerFunc(sessionHandler.Commit)))
	mux.Handle("POST /api/session/reset", authMW(http.HandlerFunc(sessionHandler.Reset)))

	// Rider handoff.
	mux.Handle("POST /api/rider/folder", authMW(http.HandlerFunc(riderHandler.FindFolder)))
	mux.Handle("POST /api/rider/commit", authMW(http.HandlerFunc(riderHandler.Commit)))

	// Stored photos (linked from ledger rows).
	mux.Handle("GET /api/files/{id}", authMW(http.HandlerFunc(filesHandler.Get)))

	// Catalog cache control.
	mux.Handle("POST /api/catalog/refresh", authMW(http.HandlerFunc(catalogHandler.Refresh)))

	return mux
}
