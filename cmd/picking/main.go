package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mfc9812ops/Amaze-Picking/internal/api"
	"github.com/mfc9812ops/Amaze-Picking/internal/catalog"
	"github.com/mfc9812ops/Amaze-Picking/internal/db"
	"github.com/mfc9812ops/Amaze-Picking/internal/folder"
	"github.com/mfc9812ops/Amaze-Picking/internal/picklog"
	"github.com/mfc9812ops/Amaze-Picking/internal/session"
	"github.com/mfc9812ops/Amaze-Picking/internal/store"
)

// Sheet headers created on first run. The item and user sheets are
// maintained by warehouse staff afterwards; the ledger sheets are append-only.
var (
	itemHeader = []string{"SKU", "Barcode", "Category", "Brand", "Size", "Variant", "Zone", "Location"}
	userHeader = []string{"Employee ID", "Password", "Name"}
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If logPath is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	fs := flag.NewFlagSet("picking", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", "picking.sqlite3", "")
	fs.StringVar(&dbPath, "d", "picking.sqlite3", "")

	var addr string
	fs.StringVar(&addr, "addr", ":8080", "")
	fs.StringVar(&addr, "a", ":8080", "")

	var tzName string
	fs.StringVar(&tzName, "tz", "Asia/Bangkok", "")

	var linkTemplate string
	fs.StringVar(&linkTemplate, "link", "/api/files/%s", "")

	var adminID string
	fs.StringVar(&adminID, "admin", "ADMIN", "")

	var logPath string
	fs.StringVar(&logPath, "log", "", "")
	fs.StringVar(&logPath, "l", "", "")

	fs.Usage = func() {
		io.WriteString(os.Stdout, `Usage: picking [flags]

Flags:
  -d, -db <path>          SQLite database path (default: picking.sqlite3)
  -a, -addr <host:port>   listen address (default: :8080)
  -tz <zone>              warehouse timezone for ledger timestamps and
                          folder dates (default: Asia/Bangkok)
  -link <template>        photo link template written to ledger rows, one %s
                          for the file ID (default: /api/files/%s)
  -admin <badge>          admin badge ID created on first run (default: ADMIN)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	// Set up structured logging: INFO/WARN → stdout, ERROR → stderr.
	// Optionally also write to a log file.
	closeLog, err := setupLogger(logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		slog.Error("invalid timezone", "tz", tzName, "error", err)
		os.Exit(1)
	}
	now := func() time.Time { return time.Now().In(loc) }

	// Check if DB exists, auto-init if not.
	firstRun := false
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		firstRun = true
	}

	// Open database.
	database, err := db.Open(dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Ensure schema exists (idempotent).
	if err := db.EnsureSchema(database); err != nil {
		slog.Error("failed to ensure database schema", "error", err)
		os.Exit(1)
	}

	st := store.New(database)
	st.Now = now

	if firstRun {
		password, err := seed(st, adminID)
		if err != nil {
			slog.Error("failed to seed database", "error", err)
			database.Close()
			os.Remove(dbPath)
			os.Exit(1)
		}
		printInitResult(dbPath, adminID, password)
		fmt.Println()
	}

	slog.Info("database ready", "path", dbPath, "tz", tzName)

	// Load JWT secret from database (auto-generated on first run).
	jwtSecret, err := st.JWTSecret(context.Background())
	if err != nil {
		slog.Error("failed to get JWT secret", "error", err)
		os.Exit(1)
	}

	cache := catalog.NewCache(st)
	router := api.NewRouter(api.Config{
		Store:     st,
		Sessions:  session.NewManager(),
		Catalog:   &catalog.Catalog{Rows: cache, Sheet: catalog.ItemSheet},
		Directory: &catalog.Directory{Rows: cache, Sheet: catalog.UserSheet},
		Cache:     cache,
		Resolver:  &folder.Resolver{Store: st, RootID: store.RootFolderID},
		Ledger:    picklog.NewLedger(st, linkTemplate),
		JWTSecret: jwtSecret,
		Now:       now,
	})

	handler := api.LoggingMiddleware(router)

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing database")
}

// seed creates the catalog and employee sheets and the admin badge with a
// generated password. Returns the password for one-time display.
func seed(st *store.Store, adminID string) (string, error) {
	ctx := context.Background()

	if err := st.EnsureSheet(ctx, catalog.ItemSheet, itemHeader); err != nil {
		return "", fmt.Errorf("creating item sheet: %w", err)
	}
	if err := st.EnsureSheet(ctx, catalog.UserSheet, userHeader); err != nil {
		return "", fmt.Errorf("creating user sheet: %w", err)
	}

	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	if err := st.AppendRow(ctx, catalog.UserSheet, []string{adminID, string(hash), "Admin"}); err != nil {
		return "", fmt.Errorf("creating admin employee: %w", err)
	}

	return password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, adminID, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println("Schema initialized, sheets created.")
	fmt.Println()
	fmt.Println("Admin badge created:")
	fmt.Printf("  Badge ID: %s\n", adminID)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password — it cannot be recovered.")
	fmt.Println("Add pickers as rows of the User sheet (badge ID, bcrypt hash, name).")
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
