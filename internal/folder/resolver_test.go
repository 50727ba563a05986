package folder

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mfc9812ops/Amaze-Picking/internal/db"
	"github.com/mfc9812ops/Amaze-Picking/internal/store"
)

func newTestResolver(t *testing.T) (*Resolver, *store.Store) {
	t.Helper()
	st := store.New(db.NewTestDB(t))
	return &Resolver{Store: st, RootID: store.RootFolderID}, st
}

var testNow = time.Date(2026, 8, 31, 14, 5, 0, 0, time.UTC)

func TestResolveOrCreateBuildsHierarchy(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	order, err := r.ResolveOrCreate(ctx, "B01", testNow)
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}
	if order.Name != "B01_14-05" {
		t.Errorf("expected order folder 'B01_14-05', got %q", order.Name)
	}

	// Walk the chain down from the root by the expected names.
	year, _ := st.FindFolder(ctx, store.RootFolderID, "2026")
	if year == nil {
		t.Fatal("expected year folder '2026'")
	}
	month, _ := st.FindFolder(ctx, year.ID, "08")
	if month == nil {
		t.Fatal("expected month folder '08'")
	}
	date, _ := st.FindFolder(ctx, month.ID, "31-08-2026")
	if date == nil {
		t.Fatal("expected date folder '31-08-2026'")
	}
	if order.ParentID != date.ID {
		t.Errorf("expected order folder under date folder %q, got parent %q", date.ID, order.ParentID)
	}
}

func TestResolveThenFindSameDay(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	created, err := r.ResolveOrCreate(ctx, "B01", testNow)
	if err != nil {
		t.Fatalf("ResolveOrCreate: %v", err)
	}

	found, err := r.FindExisting(ctx, "B01", testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if !strings.HasPrefix(found.Name, "B01_") {
		t.Errorf("expected name prefixed 'B01_', got %q", found.Name)
	}
	if found.ID != created.ID {
		t.Errorf("expected found folder %q, got %q", created.ID, found.ID)
	}
}

func TestResolveTwiceCreatesDistinctOrderFolders(t *testing.T) {
	r, _ := newTestResolver(t)
	ctx := context.Background()

	first, err := r.ResolveOrCreate(ctx, "B01", testNow)
	if err != nil {
		t.Fatalf("first ResolveOrCreate: %v", err)
	}
	second, err := r.ResolveOrCreate(ctx, "B01", testNow.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("second ResolveOrCreate: %v", err)
	}

	if first.ID == second.ID {
		t.Error("expected distinct order folders for two pack sessions")
	}
	if first.ParentID != second.ParentID {
		t.Errorf("expected shared date folder, got %q and %q", first.ParentID, second.ParentID)
	}
}

func TestFindExistingPicksMostRecent(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	clock := testNow
	st.Now = func() time.Time { return clock }

	r.ResolveOrCreate(ctx, "B01", testNow)
	clock = testNow.Add(10 * time.Minute)
	second, _ := r.ResolveOrCreate(ctx, "B01", testNow.Add(10*time.Minute))

	found, err := r.FindExisting(ctx, "B01", testNow.Add(time.Hour))
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if found.ID != second.ID {
		t.Errorf("expected most recently created folder %q, got %q (%s)", second.ID, found.ID, found.Name)
	}
}

func TestFindExistingFiltersByPrefix(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	// B012 contains B01 but does not belong to order B01.
	r.ResolveOrCreate(ctx, "B012", testNow)

	_, err := r.FindExisting(ctx, "B01", testNow)
	if !errors.Is(err, ErrNoOrderFolder) {
		t.Fatalf("expected ErrNoOrderFolder, got %v", err)
	}

	// Sanity: the containment query did see the B012 folder.
	year, _ := st.FindFolder(ctx, store.RootFolderID, "2026")
	if year == nil {
		t.Fatal("expected year folder to exist")
	}
}

func TestFindExistingNotFoundReasons(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	// Nothing created at all: fails at the year level.
	_, err := r.FindExisting(ctx, "B01", testNow)
	if !errors.Is(err, ErrNoYearFolder) {
		t.Fatalf("expected ErrNoYearFolder, got %v", err)
	}

	// Year exists but nothing deeper: fails at the month level.
	year, _ := st.CreateFolder(ctx, store.RootFolderID, "2026")
	_, err = r.FindExisting(ctx, "B01", testNow)
	if !errors.Is(err, ErrNoMonthFolder) {
		t.Fatalf("expected ErrNoMonthFolder, got %v", err)
	}

	// Month exists too: fails at the date level.
	month, _ := st.CreateFolder(ctx, year.ID, "08")
	_, err = r.FindExisting(ctx, "B01", testNow)
	if !errors.Is(err, ErrNoDateFolder) {
		t.Fatalf("expected ErrNoDateFolder, got %v", err)
	}

	// Date exists but no order folder.
	st.CreateFolder(ctx, month.ID, "31-08-2026")
	_, err = r.FindExisting(ctx, "B01", testNow)
	if !errors.Is(err, ErrNoOrderFolder) {
		t.Fatalf("expected ErrNoOrderFolder, got %v", err)
	}
}

func TestResolveOrCreateReusesDateChain(t *testing.T) {
	r, st := newTestResolver(t)
	ctx := context.Background()

	r.ResolveOrCreate(ctx, "B01", testNow)
	r.ResolveOrCreate(ctx, "C02", testNow.Add(time.Minute))

	// Only one year folder despite two commits.
	years, err := st.FindChildFolders(ctx, store.RootFolderID, "2026")
	if err != nil {
		t.Fatalf("FindChildFolders: %v", err)
	}
	if len(years) != 1 {
		t.Errorf("expected 1 year folder, got %d", len(years))
	}
}

func TestOrderFolderName(t *testing.T) {
	got := OrderFolderName("B01", testNow)
	if got != "B01_14-05" {
		t.Errorf("expected 'B01_14-05', got %q", got)
	}
}
