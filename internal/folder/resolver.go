// Package folder maps orders and dates onto the Year/Month/Date/Order
// hierarchy of the file store.
package folder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
)

// Date component formats for the storage hierarchy.
const (
	yearFormat       = "2006"
	monthFormat      = "01"
	dateFormat       = "02-01-2006"
	timeSuffixFormat = "15-04"
)

// Per-level not-found reasons for the find-only walk.
var (
	ErrNoYearFolder  = errors.New("no folder for the current year")
	ErrNoMonthFolder = errors.New("no folder for the current month")
	ErrNoDateFolder  = errors.New("no folder for today (no orders opened yet)")
	ErrNoOrderFolder = errors.New("no order folder found for today")
)

// FolderStore is the slice of the file store the resolver needs.
type FolderStore interface {
	FindFolder(ctx context.Context, parentID, name string) (*model.Folder, error)
	FindChildFolders(ctx context.Context, parentID, nameContains string) ([]model.Folder, error)
	CreateFolder(ctx context.Context, parentID, name string) (*model.Folder, error)
}

// Resolver walks and extends the dated folder hierarchy under a fixed root.
type Resolver struct {
	Store  FolderStore
	RootID string
}

// OrderFolderName formats the folder name for a pack session opened at the
// given time: "{orderID}_{HH-MM}".
func OrderFolderName(orderID string, now time.Time) string {
	return orderID + "_" + now.Format(timeSuffixFormat)
}

// ResolveOrCreate finds or creates the Year/Month/Date chain for now, then
// always creates a fresh order folder beneath it. Multiple pack sessions for
// one order on one day legitimately produce multiple order folders, so the
// order level is never reused.
func (r *Resolver) ResolveOrCreate(ctx context.Context, orderID string, now time.Time) (*model.Folder, error) {
	yearID, err := r.findOrCreate(ctx, r.RootID, now.Format(yearFormat))
	if err != nil {
		return nil, err
	}
	monthID, err := r.findOrCreate(ctx, yearID, now.Format(monthFormat))
	if err != nil {
		return nil, err
	}
	dateID, err := r.findOrCreate(ctx, monthID, now.Format(dateFormat))
	if err != nil {
		return nil, err
	}

	order, err := r.Store.CreateFolder(ctx, dateID, OrderFolderName(orderID, now))
	if err != nil {
		return nil, fmt.Errorf("creating order folder: %w", err)
	}
	return order, nil
}

// FindExisting walks Year/Month/Date with find-only semantics, failing fast
// with a level-specific reason, then returns the most recently created order
// folder whose name starts with "{orderID}_". Used by the rider flow, which
// must never open a second folder for an already-packed order.
func (r *Resolver) FindExisting(ctx context.Context, orderID string, now time.Time) (*model.Folder, error) {
	yearID, err := r.find(ctx, r.RootID, now.Format(yearFormat), ErrNoYearFolder)
	if err != nil {
		return nil, err
	}
	monthID, err := r.find(ctx, yearID, now.Format(monthFormat), ErrNoMonthFolder)
	if err != nil {
		return nil, err
	}
	dateID, err := r.find(ctx, monthID, now.Format(dateFormat), ErrNoDateFolder)
	if err != nil {
		return nil, err
	}

	// Broad containment query first, then an exact prefix filter. The store
	// returns children newest-first, so the first prefix match is the most
	// recently created folder for this order.
	children, err := r.Store.FindChildFolders(ctx, dateID, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing order folders: %w", err)
	}
	prefix := orderID + "_"
	for i := range children {
		if strings.HasPrefix(children[i].Name, prefix) {
			return &children[i], nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", orderID, ErrNoOrderFolder)
}

func (r *Resolver) findOrCreate(ctx context.Context, parentID, name string) (string, error) {
	folder, err := r.Store.FindFolder(ctx, parentID, name)
	if err != nil {
		return "", fmt.Errorf("finding folder %q: %w", name, err)
	}
	if folder != nil {
		return folder.ID, nil
	}

	folder, err = r.Store.CreateFolder(ctx, parentID, name)
	if err != nil {
		return "", fmt.Errorf("creating folder %q: %w", name, err)
	}
	return folder.ID, nil
}

func (r *Resolver) find(ctx context.Context, parentID, name string, notFound error) (string, error) {
	folder, err := r.Store.FindFolder(ctx, parentID, name)
	if err != nil {
		return "", fmt.Errorf("finding folder %q: %w", name, err)
	}
	if folder == nil {
		return "", notFound
	}
	return folder.ID, nil
}
