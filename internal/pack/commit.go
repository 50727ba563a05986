// Package pack sequences a commit: photo uploads in gallery order, then one
// ledger row per cart line, all sharing a single canonical photo reference.
package pack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
	"github.com/mfc9812ops/Amaze-Picking/internal/picklog"
)

const fileTimestampFormat = "20060102_150405"

// ErrNoPhotos rejects a commit before any upload or ledger call is made.
var ErrNoPhotos = errors.New("commit requires at least one photo")

// FileUploader is the slice of the file store the protocol needs.
type FileUploader interface {
	CreateFile(ctx context.Context, folderID, name, mime string, data []byte) (string, error)
}

// RecordWriter is the slice of the ledger the protocol needs.
type RecordWriter interface {
	AppendPickRecord(ctx context.Context, rec model.PickRecord) error
	AppendRiderRecord(ctx context.Context, rec model.RiderRecord) error
}

// Request is one packing commit: the destination folder resolved for this
// session, the frozen cart, and the gallery in capture order.
type Request struct {
	FolderID   string
	OrderID    string
	PickerName string
	UserID     string
	Cart       []model.CartItem
	Photos     [][]byte
	Now        time.Time
}

// Result reports what a commit produced.
type Result struct {
	Uploaded        int
	CanonicalFileID string
	Logged          int
}

// Commit uploads every photo, then appends one ledger row per cart line.
//
// Uploads run strictly in gallery order and abort on the first failure;
// already-uploaded files are not rolled back. The canonical photo reference
// shared by all rows is the last uploaded photo (1-based sequence equal to
// the total), or the "-" sentinel if there were none to upload. Ledger
// appends are attempted independently: a failed row is logged and skipped
// without aborting the remaining lines.
func Commit(ctx context.Context, files FileUploader, ledger RecordWriter, req Request) (*Result, error) {
	if len(req.Photos) == 0 {
		return nil, ErrNoPhotos
	}

	ts := req.Now.Format(fileTimestampFormat)
	total := len(req.Photos)
	canonical := picklog.PhotoSentinel

	for i, photo := range req.Photos {
		seq := i + 1
		name := fmt.Sprintf("%s_PACKED_%s_Img%d.jpg", req.OrderID, ts, seq)
		id, err := files.CreateFile(ctx, req.FolderID, name, "image/jpeg", photo)
		if err != nil {
			return nil, fmt.Errorf("uploading photo %d of %d: %w", seq, total, err)
		}
		if seq == total {
			canonical = id
		}
	}

	logged := 0
	for _, item := range req.Cart {
		rec := model.PickRecord{
			Timestamp:   req.Now,
			PickerName:  req.PickerName,
			OrderID:     req.OrderID,
			Barcode:     item.Barcode,
			ProductName: item.ProductName,
			Location:    item.Location,
			Quantity:    item.Quantity,
			UserID:      req.UserID,
			PhotoFileID: canonical,
		}
		if err := ledger.AppendPickRecord(ctx, rec); err != nil {
			slog.Warn("pick record not saved", "order", req.OrderID, "barcode", item.Barcode, "error", err)
			continue
		}
		logged++
	}

	return &Result{Uploaded: total, CanonicalFileID: canonical, Logged: logged}, nil
}

// RiderRequest is one rider handoff: a single photo attached to an order
// folder that already exists (the protocol never creates one).
type RiderRequest struct {
	FolderID   string
	FolderName string
	OrderID    string
	PickerName string
	Photo      []byte
	Now        time.Time
}

// CommitRider uploads the handoff photo and appends one rider ledger row.
// Like pick rows, a failed rider row is logged without failing the handoff.
func CommitRider(ctx context.Context, files FileUploader, ledger RecordWriter, req RiderRequest) (string, error) {
	name := fmt.Sprintf("RIDER_%s_%s.jpg", req.OrderID, req.Now.Format(fileTimestampFormat))
	id, err := files.CreateFile(ctx, req.FolderID, name, "image/jpeg", req.Photo)
	if err != nil {
		return "", fmt.Errorf("uploading rider photo: %w", err)
	}

	rec := model.RiderRecord{
		Timestamp:   req.Now,
		PickerName:  req.PickerName,
		OrderID:     req.OrderID,
		FolderName:  req.FolderName,
		PhotoFileID: id,
	}
	if err := ledger.AppendRiderRecord(ctx, rec); err != nil {
		slog.Warn("rider record not saved", "order", req.OrderID, "error", err)
	}

	return id, nil
}
