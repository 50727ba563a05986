// Package picklog appends pick and rider-handoff records to the append-only
// ledger sheets.
package picklog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
)

// Default sheet names.
const (
	LogSheet   = "Logs"
	RiderSheet = "Rider_Logs"
)

// PhotoSentinel is written to the image-link column when a commit produced no
// canonical photo, so downstream consumers always find a value there.
const PhotoSentinel = "-"

const timestampFormat = "2006-01-02 15:04:05"

var (
	logHeader   = []string{"Timestamp", "Picker Name", "Order ID", "Barcode", "Product Name", "Location", "Pick Qty", "User", "Image Link"}
	riderHeader = []string{"Timestamp", "User Name", "Order ID", "Folder Name", "Rider Image Link"}
)

// RowStore is the slice of the tabular store the ledger needs.
type RowStore interface {
	EnsureSheet(ctx context.Context, name string, header []string) error
	AppendRow(ctx context.Context, sheet string, fields []string) error
}

// Ledger writes append-only records. Rows are never updated or deleted.
type Ledger struct {
	Rows RowStore

	// LinkTemplate renders a photo file ID into the externally addressable
	// URL written to ledger rows. It must contain exactly one %s verb.
	LinkTemplate string

	LogSheet   string
	RiderSheet string
}

// NewLedger creates a ledger over rows using the default sheet names.
func NewLedger(rows RowStore, linkTemplate string) *Ledger {
	return &Ledger{
		Rows:         rows,
		LinkTemplate: linkTemplate,
		LogSheet:     LogSheet,
		RiderSheet:   RiderSheet,
	}
}

// AppendPickRecord appends one row for a picked line item, creating the log
// sheet with its header on first use.
func (l *Ledger) AppendPickRecord(ctx context.Context, rec model.PickRecord) error {
	if err := l.Rows.EnsureSheet(ctx, l.LogSheet, logHeader); err != nil {
		return fmt.Errorf("ensuring log sheet: %w", err)
	}

	row := []string{
		rec.Timestamp.Format(timestampFormat),
		rec.PickerName,
		rec.OrderID,
		rec.Barcode,
		rec.ProductName,
		rec.Location,
		strconv.Itoa(rec.Quantity),
		rec.UserID,
		l.photoLink(rec.PhotoFileID),
	}
	if err := l.Rows.AppendRow(ctx, l.LogSheet, row); err != nil {
		return fmt.Errorf("appending pick record: %w", err)
	}
	return nil
}

// AppendRiderRecord appends one row for a rider handoff, creating the rider
// sheet with its header on first use.
func (l *Ledger) AppendRiderRecord(ctx context.Context, rec model.RiderRecord) error {
	if err := l.Rows.EnsureSheet(ctx, l.RiderSheet, riderHeader); err != nil {
		return fmt.Errorf("ensuring rider sheet: %w", err)
	}

	row := []string{
		rec.Timestamp.Format(timestampFormat),
		rec.PickerName,
		rec.OrderID,
		rec.FolderName,
		l.photoLink(rec.PhotoFileID),
	}
	if err := l.Rows.AppendRow(ctx, l.RiderSheet, row); err != nil {
		return fmt.Errorf("appending rider record: %w", err)
	}
	return nil
}

func (l *Ledger) photoLink(fileID string) string {
	if fileID == "" || fileID == PhotoSentinel {
		return PhotoSentinel
	}
	return fmt.Sprintf(l.LinkTemplate, fileID)
}
