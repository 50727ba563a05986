package picklog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
)

type fakeRowStore struct {
	headers map[string][]string
	rows    map[string][][]string
	err     error
}

func newFakeRowStore() *fakeRowStore {
	return &fakeRowStore{
		headers: make(map[string][]string),
		rows:    make(map[string][][]string),
	}
}

func (f *fakeRowStore) EnsureSheet(ctx context.Context, name string, header []string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.headers[name]; !ok {
		f.headers[name] = header
	}
	return nil
}

func (f *fakeRowStore) AppendRow(ctx context.Context, sheet string, fields []string) error {
	if f.err != nil {
		return f.err
	}
	f.rows[sheet] = append(f.rows[sheet], fields)
	return nil
}

var recordTime = time.Date(2026, 8, 31, 14, 5, 30, 0, time.UTC)

func TestAppendPickRecord(t *testing.T) {
	rows := newFakeRowStore()
	l := NewLedger(rows, "/api/files/%s")

	err := l.AppendPickRecord(context.Background(), model.PickRecord{
		Timestamp:   recordTime,
		PickerName:  "Somchai",
		OrderID:     "B01",
		Barcode:     "8850001",
		ProductName: "Cola Lemon",
		Location:    "A1-R3-S2",
		Quantity:    2,
		UserID:      "EMP001",
		PhotoFileID: "file-123",
	})
	if err != nil {
		t.Fatalf("AppendPickRecord: %v", err)
	}

	wantHeader := []string{"Timestamp", "Picker Name", "Order ID", "Barcode", "Product Name", "Location", "Pick Qty", "User", "Image Link"}
	header := rows.headers[LogSheet]
	if len(header) != len(wantHeader) {
		t.Fatalf("expected %d header columns, got %d", len(wantHeader), len(header))
	}
	for i, col := range wantHeader {
		if header[i] != col {
			t.Errorf("header column %d: expected %q, got %q", i, col, header[i])
		}
	}

	got := rows.rows[LogSheet]
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	want := []string{"2026-08-31 14:05:30", "Somchai", "B01", "8850001", "Cola Lemon", "A1-R3-S2", "2", "EMP001", "/api/files/file-123"}
	for i, cell := range want {
		if got[0][i] != cell {
			t.Errorf("row column %d: expected %q, got %q", i, cell, got[0][i])
		}
	}
}

func TestAppendPickRecordNoPhoto(t *testing.T) {
	rows := newFakeRowStore()
	l := NewLedger(rows, "/api/files/%s")

	rec := model.PickRecord{Timestamp: recordTime, OrderID: "B01", Quantity: 1}
	if err := l.AppendPickRecord(context.Background(), rec); err != nil {
		t.Fatalf("AppendPickRecord: %v", err)
	}
	rec.PhotoFileID = PhotoSentinel
	if err := l.AppendPickRecord(context.Background(), rec); err != nil {
		t.Fatalf("AppendPickRecord: %v", err)
	}

	for _, row := range rows.rows[LogSheet] {
		if link := row[len(row)-1]; link != PhotoSentinel {
			t.Errorf("expected sentinel image link, got %q", link)
		}
	}
}

func TestAppendRiderRecord(t *testing.T) {
	rows := newFakeRowStore()
	l := NewLedger(rows, "https://files.example.com/%s")

	err := l.AppendRiderRecord(context.Background(), model.RiderRecord{
		Timestamp:   recordTime,
		PickerName:  "Somchai",
		OrderID:     "B01",
		FolderName:  "B01_14-05",
		PhotoFileID: "file-456",
	})
	if err != nil {
		t.Fatalf("AppendRiderRecord: %v", err)
	}

	got := rows.rows[RiderSheet]
	if len(got) != 1 {
		t.Fatalf("expected 1 row, got %d", len(got))
	}
	want := []string{"2026-08-31 14:05:30", "Somchai", "B01", "B01_14-05", "https://files.example.com/file-456"}
	for i, cell := range want {
		if got[0][i] != cell {
			t.Errorf("row column %d: expected %q, got %q", i, cell, got[0][i])
		}
	}
}

func TestAppendReportsStoreErrors(t *testing.T) {
	rows := newFakeRowStore()
	rows.err = errors.New("sheet backend down")
	l := NewLedger(rows, "/api/files/%s")

	if err := l.AppendPickRecord(context.Background(), model.PickRecord{Timestamp: recordTime}); err == nil {
		t.Error("expected pick append error")
	}
	if err := l.AppendRiderRecord(context.Background(), model.RiderRecord{Timestamp: recordTime}); err == nil {
		t.Error("expected rider append error")
	}
}
