package model

import "time"

// PickRecord is one append-only ledger row for a picked line item.
// Every row of a single commit references the same canonical photo.
type PickRecord struct {
	Timestamp   time.Time
	PickerName  string
	OrderID     string
	Barcode     string
	ProductName string
	Location    string
	Quantity    int
	UserID      string
	PhotoFileID string
}

// RiderRecord is one append-only ledger row for a rider handoff.
type RiderRecord struct {
	Timestamp   time.Time
	PickerName  string
	OrderID     string
	FolderName  string
	PhotoFileID string
}
