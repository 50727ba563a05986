// Package session holds the per-picker workflow state machine: order entry,
// item scan/confirm loop, cart, and the pack-photo gallery.
package session

import (
	"errors"
	"strings"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
)

// MaxPhotos caps the pack-photo gallery.
const MaxPhotos = 5

// Workflow phases.
const (
	PhaseScan = "scan"
	PhasePack = "pack"
)

// Transition errors. Validation errors preserve the rest of the session so
// the picker only re-enters the offending field.
var (
	ErrOrderNotSet      = errors.New("no order set")
	ErrOrderAlreadySet  = errors.New("order already set, reset the session to change it")
	ErrItemPending      = errors.New("an item scan is already in progress")
	ErrNoItemPending    = errors.New("no item scan in progress")
	ErrLocationMismatch = errors.New("scanned location does not match the target")
	ErrLocationNotSet   = errors.New("location not confirmed")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrWrongPhase       = errors.New("not allowed in the current phase")
	ErrGalleryFull      = errors.New("photo gallery is full")
	ErrNoPhotos         = errors.New("at least one photo is required")
	ErrBadIndex         = errors.New("index out of range")
)

// Session is the ephemeral state of one picker's in-progress order. It is
// owned by its Manager and must only be mutated through transition methods
// while the manager holds its lock.
type Session struct {
	UserID   string
	UserName string

	OrderID string
	Phase   string

	// Per-item scan fields, cleared after each cart add.
	ItemBarcode    string
	ItemName       string
	TargetLocation string
	Location       string
	Quantity       int

	Cart    []model.CartItem
	Gallery [][]byte

	// CamCounter strictly increases on every reset and per-item clear so
	// bound capture widgets are torn down instead of replaying a stale frame.
	CamCounter int
}

// New creates a fresh session for a logged-in picker.
func New(userID, userName string) *Session {
	return &Session{
		UserID:   userID,
		UserName: userName,
		Phase:    PhaseScan,
		Quantity: 1,
	}
}

// SetOrder records the order being picked. Input is trimmed and uppercased.
// Setting the same order again is a no-op; changing orders requires a full
// reset rather than a partial undo.
func (s *Session) SetOrder(orderID string) error {
	orderID = strings.ToUpper(strings.TrimSpace(orderID))
	if orderID == "" {
		return ErrOrderNotSet
	}
	if s.OrderID != "" {
		if s.OrderID == orderID {
			return nil
		}
		return ErrOrderAlreadySet
	}
	s.OrderID = orderID
	return nil
}

// SetItem starts the scan/confirm loop for one product. The previous item
// must have been added to the cart or explicitly cleared first.
func (s *Session) SetItem(p model.Product) error {
	if s.Phase != PhaseScan {
		return ErrWrongPhase
	}
	if s.OrderID == "" {
		return ErrOrderNotSet
	}
	if s.ItemBarcode != "" {
		return ErrItemPending
	}
	s.ItemBarcode = p.Barcode
	s.ItemName = p.Name
	s.TargetLocation = p.TargetLocation()
	s.Location = ""
	s.Quantity = 1
	return nil
}

// ClearItem abandons the in-progress item scan so the picker can rescan.
func (s *Session) ClearItem() {
	s.ItemBarcode = ""
	s.ItemName = ""
	s.TargetLocation = ""
	s.Location = ""
	s.Quantity = 1
	s.CamCounter++
}

// ConfirmLocation accepts the scanned location if it equals the target or is
// a substring of it. Partial location codes pass on purpose; see the tests.
// On mismatch only the location field is cleared, preserving the barcode and
// product context for a retry.
func (s *Session) ConfirmLocation(input string) error {
	if s.ItemBarcode == "" {
		return ErrNoItemPending
	}
	input = strings.ToUpper(strings.TrimSpace(input))
	if input == "" {
		return ErrLocationNotSet
	}
	if input != s.TargetLocation && !strings.Contains(s.TargetLocation, input) {
		s.Location = ""
		return ErrLocationMismatch
	}
	s.Location = input
	return nil
}

// SetQuantity records the pick quantity for the in-progress item.
func (s *Session) SetQuantity(qty int) error {
	if s.ItemBarcode == "" {
		return ErrNoItemPending
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}
	s.Quantity = qty
	return nil
}

// AddToCart snapshots the confirmed item as a cart line and clears the
// per-item fields. Duplicate barcodes become separate lines.
func (s *Session) AddToCart() (model.CartItem, error) {
	if s.ItemBarcode == "" {
		return model.CartItem{}, ErrNoItemPending
	}
	if s.Location == "" {
		return model.CartItem{}, ErrLocationNotSet
	}
	item := model.CartItem{
		Barcode:     s.ItemBarcode,
		ProductName: s.ItemName,
		Location:    s.Location,
		Quantity:    s.Quantity,
	}
	s.Cart = append(s.Cart, item)
	s.ClearItem()
	return item, nil
}

// RemoveCartItem deletes one cart line by index.
func (s *Session) RemoveCartItem(i int) error {
	if i < 0 || i >= len(s.Cart) {
		return ErrBadIndex
	}
	s.Cart = append(s.Cart[:i], s.Cart[i+1:]...)
	return nil
}

// AdvanceToPack moves to the photo phase. Requires a non-empty cart; the
// cart is frozen for display, nothing is cleared.
func (s *Session) AdvanceToPack() error {
	if s.Phase != PhaseScan {
		return ErrWrongPhase
	}
	if len(s.Cart) == 0 {
		return ErrEmptyCart
	}
	s.Phase = PhasePack
	return nil
}

// BackToScan returns to the scan phase to amend the cart. Captured photos
// are discarded since the cart they documented may change.
func (s *Session) BackToScan() error {
	if s.Phase != PhasePack {
		return ErrWrongPhase
	}
	s.Phase = PhaseScan
	s.Gallery = nil
	return nil
}

// AddPhoto appends a captured pack photo, up to MaxPhotos.
func (s *Session) AddPhoto(jpeg []byte) error {
	if s.Phase != PhasePack {
		return ErrWrongPhase
	}
	if len(s.Gallery) >= MaxPhotos {
		return ErrGalleryFull
	}
	s.Gallery = append(s.Gallery, jpeg)
	s.CamCounter++
	return nil
}

// RemovePhoto deletes one gallery photo by index.
func (s *Session) RemovePhoto(i int) error {
	if i < 0 || i >= len(s.Gallery) {
		return ErrBadIndex
	}
	s.Gallery = append(s.Gallery[:i], s.Gallery[i+1:]...)
	return nil
}

// Reset clears every transient field atomically and returns the session to
// the scan phase. The camera counter always advances so any bound capture
// widget is recreated rather than reusing a previously captured frame.
func (s *Session) Reset() {
	s.OrderID = ""
	s.Phase = PhaseScan
	s.ItemBarcode = ""
	s.ItemName = ""
	s.TargetLocation = ""
	s.Location = ""
	s.Quantity = 1
	s.Cart = nil
	s.Gallery = nil
	s.CamCounter++
}
