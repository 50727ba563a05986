package model

// CartItem is one confirmed line of the current order, snapshotted at the
// moment it was added. Duplicate barcodes are allowed as separate lines.
type CartItem struct {
	Barcode     string `json:"barcode"`
	ProductName string `json:"product_name"`
	Location    string `json:"location"`
	Quantity    int    `json:"quantity"`
}
