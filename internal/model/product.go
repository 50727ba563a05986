package model

// Product is a catalog entry resolved from the item sheet by barcode.
type Product struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Zone     string `json:"zone"`
	Location string `json:"location"`
}

// TargetLocation is the authoritative storage location the picker must
// confirm, formatted as "Zone-Location".
func (p Product) TargetLocation() string {
	return p.Zone + "-" + p.Location
}
