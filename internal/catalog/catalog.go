// Package catalog resolves products and employees from sheets in the tabular
// store, tolerating the column quirks of spreadsheet-maintained data.
package catalog

import (
	"context"
	"strings"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
)

// Default sheet names.
const (
	ItemSheet = "Items"
	UserSheet = "User"
)

// Positional fallbacks for the product display name when the header has no
// Brand/Variant columns, matching the sheet layout the warehouse maintains.
const (
	brandColFallback   = 3
	variantColFallback = 5
)

// Catalog looks up products by barcode in the item sheet.
type Catalog struct {
	Rows  RowReader
	Sheet string
}

// Lookup returns the product for a barcode, or nil if the barcode is unknown.
// Barcode column matching is case-insensitive and numeric-looking cells have
// any trailing ".0" export artifact stripped before comparison.
func (c *Catalog) Lookup(ctx context.Context, barcode string) (*model.Product, error) {
	rows, err := c.Rows.ReadAllRows(ctx, c.Sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	header := trimAll(rows[0])
	barcodeCol := findColumn(header, "Barcode")
	if barcodeCol < 0 {
		return nil, nil
	}
	brandCol := columnOrFallback(header, "Brand", brandColFallback)
	variantCol := columnOrFallback(header, "Variant", variantColFallback)
	zoneCol := findColumn(header, "Zone")
	locationCol := findColumn(header, "Location")

	want := stripDotZero(strings.TrimSpace(barcode))
	for _, row := range rows[1:] {
		if stripDotZero(strings.TrimSpace(field(row, barcodeCol))) != want {
			continue
		}
		name := strings.TrimSpace(strings.TrimSpace(field(row, brandCol)) + " " + strings.TrimSpace(field(row, variantCol)))
		return &model.Product{
			Barcode:  want,
			Name:     name,
			Zone:     strings.TrimSpace(field(row, zoneCol)),
			Location: strings.TrimSpace(field(row, locationCol)),
		}, nil
	}
	return nil, nil
}

// stripDotZero removes the trailing ".0" some spreadsheet exports append to
// numeric barcode and ID cells.
func stripDotZero(v string) string {
	return strings.TrimSuffix(v, ".0")
}

// findColumn returns the index of the column with the given name,
// case-insensitively, or -1.
func findColumn(header []string, name string) int {
	for i, col := range header {
		if strings.EqualFold(col, name) {
			return i
		}
	}
	return -1
}

func columnOrFallback(header []string, name string, fallback int) int {
	if i := findColumn(header, name); i >= 0 {
		return i
	}
	return fallback
}

func field(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(v)
	}
	return out
}
