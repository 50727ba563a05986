package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/mfc9812ops/Amaze-Picking/internal/model"
)

// ErrDirectoryUnavailable means the employee sheet is missing or has fewer
// than the three required columns (badge ID, password hash, display name).
var ErrDirectoryUnavailable = errors.New("employee sheet missing or malformed")

// Directory looks up employees by badge ID in the user sheet. Columns are
// positional: badge ID, password hash, display name.
type Directory struct {
	Rows  RowReader
	Sheet string
}

// Lookup returns the employee with the given badge ID, or nil if unknown.
func (d *Directory) Lookup(ctx context.Context, employeeID string) (*model.Employee, error) {
	rows, err := d.Rows.ReadAllRows(ctx, d.Sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) < 3 {
		return nil, ErrDirectoryUnavailable
	}

	want := stripDotZero(strings.TrimSpace(employeeID))
	for _, row := range rows[1:] {
		if stripDotZero(strings.TrimSpace(field(row, 0))) != want {
			continue
		}
		return &model.Employee{
			ID:           want,
			PasswordHash: strings.TrimSpace(field(row, 1)),
			Name:         strings.TrimSpace(field(row, 2)),
		}, nil
	}
	return nil, nil
}
