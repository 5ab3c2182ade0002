package records

import (
	"errors"
	"strings"
)

// Sentinel errors for table loading.
var (
	ErrMissingColumns  = errors.New("missing required columns")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrMalformedTable  = errors.New("malformed table")
	ErrNoRecords       = errors.New("no records found")
)

// MissingColumnsError lists the required columns absent from a header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return ErrMissingColumns.Error() + ": " + strings.Join(e.Columns, ", ")
}

// Unwrap lets errors.Is match ErrMissingColumns.
func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}
