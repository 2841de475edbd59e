package durable

import (
	"errors"
	"fmt"
)

// ErrCorruptedTransactionFile is returned when a stored transaction
// record cannot be decoded (its payload is not valid data for the
// encoding used by the writer).
var ErrCorruptedTransactionFile = errors.New("durable: corrupted transaction file")

// ErrBeyondEndOfFile is returned by ReadAt for an offset past the last
// record written to a region.
var ErrBeyondEndOfFile = errors.New("durable: read beyond end of file")

// BeyondEndOfFileError wraps ErrBeyondEndOfFile with the region and
// offset that overran, for diagnostics.
type BeyondEndOfFileError struct {
	Region string
	Offset int64
}

func (e *BeyondEndOfFileError) Error() string {
	return fmt.Sprintf("%v: region %s, offset %d", ErrBeyondEndOfFile, e.Region, e.Offset)
}

func (e *BeyondEndOfFileError) Unwrap() error {
	return ErrBeyondEndOfFile
}
