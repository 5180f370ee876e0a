package reference

import "errors"

// Sentinel kinds for reference-data errors.
var (
	ErrDecode        = errors.New("decode reference data")
	ErrInvalidRating = errors.New("driver rating out of range")
	ErrEmptyName     = errors.New("reference record without name")
	ErrOpen          = errors.New("open reference file")
)
