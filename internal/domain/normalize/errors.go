package normalize

import "errors"

// Sentinel kinds for normalization errors.
var (
	// ErrParse marks a raw document that is not readable JSON. It is the only
	// error Normalize returns; every missing field is defaulted instead.
	ErrParse = errors.New("parse raw document")
)
