package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrDecode = errors.New("decode race card")
	ErrEncode = errors.New("encode race card")
)
