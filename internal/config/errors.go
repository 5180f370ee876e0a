package config

import "errors"

var (
	// ErrInvalidConfig wraps every Validate failure: empty addr, a
	// non-positive worker count or body limit, an unknown log format, or
	// weights that do not sum to one.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps failures while reading the TRAVRANK_CONFIG file
	// or decoding the merged keys into Config.
	ErrLoadConfig = errors.New("load config failed")
)
