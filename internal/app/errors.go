package service

import "errors"

// Sentinel error kinds for the service.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrReferenceData = errors.New("load reference data")
)
