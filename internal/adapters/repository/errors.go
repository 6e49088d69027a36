package repository

import "errors"

// Sentinel kinds for Query Service errors.
var (
	ErrNotOpen      = errors.New("query service not open")
	ErrInvalidTable = errors.New("invalid table name")
	ErrEmptyAddr    = errors.New("query service address is empty")
	ErrPing         = errors.New("liveness probe returned no row")
)
