package kv

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound      = errors.New("key not found")
	ErrClosed        = errors.New("store closed")
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrDSNRequired   = errors.New("storage dsn not set")
)
