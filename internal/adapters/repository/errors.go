package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrEncode = errors.New("encode record failed")
)
