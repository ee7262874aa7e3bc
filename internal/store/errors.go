package store

import "github.com/pkg/errors"

// Sentinel errors; match with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrUnknownDriver = errors.New("unknown store driver")
)
