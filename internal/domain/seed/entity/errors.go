package entity

import "errors"

// Domain errors for seeding
var (
	ErrNegativeCount = errors.New("post count must not be negative")
	ErrNoPoster      = errors.New("poster is required")
	ErrRunNotFound   = errors.New("seed run not found")
)
