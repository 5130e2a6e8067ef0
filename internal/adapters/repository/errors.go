package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound  = errors.New("profile not found")
	ErrInvalidID = errors.New("invalid profile id")
	ErrSelfMatch = errors.New("cannot save a match with oneself")
)
