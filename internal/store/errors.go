package store

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidReference = errors.New("invalid document reference")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidInput     = errors.New("invalid input")
)
