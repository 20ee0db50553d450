package errors

import "errors"

var (
	ErrNotFound = errors.New("seller not found")

	ErrAlreadyExists = errors.New("seller profile already exists")
)
