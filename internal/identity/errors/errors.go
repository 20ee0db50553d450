package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrRoleAlreadySet = errors.New("role has already been chosen")
)
