package employee

import "errors"

var (
	ErrInvalidID          = errors.New("employee: invalid id")
	ErrInvalidName        = errors.New("employee: invalid name")
	ErrInvalidEmail       = errors.New("employee: invalid email")
	ErrInvalidPassword    = errors.New("employee: invalid password")
	ErrEmployeeNotFound   = errors.New("employee: not found")
	ErrEmailAlreadyExists = errors.New("employee: email already exists")
	// ErrAlreadyVoted は投票済みフラグが既に立っている場合に返却されます。
	ErrAlreadyVoted = errors.New("employee: already voted")
)
