package award

import "errors"

var (
	ErrInvalidID         = errors.New("award: invalid id")
	ErrInvalidName       = errors.New("award: invalid name")
	ErrAwardNotFound     = errors.New("award: not found")
	ErrNameAlreadyExists = errors.New("award: name already exists")
)
