package util

import "errors"

var (
	ErrUnknownField    = errors.New("unknown form field")
	ErrInvalidForm     = errors.New("form has invalid fields")
	ErrInvalidTheme    = errors.New("invalid theme")
	ErrSessionNotFound = errors.New("session not found")
)
