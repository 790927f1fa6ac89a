package api

import "errors"

var (
	ErrUnavailable        = errors.New("backend unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)
