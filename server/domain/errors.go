package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrAlreadyMember      = errors.New("already a member")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrHubClosed          = errors.New("hub closed")
	ErrClientClosed       = errors.New("client closed")
	ErrBackpressure       = errors.New("backpressure")
)
