package status

import "errors"

var (
	ErrEmailRequired     = errors.New("join: user email is required")
	ErrAlreadyJoined     = errors.New("join: user already joined the event")
	ErrInvalidID         = errors.New("event: invalid event id")
	ErrInvalidDateTime   = errors.New("event: invalid dateTime")
	ErrUserExists        = errors.New("register: user already exists")
	ErrEmailNotFound     = errors.New("login: email not found")
	ErrIncorrectPassword = errors.New("login: incorrect password")
)
