package server

import (
	"errors"
)

var (
	// ErrMissingParams is returned when a method that requires parameters
	// receives none at all. An empty params object is not the same thing
	// and is accepted.
	ErrMissingParams = errors.New("Missing params")

	// ErrNotificationNotInitialized is returned when a handler needs to
	// emit notifications before a transport has installed a sender.
	ErrNotificationNotInitialized = errors.New("notification sender not initialized")
)
