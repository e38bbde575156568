package domain

import "errors"

// ErrSessionNotFound is returned when no session is stored for a user.
var ErrSessionNotFound = errors.New("session not found")

// ErrDeviceNotFound is returned when a user has no registered device.
var ErrDeviceNotFound = errors.New("device not found")

// ErrTransport marks a failed call to a device or storage collaborator.
// The dialogue layer treats every such failure the same way.
var ErrTransport = errors.New("transport failure")
