package core

import "errors"

var (
	// ErrShortReport is returned for an inbound report shorter than
	// protocol.ReportSize. The report is ignored.
	ErrShortReport = errors.New("report shorter than report size")

	// ErrNoHardware is returned by NewDevice when a collaborator is missing
	ErrNoHardware = errors.New("hardware collaborator not configured")

	// ErrNotInitialized is returned when reports arrive before Init
	ErrNotInitialized = errors.New("device not initialized")

	// ErrAlreadyInitialized is returned by a second Init call
	ErrAlreadyInitialized = errors.New("device already initialized")
)
