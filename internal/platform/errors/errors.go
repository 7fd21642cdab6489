package apperrors

import "errors"

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrNotOnboarded         = errors.New("no active sport")
	ErrUnavailable          = errors.New("backend unreachable")
	ErrPermissionDenied     = errors.New("camera or microphone access denied")
	ErrRecordingUnsupported = errors.New("recording is not supported on this platform")
	ErrOperationInFlight    = errors.New("operation already in flight")
	ErrNoRememberedIdentity = errors.New("no remembered identity")
	ErrInvalidPhase         = errors.New("invalid capture phase transition")
)
