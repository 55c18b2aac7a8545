package telemetry

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when capturing into a recorder after teardown.
	ErrClosed = errors.New("telemetry: recorder closed")

	// ErrAlreadyRegistered is returned when object metadata is registered twice.
	ErrAlreadyRegistered = errors.New("telemetry: objects already registered")

	// ErrNotRegistered is returned when a session ticks before registration.
	ErrNotRegistered = errors.New("telemetry: objects not registered")

	// ErrBodyCountMismatch indicates a frame whose body count differs from
	// the registered metadata.
	ErrBodyCountMismatch = errors.New("telemetry: body count does not match registered metadata")

	// ErrBodyOrderMismatch indicates a frame whose bodies are not in
	// registration order.
	ErrBodyOrderMismatch = errors.New("telemetry: body order does not match registered metadata")

	// ErrDuplicateName indicates two tracked bodies share a display name.
	ErrDuplicateName = errors.New("telemetry: duplicate body name")

	// ErrNotDirectory indicates the output path exists but is not a directory.
	ErrNotDirectory = errors.New("telemetry: output path is not a directory")

	// ErrVersionsExhausted indicates no free versioned file name was found.
	ErrVersionsExhausted = errors.New("telemetry: no free versioned file name")
)

// MismatchError reports a frame that does not line up with the metadata.
type MismatchError struct {
	Index    int
	Want     int
	Got      int
	WantName string
	GotName  string
	Wrapped  error
}

func (e *MismatchError) Error() string {
	if errors.Is(e.Wrapped, ErrBodyOrderMismatch) {
		return fmt.Sprintf("%s: index %d registered as %q, got %q", e.Wrapped, e.Index, e.WantName, e.GotName)
	}
	return fmt.Sprintf("%s: registered %d, got %d", e.Wrapped, e.Want, e.Got)
}

func (e *MismatchError) Unwrap() error {
	return e.Wrapped
}
