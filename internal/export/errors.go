package export

import (
	"errors"
	"fmt"
)

// ErrInvalidPNGPayload means the data URI did not carry a base64 PNG.
var ErrInvalidPNGPayload = errors.New("invalid png payload")

// InsufficientDataError is returned when an aggregate has too few records
// to export. The wire form "NOT_ENOUGH_DATA:n" tells the shell the required
// threshold so it can render a localized message.
type InsufficientDataError struct {
	Required uint32
	Count    uint32
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("NOT_ENOUGH_DATA:%d", e.Required)
}

// DecodeError wraps a base64 decoding failure.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
