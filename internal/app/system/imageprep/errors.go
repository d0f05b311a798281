// internal/app/system/imageprep/errors.go
package imageprep

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedType is returned when the file is not an allowed image type.
	ErrUnsupportedType = errors.New("imageprep: unsupported image type")
	// ErrTooLarge is returned when the file exceeds the size ceiling.
	ErrTooLarge = errors.New("imageprep: image too large")
	// ErrProcessImage is returned when decoding or re-encoding fails.
	ErrProcessImage = errors.New("imageprep: failed to process image")
)

// Error carries the user-facing message for a rejected or unprocessable
// image. It unwraps to one of the sentinels above.
type Error struct {
	Field   string
	Message string
	Kind    error
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap exposes both the sentinel kind and the underlying cause.
func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// Message returns the user-facing text for err if it is an *Error.
func Message(err error) string {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Message
	}
	return ""
}
