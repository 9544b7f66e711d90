package browser

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the element is genuinely absent (or no longer
	// attached to the document).
	ErrNotFound = errors.New("element not found")

	// ErrScript means a script evaluated in the page threw.
	ErrScript = errors.New("script error")

	// ErrUnsupported means the backend lacks an optional capability.
	ErrUnsupported = errors.New("not supported by this browser backend")
)

// DriverError is a hard failure reported by the underlying driver, such as a
// lost session or a broken connection. It is never retried.
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("driver %s: %v", e.Op, e.Err)
}

func (e *DriverError) Unwrap() error { return e.Err }

// Wrap classifies err for op. Errors already marked as ErrNotFound,
// ErrScript or ErrUnsupported pass through; anything else becomes a
// DriverError. A nil err returns nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrScript) || errors.Is(err, ErrUnsupported) {
		return err
	}
	var de *DriverError
	if errors.As(err, &de) {
		return err
	}
	return &DriverError{Op: op, Err: err}
}

// NotFound marks err as ErrNotFound, keeping the original message.
func NotFound(err error) error {
	if err == nil {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrNotFound, err)
}

// ScriptError marks err as ErrScript, keeping the original message.
func ScriptError(err error) error {
	if err == nil {
		return ErrScript
	}
	return fmt.Errorf("%w: %v", ErrScript, err)
}

// IsNotFound reports whether err means the element is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
