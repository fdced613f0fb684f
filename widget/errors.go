package widget

import "errors"

// Common errors returned by the widget package.
var (
	// ErrNoWindow is returned when an operation needs a window but
	// SetWindow has not been called.
	ErrNoWindow = errors.New("no window set")
)
