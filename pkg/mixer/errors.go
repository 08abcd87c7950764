// ABOUTME: Sentinel errors returned by the mixer
// ABOUTME: Callers match them with errors.Is
package mixer

import "errors"

var (
	// ErrClosed is returned for any command sent after Close
	ErrClosed = errors.New("mixer closed")

	// ErrShutdownTimeout is returned when the speaker does not exit in time
	ErrShutdownTimeout = errors.New("mixer shutdown timed out")
)
