// ABOUTME: Sentinel errors returned by the decoders
// ABOUTME: Callers match them with errors.Is
package decode

import "errors"

var (
	ErrEmptyInput        = errors.New("empty audio data")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidFile       = errors.New("invalid audio file")
	ErrDecoderPanic      = errors.New("decoder panicked")
)
