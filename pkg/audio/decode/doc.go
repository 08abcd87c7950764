// ABOUTME: Audio decoder package for multiple codec support
// ABOUTME: Provides Decoder interface and implementations for MP3, FLAC, Vorbis, Opus, WAV, AIFF
// Package decode turns encoded assets into in-memory clips.
//
// Supports: MP3, FLAC, Ogg Vorbis, Ogg Opus, WAV, AIFF
//
// Assets are decoded whole. All decoders output int32 samples in the
// 24-bit range so later stages need not care about the source depth.
//
// Example:
//
//	clip, err := decode.Decode(bytes)
//	if errors.Is(err, decode.ErrUnsupportedFormat) {
//	    // skip the asset
//	}
package decode
