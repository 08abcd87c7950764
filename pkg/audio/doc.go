// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines asset maps, playback requests, clips and sample conversions
// Package audio provides the value types shared by every jamjar package.
//
// Assets:
//   - Bytes: an immutable, cheaply copied encoded buffer
//   - Library: key to Bytes
//   - Volumes: key to gain multiplier (absent keys mean 1.0)
//
// Requests:
//   - Sound: a one-shot play request
//   - Track: the desired contents of one of MaxTracks slots
//   - State: category volumes plus the full slot list
//
// Decoded audio is carried as a Clip of int32 samples in the 24-bit range.
//
// Example:
//
//	lib := audio.Library[string]{"chime": audio.NewBytes(data)}
//	vol := audio.ResolveVolume(audio.Volumes[string]{}, "chime", 0.8, 0.5)
package audio
