// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts clips between sample rates and playback speeds
// Package resample provides sample rate and speed conversion.
//
// Uses linear interpolation over a whole in-memory clip. A speed of 2.0
// plays twice as fast and an octave higher, like a tape.
//
// Example:
//
//	r := resample.NewWithSpeed(44100, 48000, 2, 1.5)
//	n, done := r.Resample(clip.Samples, out, false)
package resample
