// ABOUTME: Audio output package for playing decoded clips
// ABOUTME: Provides Device and Sink interfaces and the oto implementation
// Package output provides audio playback capabilities.
//
// A Device is opened once and hands out Sinks: looping players with
// their own volume and pause state. One-shots are fire-and-forget.
//
// Example:
//
//	dev, err := output.OpenOto(audio.Format{SampleRate: 44100, Channels: 2})
//	sink, err := dev.NewSink(clip, 0.5, true)
//	sink.Pause()
package output
