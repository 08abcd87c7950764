// ABOUTME: PCM stream reader over a decoded clip
// ABOUTME: Renders a clip to signed 16-bit little-endian bytes at the device format
package output

import (
	"encoding/binary"
	"io"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/Resonate-Protocol/jamjar-go/pkg/audio/resample"
)

// Stream is an io.Reader producing device-ready PCM from a clip
type Stream struct {
	clip      *audio.Clip
	resampler *resample.Resampler
	channels  int
	loop      bool
	done      bool
	scratch   []int32
}

// NewStream creates a stream rendering clip at format's rate and channel count.
// Mono clips are copied to every output channel; surplus source channels are dropped.
func NewStream(clip *audio.Clip, format audio.Format, speed float64, loop bool) *Stream {
	srcChannels := clip.Format.Channels
	if srcChannels < 1 {
		srcChannels = 1
	}
	channels := format.Channels
	if channels < 1 {
		channels = 1
	}

	return &Stream{
		clip:      clip,
		resampler: resample.NewWithSpeed(clip.Format.SampleRate, format.SampleRate, srcChannels, speed),
		channels:  channels,
		loop:      loop,
	}
}

// Read fills p with whole frames
func (s *Stream) Read(p []byte) (int, error) {
	if s.done {
		return 0, io.EOF
	}

	frameBytes := 2 * s.channels
	frames := len(p) / frameBytes
	if frames == 0 {
		return 0, nil
	}

	srcChannels := s.clip.Format.Channels
	if srcChannels < 1 {
		srcChannels = 1
	}

	need := frames * srcChannels
	if cap(s.scratch) < need {
		s.scratch = make([]int32, need)
	}
	s.scratch = s.scratch[:need]

	n, done := s.resampler.Resample(s.clip.Samples, s.scratch, s.loop)
	got := n / srcChannels

	for f := 0; f < got; f++ {
		for ch := 0; ch < s.channels; ch++ {
			src := ch
			if src >= srcChannels {
				src = srcChannels - 1
			}
			sample := audio.SampleToInt16(s.scratch[f*srcChannels+src])
			binary.LittleEndian.PutUint16(p[(f*s.channels+ch)*2:], uint16(sample))
		}
	}

	if done {
		s.done = true
		if got == 0 {
			return 0, io.EOF
		}
	}

	return got * frameBytes, nil
}
