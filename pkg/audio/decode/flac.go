// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC audio to int32 samples using mewkiz/flac
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/mewkiz/flac"
)

// Upper bound on preallocated samples per encoded byte
const flacSizeHintRatio = 8

// FLACDecoder decodes FLAC audio
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC(format audio.Format) (Decoder, error) {
	if format.Codec != CodecFLAC {
		return nil, fmt.Errorf("invalid codec for FLAC decoder: %s", format.Codec)
	}
	return &FLACDecoder{}, nil
}

// Decode converts FLAC bytes to int32 samples
func (d *FLACDecoder) Decode(data []byte) (*audio.Clip, error) {
	stream, err := flac.New(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open flac stream: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitDepth := int(stream.Info.BitsPerSample)
	if channels < 1 || bitDepth < 4 || bitDepth > 32 {
		return nil, fmt.Errorf("%w: flac stream reports %d channels at %d bits",
			ErrInvalidFile, channels, bitDepth)
	}

	// NSamples comes from the header and may be garbage
	hint := uint64(len(data)) * flacSizeHintRatio
	if n := stream.Info.NSamples * uint64(channels); n < hint {
		hint = n
	}
	samples := make([]int32, 0, int(hint))

	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("flac decode error: %w", err)
		}
		if len(frame.Subframes) < channels {
			return nil, fmt.Errorf("%w: flac frame has %d subframes, expected %d",
				ErrInvalidFile, len(frame.Subframes), channels)
		}

		// Subframes are planar; interleave them
		n := len(frame.Subframes[0].Samples)
		for i := 0; i < n; i++ {
			for ch := 0; ch < channels; ch++ {
				samples = append(samples, audio.ScaleTo24Bit(frame.Subframes[ch].Samples[i], bitDepth))
			}
		}
	}

	return &audio.Clip{
		Format: audio.Format{
			Codec:      CodecFLAC,
			SampleRate: int(stream.Info.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
		Samples: samples,
	}, nil
}

// Close releases decoder resources
func (d *FLACDecoder) Close() error {
	return nil
}
