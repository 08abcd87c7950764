// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes Vorbis audio to int32 samples using jfreymuth/oggvorbis
package decode

import (
	"bytes"
	"fmt"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/jfreymuth/oggvorbis"
)

// VorbisDecoder decodes Ogg Vorbis audio
type VorbisDecoder struct{}

// NewVorbis creates a new Vorbis decoder
func NewVorbis(format audio.Format) (Decoder, error) {
	if format.Codec != CodecVorbis {
		return nil, fmt.Errorf("invalid codec for Vorbis decoder: %s", format.Codec)
	}
	return &VorbisDecoder{}, nil
}

// Decode converts Ogg Vorbis bytes to int32 samples
func (d *VorbisDecoder) Decode(data []byte) (*audio.Clip, error) {
	pcm, format, err := oggvorbis.ReadAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("vorbis decode error: %w", err)
	}

	samples := make([]int32, len(pcm))
	for i, s := range pcm {
		samples[i] = audio.SampleFromFloat32(s)
	}

	return &audio.Clip{
		Format: audio.Format{
			Codec:      CodecVorbis,
			SampleRate: format.SampleRate,
			Channels:   format.Channels,
			BitDepth:   24,
		},
		Samples: samples,
	}, nil
}

// Close releases decoder resources
func (d *VorbisDecoder) Close() error {
	return nil
}
