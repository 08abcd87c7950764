// ABOUTME: Decoder interface definition and codec dispatch
// ABOUTME: Sniffs encoded assets and routes them to the matching decoder
package decode

import (
	"bytes"
	"fmt"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
)

// Supported codec names
const (
	CodecMP3    = "mp3"
	CodecFLAC   = "flac"
	CodecVorbis = "vorbis"
	CodecOpus   = "opus"
	CodecWAV    = "wav"
	CodecAIFF   = "aiff"
)

// Decoder decodes a whole encoded asset into memory
type Decoder interface {
	// Decode converts encoded audio data to a clip of PCM samples
	Decode(data []byte) (*audio.Clip, error)

	// Close releases decoder resources
	Close() error
}

// New creates a decoder for the specified format
func New(format audio.Format) (Decoder, error) {
	switch format.Codec {
	case CodecMP3:
		return NewMP3(format)
	case CodecFLAC:
		return NewFLAC(format)
	case CodecVorbis:
		return NewVorbis(format)
	case CodecOpus:
		return NewOpus(format)
	case CodecWAV:
		return NewWAV(format)
	case CodecAIFF:
		return NewAIFF(format)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format.Codec)
	}
}

// Detect identifies the container of an encoded asset from its leading bytes
func Detect(data []byte) (audio.Format, error) {
	if len(data) == 0 {
		return audio.Format{}, ErrEmptyInput
	}

	switch {
	case bytes.HasPrefix(data, []byte("fLaC")):
		return audio.Format{Codec: CodecFLAC}, nil
	case bytes.HasPrefix(data, []byte("OggS")):
		// The first page carries the codec identification header
		head := data[:min(len(data), 128)]
		if bytes.Contains(head, []byte("OpusHead")) {
			return audio.Format{Codec: CodecOpus, SampleRate: opusSampleRate}, nil
		}
		if bytes.Contains(head, []byte("\x01vorbis")) {
			return audio.Format{Codec: CodecVorbis}, nil
		}
		return audio.Format{}, fmt.Errorf("%w: unknown ogg stream", ErrUnsupportedFormat)
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("RIFF")) && string(data[8:12]) == "WAVE":
		return audio.Format{Codec: CodecWAV}, nil
	case len(data) >= 12 && bytes.HasPrefix(data, []byte("FORM")) &&
		(string(data[8:12]) == "AIFF" || string(data[8:12]) == "AIFC"):
		return audio.Format{Codec: CodecAIFF}, nil
	case bytes.HasPrefix(data, []byte("ID3")):
		return audio.Format{Codec: CodecMP3}, nil
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		// Bare MPEG frame sync
		return audio.Format{Codec: CodecMP3}, nil
	}

	return audio.Format{}, ErrUnsupportedFormat
}

// Decode sniffs and fully decodes an asset
func Decode(b audio.Bytes) (*audio.Clip, error) {
	data := b.Bytes()

	format, err := Detect(data)
	if err != nil {
		return nil, err
	}

	dec, err := New(format)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	clip, err := decodeSafely(dec, data)
	if err != nil {
		return nil, err
	}
	if clip.Format.Channels <= 0 || clip.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: %s stream reports %d channels at %dHz",
			ErrInvalidFile, format.Codec, clip.Format.Channels, clip.Format.SampleRate)
	}
	if len(clip.Samples) == 0 {
		return nil, fmt.Errorf("%w: %s stream has no samples", ErrInvalidFile, format.Codec)
	}
	return clip, nil
}

// decodeSafely turns a panic inside a third-party decoder into an error
func decodeSafely(dec Decoder, data []byte) (clip *audio.Clip, err error) {
	defer func() {
		if r := recover(); r != nil {
			clip = nil
			err = fmt.Errorf("%w: %v", ErrDecoderPanic, r)
		}
	}()
	return dec.Decode(data)
}
