// ABOUTME: WAV and AIFF audio decoders
// ABOUTME: Decodes uncompressed PCM containers using go-audio
package decode

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/Resonate-Protocol/jamjar-go/pkg/audio"
	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	containerHeaderSize = 12
	chunkHeaderSize     = 8
	maxPCMChannels      = 32

	wavFormatPCM        = 0x0001
	wavFormatExtensible = 0xFFFE
)

// PCMDecoder decodes WAV or AIFF containers
type PCMDecoder struct {
	codec string
}

// NewWAV creates a new WAV decoder
func NewWAV(format audio.Format) (Decoder, error) {
	if format.Codec != CodecWAV {
		return nil, fmt.Errorf("invalid codec for WAV decoder: %s", format.Codec)
	}
	return &PCMDecoder{codec: CodecWAV}, nil
}

// NewAIFF creates a new AIFF decoder
func NewAIFF(format audio.Format) (Decoder, error) {
	if format.Codec != CodecAIFF {
		return nil, fmt.Errorf("invalid codec for AIFF decoder: %s", format.Codec)
	}
	return &PCMDecoder{codec: CodecAIFF}, nil
}

// Decode converts container bytes to int32 samples
func (d *PCMDecoder) Decode(data []byte) (*audio.Clip, error) {
	var (
		buf      *goaudio.IntBuffer
		bitDepth int
		err      error
	)

	switch d.codec {
	case CodecWAV:
		if err := checkWAV(data); err != nil {
			return nil, err
		}
		dec := wav.NewDecoder(bytes.NewReader(data))
		if !dec.IsValidFile() {
			return nil, fmt.Errorf("%w: not a wav file", ErrInvalidFile)
		}
		buf, err = dec.FullPCMBuffer()
		bitDepth = int(dec.BitDepth)
	case CodecAIFF:
		if err := checkAIFF(data); err != nil {
			return nil, err
		}
		dec := aiff.NewDecoder(bytes.NewReader(data))
		if !dec.IsValidFile() {
			return nil, fmt.Errorf("%w: not an aiff file", ErrInvalidFile)
		}
		buf, err = dec.FullPCMBuffer()
		bitDepth = int(dec.BitDepth)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, d.codec)
	}
	if err != nil {
		return nil, fmt.Errorf("%s decode error: %w", d.codec, err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("%w: %s stream has no format", ErrInvalidFile, d.codec)
	}

	samples := make([]int32, len(buf.Data))
	for i, v := range buf.Data {
		// 8-bit WAV is unsigned
		if d.codec == CodecWAV && bitDepth == 8 {
			v -= 128
		}
		samples[i] = audio.ScaleTo24Bit(int32(v), bitDepth)
	}

	return &audio.Clip{
		Format: audio.Format{
			Codec:      d.codec,
			SampleRate: buf.Format.SampleRate,
			Channels:   buf.Format.NumChannels,
			BitDepth:   bitDepth,
		},
		Samples: samples,
	}, nil
}

// Close releases resources
func (d *PCMDecoder) Close() error {
	return nil
}

// checkWAV walks the RIFF chunks up to the sample data. go-audio sizes
// buffers from chunk headers, so every declared size must fit in data.
func checkWAV(data []byte) error {
	if len(data) < containerHeaderSize || string(data[:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return fmt.Errorf("%w: not a wav file", ErrInvalidFile)
	}

	haveFormat := false
	for off := containerHeaderSize; off+chunkHeaderSize <= len(data); {
		id := string(data[off : off+4])
		size := uint64(binary.LittleEndian.Uint32(data[off+4:]))
		body := data[off+chunkHeaderSize:]

		switch id {
		case "fmt ":
			if size < 16 || size > uint64(len(body)) {
				return fmt.Errorf("%w: wav fmt chunk of %d bytes", ErrInvalidFile, size)
			}
			tag := binary.LittleEndian.Uint16(body[0:])
			if tag != wavFormatPCM && tag != wavFormatExtensible {
				return fmt.Errorf("%w: wav format tag %#x", ErrUnsupportedFormat, tag)
			}
			// A zero byte rate makes go-audio rescan chunks past the data
			if binary.LittleEndian.Uint32(body[8:]) == 0 {
				return fmt.Errorf("%w: wav fmt chunk has no byte rate", ErrInvalidFile)
			}
			err := checkPCMFormat(CodecWAV,
				int(binary.LittleEndian.Uint16(body[2:])),
				int(binary.LittleEndian.Uint32(body[4:])),
				int(binary.LittleEndian.Uint16(body[14:])))
			if err != nil {
				return err
			}
			haveFormat = true
		case "data":
			if !haveFormat {
				return fmt.Errorf("%w: wav data before fmt chunk", ErrInvalidFile)
			}
			// Truncated files may declare more data than they hold
			return nil
		default:
			if size > uint64(len(body)) {
				return fmt.Errorf("%w: wav %q chunk of %d bytes overruns the file", ErrInvalidFile, id, size)
			}
		}

		off += chunkHeaderSize + int(size) + int(size%2)
	}

	return fmt.Errorf("%w: wav file has no data chunk", ErrInvalidFile)
}

// checkAIFF is checkWAV for big-endian IFF containers
func checkAIFF(data []byte) error {
	if len(data) < containerHeaderSize || string(data[:4]) != "FORM" {
		return fmt.Errorf("%w: not an aiff file", ErrInvalidFile)
	}
	if form := string(data[8:12]); form != "AIFF" && form != "AIFC" {
		return fmt.Errorf("%w: not an aiff file", ErrInvalidFile)
	}

	haveFormat := false
	for off := containerHeaderSize; off+chunkHeaderSize <= len(data); {
		id := string(data[off : off+4])
		size := uint64(binary.BigEndian.Uint32(data[off+4:]))
		body := data[off+chunkHeaderSize:]

		switch id {
		case "COMM":
			if size < 18 || size > uint64(len(body)) {
				return fmt.Errorf("%w: aiff COMM chunk of %d bytes", ErrInvalidFile, size)
			}
			var rate [10]byte
			copy(rate[:], body[8:18])
			err := checkPCMFormat(CodecAIFF,
				int(int16(binary.BigEndian.Uint16(body[0:]))),
				goaudio.IEEEFloatToInt(rate),
				int(int16(binary.BigEndian.Uint16(body[6:]))))
			if err != nil {
				return err
			}
			haveFormat = true
		case "SSND":
			if !haveFormat {
				return fmt.Errorf("%w: aiff SSND before COMM chunk", ErrInvalidFile)
			}
			if len(body) < 8 {
				return fmt.Errorf("%w: aiff SSND chunk is truncated", ErrInvalidFile)
			}
			if offset := uint64(binary.BigEndian.Uint32(body)); offset > uint64(len(body)-8) {
				return fmt.Errorf("%w: aiff SSND offset %d overruns the file", ErrInvalidFile, offset)
			}
			return nil
		default:
			if size > uint64(len(body)) {
				return fmt.Errorf("%w: aiff %q chunk of %d bytes overruns the file", ErrInvalidFile, id, size)
			}
		}

		off += chunkHeaderSize + int(size) + int(size%2)
	}

	return fmt.Errorf("%w: aiff file has no SSND chunk", ErrInvalidFile)
}

func checkPCMFormat(codec string, channels, sampleRate, bitDepth int) error {
	if channels < 1 || channels > maxPCMChannels {
		return fmt.Errorf("%w: %s stream has %d channels", ErrInvalidFile, codec, channels)
	}
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %s stream has sample rate %d", ErrInvalidFile, codec, sampleRate)
	}
	switch bitDepth {
	case 8, 16, 24, 32:
		return nil
	}
	return fmt.Errorf("%w: %s stream has %d-bit samples", ErrUnsupportedFormat, codec, bitDepth)
}
