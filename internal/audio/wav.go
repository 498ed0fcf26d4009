// Package audio wraps raw PCM samples into playable containers.
package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const headerSize = 44

// Format describes linear PCM samples.
type Format struct {
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// DefaultFormat is what the speech model produces: mono, 24kHz, 16-bit.
var DefaultFormat = Format{Channels: 1, SampleRate: 24000, BitsPerSample: 16}

func (f Format) blockAlign() uint16 { return f.Channels * f.BitsPerSample / 8 }
func (f Format) byteRate() uint32   { return f.SampleRate * uint32(f.blockAlign()) }

// Header is the decoded canonical WAV header.
type Header struct {
	Format
	AudioFormat uint16
	ByteRate    uint32
	BlockAlign  uint16
	RIFFSize    uint32
	DataSize    uint32
}

var ErrNotWAV = errors.New("audio: not a canonical PCM WAV stream")

// EncodeWAV prepends a canonical 44-byte RIFF/WAVE header to pcm.
// The output depends only on its arguments.
func EncodeWAV(pcm []byte, f Format) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, headerSize+len(pcm)))
	le := binary.LittleEndian
	w := func(v any) { _ = binary.Write(buf, le, v) }

	buf.WriteString("RIFF")
	w(uint32(36 + len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	w(uint32(16))
	w(uint16(1)) // PCM
	w(f.Channels)
	w(f.SampleRate)
	w(f.byteRate())
	w(f.blockAlign())
	w(f.BitsPerSample)

	buf.WriteString("data")
	w(uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// ParseWAVHeader decodes the header written by EncodeWAV.
func ParseWAVHeader(b []byte) (Header, error) {
	if len(b) < headerSize || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" ||
		string(b[12:16]) != "fmt " || string(b[36:40]) != "data" {
		return Header{}, ErrNotWAV
	}
	le := binary.LittleEndian
	if n := le.Uint32(b[16:20]); n != 16 {
		return Header{}, fmt.Errorf("%w: fmt chunk size %d", ErrNotWAV, n)
	}
	h := Header{
		RIFFSize:    le.Uint32(b[4:8]),
		AudioFormat: le.Uint16(b[20:22]),
		Format: Format{
			Channels:      le.Uint16(b[22:24]),
			SampleRate:    le.Uint32(b[24:28]),
			BitsPerSample: le.Uint16(b[34:36]),
		},
		ByteRate:   le.Uint32(b[28:32]),
		BlockAlign: le.Uint16(b[32:34]),
		DataSize:   le.Uint32(b[40:44]),
	}
	return h, nil
}

// WAVDataURI encodes pcm in DefaultFormat as a playable data URI.
func WAVDataURI(pcm []byte) string {
	return DataURI("audio/wav", EncodeWAV(pcm, DefaultFormat))
}
