// Package wav reads and writes RIFF/WAVE PCM containers.
//
// Writing always produces the canonical 44 byte header followed by mono
// 16-bit samples at constants.SampleRate. Reading accepts 8 and 16-bit PCM
// with any channel count; only the first channel of each frame is kept.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/jsphweid/hummix/constants"
)

var (
	ErrInvalidContainer    = errors.New("wav: invalid container")
	ErrUnsupportedEncoding = errors.New("wav: unsupported encoding")
)

const (
	HeaderSize = 44

	formatPCM = 1
)

type Header struct {
	Format     uint16
	Channels   uint16
	SampleRate uint32
	ByteRate   uint32
	BlockAlign uint16
	BitDepth   uint16

	// payload location within the container
	DataOffset int
	DataSize   int
}

// Frames is the number of sample frames in the payload.
func (h Header) Frames() int {
	frame := int(h.Channels) * int(h.BitDepth/8)
	if frame == 0 {
		return 0
	}
	return h.DataSize / frame
}

func quantize(s float64) int16 {
	v := math.Round(s * 32767)
	if v > 32767 {
		v = 32767
	} else if v < -32768 {
		v = -32768
	}
	return int16(v)
}

// Encode renders samples as a mono 16-bit container.
func Encode(samples []float64) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(samples)*2))
	// writes to a bytes.Buffer cannot fail
	_ = Write(buf, samples)
	return buf.Bytes()
}

// Write streams the container produced by Encode to w.
func Write(w io.Writer, samples []float64) error {
	dataSize := uint32(len(samples) * 2)

	var header [HeaderSize]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], 1)
	binary.LittleEndian.PutUint32(header[24:28], constants.SampleRate)
	binary.LittleEndian.PutUint32(header[28:32], constants.SampleRate*2)
	binary.LittleEndian.PutUint16(header[32:34], 2)
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	payload := make([]byte, dataSize)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(payload[i*2:], uint16(quantize(s)))
	}
	_, err := w.Write(payload)
	return err
}

// ReadHeader validates the container and locates the fmt and data blocks.
func ReadHeader(data []byte) (Header, error) {
	var h Header
	if len(data) < HeaderSize {
		return h, fmt.Errorf("%w: %v bytes is shorter than a header", ErrInvalidContainer, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return h, fmt.Errorf("%w: missing RIFF/WAVE markers", ErrInvalidContainer)
	}

	var haveFormat, haveData bool
	pos := 12
	for pos+8 <= len(data) {
		id := string(data[pos : pos+4])
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8
		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(data) {
				return h, fmt.Errorf("%w: truncated fmt block", ErrInvalidContainer)
			}
			h.Format = binary.LittleEndian.Uint16(data[body:])
			h.Channels = binary.LittleEndian.Uint16(data[body+2:])
			h.SampleRate = binary.LittleEndian.Uint32(data[body+4:])
			h.ByteRate = binary.LittleEndian.Uint32(data[body+8:])
			h.BlockAlign = binary.LittleEndian.Uint16(data[body+12:])
			h.BitDepth = binary.LittleEndian.Uint16(data[body+14:])
			haveFormat = true
		case "data":
			h.DataOffset = body
			// NOTE: streamed files often carry a bogus size, keep what is there
			h.DataSize = size
			if size < 0 || body+size > len(data) {
				h.DataSize = len(data) - body
			}
			haveData = true
		}
		if haveData {
			break
		}
		// blocks are word aligned
		pos = body + size + size%2
	}

	if !haveFormat {
		return h, fmt.Errorf("%w: no fmt block", ErrInvalidContainer)
	}
	if !haveData {
		return h, fmt.Errorf("%w: no data block", ErrInvalidContainer)
	}
	if h.Format != formatPCM {
		return h, fmt.Errorf("%w: format tag %v is not PCM", ErrUnsupportedEncoding, h.Format)
	}
	if h.BitDepth != 8 && h.BitDepth != 16 {
		return h, fmt.Errorf("%w: %v-bit samples", ErrUnsupportedEncoding, h.BitDepth)
	}
	if h.Channels == 0 {
		return h, fmt.Errorf("%w: zero channels", ErrInvalidContainer)
	}
	return h, nil
}

// Decode returns the first channel as samples normalized to [-1, 1).
// On failure the returned slice is empty.
func Decode(data []byte) ([]float64, error) {
	h, err := ReadHeader(data)
	if err != nil {
		return []float64{}, err
	}

	width := int(h.BitDepth / 8)
	frame := width * int(h.Channels)
	payload := data[h.DataOffset : h.DataOffset+h.DataSize]
	res := make([]float64, 0, h.Frames())
	for i := 0; i+frame <= len(payload); i += frame {
		if width == 2 {
			s := int16(binary.LittleEndian.Uint16(payload[i:]))
			res = append(res, float64(s)/32768)
		} else {
			res = append(res, (float64(payload[i])-128)/128)
		}
	}
	return res, nil
}

// Read decodes a container from r.
func Read(r io.Reader) ([]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return []float64{}, err
	}
	return Decode(data)
}
