package wav

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
)

func TestEncodeHeader(t *testing.T) {
	data := Encode([]float64{0, 0.5, -0.5})

	assert := assert.New(t)
	assert.Len(data, HeaderSize+6)
	assert.Equal("RIFF", string(data[0:4]))
	assert.Equal(uint32(36+6), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal("WAVE", string(data[8:12]))
	assert.Equal("fmt ", string(data[12:16]))
	assert.Equal(uint32(16), binary.LittleEndian.Uint32(data[16:20]))
	assert.Equal(uint16(1), binary.LittleEndian.Uint16(data[20:22]))
	assert.Equal(uint16(1), binary.LittleEndian.Uint16(data[22:24]))
	assert.Equal(uint32(44100), binary.LittleEndian.Uint32(data[24:28]))
	assert.Equal(uint32(88200), binary.LittleEndian.Uint32(data[28:32]))
	assert.Equal(uint16(2), binary.LittleEndian.Uint16(data[32:34]))
	assert.Equal(uint16(16), binary.LittleEndian.Uint16(data[34:36]))
	assert.Equal("data", string(data[36:40]))
	assert.Equal(uint32(6), binary.LittleEndian.Uint32(data[40:44]))
	assert.Equal(int16(16384), int16(binary.LittleEndian.Uint16(data[46:48])))
	assert.Equal(int16(-16384), int16(binary.LittleEndian.Uint16(data[48:50])))
}

func TestEncodeClamps(t *testing.T) {
	data := Encode([]float64{2, -2, 1, -1})
	assert := assert.New(t)
	assert.Equal(int16(32767), int16(binary.LittleEndian.Uint16(data[44:])))
	assert.Equal(int16(-32768), int16(binary.LittleEndian.Uint16(data[46:])))
	assert.Equal(int16(32767), int16(binary.LittleEndian.Uint16(data[48:])))
	assert.Equal(int16(-32767), int16(binary.LittleEndian.Uint16(data[50:])))
}

func TestRoundTrip(t *testing.T) {
	samples := make([]float64, 2000)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(float64(i)*0.05) * math.Cos(float64(i)*0.003)
	}

	decoded, err := Decode(Encode(samples))
	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(decoded, len(samples))
	for i := range samples {
		assert.InDelta(samples[i], decoded[i], 1.0/32768)
	}
}

func TestRoundTripFullScale(t *testing.T) {
	samples := []float64{1, -1, 0.99995, -0.99995, 0.75, -0.25}
	decoded, err := Decode(Encode(samples))
	assert.NoError(t, err)
	for i := range samples {
		// encode scales by 32767 and decode divides by 32768
		assert.InDelta(t, samples[i], decoded[i], 1.5/32768)
	}
}

func TestEmptyRoundTrip(t *testing.T) {
	data := Encode(nil)
	assert.Len(t, data, HeaderSize)

	decoded, err := Decode(data)
	assert.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeInvalidContainer(t *testing.T) {
	good := Encode([]float64{0.1, 0.2})

	noRiff := append([]byte{}, good...)
	copy(noRiff, "RIFX")
	noWave := append([]byte{}, good...)
	copy(noWave[8:], "AVI ")
	noData := append([]byte{}, good[:36]...)
	noData = append(noData, []byte("junk\x00\x00\x00\x00")...)

	cases := map[string][]byte{
		"empty":     {},
		"truncated": good[:20],
		"no riff":   noRiff,
		"no wave":   noWave,
		"no data":   noData,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			samples, err := Decode(data)
			assert.ErrorIs(t, err, ErrInvalidContainer)
			assert.NotNil(t, samples)
			assert.Empty(t, samples)
		})
	}
}

func TestDecodeUnsupportedEncoding(t *testing.T) {
	float := Encode([]float64{0.1, 0.2})
	binary.LittleEndian.PutUint16(float[20:], 3)
	samples, err := Decode(float)
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
	assert.Empty(t, samples)

	deep := Encode([]float64{0.1, 0.2})
	binary.LittleEndian.PutUint16(deep[34:], 24)
	samples, err = Decode(deep)
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
	assert.Empty(t, samples)
}

func buildContainer(channels, bitDepth int, extra []byte, payload []byte) []byte {
	var buf bytes.Buffer
	fmtBlock := make([]byte, 16)
	binary.LittleEndian.PutUint16(fmtBlock[0:], 1)
	binary.LittleEndian.PutUint16(fmtBlock[2:], uint16(channels))
	binary.LittleEndian.PutUint32(fmtBlock[4:], 8000)
	binary.LittleEndian.PutUint32(fmtBlock[8:], uint32(8000*channels*bitDepth/8))
	binary.LittleEndian.PutUint16(fmtBlock[12:], uint16(channels*bitDepth/8))
	binary.LittleEndian.PutUint16(fmtBlock[14:], uint16(bitDepth))

	size := make([]byte, 4)
	buf.WriteString("RIFF")
	binary.LittleEndian.PutUint32(size, uint32(4+24+len(extra)+8+len(payload)))
	buf.Write(size)
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.LittleEndian.PutUint32(size, 16)
	buf.Write(size)
	buf.Write(fmtBlock)
	buf.Write(extra)
	buf.WriteString("data")
	binary.LittleEndian.PutUint32(size, uint32(len(payload)))
	buf.Write(size)
	buf.Write(payload)
	return buf.Bytes()
}

func TestDecode8Bit(t *testing.T) {
	data := buildContainer(1, 8, nil, []byte{128, 255, 0, 192})
	samples, err := Decode(data)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]float64{0, 127.0 / 128, -1, 0.5}, samples)
}

func TestDecodeStereoKeepsFirstChannel(t *testing.T) {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint16(payload[0:], uint16(16384))
	binary.LittleEndian.PutUint16(payload[2:], uint16(0xFFFF))
	binary.LittleEndian.PutUint16(payload[4:], 0xC000)
	binary.LittleEndian.PutUint16(payload[6:], 1)
	samples, err := Decode(buildContainer(2, 16, nil, payload))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]float64{0.5, -0.5}, samples)
}

func TestDecodeSkipsUnknownBlocks(t *testing.T) {
	// odd sized block gets a pad byte
	extra := []byte("LIST\x03\x00\x00\x00abc\x00")
	samples, err := Decode(buildContainer(1, 8, extra, []byte{128, 192}))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]float64{0, 0.5}, samples)
}

func TestReadHeader(t *testing.T) {
	h, err := ReadHeader(Encode(make([]float64, 10)))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(uint16(1), h.Channels)
	assert.Equal(uint32(44100), h.SampleRate)
	assert.Equal(uint16(16), h.BitDepth)
	assert.Equal(HeaderSize, h.DataOffset)
	assert.Equal(20, h.DataSize)
	assert.Equal(10, h.Frames())
}

func TestGoAudioReadsEncodedContainer(t *testing.T) {
	samples := []float64{0, 0.25, -0.25, 0.5, -0.5}
	d := gowav.NewDecoder(bytes.NewReader(Encode(samples)))

	buf, err := d.FullPCMBuffer()

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(uint16(1), d.NumChans)
	assert.Equal(uint32(44100), d.SampleRate)
	assert.Equal(uint16(16), d.BitDepth)
	assert.Equal([]int{0, 8192, -8192, 16384, -16384}, buf.Data)
}

func TestDecodeGoAudioStereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := gowav.NewEncoder(f, 44100, 16, 2, 1)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: 44100},
		Data:           []int{16384, -32768, -16384, 32767, 8192, 0},
		SourceBitDepth: 16,
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	samples, err := Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.5, 0.25}, samples)
}
