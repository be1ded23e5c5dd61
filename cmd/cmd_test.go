package cmd

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/hummix/arrange"
	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/score"
	"github.com/jsphweid/hummix/wav"
	"github.com/stretchr/testify/assert"
)

func writeHum(t *testing.T, path string, freq float64) {
	t.Helper()
	samples := make([]float64, constants.SampleRate)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*freq*float64(i)/constants.SampleRate)
	}
	assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	assert.NoError(t, os.WriteFile(path, wav.Encode(samples), 0644))
}

func TestWriteOutputFollowsExtension(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	s := arrange.FromStyle(model.Pop, 1)

	for _, name := range []string{"a.wav", "a.mid", "a.yaml", "a.json"} {
		assert.NoError(writeOutput(filepath.Join(dir, name), s, 1), name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "a.wav"))
	assert.NoError(err)
	h, err := wav.ReadHeader(data)
	assert.NoError(err)
	assert.Equal(1, int(h.Channels))

	fromMidi, err := readInput(filepath.Join(dir, "a.mid"))
	assert.NoError(err)
	assert.Equal(s.BPM, fromMidi.BPM)
	assert.Len(fromMidi.Tracks, 4)

	fromYAML, err := readInput(filepath.Join(dir, "a.yaml"))
	assert.NoError(err)
	assert.Equal(s, fromYAML)

	assert.Error(writeOutput(filepath.Join(dir, "a.txt"), s, 1))
}

func TestExtract(t *testing.T) {
	assert := assert.New(t)
	out := t.TempDir()
	t.Setenv("HUMMIX_OUT_PATH", out)

	in := t.TempDir()
	writeHum(t, filepath.Join(in, "la.wav"), 440)
	writeHum(t, filepath.Join(in, "more", "do.wav"), 261.63)
	assert.NoError(os.WriteFile(filepath.Join(in, "broken.wav"), []byte("nope"), 0644))

	assert.NoError(Extract(in, 120, 0, 0, nil))

	s, err := score.Load(filepath.Join(out, "la.yaml"))
	assert.NoError(err)
	assert.Equal("la", s.Title)
	assert.Equal(120, s.BPM)
	assert.Equal(1, s.Bars)
	assert.Equal([]model.Note{{Pitch: "A4", StartBeat: 0, Duration: 4, Velocity: 1}}, s.Tracks[0].Notes)

	s, err = score.Load(filepath.Join(out, "do.yaml"))
	assert.NoError(err)
	assert.Equal("C4", s.Tracks[0].Notes[0].Pitch)

	_, err = os.Stat(filepath.Join(out, "broken.yaml"))
	assert.True(os.IsNotExist(err))
}

func TestExtractNeedsTempo(t *testing.T) {
	assert.ErrorIs(t, Extract(t.TempDir(), 0, 0, 0, nil), model.ErrInvalidTrack)
}

func TestAnalyse(t *testing.T) {
	assert := assert.New(t)
	take := analyse(make([]float64, constants.SampleRate), 120, 3, "quiet.wav")
	assert.Empty(take.Melody)
	assert.Equal("C", take.Key)
	assert.Equal([]string{"C4", "G4", "A4"}, take.Progression)
	assert.NotEmpty(take.ID)
}

func TestInspectRejectsBadTempo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "la.wav")
	writeHum(t, path, 440)
	for _, bpm := range []int{0, -60, 1000} {
		assert.ErrorIs(t, inspect(path, bpm), model.ErrInvalidTrack)
	}
	assert.NoError(t, inspect(path, 120))
}

func TestExtractRejectsTooManyBars(t *testing.T) {
	assert.ErrorIs(t, Extract(t.TempDir(), 120, constants.MaxBars+1, 0, nil), model.ErrInvalidTrack)
}
