package score

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/hummix/arrange"
	"github.com/jsphweid/hummix/model"
	"github.com/stretchr/testify/assert"
)

const handWritten = `
title: sketch
bpm: 90
bars: 1
tracks:
  - name: lead
    instrument: guitar
    voice: distortion
    volume: 0.5
    notes:
      - pitch: E4
        start_beat: 0
        duration: 2
        velocity: 0.8
      - pitch: G4
        start_beat: 2
        duration: 2
        velocity: 0.6
`

func TestDecodeYAML(t *testing.T) {
	assert := assert.New(t)
	s, err := Decode([]byte(handWritten), YAML)
	assert.NoError(err)
	assert.Equal("sketch", s.Title)
	assert.Equal(90, s.BPM)
	if assert.Len(s.Tracks, 1) {
		lead := s.Tracks[0]
		assert.Equal(model.Guitar, lead.Instrument)
		assert.Equal(model.VoiceDistortion, lead.Voice)
		assert.Equal(model.Note{Pitch: "G4", StartBeat: 2, Duration: 2, Velocity: 0.6}, lead.Notes[1])
	}
}

func TestDecodeRejectsInvalidScores(t *testing.T) {
	_, err := Decode([]byte(`{"bpm": 0, "bars": 1}`), JSON)
	assert.ErrorIs(t, err, model.ErrInvalidTrack)

	_, err = Decode([]byte(`{"bpm": 100, "bars": 1, "tracks": [{"instrument": "kazoo"}]}`), JSON)
	assert.ErrorIs(t, err, model.ErrInvalidTrack)

	_, err = Decode([]byte("bpm: [oops"), YAML)
	assert.Error(t, err)
}

func TestRoundTrip(t *testing.T) {
	s := arrange.FromStyle(model.Ambient, 2)
	for _, format := range []Format{YAML, JSON} {
		t.Run(string(format), func(t *testing.T) {
			assert := assert.New(t)
			data, err := Encode(s, format)
			assert.NoError(err)
			got, err := Decode(data, format)
			assert.NoError(err)
			assert.Equal(s, got)
		})
	}
}

func TestFormatFor(t *testing.T) {
	assert := assert.New(t)
	for path, want := range map[string]Format{
		"a.yaml": YAML,
		"b.YML":  YAML,
		"c.json": JSON,
	} {
		got, err := FormatFor(path)
		assert.NoError(err)
		assert.Equal(want, got)
	}
	_, err := FormatFor("song.mid")
	assert.ErrorIs(err, ErrUnknownFormat)
	_, err = Encode(model.Score{}, "toml")
	assert.ErrorIs(err, ErrUnknownFormat)
}

func TestSaveAndLoad(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "song.yml")
	s := arrange.FromStyle(model.Trot, 1)

	assert.NoError(Save(path, s))
	_, err := os.Stat(path)
	assert.NoError(err)

	got, err := Load(path)
	assert.NoError(err)
	assert.Equal(s, got)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(err)
}
