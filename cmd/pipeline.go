package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jsphweid/hummix/arrange"
	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/detect"
	"github.com/jsphweid/hummix/midi"
	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/score"
	"github.com/jsphweid/hummix/synth"
	"github.com/jsphweid/hummix/util"
	"github.com/jsphweid/hummix/wav"
)

func loadWav(path string) ([]float64, wav.Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wav.Header{}, err
	}
	h, err := wav.ReadHeader(data)
	if err != nil {
		return nil, wav.Header{}, fmt.Errorf("%v: %w", path, err)
	}
	if h.SampleRate != constants.SampleRate {
		slog.Warn("sample rate differs, pitches will be off", "path", path, "rate", h.SampleRate)
	}
	samples, err := wav.Decode(data)
	if err != nil {
		return nil, wav.Header{}, fmt.Errorf("%v: %w", path, err)
	}
	return samples, h, nil
}

// checkTempo rejects tempos the detector and renderer cannot work with.
func checkTempo(bpm int) error {
	if bpm < constants.MinBPM || bpm > constants.MaxBPM {
		return fmt.Errorf("%w: bpm must be between %v and %v, got %v", model.ErrInvalidTrack, constants.MinBPM, constants.MaxBPM, bpm)
	}
	return nil
}

// checkBars rejects bar counts above the render limit. Zero means fit the
// melody.
func checkBars(bars int) error {
	if bars < 0 || bars > constants.MaxBars {
		return fmt.Errorf("%w: bars must be between 0 and %v, got %v", model.ErrInvalidTrack, constants.MaxBars, bars)
	}
	return nil
}

// analyse detects the melody of a recording and the key it is in.
func analyse(samples []float64, bpm, bars int, source string) model.Take {
	melody := detect.ExtractMelody(samples, bpm)
	if bars < 1 {
		bars = arrange.BarsFor(melody)
	}
	return model.Take{
		ID:          uuid.New().String(),
		Source:      source,
		BPM:         bpm,
		Key:         detect.DetectKey(melody),
		Progression: detect.GenerateChordProgression(melody, bars),
		Melody:      melody,
	}
}

func renderWav(s model.Score, seed int64) ([]byte, error) {
	samples, err := synth.Render(s, seed)
	if err != nil {
		return nil, err
	}
	return wav.Encode(samples), nil
}

// writeOutput picks the output format from the file extension.
func writeOutput(path string, s model.Score, seed int64) error {
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		data, err := renderWav(s, seed)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	case ".mid", ".midi":
		return midi.WriteFile(path, s)
	}
	return score.Save(path, s)
}

// readInput loads a score from a score file or a MIDI file.
func readInput(path string) (model.Score, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		return midi.ReadFile(path)
	}
	return score.Load(path)
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
