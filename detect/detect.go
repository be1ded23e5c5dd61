// Package detect turns recorded audio into symbolic notes. It tracks a
// single dominant fundamental per analysis window using autocorrelation,
// then estimates the key and a chord progression from the notes.
package detect

import (
	"log/slog"
	"math"

	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/pitch"
)

// SubharmonicTolerance decides how close a shorter period has to come to
// the strongest correlation before it is preferred. A pure tone correlates
// almost equally well at every multiple of its period, so the first peak
// within this fraction of the best is taken as the fundamental.
const SubharmonicTolerance = 0.9

type Detector struct {
	BPM    int
	Logger *slog.Logger
}

func New(bpm int) *Detector {
	return &Detector{BPM: bpm}
}

func (d *Detector) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// WindowSize is the number of samples analysed per step, zero when the
// tempo is not positive.
func (d *Detector) WindowSize() int {
	if d.BPM <= 0 {
		return 0
	}
	return int(math.Round(constants.SampleRate * 60 / float64(d.BPM)))
}

// EstimateFrequency returns the fundamental of window in Hz, or false when
// the window is too short or not periodic enough. It is not the plain
// argmax of the autocorrelation: the shortest lag that peaks within
// SubharmonicTolerance of the best one wins, so clean tones do not read an
// octave or more low.
func EstimateFrequency(window []float64) (float64, bool) {
	if len(window) < constants.MinWindow {
		return 0, false
	}
	minLag := constants.SampleRate / constants.MaxPitchHz
	maxLag := constants.SampleRate / constants.MinPitchHz
	if maxLag >= len(window) {
		maxLag = len(window) - 1
	}
	// one extra lag on each side so the ends can be checked for peaks
	lo := minLag - 1
	corr := autocorrelate(window, lo, maxLag+1)
	at := func(lag int) float64 {
		if lag < lo || lag-lo >= len(corr) || lag >= len(window) {
			return math.Inf(-1)
		}
		return corr[lag-lo]
	}

	best, bestLag := math.Inf(-1), 0
	for lag := minLag; lag <= maxLag; lag++ {
		if c := at(lag); c > best {
			best, bestLag = c, lag
		}
	}
	if bestLag == 0 || best < constants.MinCorrelation {
		return 0, false
	}

	for lag := minLag; lag < bestLag; lag++ {
		c := at(lag)
		if c >= SubharmonicTolerance*best && c >= at(lag-1) && c >= at(lag+1) {
			bestLag = lag
			break
		}
	}
	return float64(constants.SampleRate) / float64(bestLag), true
}

// ExtractMelody quantizes the dominant pitch of each window into notes.
// Windows overlap by half and the beat counter advances once per window.
// An empty result means no pitched content was found.
func (d *Detector) ExtractMelody(samples []float64) []model.Note {
	size := d.WindowSize()
	if size == 0 {
		d.logger().Warn("tempo must be positive", "bpm", d.BPM)
		return []model.Note{}
	}
	hop := size / 2
	if hop < 1 {
		hop = 1
	}

	melody := []model.Note{}
	beat := 0
	for start := 0; start < len(samples); start += hop {
		end := start + size
		if end > len(samples) {
			end = len(samples)
		}
		window := samples[start:end]
		level := rms(window)

		if level >= constants.SilenceRMS {
			if label, ok := d.pitchOf(window); ok {
				last := len(melody) - 1
				if last >= 0 && melody[last].Pitch == label && melody[last].EndBeat() == beat {
					melody[last].Duration++
				} else {
					melody = append(melody, model.Note{
						Pitch:     label,
						StartBeat: beat,
						Duration:  1,
						Velocity:  math.Min(1, level*5),
					})
				}
			}
		}
		beat++
	}

	return align(melody)
}

func (d *Detector) pitchOf(window []float64) (string, bool) {
	freq, ok := EstimateFrequency(window)
	if !ok {
		return "", false
	}
	label, ok := pitch.Quantize(freq)
	if !ok {
		d.logger().Debug("pitch outside midi range", "hz", freq)
	}
	return label, ok
}

// align drops empty notes and shifts everything so the first note starts
// at beat zero.
func align(melody []model.Note) []model.Note {
	res := melody[:0]
	for _, n := range melody {
		if n.Duration >= 1 {
			res = append(res, n)
		}
	}
	if len(res) == 0 {
		return res
	}
	offset := res[0].StartBeat
	for i := range res {
		res[i].StartBeat -= offset
	}
	return res
}

// ExtractMelody runs a Detector at bpm.
func ExtractMelody(samples []float64, bpm int) []model.Note {
	return New(bpm).ExtractMelody(samples)
}
