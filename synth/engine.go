// Package synth renders symbolic tracks into sample buffers at
// constants.SampleRate.
package synth

import (
	"log/slog"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/pitch"
)

type Engine struct {
	BPM int

	// Seed drives the percussion noise. Track i of a mix uses Seed+i.
	Seed int64

	// Workers bounds concurrent track renders; zero means GOMAXPROCS.
	Workers int

	Logger *slog.Logger
}

func New(bpm int) *Engine {
	return &Engine{BPM: bpm, Seed: DefaultSeed}
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// BeatDuration is the length of one beat in seconds.
func (e *Engine) BeatDuration() float64 {
	return 60 / float64(e.BPM)
}

// Samples is the buffer length for totalBeats beats.
func (e *Engine) Samples(totalBeats int) int {
	return int(math.Round(float64(totalBeats) * e.BeatDuration() * constants.SampleRate))
}

// RenderTrack renders one track on its own, seeding noise with e.Seed.
// ComposeTracks seeds track i with e.Seed+i, so only the first track of a
// mix matches this buffer sample for sample.
func (e *Engine) RenderTrack(track model.Track, totalBeats int) []float64 {
	return e.renderTrack(track, totalBeats, rand.New(rand.NewSource(e.Seed)))
}

func (e *Engine) renderTrack(track model.Track, totalBeats int, rng *rand.Rand) []float64 {
	total := e.Samples(totalBeats)
	audio := make([]float64, total)
	beat := e.BeatDuration()

	melodic, ok := MelodicTimbre(track.Instrument, track.Voice)
	if !ok && track.Instrument != model.Drums {
		e.logger().Warn("no timbre for track", "track", track.Name, "instrument", track.Instrument, "voice", track.Voice)
		return audio
	}

	for _, note := range track.Notes {
		start := int(math.Round(float64(note.StartBeat) * beat * constants.SampleRate))
		if start >= total {
			continue
		}

		var wave []float64
		if track.Instrument == model.Drums {
			timbre, ok := DrumTimbre(note.Pitch)
			if !ok {
				e.logger().Debug("skipping unknown drum", "pitch", note.Pitch)
				continue
			}
			wave = RenderNote(0, 0, note.Velocity, timbre, rng)
		} else {
			freq, ok := pitch.Frequency(note.Pitch)
			if !ok {
				e.logger().Debug("unknown pitch, playing A4", "pitch", note.Pitch)
				freq = pitch.A4Frequency
			}
			if melodic == FingerBass || melodic == SlapBass {
				// one octave down
				freq /= 2
			}
			wave = RenderNote(freq, float64(note.Duration)*beat, note.Velocity, melodic, rng)
		}

		end := start + len(wave)
		if end > total {
			end = total
		}
		for i := start; i < end; i++ {
			audio[i] += wave[i-start]
		}
	}

	for i := range audio {
		audio[i] *= track.Volume
	}
	return audio
}

// ComposeTracks mixes every audible track and normalizes the peak to
// constants.MixPeak. Tracks render concurrently but are summed in order, so
// the result does not depend on scheduling.
func (e *Engine) ComposeTracks(tracks []model.Track, totalBeats int) []float64 {
	mix := make([]float64, e.Samples(totalBeats))
	rendered := make([][]float64, len(tracks))

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, track := range tracks {
		if !track.Audible() {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, track model.Track) {
			defer wg.Done()
			defer func() { <-sem }()
			rng := rand.New(rand.NewSource(e.Seed + int64(i)))
			rendered[i] = e.renderTrack(track, totalBeats, rng)
		}(i, track)
	}
	wg.Wait()

	for _, audio := range rendered {
		for i := range audio {
			mix[i] += audio[i]
		}
	}

	Normalize(mix, constants.MixPeak)
	return mix
}

// Normalize scales buf in place so its peak magnitude equals peak. A silent
// buffer is left alone.
func Normalize(buf []float64, peak float64) {
	var max float64
	for _, v := range buf {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	if max == 0 {
		return
	}
	scale := peak / max
	for i := range buf {
		buf[i] *= scale
	}
}

// Render mixes a whole score at the score's tempo.
func Render(score model.Score, seed int64) ([]float64, error) {
	if err := score.Validate(); err != nil {
		return nil, err
	}
	e := New(score.BPM)
	e.Seed = seed
	return e.ComposeTracks(score.Tracks, score.TotalBeats()), nil
}
