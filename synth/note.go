package synth

import (
	"math"
	"math/rand"

	"github.com/jsphweid/hummix/constants"
	"github.com/jsphweid/hummix/util"
)

// DefaultSeed feeds the noise generators when the caller does not bring
// its own source, so renders are reproducible.
const DefaultSeed = 1

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Samples is the buffer length for a melodic note of the given length.
func Samples(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	return int(math.Round(constants.SampleRate * seconds))
}

// RenderNote synthesizes one note. Percussive timbres have a fixed length
// and ignore freq and seconds. rng supplies noise and may be nil.
func RenderNote(freq, seconds, velocity float64, timbre Timbre, rng *rand.Rand) []float64 {
	if rng == nil {
		rng = rand.New(rand.NewSource(DefaultSeed))
	}
	if timbre.Percussive() {
		n := Samples(timbre.Length())
		switch timbre {
		case KickDrum:
			return kick(n, velocity)
		case SnareDrum:
			return snare(n, velocity, rng)
		case HiHatDrum:
			return hihat(n, velocity, rng)
		default:
			return clap(n, velocity, rng)
		}
	}

	wave := make([]float64, Samples(seconds))
	switch timbre {
	case Square:
		for i := range wave {
			t := float64(i) / constants.SampleRate
			wave[i] = sign(math.Sin(2*math.Pi*freq*t)) * velocity * 0.5
		}
	case Saw:
		for i := range wave {
			x := float64(i) / constants.SampleRate * freq
			wave[i] = 2 * (x - math.Floor(0.5+x)) * velocity * 0.5
		}
	case DistortionGuitar:
		for i := range wave {
			t := float64(i) / constants.SampleRate
			v := util.Clamp(math.Sin(2*math.Pi*freq*t)*3, -0.8, 0.8)
			v += math.Sin(2*math.Pi*freq*2*t) * 0.3
			wave[i] = util.Clamp(v, -1, 1) * velocity * 0.7
		}
	default:
		additive(wave, freq, harmonics[timbre])
		if timbre == SlapBass {
			// the pluck is twice as loud and settles over 20ms
			a := int(0.02 * constants.SampleRate)
			for i := 0; i < a && i < len(wave); i++ {
				wave[i] *= ramp(2, 1, i, a)
			}
			for i := range wave {
				wave[i] = util.Clamp(wave[i], -1, 1)
			}
		}
		for i := range wave {
			wave[i] *= velocity
		}
	}

	attack, release := timbre.Envelope()
	applyEnvelope(wave, attack, release)
	return wave
}

func additive(wave []float64, freq float64, partials []harmonic) {
	for i := range wave {
		t := float64(i) / constants.SampleRate
		var v float64
		for _, h := range partials {
			v += math.Sin(2*math.Pi*freq*h.ratio*t) * h.weight
		}
		wave[i] = v
	}
}
