package synth

import (
	"math"
	"math/rand"

	"github.com/jsphweid/hummix/constants"
)

func noise(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

func kick(n int, velocity float64) []float64 {
	wave := make([]float64, n)
	var phase float64
	for i := range wave {
		t := float64(i) / constants.SampleRate
		freq := 150*math.Exp(-20*t) + 40
		phase += 2 * math.Pi * freq / constants.SampleRate
		wave[i] = math.Sin(phase) * math.Exp(-10*t) * velocity
	}
	return wave
}

func snare(n int, velocity float64, rng *rand.Rand) []float64 {
	wave := make([]float64, n)
	for i := range wave {
		t := float64(i) / constants.SampleRate
		tone := math.Sin(2*math.Pi*200*t) * math.Exp(-20*t)
		hiss := noise(rng) * math.Exp(-15*t) * 0.5
		wave[i] = (tone + hiss) * velocity * 0.8
	}
	return wave
}

func hihat(n int, velocity float64, rng *rand.Rand) []float64 {
	wave := make([]float64, n)
	for i := range wave {
		t := float64(i) / constants.SampleRate
		wave[i] = noise(rng) * math.Exp(-30*t) * velocity * 0.4
	}
	return wave
}

// clap layers four decaying noise bursts 10ms apart
func clap(n int, velocity float64, rng *rand.Rand) []float64 {
	wave := make([]float64, n)
	for i := range wave {
		t := float64(i) / constants.SampleRate
		var env float64
		for k := 0; k < 4; k++ {
			start := int(float64(k) * 0.01 * constants.SampleRate)
			if i >= start {
				env += math.Exp(-float64(i-start) / constants.SampleRate * 50)
			}
		}
		wave[i] = noise(rng) * env * math.Exp(-20*t) * velocity * 0.5
	}
	return wave
}
