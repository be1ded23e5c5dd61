package detect

import (
	"fmt"
	"math"
	"testing"

	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/pitch"
	"github.com/jsphweid/hummix/synth"
	"github.com/stretchr/testify/assert"
)

func sine(freq, amplitude, seconds float64) []float64 {
	n := int(44100 * seconds)
	res := make([]float64, n)
	for i := range res {
		res[i] = amplitude * math.Sin(2*math.Pi*freq*float64(i)/44100)
	}
	return res
}

func TestSineAt440IsA4(t *testing.T) {
	melody := ExtractMelody(sine(440, 0.8, 1), 120)

	assert := assert.New(t)
	assert.Equal([]model.Note{{Pitch: "A4", StartBeat: 0, Duration: 4, Velocity: 1}}, melody)
}

func TestSilenceGate(t *testing.T) {
	for _, bpm := range []int{60, 90, 120, 180} {
		t.Run(fmt.Sprintf("%v bpm", bpm), func(t *testing.T) {
			assert.Empty(t, ExtractMelody(make([]float64, 44100), bpm))
			// rms of 0.0141
			assert.Empty(t, ExtractMelody(sine(440, 0.02, 1), bpm))
		})
	}
}

func TestEmptyInput(t *testing.T) {
	melody := ExtractMelody(nil, 120)
	assert.NotNil(t, melody)
	assert.Empty(t, melody)
}

func TestWeakCorrelationIsNotAPitch(t *testing.T) {
	// loud enough to pass the silence gate but a^2/2 stays under 0.1
	assert.Empty(t, ExtractMelody(sine(440, 0.3, 1), 120))
}

func TestLeadingSilenceIsTrimmed(t *testing.T) {
	samples := append(make([]float64, 44100), sine(440, 0.8, 1)...)
	melody := ExtractMelody(samples, 120)

	assert := assert.New(t)
	assert.NotEmpty(melody)
	assert.Equal("A4", melody[0].Pitch)
	assert.Equal(0, melody[0].StartBeat)
	assert.GreaterOrEqual(melody[0].Duration, 4)
}

func TestConsecutivePitchesSplitIntoNotes(t *testing.T) {
	samples := append(sine(440, 0.8, 1), sine(523.25, 0.8, 1)...)
	melody := ExtractMelody(samples, 120)

	assert := assert.New(t)
	assert.GreaterOrEqual(len(melody), 2)
	first, last := melody[0], melody[len(melody)-1]
	assert.Equal(model.Note{Pitch: "A4", StartBeat: 0, Duration: 3, Velocity: 1}, first)
	assert.Equal("C5", last.Pitch)
	assert.Equal(4, last.StartBeat)
	assert.Equal(4, last.Duration)
}

func TestGuitarToneIsDetected(t *testing.T) {
	freq, _ := pitch.Frequency("C4")
	wave := synth.RenderNote(freq, 1, 0.8, synth.CleanGuitar, nil)
	melody := ExtractMelody(wave, 120)

	assert := assert.New(t)
	assert.NotEmpty(melody)
	assert.Equal("C4", melody[0].Pitch)
	assert.Equal(0, melody[0].StartBeat)
}

func TestEstimateFrequency(t *testing.T) {
	cases := []struct {
		freq  float64
		label string
	}{
		{110, "A2"},
		{261.63, "C4"},
		{440, "A4"},
		{880, "A5"},
		{987.77, "B5"},
	}
	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			f, ok := EstimateFrequency(sine(c.freq, 0.8, 0.25))
			assert.True(t, ok)
			label, ok := pitch.Quantize(f)
			assert.True(t, ok)
			assert.Equal(t, c.label, label)
		})
	}
}

func TestEstimateFrequencyNeedsFullWindow(t *testing.T) {
	_, ok := EstimateFrequency(sine(440, 0.8, 0.005))
	assert.False(t, ok)
	_, ok = EstimateFrequency(make([]float64, 4096))
	assert.False(t, ok)
}

func TestFFTMatchesDirectAutocorrelation(t *testing.T) {
	window := sine(329.63, 0.7, 0.1)
	for i := range window {
		window[i] += 0.2 * math.Sin(float64(i)*0.37)
	}
	direct := autocorrelateDirect(window, 43, 552)
	fast := autocorrelateFFT(window, 43, 552)

	assert.Len(t, fast, len(direct))
	for i := range direct {
		assert.InDelta(t, direct[i], fast[i], 1e-9)
	}
}

func TestWindowSize(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(22050, New(120).WindowSize())
	assert.Equal(44100, New(60).WindowSize())
	assert.Equal(26460, New(100).WindowSize())
	assert.Equal(0, New(0).WindowSize())
	assert.Equal(0, New(-40).WindowSize())
}

func TestNonPositiveTempoYieldsNoMelody(t *testing.T) {
	tone := sine(440, 0.8, 1)
	for _, bpm := range []int{0, -1, -120} {
		t.Run(fmt.Sprintf("%v bpm", bpm), func(t *testing.T) {
			var melody []model.Note
			assert.NotPanics(t, func() { melody = ExtractMelody(tone, bpm) })
			assert.NotNil(t, melody)
			assert.Empty(t, melody)
		})
	}
}

func TestDetectKey(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("C", DetectKey(nil))
	assert.Equal("C", DetectKey([]model.Note{{Pitch: "C4", Duration: 1}, {Pitch: "C5", Duration: 3}}))

	melody := []model.Note{
		{Pitch: "G4", Duration: 2},
		{Pitch: "E4", Duration: 1},
		{Pitch: "G3", Duration: 1},
		{Pitch: "E5", Duration: 2},
	}
	assert.Equal("G", DetectKey(melody))

	// ties keep the first class heard
	tied := []model.Note{{Pitch: "D4", Duration: 2}, {Pitch: "A4", Duration: 2}}
	assert.Equal("D", DetectKey(tied))

	assert.Equal("F#", DetectKey([]model.Note{{Pitch: "F#3", Duration: 1}}))
}

func TestGenerateChordProgression(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]string{"C4", "G4", "A4", "F4"}, GenerateChordProgression(nil, 4))

	melody := []model.Note{{Pitch: "G4", Duration: 4}}
	assert.Equal([]string{"G4", "D4", "E4", "C4", "G4", "D4"}, GenerateChordProgression(melody, 6))

	sharp := []model.Note{{Pitch: "C#4", Duration: 4}}
	assert.Equal([]string{"C4", "G4", "A4", "F4"}, GenerateChordProgression(sharp, 4))

	for bars := 1; bars <= 16; bars++ {
		assert.Len(GenerateChordProgression(melody, bars), bars)
		assert.Len(GenerateChordProgression(nil, bars), bars)
	}
}
