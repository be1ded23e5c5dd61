// Package pitch maps symbolic pitch labels such as "C4" or "F#3" to
// frequencies and quantizes frequencies back to labels.
package pitch

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/hummix/constants"
)

const (
	A4Frequency = 440.0
	A4Midi      = 69

	LowestOctave  = 2
	HighestOctave = 6
)

var Names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Naturals are the seven letter names without accidentals, in scale order.
var Naturals = [7]string{"C", "D", "E", "F", "G", "A", "B"}

var frequencies = buildTable()

func buildTable() map[string]float64 {
	res := make(map[string]float64, 12*(HighestOctave-LowestOctave+1))
	for octave := LowestOctave; octave <= HighestOctave; octave++ {
		for i, name := range Names {
			semitones := (octave-4)*12 + (i - 9)
			res[name+strconv.Itoa(octave)] = A4Frequency * math.Pow(2, float64(semitones)/12)
		}
	}
	return res
}

// Frequency looks up a label in the table.
func Frequency(label string) (float64, bool) {
	f, ok := frequencies[label]
	return f, ok
}

// FrequencyOrDefault returns A4 for labels outside the table.
func FrequencyOrDefault(label string) float64 {
	if f, ok := frequencies[label]; ok {
		return f
	}
	return A4Frequency
}

func MidiFromFrequency(freq float64) int {
	return int(math.Round(A4Midi + 12*math.Log2(freq/A4Frequency)))
}

func FrequencyFromMidi(midi int) float64 {
	return A4Frequency * math.Pow(2, float64(midi-A4Midi)/12)
}

func LabelFromMidi(midi int) string {
	return Names[midi%12] + strconv.Itoa(midi/12-1)
}

// Quantize returns the nearest label for freq, rejecting anything whose
// MIDI number falls outside the detectable range.
func Quantize(freq float64) (string, bool) {
	if freq <= 0 || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return "", false
	}
	midi := MidiFromFrequency(freq)
	if midi < constants.MinMidi || midi > constants.MaxMidi {
		return "", false
	}
	return LabelFromMidi(midi), true
}

// Parse splits a label into its name (letter plus accidental) and octave.
func Parse(label string) (string, int, error) {
	i := strings.IndexFunc(label, func(r rune) bool {
		return r == '-' || (r >= '0' && r <= '9')
	})
	if i <= 0 {
		return "", 0, fmt.Errorf("pitch: no octave in label %q", label)
	}
	name := label[:i]
	if indexOf(name) < 0 {
		return "", 0, fmt.Errorf("pitch: unknown note name in label %q", label)
	}
	octave, err := strconv.Atoi(label[i:])
	if err != nil {
		return "", 0, fmt.Errorf("pitch: bad octave in label %q: %w", label, err)
	}
	return name, octave, nil
}

// Midi converts a label to its MIDI note number.
func Midi(label string) (int, error) {
	name, octave, err := Parse(label)
	if err != nil {
		return 0, err
	}
	return (octave+1)*12 + indexOf(name), nil
}

// Class strips the octave digits, so "C#4" becomes "C#".
func Class(label string) string {
	return strings.TrimRight(label, "0123456789")
}

func indexOf(name string) int {
	for i, n := range Names {
		if n == name {
			return i
		}
	}
	return -1
}
