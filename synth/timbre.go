package synth

import (
	"fmt"

	"github.com/jsphweid/hummix/model"
)

// Timbre is a waveform generation rule set.
type Timbre int

const (
	Pad Timbre = iota
	Sine
	Square
	Saw
	CleanGuitar
	DistortionGuitar
	FingerBass
	SlapBass
	KickDrum
	SnareDrum
	HiHatDrum
	ClapDrum
)

var timbreNames = map[Timbre]string{
	Pad:              "pad",
	Sine:             "sine",
	Square:           "square",
	Saw:              "saw",
	CleanGuitar:      "clean-guitar",
	DistortionGuitar: "distortion-guitar",
	FingerBass:       "finger-bass",
	SlapBass:         "slap-bass",
	KickDrum:         "kick",
	SnareDrum:        "snare",
	HiHatDrum:        "hihat",
	ClapDrum:         "clap",
}

func (t Timbre) String() string {
	if name, ok := timbreNames[t]; ok {
		return name
	}
	return fmt.Sprintf("timbre(%d)", int(t))
}

// Percussive timbres ignore the requested duration and pitch.
func (t Timbre) Percussive() bool {
	switch t {
	case KickDrum, SnareDrum, HiHatDrum, ClapDrum:
		return true
	}
	return false
}

// Length is the fixed length in seconds of a percussive timbre.
func (t Timbre) Length() float64 {
	switch t {
	case KickDrum:
		return 0.3
	case SnareDrum:
		return 0.2
	case HiHatDrum:
		return 0.1
	case ClapDrum:
		return 0.15
	}
	return 0
}

// Envelope returns the attack and release windows in seconds.
func (t Timbre) Envelope() (float64, float64) {
	switch t {
	case Pad:
		return 0.3, 0.4
	case CleanGuitar:
		return 0.01, 0.2
	case DistortionGuitar:
		return 0.01, 0.15
	case FingerBass:
		return 0.02, 0.15
	case SlapBass:
		return 0.005, 0.1
	}
	return 0.05, 0.1
}

type harmonic struct {
	ratio  float64
	weight float64
}

var harmonics = map[Timbre][]harmonic{
	Pad:         {{1, 0.5}, {2, 0.25}, {0.5, 0.25}},
	Sine:        {{1, 1}},
	CleanGuitar: {{1, 0.6}, {2, 0.25}, {3, 0.10}, {4, 0.05}},
	FingerBass:  {{1, 0.7}, {2, 0.2}, {3, 0.1}},
	SlapBass:    {{1, 0.5}, {2, 0.3}, {4, 0.2}},
}

// MelodicTimbre picks the timbre an instrument voice plays with.
func MelodicTimbre(instrument model.Instrument, voice model.Voice) (Timbre, bool) {
	switch instrument {
	case model.Synth:
		switch voice {
		case model.VoiceDefault, model.VoicePad:
			return Pad, true
		case model.VoiceSine:
			return Sine, true
		case model.VoiceSquare:
			return Square, true
		case model.VoiceSaw:
			return Saw, true
		}
	case model.Guitar:
		switch voice {
		case model.VoiceDefault, model.VoiceClean:
			return CleanGuitar, true
		case model.VoiceDistortion:
			return DistortionGuitar, true
		}
	case model.Bass:
		switch voice {
		case model.VoiceDefault, model.VoiceFinger:
			return FingerBass, true
		case model.VoiceSlap:
			return SlapBass, true
		}
	}
	return 0, false
}

// DrumTimbre maps a percussion label to its generator.
func DrumTimbre(label string) (Timbre, bool) {
	switch label {
	case model.Kick:
		return KickDrum, true
	case model.Snare:
		return SnareDrum, true
	case model.HiHat:
		return HiHatDrum, true
	case model.Clap:
		return ClapDrum, true
	}
	return 0, false
}
