package model

import "fmt"

// Instrument is the closed set of track variants.
type Instrument string

const (
	Synth  Instrument = "synth"
	Guitar Instrument = "guitar"
	Bass   Instrument = "bass"
	Drums  Instrument = "drums"
)

var Instruments = []Instrument{Synth, Guitar, Bass, Drums}

func (i Instrument) Valid() bool {
	switch i {
	case Synth, Guitar, Bass, Drums:
		return true
	}
	return false
}

// Voice picks a timbre variant within an instrument. The zero value means
// the instrument's default voice.
type Voice string

const (
	VoiceDefault    Voice = ""
	VoicePad        Voice = "pad"
	VoiceSine       Voice = "sine"
	VoiceSquare     Voice = "square"
	VoiceSaw        Voice = "saw"
	VoiceClean      Voice = "clean"
	VoiceDistortion Voice = "distortion"
	VoiceFinger     Voice = "finger"
	VoiceSlap       Voice = "slap"
)

type Track struct {
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	Instrument Instrument `json:"instrument" yaml:"instrument"`
	Voice      Voice      `json:"voice,omitempty" yaml:"voice,omitempty"`
	Notes      []Note     `json:"notes" yaml:"notes"`
	Muted      bool       `json:"muted,omitempty" yaml:"muted,omitempty"`
	Volume     float64    `json:"volume" yaml:"volume"`
}

// NOTE: 0.8 is what a freshly created track starts at
const DefaultVolume = 0.8

func NewTrack(name string, instrument Instrument) Track {
	return Track{Name: name, Instrument: instrument, Volume: DefaultVolume}
}

// Audible reports whether the track contributes to a mix.
func (t Track) Audible() bool {
	return !t.Muted && len(t.Notes) > 0
}

func (t Track) Validate() error {
	if !t.Instrument.Valid() {
		return fmt.Errorf("%w: unknown instrument %q", ErrInvalidTrack, t.Instrument)
	}
	if t.Volume < 0 || t.Volume > 1 {
		return fmt.Errorf("%w: %v has volume %v", ErrInvalidTrack, t.Name, t.Volume)
	}
	for _, n := range t.Notes {
		if err := n.Validate(); err != nil {
			return fmt.Errorf("%w: track %v: %w", ErrInvalidTrack, t.Name, err)
		}
	}
	return nil
}
