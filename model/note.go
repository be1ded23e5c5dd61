package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidNote  = errors.New("invalid note")
	ErrInvalidTrack = errors.New("invalid track")
)

// Percussion labels understood by the drum kit.
const (
	Kick  = "Kick"
	Snare = "Snare"
	HiHat = "HiHat"
	Clap  = "Clap"
)

type Note struct {
	Pitch     string  `json:"pitch" yaml:"pitch"`
	StartBeat int     `json:"start_beat" yaml:"start_beat"`
	Duration  int     `json:"duration" yaml:"duration"`
	Velocity  float64 `json:"velocity" yaml:"velocity"`
}

func (n Note) EndBeat() int {
	return n.StartBeat + n.Duration
}

func (n Note) Validate() error {
	switch {
	case n.Pitch == "":
		return fmt.Errorf("%w: empty pitch", ErrInvalidNote)
	case n.StartBeat < 0:
		return fmt.Errorf("%w: %v starts at negative beat %v", ErrInvalidNote, n.Pitch, n.StartBeat)
	case n.Duration < 1:
		return fmt.Errorf("%w: %v has duration %v", ErrInvalidNote, n.Pitch, n.Duration)
	case n.Velocity < 0 || n.Velocity > 1:
		return fmt.Errorf("%w: %v has velocity %v", ErrInvalidNote, n.Pitch, n.Velocity)
	}
	return nil
}
