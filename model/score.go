package model

import (
	"fmt"

	"github.com/jsphweid/hummix/constants"
)

const BeatsPerBar = 4

type Score struct {
	Title  string  `json:"title,omitempty" yaml:"title,omitempty"`
	Style  Style   `json:"style,omitempty" yaml:"style,omitempty"`
	BPM    int     `json:"bpm" yaml:"bpm"`
	Bars   int     `json:"bars" yaml:"bars"`
	Tracks []Track `json:"tracks" yaml:"tracks"`
}

func (s Score) TotalBeats() int {
	return s.Bars * BeatsPerBar
}

// Seconds is the rendered length of the score.
func (s Score) Seconds() float64 {
	if s.BPM <= 0 {
		return 0
	}
	return float64(s.TotalBeats()) * 60 / float64(s.BPM)
}

func (s Score) Validate() error {
	if s.BPM < constants.MinBPM || s.BPM > constants.MaxBPM {
		return fmt.Errorf("%w: bpm must be between %v and %v, got %v", ErrInvalidTrack, constants.MinBPM, constants.MaxBPM, s.BPM)
	}
	if s.Bars < 1 || s.Bars > constants.MaxBars {
		return fmt.Errorf("%w: bars must be between 1 and %v, got %v", ErrInvalidTrack, constants.MaxBars, s.Bars)
	}
	if s.Seconds() > constants.MaxSeconds {
		return fmt.Errorf("%w: %v bars at %v bpm last longer than %v seconds", ErrInvalidTrack, s.Bars, s.BPM, constants.MaxSeconds)
	}
	for _, t := range s.Tracks {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Take is the result of analysing one recording.
type Take struct {
	ID          string   `json:"id" dynamodbav:"PK"`
	Source      string   `json:"source,omitempty"`
	BPM         int      `json:"bpm"`
	Key         string   `json:"key"`
	Progression []string `json:"progression"`
	Melody      []Note   `json:"melody"`
}
