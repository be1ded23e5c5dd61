package model

import "strings"

type Style string

const (
	Electronic Style = "electronic"
	Rock       Style = "rock"
	Pop        Style = "pop"
	Jazz       Style = "jazz"
	Ambient    Style = "ambient"
	Ballad     Style = "ballad"
	Trot       Style = "trot"
)

var Styles = []Style{Electronic, Rock, Pop, Jazz, Ambient, Ballad, Trot}

// ParseStyle is case insensitive. Unknown names fall back to Electronic.
func ParseStyle(s string) (Style, bool) {
	style := Style(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range Styles {
		if v == style {
			return v, true
		}
	}
	return Electronic, false
}

// BPM is the tempo a style is usually played at.
func (s Style) BPM() int {
	switch s {
	case Electronic:
		return 128
	case Rock:
		return 120
	case Pop:
		return 110
	case Jazz:
		return 95
	case Ambient:
		return 70
	case Ballad:
		return 72
	case Trot:
		return 115
	}
	return 120
}
