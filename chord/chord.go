// Package chord holds the fixed diatonic tables used to build triads and
// chord progressions.
package chord

import (
	"strconv"

	"github.com/jsphweid/hummix/model"
)

// BaseLength is the length of every progression pattern.
const BaseLength = 4

var Default = []string{"C4", "G4", "A4", "F4"}

var thirds = map[string]string{"C": "E", "D": "F", "E": "G", "F": "A", "G": "B", "A": "C", "B": "D"}
var fifths = map[string]string{"C": "G", "D": "A", "E": "B", "F": "C", "G": "D", "A": "E", "B": "F"}

// NOTE: every root is a natural letter so the third/fifth maps apply to it
var byKey = map[string][4]string{
	"C": {"C4", "G4", "A4", "F4"},
	"D": {"D4", "A4", "B4", "G4"},
	"E": {"E4", "A4", "B4", "E4"},
	"F": {"F4", "C4", "D4", "G4"},
	"G": {"G4", "D4", "E4", "C4"},
	"A": {"A4", "D4", "E4", "A4"},
	"B": {"B4", "E4", "A4", "D4"},
}

var byStyle = map[model.Style][4]string{
	model.Electronic: {"C4", "G4", "A4", "F4"},
	model.Rock:       {"E4", "A4", "B4", "E4"},
	model.Pop:        {"C4", "G4", "A4", "F4"},
	model.Jazz:       {"C4", "A4", "D4", "G4"},
	model.Ambient:    {"C4", "E4", "F4", "G4"},
	model.Ballad:     {"G4", "D4", "E4", "C4"},
	model.Trot:       {"A4", "D4", "E4", "A4"},
}

// ForKey returns the pattern for a key letter, C when the key is unknown.
func ForKey(key string) []string {
	p, ok := byKey[key]
	if !ok {
		p = byKey["C"]
	}
	return p[:]
}

// ForStyle returns the pattern for a style, electronic when unknown.
func ForStyle(style model.Style) []string {
	p, ok := byStyle[style]
	if !ok {
		p = byStyle[model.Electronic]
	}
	return p[:]
}

// Cycle repeats pattern until it fills bars entries.
func Cycle(pattern []string, bars int) []string {
	if bars < 1 || len(pattern) == 0 {
		return []string{}
	}
	res := make([]string, bars)
	for i := range res {
		res[i] = pattern[i%len(pattern)]
	}
	return res
}

func split(root string) (string, int, bool) {
	if len(root) < 2 {
		return "", 0, false
	}
	octave, err := strconv.Atoi(root[len(root)-1:])
	if err != nil {
		return "", 0, false
	}
	return root[:len(root)-1], octave, true
}

// Third is the diatonic third above root. A and B carry into the next
// octave. Roots with accidentals have no third.
func Third(root string) (string, bool) {
	base, octave, ok := split(root)
	if !ok {
		return "", false
	}
	next, ok := thirds[base]
	if !ok {
		return "", false
	}
	if base == "A" || base == "B" {
		octave++
	}
	return next + strconv.Itoa(octave), true
}

// Fifth is the diatonic fifth above root. F, G, A and B carry into the next
// octave.
func Fifth(root string) (string, bool) {
	base, octave, ok := split(root)
	if !ok {
		return "", false
	}
	next, ok := fifths[base]
	if !ok {
		return "", false
	}
	switch base {
	case "F", "G", "A", "B":
		octave++
	}
	return next + strconv.Itoa(octave), true
}

// Triad is root plus whichever of its third and fifth exist.
func Triad(root string) []string {
	res := []string{root}
	if third, ok := Third(root); ok {
		res = append(res, third)
	}
	if fifth, ok := Fifth(root); ok {
		res = append(res, fifth)
	}
	return res
}
