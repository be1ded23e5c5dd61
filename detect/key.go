package detect

import (
	"github.com/jsphweid/hummix/chord"
	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/pitch"
)

const DefaultKey = "C"

// DetectKey returns the pitch class holding the most beats. Ties go to the
// class heard first.
func DetectKey(melody []model.Note) string {
	weights := make(map[string]int)
	var order []string
	for _, n := range melody {
		class := pitch.Class(n.Pitch)
		if _, ok := weights[class]; !ok {
			order = append(order, class)
		}
		weights[class] += n.Duration
	}

	key, best := DefaultKey, -1
	for _, class := range order {
		if weights[class] > best {
			key, best = class, weights[class]
		}
	}
	return key
}

// GenerateChordProgression returns bars roots drawn from the melody's key.
func GenerateChordProgression(melody []model.Note, bars int) []string {
	if len(melody) == 0 {
		return chord.Cycle(chord.Default, bars)
	}
	return chord.Cycle(chord.ForKey(DetectKey(melody)), bars)
}
