// Package arrange derives accompaniment tracks from a style or from a
// detected melody. Every emitter is a pure function of its inputs.
package arrange

import (
	"strings"

	"github.com/jsphweid/hummix/chord"
	"github.com/jsphweid/hummix/detect"
	"github.com/jsphweid/hummix/model"
)

func note(pitch string, beat, duration int, velocity float64) model.Note {
	return model.Note{Pitch: pitch, StartBeat: beat, Duration: duration, Velocity: velocity}
}

// Drums emits one percussion note per hit over totalBeats beats.
func Drums(style model.Style, totalBeats int) []model.Note {
	res := []model.Note{}
	for beat := 0; beat < totalBeats; beat++ {
		switch style {
		case model.Ballad:
			if beat%4 == 0 {
				res = append(res, note(model.Kick, beat, 1, 0.6))
			}
			if beat%4 == 2 {
				res = append(res, note(model.Snare, beat, 1, 0.5))
			}
			if beat%2 == 0 {
				res = append(res, note(model.HiHat, beat, 1, 0.3))
			}
		case model.Trot:
			if beat%2 == 0 {
				res = append(res, note(model.Kick, beat, 1, 0.9))
			}
			if beat%2 == 1 {
				res = append(res, note(model.Snare, beat, 1, 0.8))
				res = append(res, note(model.HiHat, beat, 1, 0.6))
			}
		default:
			if beat%4 == 0 || beat%4 == 2 {
				res = append(res, note(model.Kick, beat, 1, 0.8))
			}
			if beat%4 == 1 || beat%4 == 3 {
				res = append(res, note(model.Snare, beat, 1, 0.7))
			}
			if beat%2 == 0 {
				res = append(res, note(model.HiHat, beat, 1, 0.5))
			}
		}
	}
	return res
}

// Lower transposes a label down an octave by rewriting its digits. Only
// labels ending in 4 or 5 change.
func Lower(root string) string {
	return strings.ReplaceAll(strings.ReplaceAll(root, "4", "3"), "5", "4")
}

func root(progression []string, bar int) string {
	return progression[bar%len(progression)]
}

// Bass plays the lowered root on the first and third beat of each bar.
func Bass(progression []string, bars int) []model.Note {
	res := []model.Note{}
	if len(progression) == 0 {
		return res
	}
	for bar := 0; bar < bars; bar++ {
		r := Lower(root(progression, bar))
		beat := bar * model.BeatsPerBar
		res = append(res, note(r, beat, 1, 0.9), note(r, beat+2, 1, 0.7))
	}
	return res
}

// Chords holds a root position triad for the whole of each bar.
func Chords(progression []string, bars int) []model.Note {
	res := []model.Note{}
	if len(progression) == 0 {
		return res
	}
	for bar := 0; bar < bars; bar++ {
		beat := bar * model.BeatsPerBar
		for i, label := range chord.Triad(root(progression, bar)) {
			velocity := 0.5
			if i == 0 {
				velocity = 0.6
			}
			res = append(res, note(label, beat, model.BeatsPerBar, velocity))
		}
	}
	return res
}

// Arpeggio picks the root on the even beats of each bar.
func Arpeggio(progression []string, bars int) []model.Note {
	res := []model.Note{}
	if len(progression) == 0 {
		return res
	}
	for bar := 0; bar < bars; bar++ {
		r := root(progression, bar)
		for i := 0; i < model.BeatsPerBar; i += 2 {
			res = append(res, note(r, bar*model.BeatsPerBar+i, 1, 0.7))
		}
	}
	return res
}

// Tracks builds synth, guitar, bass and drum tracks over a progression.
func Tracks(style model.Style, progression []string, bars int) []model.Track {
	synth := model.NewTrack("Synthesizer", model.Synth)
	synth.Notes = Chords(progression, bars)
	guitar := model.NewTrack("Electric Guitar", model.Guitar)
	guitar.Notes = Arpeggio(progression, bars)
	bass := model.NewTrack("Electric Bass", model.Bass)
	bass.Notes = Bass(progression, bars)
	drums := model.NewTrack("Drum Machine", model.Drums)
	drums.Notes = Drums(style, bars*model.BeatsPerBar)
	return []model.Track{synth, guitar, bass, drums}
}

// Voice returns the timbre variant a style plays an instrument with.
func Voice(style model.Style, instrument model.Instrument) model.Voice {
	switch instrument {
	case model.Synth:
		switch style {
		case model.Ambient, model.Electronic, model.Ballad:
			return model.VoicePad
		case model.Trot:
			return model.VoiceSquare
		}
		return model.VoiceSaw
	case model.Guitar:
		if style == model.Rock {
			return model.VoiceDistortion
		}
		return model.VoiceClean
	case model.Bass:
		if style == model.Jazz {
			return model.VoiceSlap
		}
		return model.VoiceFinger
	}
	return model.VoiceDefault
}

// Volume is the mix level a style gives an instrument.
func Volume(style model.Style, instrument model.Instrument) float64 {
	switch instrument {
	case model.Synth, model.Guitar:
		if style == model.Ballad {
			return 0.35
		}
		return 0.3
	case model.Bass:
		return 0.25
	case model.Drums:
		if style == model.Ballad {
			return 0.25
		}
		return 0.35
	}
	return model.DefaultVolume
}

func voiced(style model.Style, tracks []model.Track) []model.Track {
	for i := range tracks {
		tracks[i].Voice = Voice(style, tracks[i].Instrument)
		tracks[i].Volume = Volume(style, tracks[i].Instrument)
	}
	return tracks
}

// FromStyle arranges bars bars of a style at its usual tempo.
func FromStyle(style model.Style, bars int) model.Score {
	tracks := voiced(style, Tracks(style, chord.ForStyle(style), bars))
	return model.Score{
		Title:  string(style),
		Style:  style,
		BPM:    style.BPM(),
		Bars:   bars,
		Tracks: tracks,
	}
}

// FromMelody accompanies a detected melody with a progression in its key.
// The melody itself becomes a lead track in front of the accompaniment.
func FromMelody(melody []model.Note, bars, bpm int) model.Score {
	progression := detect.GenerateChordProgression(melody, bars)
	lead := model.NewTrack("Melody", model.Guitar)
	lead.Notes = append([]model.Note{}, melody...)
	lead.Voice = model.VoiceClean
	tracks := voiced(model.Pop, Tracks(model.Pop, progression, bars))
	return model.Score{
		Title:  "melody",
		Style:  model.Pop,
		BPM:    bpm,
		Bars:   bars,
		Tracks: append([]model.Track{lead}, tracks...),
	}
}

// BarsFor returns how many whole bars cover a melody, at least one.
func BarsFor(melody []model.Note) int {
	end := 0
	for _, n := range melody {
		if n.EndBeat() > end {
			end = n.EndBeat()
		}
	}
	bars := (end + model.BeatsPerBar - 1) / model.BeatsPerBar
	if bars < 1 {
		return 1
	}
	return bars
}

// Voices lists the voice a style assigns to each instrument.
func Voices(style model.Style) map[model.Instrument]model.Voice {
	res := map[model.Instrument]model.Voice{}
	for _, instrument := range model.Instruments {
		res[instrument] = Voice(style, instrument)
	}
	return res
}
