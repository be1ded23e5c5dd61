// Package midi converts scores to and from Standard MIDI Files.
package midi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/jsphweid/hummix/model"
	"github.com/jsphweid/hummix/pitch"
	"github.com/jsphweid/hummix/util"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Resolution is the number of ticks per beat in written files.
const Resolution = 480

// DrumChannel is channel 10 counted from zero.
const DrumChannel = 9

const volumeController = 7

var drumKeys = map[string]uint8{
	model.Kick:  36,
	model.Snare: 38,
	model.HiHat: 42,
	model.Clap:  39,
}

// General MIDI programs for each instrument voice
var programs = map[model.Instrument]map[model.Voice]uint8{
	model.Synth: {
		model.VoiceDefault: 88,
		model.VoicePad:     88,
		model.VoiceSquare:  80,
		model.VoiceSaw:     81,
		model.VoiceSine:    79,
	},
	model.Guitar: {
		model.VoiceDefault:    27,
		model.VoiceClean:      27,
		model.VoiceDistortion: 30,
	},
	model.Bass: {
		model.VoiceDefault: 33,
		model.VoiceFinger:  33,
		model.VoiceSlap:    36,
	},
}

func program(track model.Track) uint8 {
	voices := programs[track.Instrument]
	if p, ok := voices[track.Voice]; ok {
		return p
	}
	return voices[model.VoiceDefault]
}

// fromProgram is the reverse of program. Unknown programs read as synth.
func fromProgram(p uint8) (model.Instrument, model.Voice) {
	for _, instrument := range []model.Instrument{model.Synth, model.Guitar, model.Bass} {
		for voice, q := range programs[instrument] {
			if q == p && voice != model.VoiceDefault {
				return instrument, voice
			}
		}
	}
	switch {
	case p >= 24 && p < 32:
		return model.Guitar, model.VoiceDefault
	case p >= 32 && p < 40:
		return model.Bass, model.VoiceDefault
	}
	return model.Synth, model.VoiceDefault
}

func velocity(v float64) uint8 {
	return uint8(util.Clamp(math.Round(v*127), 1, 127))
}

func level(v float64) uint8 {
	return uint8(math.Round(util.Clamp(v, 0, 1) * 127))
}

type event struct {
	tick uint32
	off  bool
	msg  midi.Message
}

func channelFor(i int, instrument model.Instrument) uint8 {
	if instrument == model.Drums {
		return DrumChannel
	}
	ch := uint8(i % 15)
	if ch >= DrumChannel {
		ch++
	}
	return ch
}

func writeTrack(i int, track model.Track) smf.Track {
	var tr smf.Track
	ch := channelFor(i, track.Instrument)
	tr.Add(0, smf.MetaTrackSequenceName(track.Name))
	if track.Instrument != model.Drums {
		tr.Add(0, midi.ProgramChange(ch, program(track)))
	}
	tr.Add(0, midi.ControlChange(ch, volumeController, level(track.Volume)))

	var events []event
	for _, n := range track.Notes {
		var key uint8
		if track.Instrument == model.Drums {
			k, ok := drumKeys[n.Pitch]
			if !ok {
				continue
			}
			key = k
		} else {
			m, err := pitch.Midi(n.Pitch)
			if err != nil || m < 0 || m > 127 {
				continue
			}
			key = uint8(m)
		}
		start := uint32(n.StartBeat * Resolution)
		end := uint32(n.EndBeat() * Resolution)
		events = append(events,
			event{tick: start, msg: midi.NoteOn(ch, key, velocity(n.Velocity))},
			event{tick: end, off: true, msg: midi.NoteOff(ch, key)},
		)
	}

	// note offs sort ahead of note ons on the same tick
	sort.SliceStable(events, func(a, b int) bool {
		if events[a].tick != events[b].tick {
			return events[a].tick < events[b].tick
		}
		return events[a].off && !events[b].off
	})

	var last uint32
	for _, e := range events {
		tr.Add(e.tick-last, e.msg)
		last = e.tick
	}
	tr.Close(0)
	return tr
}

// WriteScore writes a format 1 file: a conductor track followed by one
// track per audible hummix track.
func WriteScore(w io.Writer, s model.Score) error {
	if err := s.Validate(); err != nil {
		return err
	}
	file := smf.New()
	file.TimeFormat = smf.MetricTicks(Resolution)

	var conductor smf.Track
	conductor.Add(0, smf.MetaTrackSequenceName(s.Title))
	conductor.Add(0, smf.MetaMeter(model.BeatsPerBar, 4))
	conductor.Add(0, smf.MetaTempo(float64(s.BPM)))
	conductor.Close(0)
	if err := file.Add(conductor); err != nil {
		return err
	}

	for i, track := range s.Tracks {
		if track.Muted {
			continue
		}
		if err := file.Add(writeTrack(i, track)); err != nil {
			return err
		}
	}
	_, err := file.WriteTo(w)
	return err
}

func WriteFile(path string, s model.Score) error {
	var buf bytes.Buffer
	if err := WriteScore(&buf, s); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func drumLabel(key uint8) (string, bool) {
	for label, k := range drumKeys {
		if k == key {
			return label, true
		}
	}
	return "", false
}

type pending struct {
	tick     int64
	velocity uint8
}

func readTrack(events smf.Track, ticks float64) (model.Track, bool) {
	track := model.NewTrack("", model.Synth)
	pressed := make(map[uint8]pending)
	var absTicks int64
	var notes int

	for _, ev := range events {
		absTicks += int64(ev.Delta)
		var ch, key, vel, prog, ctrl uint8
		var name string
		switch {
		case ev.Message.GetMetaTrackName(&name):
			track.Name = name
		case ev.Message.GetProgramChange(&ch, &prog):
			track.Instrument, track.Voice = fromProgram(prog)
		case ev.Message.GetControlChange(&ch, &ctrl, &vel):
			if ctrl == volumeController {
				track.Volume = float64(vel) / 127
			}
		case ev.Message.GetNoteOn(&ch, &key, &vel):
			if ch == DrumChannel {
				track.Instrument, track.Voice = model.Drums, model.VoiceDefault
			}
			if vel == 0 {
				notes += closeNote(&track, pressed, key, absTicks, ticks)
				continue
			}
			pressed[key] = pending{tick: absTicks, velocity: vel}
		case ev.Message.GetNoteOff(&ch, &key, &vel):
			notes += closeNote(&track, pressed, key, absTicks, ticks)
		}
	}
	return track, notes > 0
}

func closeNote(track *model.Track, pressed map[uint8]pending, key uint8, tick int64, ticks float64) int {
	p, ok := pressed[key]
	if !ok {
		return 0
	}
	delete(pressed, key)

	label := pitch.LabelFromMidi(int(key))
	if track.Instrument == model.Drums {
		l, ok := drumLabel(key)
		if !ok {
			return 0
		}
		label = l
	}
	start := int(math.Round(float64(p.tick) / ticks))
	duration := int(math.Round(float64(tick-p.tick) / ticks))
	if duration < 1 {
		duration = 1
	}
	track.Notes = append(track.Notes, model.Note{
		Pitch:     label,
		StartBeat: start,
		Duration:  duration,
		Velocity:  float64(p.velocity) / 127,
	})
	return 1
}

// ReadScore converts an SMF into a score, quantizing every note to whole
// beats. Tracks without notes are dropped.
func ReadScore(r io.Reader) (res model.Score, e error) {
	// smf panics on some malformed input
	defer func() {
		if rec := recover(); rec != nil {
			e = fmt.Errorf("error parsing midi file... %v", rec)
		}
	}()

	file, err := smf.ReadFrom(r)
	if err != nil {
		return model.Score{}, fmt.Errorf("error parsing midi file... %w", err)
	}
	mt, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok {
		return model.Score{}, errors.New("only metric time formats are supported")
	}
	if mt.Ticks4th() == 0 {
		return model.Score{}, errors.New("time format has zero ticks per beat")
	}
	ticks := float64(mt.Ticks4th())

	res.BPM = 120
	tempoSeen := false
	for _, tr := range file.Tracks {
		for _, ev := range tr {
			var bpm float64
			var name string
			if !tempoSeen && ev.Message.GetMetaTempo(&bpm) {
				res.BPM = int(math.Round(bpm))
				tempoSeen = true
			}
			if res.Title == "" && ev.Message.GetMetaTrackName(&name) {
				res.Title = name
			}
		}
		if track, ok := readTrack(tr, ticks); ok {
			res.Tracks = append(res.Tracks, track)
		}
	}

	end := 0
	for _, track := range res.Tracks {
		for _, n := range track.Notes {
			if n.EndBeat() > end {
				end = n.EndBeat()
			}
		}
	}
	res.Bars = (end + model.BeatsPerBar - 1) / model.BeatsPerBar
	if res.Bars < 1 {
		res.Bars = 1
	}
	return res, nil
}

func ReadFile(path string) (model.Score, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return model.Score{}, fmt.Errorf("error reading midi file... %w", err)
	}
	return ReadScore(bytes.NewReader(dat))
}
