// Package seq drives the chip from a Standard MIDI File: note events are
// timed in output samples, mapped to patch instruments by channel and
// played on voices picked by a small allocator.
package seq

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/afero"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// ErrNoNotes is returned for files without any note events.
var ErrNoNotes = errors.New("seq: no note events")

// Event is a note start or end at an output sample.
type Event struct {
	Tick     uint64
	Channel  uint8
	Key      uint8
	Velocity uint8
	On       bool
}

// Read parses an SMF and returns its note events in time order, timed at
// sampleRate. Events at the same sample keep file order across tracks.
func Read(r io.Reader, sampleRate int) ([]Event, error) {
	var events []Event
	rd := smf.ReadTracksFrom(r).Do(func(te smf.TrackEvent) {
		var ch, key, vel uint8
		msg := midi.Message(te.Message)
		tick := uint64(te.AbsMicroSeconds) * uint64(sampleRate) / 1000000
		switch {
		case msg.GetNoteOn(&ch, &key, &vel):
			// Note on with velocity 0 ends the note
			events = append(events, Event{Tick: tick, Channel: ch, Key: key, Velocity: vel, On: vel > 0})
		case msg.GetNoteOff(&ch, &key, &vel):
			events = append(events, Event{Tick: tick, Channel: ch, Key: key, Velocity: vel})
		}
	})
	if err := rd.Error(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, ErrNoNotes
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
	return events, nil
}

// Load reads the SMF at path from fs.
func Load(fs afero.Fs, path string, sampleRate int) ([]Event, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	events, err := Read(bytes.NewReader(data), sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}
