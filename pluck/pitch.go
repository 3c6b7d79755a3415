package pluck

import "math"

const (
	a4Note = 69
	// MinNote and MaxNote bound the MIDI note range accepted by the input layer.
	MinNote = 0
	MaxNote = 127
)

// FrequencyOf converts a (possibly fractional) MIDI note index to Hz.
// It is total: range checks belong to the caller.
func FrequencyOf(note float64, tuning float64) float64 {
	return tuning * math.Exp2((note-a4Note)/12.0)
}

// NoteFrequency is FrequencyOf for integral notes.
func NoteFrequency(note int, tuning float64) float64 {
	return FrequencyOf(float64(note), tuning)
}
