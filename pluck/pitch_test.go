package pluck

import (
	"fmt"
	"math"
	"testing"
)

func TestFrequencyOfExactAnchors(t *testing.T) {
	if got := FrequencyOf(69, 440.0); got != 440.0 {
		t.Fatalf("FrequencyOf(69) = %v, want 440", got)
	}
	if got := FrequencyOf(81, 440.0); got != 880.0 {
		t.Fatalf("FrequencyOf(81) = %v, want 880", got)
	}
	if got := NoteFrequency(57, 440.0); got != 220.0 {
		t.Fatalf("NoteFrequency(57) = %v, want 220", got)
	}
}

func TestFrequencyOfEqualTemperament(t *testing.T) {
	tests := []struct {
		note   float64
		tuning float64
		want   float64
	}{
		{60, 440.0, 261.6256},
		{48, 440.0, 130.8128},
		{72, 440.0, 523.2511},
		{69.5, 440.0, 452.8930},
		{69, 432.0, 432.0},
		{-12, 440.0, 4.0879},
		{140, 440.0, 26579.5},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("note%g", tt.note), func(t *testing.T) {
			got := FrequencyOf(tt.note, tt.tuning)
			if math.Abs(got-tt.want)/tt.want > 1e-4 {
				t.Fatalf("FrequencyOf(%g, %g) = %.4f, want %.4f", tt.note, tt.tuning, got, tt.want)
			}
		})
	}
}
