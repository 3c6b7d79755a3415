package pluck

import (
	"errors"
	"math"
	"testing"
)

func TestDelayLineLength(t *testing.T) {
	tests := []struct {
		sampleRate int
		freq       float64
		stretch    float64
		want       int
		wantErr    bool
	}{
		{44100, 440.0, 1.0, 100, false},
		{44100, 261.6256, 1.0, 168, false},
		{44100, 440.0, 2.0, 50, false},
		{48000, 12543.85, 1.0, 3, false},
		{44100, 22050.0, 1.0, 2, false},
		{44100, 12543.85, 2.0, 0, true},
		{44100, 30000.0, 1.0, 0, true},
		{44100, 0, 1.0, 0, true},
	}
	for _, tt := range tests {
		got, err := DelayLineLength(tt.sampleRate, tt.freq, tt.stretch)
		if tt.wantErr {
			if !errors.Is(err, ErrDelayLineTooShort) {
				t.Fatalf("DelayLineLength(%d, %g, %g): expected ErrDelayLineTooShort, got %v", tt.sampleRate, tt.freq, tt.stretch, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("DelayLineLength(%d, %g, %g): %v", tt.sampleRate, tt.freq, tt.stretch, err)
		}
		if got != tt.want {
			t.Fatalf("DelayLineLength(%d, %g, %g) = %d, want %d", tt.sampleRate, tt.freq, tt.stretch, got, tt.want)
		}
	}
}

func TestWaveguideMatchesShiftingRecurrence(t *testing.T) {
	for _, n := range []int{2, 3, 7, 100} {
		initial, err := GenerateNoise(n, 1.0, int64(n))
		if err != nil {
			t.Fatalf("GenerateNoise: %v", err)
		}
		got, err := Waveguide(initial, 4000, 0.995)
		if err != nil {
			t.Fatalf("Waveguide(n=%d): %v", n, err)
		}
		want := shiftingWaveguide(initial, 4000, 0.995)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("n=%d sample %d: got %v want %v", n, i, got[i], want[i])
			}
		}
	}
}

func TestWaveguideReadsTapsAfterShift(t *testing.T) {
	initial := []float64{1, 2, 4, 8}
	got, err := Waveguide(initial, 6, 0.5)
	if err != nil {
		t.Fatalf("Waveguide: %v", err)
	}
	// tails: 0.25*(2+4)=1.5, 0.25*(4+8)=3, 0.25*(8+1.5)=2.375
	want := []float64{1, 2, 4, 8, 1.5, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %v want %v (all=%v)", i, got[i], want[i], got)
		}
	}
}

func TestWaveguideOutputLength(t *testing.T) {
	cfg := NewDefaultConfig()
	for _, d := range []float64{0.01, 0.5, 1.0, 3.0} {
		cfg.Duration = d
		initial, _ := GenerateNoise(100, 1, 1)
		out, err := Waveguide(initial, cfg.NumSamples(), cfg.DecayFactor)
		if err != nil {
			t.Fatalf("Waveguide: %v", err)
		}
		if want := int(math.Floor(d * float64(cfg.SampleRate))); len(out) != want {
			t.Fatalf("duration %g: len=%d want %d", d, len(out), want)
		}
	}
}

func TestWaveguideDoesNotModifyInitial(t *testing.T) {
	initial := []float64{0.5, -0.25, 0.75}
	if _, err := Waveguide(initial, 100, 0.9); err != nil {
		t.Fatalf("Waveguide: %v", err)
	}
	if initial[0] != 0.5 || initial[1] != -0.25 || initial[2] != 0.75 {
		t.Fatalf("initial buffer mutated: %v", initial)
	}
}

func TestWaveguideRejectsShortLine(t *testing.T) {
	if _, err := Waveguide([]float64{1}, 10, 0.99); !errors.Is(err, ErrDelayLineTooShort) {
		t.Fatalf("expected ErrDelayLineTooShort, got %v", err)
	}
	if _, err := Waveguide([]float64{1, 2}, 10, 1.5); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for decay > 1, got %v", err)
	}
}

func TestWaveguideEnergyDecaysMonotonically(t *testing.T) {
	initial, _ := GenerateNoise(100, 1.15, 3)
	out, err := Waveguide(initial, 132300, 0.995)
	if err != nil {
		t.Fatalf("Waveguide: %v", err)
	}

	window := 1000
	prev := math.Inf(1)
	for start := 0; start+window <= len(out); start += window {
		rms := windowRMS(out[start : start+window])
		if rms > prev*(1+1e-9) {
			t.Fatalf("rms rose at window %d: prev=%.8f curr=%.8f", start/window, prev, rms)
		}
		prev = rms
	}
	if first, last := windowRMS(out[:window]), prev; last > first*0.05 {
		t.Fatalf("expected strong decay over 3s: first=%.5f last=%.5f", first, last)
	}
}

func TestWaveguideUnityDecayStaysBounded(t *testing.T) {
	initial, _ := GenerateNoise(100, 1.0, 5)
	peak := maxAbs(initial)
	out, err := Waveguide(initial, 441000, 1.0)
	if err != nil {
		t.Fatalf("Waveguide: %v", err)
	}
	for i, v := range out {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > peak+1e-12 {
			t.Fatalf("sample %d = %v exceeds initial peak %v", i, v, peak)
		}
	}
	early := windowRMS(out[1000:11000])
	late := windowRMS(out[len(out)-10000:])
	if late > early*(1+1e-9) {
		t.Fatalf("rms grew with unity decay: early=%.6f late=%.6f", early, late)
	}
	if late == 0 {
		t.Fatalf("unity decay should sustain the tone")
	}
}

func TestStringWaveguideTuning(t *testing.T) {
	const sampleRate = DefaultSampleRate
	for _, note := range []int{48, 57, 69} {
		freq := NoteFrequency(note, 440.0)
		n, err := DelayLineLength(sampleRate, freq, 1.0)
		if err != nil {
			t.Fatalf("DelayLineLength: %v", err)
		}
		// out[t+n] averages out[t+1] and out[t+2], so the loop period is n-1.5.
		period := float64(n) - 1.5
		initial := make([]float64, n)
		for i := range initial {
			initial[i] = math.Sin(2 * math.Pi * float64(i) / period)
		}
		s, err := NewStringWaveguide(initial, 0.999)
		if err != nil {
			t.Fatalf("NewStringWaveguide: %v", err)
		}
		if s.Len() != n {
			t.Fatalf("Len = %d, want %d", s.Len(), n)
		}
		out := make([]float64, sampleRate)
		s.ProcessBlock(out)

		want := float64(sampleRate) / period
		got := measureFundamentalFreq(out, sampleRate)
		if math.Abs(got-want) > want*0.005 {
			t.Fatalf("note %d: measured %.2f Hz, want about %.2f Hz", note, got, want)
		}
	}
}
