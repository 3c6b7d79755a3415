package wavio

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteMonoWAVRoundTrip(t *testing.T) {
	const sampleRate = 44100
	samples := make([]float64, 4410)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/sampleRate)
	}
	path := filepath.Join(t.TempDir(), "out", "tone.wav")
	if err := WriteMonoWAV(path, samples, sampleRate); err != nil {
		t.Fatalf("WriteMonoWAV: %v", err)
	}

	got, sr, err := ReadWAVMono(path)
	if err != nil {
		t.Fatalf("ReadWAVMono: %v", err)
	}
	if sr != sampleRate {
		t.Fatalf("sample rate = %d, want %d", sr, sampleRate)
	}
	if len(got) != len(samples) {
		t.Fatalf("frames = %d, want %d", len(got), len(samples))
	}
	// Compare shape only: decoded samples keep the decoder's scale.
	peak := 0.0
	for _, v := range got {
		peak = math.Max(peak, math.Abs(v))
	}
	if peak == 0 {
		t.Fatalf("decoded silence")
	}
	for i := range samples {
		if math.Abs(got[i]/peak-samples[i]/0.5) > 1e-3 {
			t.Fatalf("sample %d: got %v (norm %v) want %v", i, got[i], got[i]/peak, samples[i]/0.5)
		}
	}
}

func TestWriteMonoWAVRejectsBadRate(t *testing.T) {
	if err := WriteMonoWAV(filepath.Join(t.TempDir(), "x.wav"), []float64{0}, 0); err == nil {
		t.Fatalf("expected error for zero sample rate")
	}
}

func TestReadWAVMonoRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := os.WriteFile(path, []byte("not a wav file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := ReadWAVMono(path); err == nil {
		t.Fatalf("expected error for invalid wav")
	}
}

func TestResampleIfNeededPassthrough(t *testing.T) {
	in := []float64{1, 2, 3}
	out, err := ResampleIfNeeded(in, 44100, 44100)
	if err != nil {
		t.Fatalf("ResampleIfNeeded: %v", err)
	}
	if &out[0] != &in[0] {
		t.Fatalf("expected same slice for equal rates")
	}
}

func TestResampleIfNeededChangesLength(t *testing.T) {
	in := make([]float64, 48000)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 440 * float64(i) / 48000)
	}
	out, err := ResampleIfNeeded(in, 48000, 44100)
	if err != nil {
		t.Fatalf("ResampleIfNeeded: %v", err)
	}
	if math.Abs(float64(len(out))-44100) > 200 {
		t.Fatalf("resampled length = %d, want about 44100", len(out))
	}
}

func TestNumberedWriterCountsUp(t *testing.T) {
	dir := t.TempDir()
	w := NewNumberedWriter(dir, "n", 4, 44100)
	for i, want := range []string{"n4.wav", "n5.wav", "n6.wav"} {
		path, err := w.Write([]float64{0, 0.1, -0.1})
		if err != nil {
			t.Fatalf("Write #%d: %v", i, err)
		}
		if filepath.Base(path) != want {
			t.Fatalf("Write #%d path = %s, want %s", i, filepath.Base(path), want)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
	}
	if w.Next() != 7 {
		t.Fatalf("Next = %d, want 7", w.Next())
	}
}
