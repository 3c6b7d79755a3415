package analysis

import (
	"math"

	"github.com/cwbudde/algo-approx"
)

// WindowRMS returns the root mean square of x.
func WindowRMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

// RMSEnvelope returns the RMS of consecutive frames spaced hop samples apart.
func RMSEnvelope(x []float64, frame int, hop int) []float64 {
	if frame <= 0 || hop <= 0 || len(x) < frame {
		return nil
	}
	n := 1 + (len(x)-frame)/hop
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		start := i * hop
		out[i] = WindowRMS(x[start : start+frame])
	}
	return out
}

// DecaySlopeDBPerS fits a line to the envelope in dB from its peak down to
// 60 dB below it. It returns NaN when there are too few points.
func DecaySlopeDBPerS(env []float64, hopSec float64) float64 {
	if len(env) < 8 || hopSec <= 0 {
		return math.NaN()
	}
	peak := -math.MaxFloat64
	peakIdx := 0
	for i, v := range env {
		db := linToDB(v)
		if db > peak {
			peak = db
			peakIdx = i
		}
	}
	start := peakIdx + 1
	if start >= len(env)-4 {
		return math.NaN()
	}

	threshold := peak - 60.0
	end := len(env)
	for i := start; i < len(env); i++ {
		if linToDB(env[i]) < threshold {
			end = i
			break
		}
	}
	if end-start < 6 {
		return math.NaN()
	}

	var sx, sy, sxx, sxy float64
	n := float64(end - start)
	for i := start; i < end; i++ {
		x := float64(i-start) * hopSec
		y := linToDB(env[i])
		sx += x
		sy += y
		sxx += x * x
		sxy += x * y
	}
	den := n*sxx - sx*sx
	if math.Abs(den) < 1e-12 {
		return math.NaN()
	}
	return (n*sxy - sx*sy) / den
}

// DecayTime returns the extrapolated time in seconds for x to fall by 60 dB,
// or NaN when x does not decay.
func DecayTime(x []float64, sampleRate int) float64 {
	if sampleRate <= 0 {
		return math.NaN()
	}
	frame, hop := envelopeFrame(sampleRate)
	slope := DecaySlopeDBPerS(RMSEnvelope(x, frame, hop), float64(hop)/float64(sampleRate))
	if !isFinite(slope) || slope >= 0 {
		return math.NaN()
	}
	return -60.0 / slope
}

// TrimTail drops trailing frames whose RMS stays below thresholdDB relative
// to full scale.
func TrimTail(x []float64, sampleRate int, thresholdDB float64) []float64 {
	frame, _ := envelopeFrame(sampleRate)
	limit := dbToLin(thresholdDB)
	end := len(x)
	for end > 0 {
		start := end - frame
		if start < 0 {
			start = 0
		}
		if WindowRMS(x[start:end]) >= limit {
			break
		}
		end = start
	}
	return x[:end]
}

// envelopeFrame picks a frame of about 5.8 ms at 44.1 kHz with 50% overlap.
func envelopeFrame(sampleRate int) (int, int) {
	frame := sampleRate / 172
	if frame < 16 {
		frame = 16
	}
	return frame, frame / 2
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func dbToLin(db float64) float64 {
	const ln10Over20 = 0.11512925464970228
	return float64(approx.FastExp(float32(db * ln10Over20)))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
