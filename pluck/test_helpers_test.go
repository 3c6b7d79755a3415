package pluck

import "math"

func windowRMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, v := range samples {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func maxAbs(samples []float64) float64 {
	m := 0.0
	for _, v := range samples {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

func sine(freq float64, sampleRate int, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate))
	}
	return out
}

// shiftingWaveguide is the literal slice-shifting form of the recurrence.
func shiftingWaveguide(initial []float64, m int, decay float64) []float64 {
	buf := append([]float64(nil), initial...)
	n := len(buf)
	out := make([]float64, m)
	for i := range out {
		out[i] = buf[0]
		copy(buf, buf[1:])
		buf[n-1] = decay * 0.5 * (buf[0] + buf[1])
	}
	return out
}

func measureFundamentalFreq(samples []float64, sampleRate int) float64 {
	startIdx := len(samples) / 10
	crossings := 0
	for i := startIdx + 1; i < len(samples); i++ {
		if (samples[i-1] < 0 && samples[i] >= 0) || (samples[i-1] >= 0 && samples[i] < 0) {
			crossings++
		}
	}
	if crossings == 0 {
		return 0
	}
	duration := float64(len(samples)-startIdx) / float64(sampleRate)
	return float64(crossings) / (2.0 * duration)
}
