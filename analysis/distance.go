package analysis

import (
	"math"
)

// Metrics contains distance and similarity measurements between two plucked tones.
type Metrics struct {
	SampleRate int `json:"sample_rate"`

	ReferenceFrames int `json:"reference_frames"`
	CandidateFrames int `json:"candidate_frames"`
	AlignedFrames   int `json:"aligned_frames"`
	LagSamples      int `json:"lag_samples"`

	RefF0Hz         float64 `json:"ref_f0_hz"`
	CandF0Hz        float64 `json:"cand_f0_hz"`
	PitchErrorCents float64 `json:"pitch_error_cents"`

	TimeRMSE        float64 `json:"time_rmse"`
	EnvelopeRMSEDB  float64 `json:"envelope_rmse_db"`
	SpectralRMSEDB  float64 `json:"spectral_rmse_db"`
	RefDecayDBPerS  float64 `json:"ref_decay_db_per_s"`
	CandDecayDBPerS float64 `json:"cand_decay_db_per_s"`
	DecayDiffDBPerS float64 `json:"decay_diff_db_per_s"`

	TimeNorm     float64 `json:"time_norm"`
	EnvelopeNorm float64 `json:"envelope_norm"`
	SpectralNorm float64 `json:"spectral_norm"`
	DecayNorm    float64 `json:"decay_norm"`
	PitchNorm    float64 `json:"pitch_norm"`
	Dominant     string  `json:"dominant,omitempty"`

	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity"`
}

// Finite returns a copy with undefined decay slopes zeroed so the metrics
// can be encoded as JSON.
func (m Metrics) Finite() Metrics {
	if !isFinite(m.RefDecayDBPerS) {
		m.RefDecayDBPerS = 0
	}
	if !isFinite(m.CandDecayDBPerS) {
		m.CandDecayDBPerS = 0
	}
	return m
}

// Score weights. They sum to one.
const (
	WeightTime     = 0.15
	WeightEnvelope = 0.25
	WeightSpectral = 0.25
	WeightDecay    = 0.15
	WeightPitch    = 0.20
)

const spectralFrame = 4096

// Compare returns objective distance metrics and a combined score in [0,1],
// where 0 means identical.
func Compare(reference []float64, candidate []float64, sampleRate int) Metrics {
	m := Metrics{
		SampleRate:      sampleRate,
		ReferenceFrames: len(reference),
		CandidateFrames: len(candidate),
		Score:           1.0,
	}
	if sampleRate <= 0 || len(reference) == 0 || len(candidate) == 0 {
		return m
	}

	ref := trimLeadingSilence(reference, 1e-6)
	cand := trimLeadingSilence(candidate, 1e-6)
	if len(ref) == 0 || len(cand) == 0 {
		return m
	}

	ref = normalizeRMS(ref, 0.1)
	cand = normalizeRMS(cand, 0.1)

	maxLag := sampleRate / 20
	if maxLag > len(ref)-1 {
		maxLag = len(ref) - 1
	}
	if maxLag > len(cand)-1 {
		maxLag = len(cand) - 1
	}
	if maxLag < 1 {
		maxLag = 1
	}
	m.LagSamples = estimateLag(ref, cand, maxLag)

	refA, candA := alignByLag(ref, cand, m.LagSamples)
	n := len(refA)
	if len(candA) < n {
		n = len(candA)
	}
	if n < 512 {
		return m
	}
	if maxFrames := sampleRate * 12; n > maxFrames {
		n = maxFrames
	}
	refA = refA[:n]
	candA = candA[:n]
	m.AlignedFrames = n

	m.TimeRMSE = rmse(refA, candA)

	frame, hop := envelopeFrame(sampleRate)
	refEnv := RMSEnvelope(refA, frame, hop)
	candEnv := RMSEnvelope(candA, frame, hop)
	envN := len(refEnv)
	if len(candEnv) < envN {
		envN = len(candEnv)
	}
	if envN > 0 {
		envDiff := make([]float64, envN)
		for i := 0; i < envN; i++ {
			envDiff[i] = linToDB(refEnv[i]) - linToDB(candEnv[i])
		}
		m.EnvelopeRMSEDB = WindowRMS(envDiff)
	}

	m.SpectralRMSEDB = spectralRMSEDB(refA, candA, sampleRate)

	hopSec := float64(hop) / float64(sampleRate)
	m.RefDecayDBPerS = DecaySlopeDBPerS(refEnv, hopSec)
	m.CandDecayDBPerS = DecaySlopeDBPerS(candEnv, hopSec)
	if isFinite(m.RefDecayDBPerS) && isFinite(m.CandDecayDBPerS) {
		m.DecayDiffDBPerS = math.Abs(m.RefDecayDBPerS - m.CandDecayDBPerS)
	}

	pitchWin := n
	if pitchWin > sampleRate {
		pitchWin = sampleRate
	}
	maxHz := 0.45 * float64(sampleRate)
	refF0, errRef := EstimateFundamental(refA[:pitchWin], sampleRate, 20, maxHz)
	candF0, errCand := EstimateFundamental(candA[:pitchWin], sampleRate, 20, maxHz)
	if errRef == nil && errCand == nil && refF0 > 0 && candF0 > 0 {
		m.RefF0Hz = refF0
		m.CandF0Hz = candF0
		m.PitchErrorCents = 1200 * math.Log2(candF0/refF0)
	}

	m.TimeNorm = clamp01(m.TimeRMSE / 0.25)
	m.EnvelopeNorm = clamp01(m.EnvelopeRMSEDB / 30.0)
	m.SpectralNorm = clamp01(m.SpectralRMSEDB / 30.0)
	m.DecayNorm = clamp01(m.DecayDiffDBPerS / 40.0)
	m.PitchNorm = clamp01(math.Abs(m.PitchErrorCents) / 100.0)

	parts := []struct {
		name    string
		contrib float64
	}{
		{"time", WeightTime * m.TimeNorm},
		{"envelope", WeightEnvelope * m.EnvelopeNorm},
		{"spectral", WeightSpectral * m.SpectralNorm},
		{"decay", WeightDecay * m.DecayNorm},
		{"pitch", WeightPitch * m.PitchNorm},
	}
	var score, top float64
	for _, p := range parts {
		score += p.contrib
		if p.contrib > top {
			top = p.contrib
			m.Dominant = p.name
		}
	}
	m.Score = clamp01(score)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))

	return m
}

func trimLeadingSilence(x []float64, threshold float64) []float64 {
	for i := 0; i < len(x); i++ {
		if math.Abs(x[i]) > threshold {
			return x[i:]
		}
	}
	return nil
}

func normalizeRMS(x []float64, target float64) []float64 {
	r := WindowRMS(x)
	if r <= 1e-12 {
		return append([]float64(nil), x...)
	}
	g := target / r
	out := make([]float64, len(x))
	for i := range x {
		out[i] = x[i] * g
	}
	return out
}

func estimateLag(ref []float64, cand []float64, maxLag int) int {
	bestLag := 0
	best := math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		s := dotAtLag(ref, cand, lag)
		if s > best {
			best = s
			bestLag = lag
		}
	}
	return bestLag
}

// dotAtLag correlates the first samples of both signals, where the pluck
// transient makes alignment unambiguous.
func dotAtLag(a []float64, b []float64, lag int) float64 {
	ai, bi := 0, 0
	if lag >= 0 {
		ai = lag
	} else {
		bi = -lag
	}
	n := len(a) - ai
	if len(b)-bi < n {
		n = len(b) - bi
	}
	if n > spectralFrame {
		n = spectralFrame
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += a[ai+i] * b[bi+i]
	}
	return sum
}

func alignByLag(ref []float64, cand []float64, lag int) ([]float64, []float64) {
	if lag >= 0 {
		if lag >= len(ref) {
			return nil, nil
		}
		return ref[lag:], cand
	}
	o := -lag
	if o >= len(cand) {
		return nil, nil
	}
	return ref, cand[o:]
}

func rmse(a []float64, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(n))
}

func spectralRMSEDB(a []float64, b []float64, sampleRate int) float64 {
	sa, errA := MagnitudeSpectrum(a, sampleRate, spectralFrame)
	sb, errB := MagnitudeSpectrum(b, sampleRate, spectralFrame)
	if errA != nil || errB != nil {
		return 0
	}
	var sum float64
	bins := len(sa.Mag) - 1
	for k := 1; k < bins; k++ {
		d := linToDB(sa.Mag[k]) - linToDB(sb.Mag[k])
		sum += d * d
	}
	return math.Sqrt(sum / float64(bins-1))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
