package main

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-pluck/analysis"
	"github.com/cwbudde/algo-pluck/pluck"
	"github.com/cwbudde/mayfly"
)

type optimizationConfig struct {
	reference          []float64
	base               pluck.Config
	note               int
	defs               []knobDef
	initCandidate      candidate
	seed               int64
	timeBudget         float64
	maxEvals           int
	reportEvery        int
	checkpointEvery    int
	mayflyVariant      string
	mayflyPop          int
	mayflyRoundEvals   int
	workers            int
	outputPreset       string
	reportPath         string
	referencePath      string
	presetPath         string
	writeBestCandidate string
	quiet              bool
}

type optimizationResult struct {
	best        candidate
	bestMetrics analysis.Metrics
	evals       int
	elapsed     float64
	checkpoints int
}

func (cfg *optimizationConfig) evaluate(c candidate) (analysis.Metrics, error) {
	samples, err := pluck.Synthesize(cfg.note, applyCandidate(cfg.base, cfg.defs, c))
	if err != nil {
		return analysis.Metrics{}, err
	}
	return analysis.Compare(cfg.reference, samples, cfg.base.SampleRate), nil
}

func (cfg *optimizationConfig) logf(format string, args ...any) {
	if !cfg.quiet {
		fmt.Printf(format, args...)
	}
}

// tracker holds the best candidate seen so far across workers.
type tracker struct {
	mu          sync.Mutex
	best        candidate
	bestMetrics analysis.Metrics
	improves    int
	checkpoints int

	// persistMu orders file writes; persisted is the last improvement written.
	persistMu sync.Mutex
	persisted int
}

type improvement struct {
	num     int
	best    candidate
	metrics analysis.Metrics
}

// offer records m if it beats the current best and reports the new best.
func (t *tracker) offer(c candidate, m analysis.Metrics) (improvement, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if m.Score >= t.bestMetrics.Score {
		return improvement{}, false
	}
	t.best = cloneCandidate(c)
	t.bestMetrics = m
	t.improves++
	return improvement{num: t.improves, best: cloneCandidate(c), metrics: m}, true
}

func (t *tracker) score() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bestMetrics.Score
}

// fitter runs mayfly rounds against a shared evaluation budget.
type fitter struct {
	evals    int64
	rounds   int64
	cfg      *optimizationConfig
	start    time.Time
	deadline time.Time
	best     *tracker
}

func runOptimization(cfg *optimizationConfig) (*optimizationResult, error) {
	initM, err := cfg.evaluate(cfg.initCandidate)
	if err != nil {
		return nil, fmt.Errorf("initial evaluation failed: %w", err)
	}
	cfg.logf("Start score=%.4f similarity=%.2f%%\n", initM.Score, initM.Similarity*100.0)

	start := time.Now()
	f := &fitter{
		cfg:      cfg,
		start:    start,
		deadline: start.Add(time.Duration(cfg.timeBudget * float64(time.Second))),
		evals:    1,
		best:     &tracker{best: cloneCandidate(cfg.initCandidate), bestMetrics: initM},
	}

	workers := cfg.workers
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for f.round() {
			}
		}()
	}
	wg.Wait()

	f.best.mu.Lock()
	defer f.best.mu.Unlock()
	return &optimizationResult{
		best:        cloneCandidate(f.best.best),
		bestMetrics: f.best.bestMetrics,
		evals:       int(atomic.LoadInt64(&f.evals)),
		elapsed:     time.Since(start).Seconds(),
		checkpoints: f.best.checkpoints,
	}, nil
}

// round runs one mayfly optimization and reports whether budget remains.
func (f *fitter) round() bool {
	cfg := f.cfg
	remaining := cfg.maxEvals - int(atomic.LoadInt64(&f.evals))
	if remaining <= 0 || time.Now().After(f.deadline) {
		return false
	}
	n := atomic.AddInt64(&f.rounds, 1)
	iters := maxInt(1, minInt(cfg.mayflyRoundEvals, remaining)/(2*cfg.mayflyPop))

	mc, err := newMayflyConfig(strings.ToLower(cfg.mayflyVariant), cfg.mayflyPop, len(cfg.defs), iters)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mayfly round %d setup failed: %v\n", n, err)
		return false
	}
	mc.Rand = rand.New(rand.NewSource(cfg.seed + n*7919))
	mc.ObjectiveFunc = func(pos []float64) float64 {
		return f.objective(n, pos)
	}
	if _, err := runMayfly(mc); err != nil {
		fmt.Fprintf(os.Stderr, "mayfly round %d failed: %v\n", n, err)
	}
	return true
}

// objective scores one normalized position. Out-of-budget and failing
// candidates score worse than the current best so mayfly moves away.
func (f *fitter) objective(round int64, pos []float64) float64 {
	cfg := f.cfg
	if time.Now().After(f.deadline) {
		return f.best.score() + 1.0
	}
	evalNum, ok := reserveEval(&f.evals, cfg.maxEvals)
	if !ok {
		return f.best.score() + 1.0
	}
	cand := fromNormalized(pos, cfg.defs)
	m, err := cfg.evaluate(cand)
	if err != nil {
		return f.best.score() + 0.8
	}

	if imp, ok := f.best.offer(cand, m); ok {
		cfg.logf("Improved #%d eval=%d score=%.4f sim=%.2f%% pitch=%.1fc\n",
			imp.num, evalNum, m.Score, m.Similarity*100.0, m.PitchErrorCents)
		f.persist(imp)
	}
	if cfg.reportEvery > 0 && evalNum%int64(cfg.reportEvery) == 0 {
		cfg.logf("Progress round=%d eval=%d elapsed=%.1fs best=%.4f\n",
			round, evalNum, time.Since(f.start).Seconds(), f.best.score())
	}
	return m.Score
}

// persist writes the best-candidate WAV and periodic checkpoints. Writes for
// an improvement older than the last one persisted are dropped.
func (f *fitter) persist(imp improvement) {
	cfg := f.cfg
	t := f.best
	t.persistMu.Lock()
	defer t.persistMu.Unlock()
	if imp.num <= t.persisted {
		return
	}
	t.persisted = imp.num

	if cfg.writeBestCandidate != "" {
		if err := writeBestCandidateSnapshot(cfg.writeBestCandidate, cfg.base, cfg.note, cfg.defs, imp.best); err != nil {
			fmt.Fprintf(os.Stderr, "failed to update best candidate wav: %v\n", err)
		}
	}
	if cfg.outputPreset == "" || cfg.checkpointEvery <= 0 || imp.num%cfg.checkpointEvery != 0 {
		return
	}
	t.mu.Lock()
	checkpoint := t.checkpoints + 1
	t.mu.Unlock()
	err := writeOutputs(cfg, time.Since(f.start).Seconds(), int(atomic.LoadInt64(&f.evals)), imp.best, imp.metrics, checkpoint)
	if err != nil {
		fmt.Fprintf(os.Stderr, "checkpoint write failed: %v\n", err)
		return
	}
	t.mu.Lock()
	t.checkpoints = checkpoint
	t.mu.Unlock()
}

func reserveEval(evals *int64, maxEvals int) (int64, bool) {
	for {
		cur := atomic.LoadInt64(evals)
		if cur >= int64(maxEvals) {
			return 0, false
		}
		if atomic.CompareAndSwapInt64(evals, cur, cur+1) {
			return cur + 1, true
		}
	}
}

var mayflyVariants = map[string]func() *mayfly.Config{
	"ma":      mayfly.NewDefaultConfig,
	"desma":   mayfly.NewDESMAConfig,
	"olce":    mayfly.NewOLCEConfig,
	"eobbma":  mayfly.NewEOBBMAConfig,
	"gsasma":  mayfly.NewGSASMAConfig,
	"mpma":    mayfly.NewMPMAConfig,
	"aoblmoa": mayfly.NewAOBLMOAConfig,
}

// newMayflyConfig returns a variant config searching the unit cube.
func newMayflyConfig(variant string, pop int, dims int, iters int) (*mayfly.Config, error) {
	newConfig, ok := mayflyVariants[variant]
	if !ok {
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg := newConfig()
	cfg.ProblemSize = dims
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	// Optimize draws NC/2 parent pairs from both populations.
	cfg.NC = 2 * pop
	cfg.NM = maxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}
