package tune

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/hashicorp/go-multierror"
)

// ErrNoCandidates is returned when no work-group size is worth measuring.
var ErrNoCandidates = errors.New("no work-group size candidates")

// Measure times one parallel dispatch at groupSize.
type Measure func(groupSize int) (time.Duration, error)

// Trial is one measured candidate.
type Trial struct {
	GroupSize int
	Elapsed   time.Duration
	Err       error
}

// Result is the outcome of a work-group search.
type Result struct {
	GroupSize int
	Elapsed   time.Duration

	// Trials holds every distinct candidate measured, in measurement order.
	Trials []Trial
}

// Candidates returns the power-of-two divisors of n not above maxGroup,
// in ascending order. A non-positive maxGroup means no limit.
func Candidates(n, maxGroup int) []int {
	if n <= 0 {
		return nil
	}
	var out []int
	for g := 1; g <= n; g <<= 1 {
		if maxGroup > 0 && g > maxGroup {
			break
		}
		if n%g == 0 {
			out = append(out, g)
		}
	}
	return out
}

// WorkGroupSize searches candidates for the fastest group size. The optimizer
// moves over a continuous index into candidates; each candidate is measured
// at most once. A nil optimizer measures every candidate.
func WorkGroupSize(opt Optimizer, candidates []int, measure Measure, logger *slog.Logger) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, ErrNoCandidates
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &search{candidates: candidates, measure: measure, logger: logger, seen: make(map[int]int)}
	if opt == nil || len(candidates) == 1 {
		for i := range candidates {
			s.evaluate(i)
		}
	} else {
		lower := []float64{0}
		upper := []float64{float64(len(candidates))}
		if _, _, err := opt.Run(func(pos []float64) float64 {
			return s.evaluate(s.index(pos[0]))
		}, lower, upper, 1); err != nil {
			return Result{Trials: s.trials}, err
		}
	}

	return s.best()
}

type search struct {
	candidates []int
	measure    Measure
	logger     *slog.Logger

	// candidate index -> position in trials
	seen   map[int]int
	trials []Trial
}

func (s *search) index(pos float64) int {
	i := int(math.Floor(pos))
	if i < 0 {
		return 0
	}
	if i >= len(s.candidates) {
		return len(s.candidates) - 1
	}
	return i
}

func (s *search) evaluate(i int) float64 {
	if t, ok := s.seen[i]; ok {
		return cost(s.trials[t])
	}

	size := s.candidates[i]
	elapsed, err := s.measure(size)
	trial := Trial{GroupSize: size, Elapsed: elapsed, Err: err}
	s.seen[i] = len(s.trials)
	s.trials = append(s.trials, trial)

	if err != nil {
		s.logger.Warn("Work-group size rejected", "group_size", size, "err", err)
	} else {
		s.logger.Debug("Work-group size measured", "group_size", size, "elapsed", elapsed)
	}
	return cost(trial)
}

func cost(t Trial) float64 {
	if t.Err != nil {
		return math.MaxFloat64
	}
	return t.Elapsed.Seconds()
}

func (s *search) best() (Result, error) {
	res := Result{Trials: s.trials}

	var errs error
	ok := make([]Trial, 0, len(s.trials))
	for _, t := range s.trials {
		if t.Err != nil {
			errs = multierror.Append(errs, fmt.Errorf("group size %d: %w", t.GroupSize, t.Err))
			continue
		}
		ok = append(ok, t)
	}
	if len(ok) == 0 {
		return res, fmt.Errorf("every measured work-group size failed: %w", errs)
	}

	// Ties go to the smaller group.
	sort.SliceStable(ok, func(i, j int) bool {
		if ok[i].Elapsed != ok[j].Elapsed {
			return ok[i].Elapsed < ok[j].Elapsed
		}
		return ok[i].GroupSize < ok[j].GroupSize
	})
	res.GroupSize = ok[0].GroupSize
	res.Elapsed = ok[0].Elapsed
	return res, nil
}
