// Package bench runs an elementwise kernel sequentially on the host and as
// one data-parallel dispatch on a compute device, verifies both results and
// times each path.
package bench

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/cwbudde/clbench/internal/accel"
	"github.com/cwbudde/clbench/internal/kernels"
)

const (
	ExecutorSequential = "sequential"
	ExecutorParallel   = "parallel"
)

// Record is the transient outcome of one executor run.
type Record struct {
	Executor  string
	Variant   string
	N         int
	GroupSize int

	// Elapsed is the timed interval: the loop for the sequential executor,
	// enqueue to completion for the parallel one.
	Elapsed time.Duration

	// Total is the parallel executor's buffer-creation-to-release span.
	// Zero for the sequential executor.
	Total time.Duration

	Passed bool
	Err    error
}

// Summary collects every record of a run.
type Summary struct {
	RunID      string
	Variant    kernels.Variant
	Device     accel.DeviceInfo
	Sequential Record
	Parallel   []Record
	Stats      Stats

	// Speedup is the sequential elapsed time over the mean parallel
	// elapsed time.
	Speedup float64
}

// OpenDriver opens the driver for a backend.
func OpenDriver(backend accel.Backend) (accel.Driver, error) {
	switch accel.NormalizeBackend(string(backend)) {
	case accel.BackendHost:
		return accel.NewHostDriver(kernels.HostKernels()), nil
	case accel.BackendOpenCL:
		drv, err := accel.NewOpenCLDriver()
		if err != nil {
			return nil, newError(EnvironmentError, "open driver", err)
		}
		return drv, nil
	default:
		return nil, newError(ConfigError, "open driver", fmt.Errorf("%w: unknown backend %q (supported: %s)", ErrInvalidConfig, backend, accel.BackendList()))
	}
}

// ResolveSource returns the kernel text of a run: the file at
// KernelSourcePath when set, otherwise the variant's embedded source.
func ResolveSource(cfg Config) (string, error) {
	if cfg.KernelSourcePath != "" {
		data, err := os.ReadFile(cfg.KernelSourcePath)
		if err != nil {
			return "", fmt.Errorf("failed to read kernel source: %w", err)
		}
		return string(data), nil
	}
	v, err := kernels.ParseVariant(string(cfg.Variant))
	if err != nil {
		return "", newError(ConfigError, "resolve source", err)
	}
	return kernels.Source(v)
}

// Session holds the device, context and built program of one run. Executors
// run on it strictly one after another.
type Session struct {
	cfg     Config
	runID   string
	log     *slog.Logger
	metrics *Metrics

	driver    accel.Driver
	ownDriver bool
	device    accel.Device
	context   accel.Context
	program   accel.Program

	intLoad   *workload[int32]
	floatLoad *workload[float32]
}

// Open selects a device and builds source for it. The session must be
// closed by the caller.
func Open(cfg Config, source string) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		runID:   uuid.NewString(),
		metrics: NewMetrics(),
	}
	s.log = cfg.Logger.With("run_id", s.runID, "variant", cfg.Variant)

	if cfg.Driver != nil {
		s.driver = cfg.Driver
	} else {
		drv, err := OpenDriver(cfg.Backend)
		if err != nil {
			return nil, err
		}
		s.driver, s.ownDriver = drv, true
	}

	device, err := NewCatalog(s.driver, cfg.Reporter, s.log).Select(cfg.DeviceFilter)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.device = device

	s.context, err = device.NewContext()
	if err != nil {
		s.Close()
		return nil, newError(EnvironmentError, "create context", err)
	}

	s.program, err = BuildProgram(s.context, source)
	if err != nil {
		s.Close()
		return nil, err
	}
	cfg.Reporter.Phase("Kernel program build success (%s)", s.program.KernelNames())
	s.log.Info("Kernel program built", "device", device.Info().Name, "kernels", s.program.KernelNames())

	return s, nil
}

// RunID identifies the session in logs.
func (s *Session) RunID() string { return s.runID }

// Device returns the selected device's descriptor.
func (s *Session) Device() accel.DeviceInfo { return s.device.Info() }

// Metrics returns the session's metrics.
func (s *Session) Metrics() *Metrics { return s.metrics }

// Close releases the program, the context and, when the session opened it,
// the driver.
func (s *Session) Close() error {
	var err error
	if s.program != nil {
		if rerr := s.program.Release(); rerr != nil {
			err = multierror.Append(err, rerr)
		}
		s.program = nil
	}
	if s.context != nil {
		if rerr := s.context.Release(); rerr != nil {
			err = multierror.Append(err, rerr)
		}
		s.context = nil
	}
	if s.ownDriver && s.driver != nil {
		if rerr := s.driver.Close(); rerr != nil {
			err = multierror.Append(err, rerr)
		}
		s.driver = nil
	}
	return err
}

// Run executes the sequential executor once and the parallel executor
// Repeat times, verifying every result. It stops at the first failure.
func (s *Session) Run() (*Summary, error) {
	var (
		sum *Summary
		err error
	)
	switch s.cfg.Variant {
	case kernels.VariantFloat:
		sum, err = runWorkload(s, s.floatWorkload())
	default:
		sum, err = runWorkload(s, s.intWorkload())
	}

	if s.cfg.MetricsFile != "" {
		if werr := s.metrics.WriteTextfile(s.cfg.MetricsFile); werr != nil {
			s.log.Warn("Metrics not written", "path", s.cfg.MetricsFile, "err", werr)
		}
	}
	if err != nil {
		s.cfg.Reporter.Failure(err)
		return sum, err
	}
	s.cfg.Reporter.Summary(sum)
	return sum, nil
}

// MeasureParallel runs and verifies one parallel dispatch with groupSize and
// returns its elapsed time. The work-group tuner calls it repeatedly.
func (s *Session) MeasureParallel(groupSize int) (time.Duration, error) {
	switch s.cfg.Variant {
	case kernels.VariantFloat:
		return measureWorkload(s, s.floatWorkload(), groupSize)
	default:
		return measureWorkload(s, s.intWorkload(), groupSize)
	}
}

// Run opens a session over source, runs it and closes it.
func Run(cfg Config, source string) (*Summary, error) {
	// validate fills in the reporter even when it fails.
	if err := cfg.validate(); err != nil {
		cfg.Reporter.Failure(err)
		return nil, err
	}
	s, err := Open(cfg, source)
	if err != nil {
		cfg.Reporter.Failure(err)
		return nil, err
	}
	sum, err := s.Run()
	if cerr := s.Close(); cerr != nil && err == nil {
		err = newError(DispatchError, "close session", cerr)
		cfg.Reporter.Failure(err)
	}
	return sum, err
}

type workload[T kernels.Numeric] struct {
	desc     string
	op       func(a, b T) T
	scalars  []any
	a, b     []T
	expected Expectation[T]

	// When set, parallel results must also match the sequential result
	// within tolerance.
	crossCheck bool
	tolerance  float64
}

func (s *Session) intWorkload() *workload[int32] {
	if s.intLoad == nil {
		n := s.cfg.VectorSize
		a, b := kernels.SequenceInputs(n)
		s.intLoad = &workload[int32]{
			desc:     "addition",
			op:       kernels.AddInt32,
			a:        a,
			b:        b,
			expected: ExactConstant(n, int32(n)),
		}
	}
	return s.intLoad
}

func (s *Session) floatWorkload() *workload[float32] {
	if s.floatLoad == nil {
		x, y := kernels.RampInputs(s.cfg.VectorSize)
		op := kernels.ScaledProduct(s.cfg.Coefficient)
		s.floatLoad = &workload[float32]{
			desc:       "scaled product",
			op:         op,
			scalars:    []any{s.cfg.Coefficient},
			a:          x,
			b:          y,
			expected:   Recomputed(x, y, op, FloatTolerance),
			crossCheck: true,
			tolerance:  FloatTolerance,
		}
	}
	return s.floatLoad
}

func runWorkload[T kernels.Numeric](s *Session, w *workload[T]) (*Summary, error) {
	cfg := s.cfg
	n := len(w.a)
	sum := &Summary{RunID: s.runID, Variant: cfg.Variant, Device: s.Device()}

	cfg.Reporter.Phase("Compute %s of %d elements in sequence started", w.desc, n)
	seq, elapsed := RunSequential(w.a, w.b, w.op, cfg.Clock)
	verr := Verify(seq, w.expected)
	sum.Sequential = s.record(ExecutorSequential, n, 0, elapsed, 0, verr)
	if verr != nil {
		return sum, verr
	}

	var durations []time.Duration
	for i := 0; i < cfg.Repeat; i++ {
		cfg.Reporter.Phase("Compute %s of %d elements in parallel started (work-group size %d)", w.desc, n, cfg.WorkGroupSize)
		res, err := RunParallel(ParallelParams[T]{
			Context:   s.context,
			Program:   s.program,
			Device:    s.Device(),
			Entry:     kernels.EntryPoint,
			Scalars:   w.scalars,
			A:         w.a,
			B:         w.b,
			GroupSize: cfg.WorkGroupSize,
			Clock:     cfg.Clock,
		})
		if err != nil {
			return sum, err
		}

		verr := Verify(res.Result, w.expected)
		if verr == nil && w.crossCheck {
			verr = Verify(res.Result, Matches(seq, w.tolerance))
		}
		sum.Parallel = append(sum.Parallel, s.record(ExecutorParallel, n, cfg.WorkGroupSize, res.Elapsed, res.Total, verr))
		if verr != nil {
			return sum, verr
		}
		durations = append(durations, res.Elapsed)
	}

	sum.Stats = Summarize(durations)
	if sum.Stats.Mean > 0 {
		sum.Speedup = float64(sum.Sequential.Elapsed) / float64(sum.Stats.Mean)
	}
	return sum, nil
}

func measureWorkload[T kernels.Numeric](s *Session, w *workload[T], groupSize int) (time.Duration, error) {
	res, err := RunParallel(ParallelParams[T]{
		Context:   s.context,
		Program:   s.program,
		Device:    s.Device(),
		Entry:     kernels.EntryPoint,
		Scalars:   w.scalars,
		A:         w.a,
		B:         w.b,
		GroupSize: groupSize,
		Clock:     s.cfg.Clock,
	})
	if err != nil {
		return 0, err
	}
	if err := Verify(res.Result, w.expected); err != nil {
		return 0, err
	}
	s.log.Debug("Parallel dispatch measured", "group_size", groupSize, "elapsed", res.Elapsed)
	return res.Elapsed, nil
}

func (s *Session) record(executor string, n, groupSize int, elapsed, total time.Duration, err error) Record {
	rec := Record{
		Executor:  executor,
		Variant:   string(s.cfg.Variant),
		N:         n,
		GroupSize: groupSize,
		Elapsed:   elapsed,
		Total:     total,
		Passed:    err == nil,
		Err:       err,
	}
	s.metrics.Observe(rec)
	s.cfg.Reporter.Result(rec)

	attrs := []any{"executor", executor, "n", n, "elapsed", elapsed, "passed", rec.Passed}
	if executor == ExecutorParallel {
		attrs = append(attrs, "group_size", groupSize, "total", total)
	}
	if err != nil {
		s.log.Error("Verification failed", append(attrs, "err", err)...)
	} else {
		s.log.Info("Task finished", attrs...)
	}
	return rec
}
