package bench

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"gopkg.in/yaml.v3"

	"github.com/cwbudde/clbench/internal/accel"
	"github.com/cwbudde/clbench/internal/kernels"
)

const (
	// DefaultVectorSize matches the problem size of the reference benchmark.
	DefaultVectorSize = 100_000_000
	// DefaultWorkGroupSize is the partition size used when none is given.
	DefaultWorkGroupSize = 8
	// DefaultCoefficient is the float variant's scalar.
	DefaultCoefficient = 2.0
	// FloatTolerance is the absolute tolerance of float verification.
	FloatTolerance = 0.01
)

// Config parameterises one benchmark run.
type Config struct {
	// Number of elements per vector.
	VectorSize int `yaml:"vectorSize"`

	// Where to load the kernel text from. When empty, the embedded source
	// of Variant is used.
	KernelSourcePath string `yaml:"kernelSourcePath"`

	// Work-items per work-group. Must divide VectorSize.
	WorkGroupSize int `yaml:"workGroupSize"`

	// Which device classes the catalog enumerates.
	DeviceFilter accel.DeviceFilter `yaml:"deviceFilter"`

	// Kernel variant: int or float.
	Variant kernels.Variant `yaml:"variant"`

	// Scalar for the float variant.
	Coefficient float32 `yaml:"coefficient"`

	// Number of back-to-back parallel runs. Each is verified.
	Repeat int `yaml:"repeat"`

	// Driver backend: host or opencl. Ignored when Driver is set.
	Backend accel.Backend `yaml:"backend"`

	// Optional Prometheus textfile to write run metrics to.
	MetricsFile string `yaml:"metricsFile"`

	// A driver to use instead of opening Backend.
	Driver accel.Driver `yaml:"-"`

	// A clock instance for timing. If not specified, the wall clock will
	// be used instead.
	Clock clock.Clock `yaml:"-"`

	// The logger to use. If not defined, slog.Default() is used.
	Logger *slog.Logger `yaml:"-"`

	// Receives the console report. If not defined, output is discarded.
	Reporter Reporter `yaml:"-"`
}

// DefaultConfig returns the configuration of the reference benchmark.
func DefaultConfig() Config {
	return Config{
		VectorSize:    DefaultVectorSize,
		WorkGroupSize: DefaultWorkGroupSize,
		DeviceFilter:  accel.FilterAll,
		Variant:       kernels.VariantInt,
		Coefficient:   DefaultCoefficient,
		Repeat:        1,
		Backend:       accel.BackendHost,
	}
}

// LoadConfigFile overlays the YAML document at path onto base.
func LoadConfigFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	var err error
	if cfg.VectorSize <= 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for vector size: %d", cfg.VectorSize))
	}
	if cfg.VectorSize > math.MaxInt32 {
		err = multierror.Append(err, fmt.Errorf("vector size %d exceeds the int32 index range", cfg.VectorSize))
	}
	if cfg.WorkGroupSize <= 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for work-group size: %d", cfg.WorkGroupSize))
	} else if cfg.VectorSize > 0 && cfg.VectorSize%cfg.WorkGroupSize != 0 {
		err = multierror.Append(err, fmt.Errorf("vector size %d is not a multiple of work-group size %d", cfg.VectorSize, cfg.WorkGroupSize))
	}
	if f, ferr := accel.ParseDeviceFilter(string(cfg.DeviceFilter)); ferr != nil {
		err = multierror.Append(err, ferr)
	} else {
		cfg.DeviceFilter = f
	}
	if v, verr := kernels.ParseVariant(string(cfg.Variant)); verr != nil {
		err = multierror.Append(err, verr)
	} else {
		cfg.Variant = v
	}
	if cfg.Variant == kernels.VariantFloat && (math.IsNaN(float64(cfg.Coefficient)) || math.IsInf(float64(cfg.Coefficient), 0)) {
		err = multierror.Append(err, fmt.Errorf("invalid value for coefficient: %v", cfg.Coefficient))
	}
	if cfg.Repeat == 0 {
		cfg.Repeat = 1
	}
	if cfg.Repeat < 0 {
		err = multierror.Append(err, fmt.Errorf("invalid value for repeat: %d", cfg.Repeat))
	}
	if cfg.Driver == nil {
		cfg.Backend = accel.NormalizeBackend(string(cfg.Backend))
		if !slices.Contains(accel.SupportedBackends(), cfg.Backend) {
			err = multierror.Append(err, fmt.Errorf("unknown backend %q (supported: %s)", cfg.Backend, accel.BackendList()))
		}
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.WallClock
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Reporter == nil {
		cfg.Reporter = NewConsoleReporter(io.Discard)
	}
	if err != nil {
		return &Error{Class: ConfigError, Op: "validate config", Err: fmt.Errorf("%w: %v", ErrInvalidConfig, err)}
	}
	return nil
}
