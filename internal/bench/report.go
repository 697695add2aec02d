package bench

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/cwbudde/clbench/internal/accel"
)

// Reporter receives the human-readable console report of a run. It is
// observational: nothing it does feeds back into the pipeline.
type Reporter interface {
	Platforms(count int)
	Devices(count int)
	Device(info accel.DeviceInfo)
	Phase(format string, args ...any)
	Result(rec Record)
	Summary(s *Summary)
	Failure(err error)
}

// ConsoleReporter writes the report as plain text lines.
type ConsoleReporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewConsoleReporter returns a reporter writing to w.
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

func (r *ConsoleReporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.w, format, args...)
}

func (r *ConsoleReporter) Platforms(count int) {
	r.printf("Platforms found: %d\n", count)
}

func (r *ConsoleReporter) Devices(count int) {
	r.printf("Devices found: %d\n", count)
}

// Device prints the capability listing of one device under a header naming
// the runtime that reported it.
func (r *ConsoleReporter) Device(info accel.DeviceInfo) {
	r.printf("%s\n"+
		"Name: %s\n"+
		"Vendor: %s\n"+
		"Version: %s\n"+
		"Max size of work-items: (%s)\n"+
		"Max size of work-groups: %d\n"+
		"Number of compute units: %d\n"+
		"Global memory size (bytes): %d\n"+
		"Local memory size per compute unit (bytes): %d\n",
		deviceHeader(info.Backend),
		info.Name,
		info.Vendor,
		info.Version,
		formatExtents(info.MaxWorkItemSizes),
		info.MaxWorkGroupSize,
		info.MaxComputeUnits,
		info.GlobalMemSize,
		info.LocalMemPerComputeUnit(),
	)
}

func deviceHeader(b accel.Backend) string {
	switch b {
	case accel.BackendOpenCL:
		return "OpenCL Device Info:"
	case "":
		return "Device Info:"
	default:
		return fmt.Sprintf("Device Info (%s):", b)
	}
}

func (r *ConsoleReporter) Phase(format string, args ...any) {
	r.printf(format+"\n", args...)
}

func (r *ConsoleReporter) Result(rec Record) {
	outcome := "passed"
	if !rec.Passed {
		outcome = "FAILED"
	}
	r.printf("Task finished in %d ms (%s, verification %s)\n", rec.Elapsed.Milliseconds(), rec.Executor, outcome)
}

func (r *ConsoleReporter) Summary(s *Summary) {
	if s == nil {
		return
	}
	if len(s.Parallel) > 1 {
		r.printf("Parallel over %d runs: mean %s, stddev %s, min %s, max %s\n",
			len(s.Parallel),
			roundMs(s.Stats.Mean), roundMs(s.Stats.StdDev), roundMs(s.Stats.Min), roundMs(s.Stats.Max))
	}
	if s.Speedup > 0 {
		r.printf("Speedup (sequential / parallel dispatch): %.2fx\n", s.Speedup)
	}
}

// Failure prints the single diagnostic line of a fatal error. Build logs
// follow on their own lines.
func (r *ConsoleReporter) Failure(err error) {
	if err == nil {
		return
	}
	r.printf("Error! %v\n", err)
}

func formatExtents(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, ",")
}

func roundMs(d time.Duration) time.Duration {
	if d < time.Millisecond {
		return d.Round(time.Microsecond)
	}
	return d.Round(time.Millisecond / 10)
}
