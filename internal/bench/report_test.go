package bench

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cwbudde/clbench/internal/accel"
)

func TestConsoleReporter(t *testing.T) {
	var out bytes.Buffer
	r := NewConsoleReporter(&out)

	r.Platforms(1)
	r.Devices(1)
	r.Device(accel.DeviceInfo{
		Name:             "Test GPU",
		Vendor:           "ACME",
		Version:          "OpenCL 3.0",
		MaxWorkItemSizes: []int{1024, 1024, 64},
		MaxWorkGroupSize: 1024,
		MaxComputeUnits:  8,
		GlobalMemSize:    1 << 30,
		LocalMemSize:     64 * 1024,
		Backend:          accel.BackendOpenCL,
	})
	r.Phase("Compute %s of %d elements in sequence started", "addition", 16)
	r.Result(Record{Executor: ExecutorSequential, Elapsed: 1500 * time.Microsecond, Passed: true})
	r.Result(Record{Executor: ExecutorParallel, Elapsed: 12 * time.Millisecond})
	r.Summary(&Summary{
		Parallel: make([]Record, 3),
		Stats:    Stats{Runs: 3, Mean: 2 * time.Millisecond, StdDev: 250 * time.Microsecond, Min: time.Millisecond, Max: 3 * time.Millisecond},
		Speedup:  2.5,
	})
	r.Failure(errors.New("boom"))
	r.Failure(nil)
	r.Summary(nil)

	want := "Platforms found: 1\n" +
		"Devices found: 1\n" +
		"OpenCL Device Info:\n" +
		"Name: Test GPU\n" +
		"Vendor: ACME\n" +
		"Version: OpenCL 3.0\n" +
		"Max size of work-items: (1024,1024,64)\n" +
		"Max size of work-groups: 1024\n" +
		"Number of compute units: 8\n" +
		"Global memory size (bytes): 1073741824\n" +
		"Local memory size per compute unit (bytes): 8192\n" +
		"Compute addition of 16 elements in sequence started\n" +
		"Task finished in 1 ms (sequential, verification passed)\n" +
		"Task finished in 12 ms (parallel, verification FAILED)\n" +
		"Parallel over 3 runs: mean 2ms, stddev 250µs, min 1ms, max 3ms\n" +
		"Speedup (sequential / parallel dispatch): 2.50x\n" +
		"Error! boom\n"
	assert.Equal(t, want, out.String())
}

func TestDeviceHeader(t *testing.T) {
	tests := []struct {
		backend accel.Backend
		want    string
	}{
		{accel.BackendOpenCL, "OpenCL Device Info:"},
		{accel.BackendHost, "Device Info (host):"},
		{"", "Device Info:"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		NewConsoleReporter(&out).Device(accel.DeviceInfo{Name: "d", Backend: tt.backend})
		assert.True(t, strings.HasPrefix(out.String(), tt.want+"\nName: d\n"), "backend %q: %q", tt.backend, out.String())
	}
}
