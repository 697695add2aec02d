package bench

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/juju/clock/testclock"

	"github.com/cwbudde/clbench/internal/accel"
	"github.com/cwbudde/clbench/internal/kernels"
)

// stepClock advances by step on every reading, so each timed interval spans
// exactly one step.
type stepClock struct {
	*testclock.Clock
	step time.Duration
}

func newStepClock(step time.Duration) *stepClock {
	return &stepClock{Clock: testclock.NewClock(time.Unix(0, 0)), step: step}
}

func (c *stepClock) Now() time.Time {
	now := c.Clock.Now()
	c.Clock.Advance(c.step)
	return now
}

// spyDriver wraps a driver and records every context opened through it.
type spyDriver struct {
	accel.Driver

	mu       sync.Mutex
	contexts []*spyContext
}

func newSpyDriver(hostKernels []accel.HostKernel, opts ...accel.HostOption) *spyDriver {
	return &spyDriver{Driver: accel.NewHostDriver(hostKernels, opts...)}
}

func (d *spyDriver) Platforms() ([]accel.Platform, error) {
	platforms, err := d.Driver.Platforms()
	if err != nil {
		return nil, err
	}
	out := make([]accel.Platform, len(platforms))
	for i, p := range platforms {
		out[i] = spyPlatform{Platform: p, driver: d}
	}
	return out, nil
}

func (d *spyDriver) lastContext(t *testing.T) *spyContext {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.contexts) == 0 {
		t.Fatal("no context was created")
	}
	return d.contexts[len(d.contexts)-1]
}

func (d *spyDriver) contextCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.contexts)
}

type spyPlatform struct {
	accel.Platform
	driver *spyDriver
}

func (p spyPlatform) Devices(filter accel.DeviceFilter) ([]accel.Device, error) {
	devices, err := p.Platform.Devices(filter)
	if err != nil {
		return nil, err
	}
	out := make([]accel.Device, len(devices))
	for i, dev := range devices {
		out[i] = spyDevice{Device: dev, driver: p.driver}
	}
	return out, nil
}

type spyDevice struct {
	accel.Device
	driver *spyDriver
}

func (d spyDevice) NewContext() (accel.Context, error) {
	ctx, err := d.Device.NewContext()
	if err != nil {
		return nil, err
	}
	sc := &spyContext{Context: ctx}
	d.driver.mu.Lock()
	d.driver.contexts = append(d.driver.contexts, sc)
	d.driver.mu.Unlock()
	return sc, nil
}

type spyContext struct {
	accel.Context

	mu      sync.Mutex
	builds  int
	buffers int
}

func (c *spyContext) BuildProgram(source string) (accel.Program, error) {
	c.mu.Lock()
	c.builds++
	c.mu.Unlock()
	return c.Context.BuildProgram(source)
}

func (c *spyContext) CreateBuffer(flags accel.MemFlags, size int, host unsafe.Pointer) (accel.Buffer, error) {
	c.mu.Lock()
	c.buffers++
	c.mu.Unlock()
	return c.Context.CreateBuffer(flags, size, host)
}

func (c *spyContext) counts() (builds, buffers int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.builds, c.buffers
}

func (c *spyContext) LiveBuffers() int {
	return c.Context.(interface{ LiveBuffers() int }).LiveBuffers()
}

// testConfig returns a small deterministic run on driver.
func testConfig(driver accel.Driver, n, groupSize int, out *bytes.Buffer) Config {
	cfg := DefaultConfig()
	cfg.VectorSize = n
	cfg.WorkGroupSize = groupSize
	cfg.Driver = driver
	cfg.Clock = newStepClock(time.Millisecond)
	cfg.Logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	if out != nil {
		cfg.Reporter = NewConsoleReporter(out)
	}
	return cfg
}

func mustSource(t testing.TB, v kernels.Variant) string {
	t.Helper()
	src, err := kernels.Source(v)
	if err != nil {
		t.Fatalf("Source(%s) failed: %v", v, err)
	}
	return src
}

// openHost builds source on the first host device and returns the context
// and program, released at test cleanup.
func openHost(t testing.TB, hostKernels []accel.HostKernel, source string) (accel.Context, accel.Program, accel.DeviceInfo) {
	t.Helper()

	drv := accel.NewHostDriver(hostKernels)
	device, err := NewCatalog(drv, NewConsoleReporter(&bytes.Buffer{}), nil).Select(accel.FilterAll)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	ctx, err := device.NewContext()
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	program, err := BuildProgram(ctx, source)
	if err != nil {
		_ = ctx.Release()
		t.Fatalf("BuildProgram failed: %v", err)
	}
	t.Cleanup(func() {
		_ = program.Release()
		_ = ctx.Release()
	})
	return ctx, program, device.Info()
}

func liveBuffers(t testing.TB, ctx accel.Context) int {
	t.Helper()
	lb, ok := ctx.(interface{ LiveBuffers() int })
	if !ok {
		t.Fatalf("context %T does not count buffers", ctx)
	}
	return lb.LiveBuffers()
}
