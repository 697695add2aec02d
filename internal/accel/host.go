package accel

import (
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"unsafe"
)

const (
	hostPlatformName    = "Go Host Runtime"
	hostVendor          = "clbench"
	hostVersion         = "HOST 1.2"
	hostMaxWorkGroup    = 1024
	hostLocalMemPerUnit = 32 * 1024
)

// HostOption customises the host driver.
type HostOption func(*hostDriver)

// WithHostDevices replaces the default single-device topology. Passing no
// devices yields a platform without devices.
func WithHostDevices(devices ...DeviceInfo) HostOption {
	return func(d *hostDriver) {
		d.devices = devices
	}
}

// WithoutHostPlatform makes the driver report no platforms at all.
func WithoutHostPlatform() HostOption {
	return func(d *hostDriver) {
		d.noPlatform = true
	}
}

// DefaultHostDevice describes the machine the process runs on.
func DefaultHostDevice() DeviceInfo {
	units := uint32(runtime.NumCPU())
	return DeviceInfo{
		Name:             fmt.Sprintf("Go host (%s/%s)", runtime.GOOS, runtime.GOARCH),
		Vendor:           hostVendor,
		Version:          hostVersion,
		DriverVersion:    runtime.Version(),
		Type:             DeviceTypeCPU,
		MaxWorkItemSizes: []int{hostMaxWorkGroup, hostMaxWorkGroup, hostMaxWorkGroup},
		MaxWorkGroupSize: hostMaxWorkGroup,
		MaxComputeUnits:  units,
		GlobalMemSize:    totalSystemMemory(),
		LocalMemSize:     uint64(units) * hostLocalMemPerUnit,
	}
}

type hostDriver struct {
	kernels    []HostKernel
	devices    []DeviceInfo
	noPlatform bool
}

// NewHostDriver returns a driver that executes the given host kernels. Kernel
// sources built against it may only declare kernels present in that list.
func NewHostDriver(kernels []HostKernel, opts ...HostOption) Driver {
	d := &hostDriver{
		kernels: kernels,
		devices: []DeviceInfo{DefaultHostDevice()},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *hostDriver) Name() string { return string(BackendHost) }

func (d *hostDriver) Platforms() ([]Platform, error) {
	if d.noPlatform {
		return nil, nil
	}
	return []Platform{&hostPlatform{driver: d}}, nil
}

func (d *hostDriver) Close() error { return nil }

type hostPlatform struct {
	driver *hostDriver
}

func (p *hostPlatform) Info() PlatformInfo {
	return PlatformInfo{Name: hostPlatformName, Vendor: hostVendor, Version: hostVersion}
}

func (p *hostPlatform) Devices(filter DeviceFilter) ([]Device, error) {
	var out []Device
	for _, info := range p.driver.devices {
		if filter.Matches(info.Type) {
			info.Backend = BackendHost
			out = append(out, &hostDevice{driver: p.driver, info: info})
		}
	}
	return out, nil
}

type hostDevice struct {
	driver *hostDriver
	info   DeviceInfo
}

func (d *hostDevice) Info() DeviceInfo { return d.info }

func (d *hostDevice) NewContext() (Context, error) {
	return &hostContext{device: d}, nil
}

type hostContext struct {
	device *hostDevice

	mu       sync.Mutex
	live     int
	pending  *hostEvent
	released bool
}

func (c *hostContext) Device() Device { return c.device }

// LiveBuffers reports how many buffers created on this context are still
// unreleased.
func (c *hostContext) LiveBuffers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func (c *hostContext) BuildProgram(source string) (Program, error) {
	if c.isReleased() {
		return nil, fmt.Errorf("build program: %w", ErrInvalidMemObject)
	}
	linked, log, ok := hostCompile(source, c.device.driver.kernels)
	p := &hostProgram{context: c, log: log, kernels: linked, status: BuildSuccess}
	if !ok {
		p.status = BuildError
	}
	return p, nil
}

func (c *hostContext) CreateBuffer(flags MemFlags, size int, host unsafe.Pointer) (Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("create buffer of %d bytes: %w", size, ErrInvalidBufferSize)
	}
	if (flags.Has(MemUseHostPtr) || flags.Has(MemCopyHostPtr)) && host == nil {
		return nil, fmt.Errorf("create %s buffer: %w", flags, ErrInvalidHostPtr)
	}

	var mem []byte
	switch {
	case flags.Has(MemUseHostPtr):
		mem = unsafe.Slice((*byte)(host), size)
	default:
		// Back with uint64 words so typed views are aligned.
		words := make([]uint64, (size+7)/8)
		mem = unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), size)
		if flags.Has(MemCopyHostPtr) {
			copy(mem, unsafe.Slice((*byte)(host), size))
		}
	}

	c.mu.Lock()
	c.live++
	c.mu.Unlock()

	return &hostBuffer{context: c, flags: flags, mem: mem}, nil
}

func (c *hostContext) EnqueueKernel(k Kernel, global, local int) (Event, error) {
	hk, ok := k.(*hostKernel)
	if !ok || hk.program.context != c {
		return nil, fmt.Errorf("enqueue kernel: %w", ErrInvalidArgValue)
	}
	if global <= 0 {
		return nil, fmt.Errorf("enqueue %s: global size %d: %w", hk.Name(), global, ErrInvalidWorkGroupSize)
	}
	if local <= 0 || local > c.device.info.MaxWorkGroupSize || global%local != 0 {
		return nil, fmt.Errorf("enqueue %s: local size %d for global size %d: %w", hk.Name(), local, global, ErrInvalidWorkGroupSize)
	}

	args, err := hk.snapshot()
	if err != nil {
		return nil, err
	}
	body := hk.def.Bind(args)

	ev := &hostEvent{done: make(chan struct{})}
	c.mu.Lock()
	prev := c.pending
	c.pending = ev
	c.mu.Unlock()

	workers := int(c.device.info.MaxComputeUnits)
	if workers < 1 {
		workers = 1
	}
	go ev.run(prev, body, global/local, local, workers)

	return ev, nil
}

func (c *hostContext) ReadBuffer(b Buffer, dst unsafe.Pointer, size int) error {
	hb, ok := b.(*hostBuffer)
	if !ok || hb.context != c || hb.isReleased() {
		return fmt.Errorf("read buffer: %w", ErrInvalidMemObject)
	}
	if size < 0 || size > len(hb.mem) {
		return fmt.Errorf("read %d bytes from %d byte buffer: %w", size, len(hb.mem), ErrInvalidBufferSize)
	}
	if err := c.finish(); err != nil {
		return err
	}
	if size == 0 {
		return nil
	}
	copy(unsafe.Slice((*byte)(dst), size), hb.mem[:size])
	return nil
}

// finish waits for the most recently enqueued command, which in an in-order
// queue implies every earlier one.
func (c *hostContext) finish() error {
	c.mu.Lock()
	ev := c.pending
	c.mu.Unlock()
	if ev == nil {
		return nil
	}
	return ev.Wait()
}

func (c *hostContext) Release() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return fmt.Errorf("release context: %w", ErrInvalidMemObject)
	}
	c.released = true
	return nil
}

func (c *hostContext) isReleased() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

type hostProgram struct {
	context *hostContext
	status  BuildStatus
	log     string
	kernels map[string]HostKernel
}

func (p *hostProgram) Status() BuildStatus { return p.status }
func (p *hostProgram) Log() string         { return p.log }

func (p *hostProgram) KernelNames() []string {
	names := make([]string, 0, len(p.kernels))
	for name := range p.kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *hostProgram) Kernel(name string) (Kernel, error) {
	if p.status != BuildSuccess {
		return nil, fmt.Errorf("create kernel %q: %w", name, ErrProgramNotBuilt)
	}
	def, ok := p.kernels[name]
	if !ok {
		return nil, fmt.Errorf("create kernel %q: %w", name, ErrInvalidKernelName)
	}
	return &hostKernel{program: p, def: def, args: make([]any, len(def.Params))}, nil
}

func (p *hostProgram) Release() error {
	p.kernels = nil
	return nil
}

type hostKernel struct {
	program *hostProgram
	def     HostKernel
	args    []any
}

func (k *hostKernel) Name() string { return k.def.Name }
func (k *hostKernel) NumArgs() int { return len(k.def.Params) }

func (k *hostKernel) SetArg(index int, value any) error {
	if index < 0 || index >= len(k.def.Params) {
		return fmt.Errorf("%s: set arg %d of %d: %w", k.def.Name, index, len(k.def.Params), ErrInvalidArgIndex)
	}
	want := k.def.Params[index]
	switch v := value.(type) {
	case *hostBuffer:
		if !want.IsBuffer() {
			return fmt.Errorf("%s: arg %d wants %s, got buffer: %w", k.def.Name, index, want, ErrInvalidArgValue)
		}
		if v.context != k.program.context || v.isReleased() {
			return fmt.Errorf("%s: arg %d: %w", k.def.Name, index, ErrInvalidMemObject)
		}
	case int32:
		if want != ParamInt {
			return fmt.Errorf("%s: arg %d wants %s, got int: %w", k.def.Name, index, want, ErrInvalidArgValue)
		}
	case float32:
		if want != ParamFloat {
			return fmt.Errorf("%s: arg %d wants %s, got float: %w", k.def.Name, index, want, ErrInvalidArgValue)
		}
	default:
		return fmt.Errorf("%s: arg %d has unsupported type %T: %w", k.def.Name, index, value, ErrInvalidArgValue)
	}
	k.args[index] = value
	return nil
}

func (k *hostKernel) snapshot() ([]HostArg, error) {
	out := make([]HostArg, len(k.args))
	for i, a := range k.args {
		switch v := a.(type) {
		case nil:
			return nil, fmt.Errorf("%s: arg %d: %w", k.def.Name, i, ErrKernelArgsNotSet)
		case *hostBuffer:
			if v.isReleased() {
				return nil, fmt.Errorf("%s: arg %d: %w", k.def.Name, i, ErrInvalidMemObject)
			}
			out[i] = HostArg{Mem: v.mem}
		default:
			out[i] = HostArg{Scalar: v}
		}
	}
	return out, nil
}

func (k *hostKernel) Release() error {
	k.args = nil
	return nil
}

type hostBuffer struct {
	context  *hostContext
	flags    MemFlags
	mem      []byte
	released atomic.Bool
}

func (b *hostBuffer) Size() int       { return len(b.mem) }
func (b *hostBuffer) Flags() MemFlags { return b.flags }

func (b *hostBuffer) Release() error {
	if !b.released.CompareAndSwap(false, true) {
		return fmt.Errorf("release buffer: %w", ErrInvalidMemObject)
	}
	b.context.mu.Lock()
	b.context.live--
	b.context.mu.Unlock()
	b.mem = nil
	return nil
}

func (b *hostBuffer) isReleased() bool { return b.released.Load() }

type hostEvent struct {
	done chan struct{}
	err  error
}

func (e *hostEvent) Wait() error {
	<-e.done
	return e.err
}

// run executes groups work-groups of local items on a pool of workers. Each
// worker claims whole groups, so all items of a group run on one goroutine.
func (e *hostEvent) run(prev *hostEvent, body func(gid int), groups, local, workers int) {
	defer close(e.done)
	if prev != nil {
		<-prev.done
	}
	if workers > groups {
		workers = groups
	}

	var (
		next    atomic.Int64
		wg      sync.WaitGroup
		faultMu sync.Mutex
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					faultMu.Lock()
					if e.err == nil {
						e.err = fmt.Errorf("%w: %v", ErrKernelFault, r)
					}
					faultMu.Unlock()
				}
			}()
			for {
				g := int(next.Add(1) - 1)
				if g >= groups {
					return
				}
				base := g * local
				for l := 0; l < local; l++ {
					body(base + l)
				}
			}
		}()
	}
	wg.Wait()
}
