// Package accel abstracts a data-parallel compute runtime: platform and
// device discovery, contexts, program builds, memory objects and kernel
// dispatch.
//
// Two drivers implement it. The host driver runs kernels as Go functions
// spread over a goroutine per compute unit and is always available. The
// OpenCL driver talks to the system OpenCL ICD loader and is only compiled
// with '-tags gpu'.
package accel

import (
	"errors"
	"strings"
	"unsafe"
)

var (
	// ErrInvalidKernelName is returned when a program has no kernel of the requested name.
	ErrInvalidKernelName = errors.New("invalid kernel name")
	// ErrInvalidArgIndex is returned when SetArg is called past the kernel's parameter list.
	ErrInvalidArgIndex = errors.New("invalid kernel argument index")
	// ErrInvalidArgValue is returned when an argument does not fit the parameter kind.
	ErrInvalidArgValue = errors.New("invalid kernel argument value")
	// ErrKernelArgsNotSet is returned when a kernel is enqueued with unbound parameters.
	ErrKernelArgsNotSet = errors.New("kernel arguments not set")
	// ErrInvalidWorkGroupSize is returned when the local size does not fit the dispatch.
	ErrInvalidWorkGroupSize = errors.New("invalid work-group size")
	// ErrInvalidBufferSize is returned for zero-sized buffers or out-of-range reads.
	ErrInvalidBufferSize = errors.New("invalid buffer size")
	// ErrInvalidHostPtr is returned when a host-backed buffer is created without host memory.
	ErrInvalidHostPtr = errors.New("invalid host pointer")
	// ErrInvalidMemObject is returned when a released or foreign buffer is used.
	ErrInvalidMemObject = errors.New("invalid memory object")
	// ErrProgramNotBuilt is returned when kernels are requested from a failed build.
	ErrProgramNotBuilt = errors.New("program not built")
	// ErrKernelFault is returned by Wait when a work-item crashed.
	ErrKernelFault = errors.New("kernel execution fault")
)

// Driver is the entry point of a compute runtime.
type Driver interface {
	Name() string
	Platforms() ([]Platform, error)
	Close() error
}

// Platform groups the devices exposed by one vendor implementation.
type Platform interface {
	Info() PlatformInfo
	// Devices returns the platform's devices passing filter. An empty
	// result is not an error.
	Devices(filter DeviceFilter) ([]Device, error)
}

// Device is one compute device.
type Device interface {
	Info() DeviceInfo
	// NewContext creates an execution context bound to this device, with
	// an in-order command queue.
	NewContext() (Context, error)
}

// Context ties one device to the programs and buffers it can access.
type Context interface {
	Device() Device

	// BuildProgram compiles source for the context's device. A compiler
	// failure is not an error: inspect Program.Status and Program.Log.
	BuildProgram(source string) (Program, error)

	// CreateBuffer allocates size bytes. With MemUseHostPtr the buffer
	// aliases host, which must stay alive and unmodified until the buffer
	// is released. With MemCopyHostPtr host is copied at creation.
	CreateBuffer(flags MemFlags, size int, host unsafe.Pointer) (Buffer, error)

	// EnqueueKernel submits global work-items in groups of local. It
	// returns without waiting for the kernel to run.
	EnqueueKernel(k Kernel, global, local int) (Event, error)

	// ReadBuffer copies size bytes from b into dst, blocking until the
	// copy and every previously enqueued command have completed.
	ReadBuffer(b Buffer, dst unsafe.Pointer, size int) error

	Release() error
}

// Program is a compiled kernel source.
type Program interface {
	Status() BuildStatus
	Log() string
	KernelNames() []string
	Kernel(name string) (Kernel, error)
	Release() error
}

// Kernel is one entry point of a program with its bound arguments.
type Kernel interface {
	Name() string
	NumArgs() int
	// SetArg binds a Buffer, int32 or float32 to parameter index.
	SetArg(index int, value any) error
	Release() error
}

// Buffer is a device memory object.
type Buffer interface {
	Size() int
	Flags() MemFlags
	Release() error
}

// Event signals completion of an enqueued command.
type Event interface {
	// Wait blocks until the command completes. There is no timeout.
	Wait() error
}

// Backend identifies a driver implementation.
type Backend string

const (
	BackendHost   Backend = "host"
	BackendOpenCL Backend = "opencl"
)

// NormalizeBackend maps arbitrary user input to a canonical backend identifier.
func NormalizeBackend(name string) Backend {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "host", "go":
		return BackendHost
	case "gpu", "opencl", "cl":
		return BackendOpenCL
	default:
		return Backend(name)
	}
}

// SupportedBackends returns the list of backends understood by the factory.
func SupportedBackends() []Backend {
	return []Backend{BackendHost, BackendOpenCL}
}

// BackendList renders SupportedBackends for help and error text.
func BackendList() string {
	names := make([]string, 0, 2)
	for _, b := range SupportedBackends() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}
