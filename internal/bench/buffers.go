package bench

import (
	"fmt"
	"unsafe"

	"github.com/cwbudde/clbench/internal/accel"
	"github.com/cwbudde/clbench/internal/kernels"
)

// BufferRole says how a buffer participates in a dispatch.
type BufferRole string

const (
	// RoleInput buffers are read by the device and alias host memory.
	RoleInput BufferRole = "input"
	// RoleOutput buffers are written by the device and start uninitialised.
	RoleOutput BufferRole = "output"
)

// DeviceBuffer is a typed device memory object of fixed capacity.
//
// An input buffer aliases the host slice it was created from. The slice must
// outlive the buffer and must not be written while the device may read it.
type DeviceBuffer[T kernels.Numeric] struct {
	accel.Buffer
	Role  BufferRole
	Count int
}

// Bytes returns the buffer's byte length.
func (b *DeviceBuffer[T]) Bytes() int {
	return b.Count * elemSize[T]()
}

// CreateInputBuffer creates a device-readable buffer backed by host.
func CreateInputBuffer[T kernels.Numeric](ctx accel.Context, host []T) (*DeviceBuffer[T], error) {
	if len(host) == 0 {
		return nil, fmt.Errorf("create input buffer: %w", accel.ErrInvalidBufferSize)
	}
	size := len(host) * elemSize[T]()
	buf, err := ctx.CreateBuffer(accel.MemReadOnly|accel.MemUseHostPtr, size, unsafe.Pointer(&host[0]))
	if err != nil {
		return nil, fmt.Errorf("create input buffer: %w", err)
	}
	return checkedBuffer[T](buf, RoleInput, len(host)), nil
}

// CreateOutputBuffer creates a device-write-only buffer of count elements.
func CreateOutputBuffer[T kernels.Numeric](ctx accel.Context, count int) (*DeviceBuffer[T], error) {
	if count <= 0 {
		return nil, fmt.Errorf("create output buffer: %w", accel.ErrInvalidBufferSize)
	}
	buf, err := ctx.CreateBuffer(accel.MemWriteOnly, count*elemSize[T](), nil)
	if err != nil {
		return nil, fmt.Errorf("create output buffer: %w", err)
	}
	return checkedBuffer[T](buf, RoleOutput, count), nil
}

// checkedBuffer panics when the driver returned a buffer whose size differs
// from count elements; that is a programming error, not a runtime condition.
func checkedBuffer[T kernels.Numeric](buf accel.Buffer, role BufferRole, count int) *DeviceBuffer[T] {
	db := &DeviceBuffer[T]{Buffer: buf, Role: role, Count: count}
	if buf.Size() != db.Bytes() {
		panic(fmt.Sprintf("bench: %s buffer is %d bytes, want %d elements x %d bytes", role, buf.Size(), count, elemSize[T]()))
	}
	return db
}

// ReadInto copies the buffer into dst, blocking until the copy completes.
func (b *DeviceBuffer[T]) ReadInto(ctx accel.Context, dst []T) error {
	if len(dst) != b.Count {
		panic(fmt.Sprintf("bench: read %d elements into %d element slice", b.Count, len(dst)))
	}
	return ctx.ReadBuffer(b.Buffer, unsafe.Pointer(&dst[0]), b.Bytes())
}

func elemSize[T kernels.Numeric]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}
