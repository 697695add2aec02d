package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"

	"github.com/cwbudde/clbench/internal/accel"
	"github.com/cwbudde/clbench/internal/kernels"
)

// ParallelParams describes one data-parallel dispatch.
type ParallelParams[T kernels.Numeric] struct {
	Context accel.Context
	Program accel.Program
	Device  accel.DeviceInfo

	// Kernel function to extract from Program.
	Entry string

	// Scalar arguments bound before the buffers, in order.
	Scalars []any

	A, B []T

	// Work-items per work-group. Must divide len(A).
	GroupSize int

	// If not specified, the wall clock is used.
	Clock clock.Clock
}

// ParallelResult is the outcome of RunParallel.
type ParallelResult[T kernels.Numeric] struct {
	Result []T

	// Elapsed spans enqueue to kernel completion.
	Elapsed time.Duration

	// Total spans buffer creation to buffer release, read-back included.
	Total time.Duration
}

// RunParallel dispatches one invocation of N = len(A) work-items in groups of
// GroupSize, waits for it, and reads the output back. Arguments are bound as
// scalars, then A, then B, then the output buffer. Every buffer it creates is
// released before it returns, on success and on failure.
func RunParallel[T kernels.Numeric](p ParallelParams[T]) (res *ParallelResult[T], err error) {
	if len(p.A) != len(p.B) {
		panic(fmt.Sprintf("bench: parallel operands differ in length: %d vs %d", len(p.A), len(p.B)))
	}
	if p.Clock == nil {
		p.Clock = clock.WallClock
	}
	n := len(p.A)
	if err := checkGroupSize(n, p.GroupSize, p.Device); err != nil {
		return nil, err
	}

	totalStart := p.Clock.Now()
	var buffers []accel.Buffer
	defer func() {
		var relErr error
		for _, b := range buffers {
			if rerr := b.Release(); rerr != nil {
				relErr = multierror.Append(relErr, rerr)
			}
		}
		if relErr != nil && err == nil {
			res, err = nil, newError(DispatchError, "release buffers", relErr)
		}
		if res != nil {
			res.Total = p.Clock.Now().Sub(totalStart)
		}
	}()

	aBuf, err := CreateInputBuffer(p.Context, p.A)
	if err != nil {
		return nil, newError(DispatchError, "create buffers", err)
	}
	buffers = append(buffers, aBuf.Buffer)

	bBuf, err := CreateInputBuffer(p.Context, p.B)
	if err != nil {
		return nil, newError(DispatchError, "create buffers", err)
	}
	buffers = append(buffers, bBuf.Buffer)

	outBuf, err := CreateOutputBuffer[T](p.Context, n)
	if err != nil {
		return nil, newError(DispatchError, "create buffers", err)
	}
	buffers = append(buffers, outBuf.Buffer)

	kernel, err := p.Program.Kernel(p.Entry)
	if err != nil {
		if errors.Is(err, accel.ErrInvalidKernelName) {
			return nil, newError(DispatchError, "create kernel", fmt.Errorf("%w %q: %w", ErrInvalidKernelEntryPoint, p.Entry, err))
		}
		return nil, newError(DispatchError, "create kernel", err)
	}
	defer kernel.Release()

	if err := bindArgs(kernel, p.Scalars, aBuf.Buffer, bBuf.Buffer, outBuf.Buffer); err != nil {
		return nil, err
	}

	start := p.Clock.Now()
	ev, err := p.Context.EnqueueKernel(kernel, n, p.GroupSize)
	if err != nil {
		if errors.Is(err, accel.ErrInvalidWorkGroupSize) {
			return nil, newError(DispatchError, "enqueue kernel", fmt.Errorf("%w: %v", ErrInvalidWorkGroupSize, err))
		}
		return nil, newError(DispatchError, "enqueue kernel", err)
	}
	if err := ev.Wait(); err != nil {
		return nil, newError(DispatchError, "wait for kernel", err)
	}
	elapsed := p.Clock.Now().Sub(start)

	result := make([]T, n)
	if err := outBuf.ReadInto(p.Context, result); err != nil {
		return nil, newError(DispatchError, "read result", err)
	}

	return &ParallelResult[T]{Result: result, Elapsed: elapsed}, nil
}

func checkGroupSize(n, groupSize int, device accel.DeviceInfo) error {
	switch {
	case n == 0:
		return newError(DispatchError, "partition", fmt.Errorf("%w: empty problem", ErrInvalidWorkGroupSize))
	case groupSize <= 0:
		return newError(DispatchError, "partition", fmt.Errorf("%w: %d", ErrInvalidWorkGroupSize, groupSize))
	case n%groupSize != 0:
		return newError(DispatchError, "partition", fmt.Errorf("%w: %d does not divide %d work-items", ErrInvalidWorkGroupSize, groupSize, n))
	case device.MaxWorkGroupSize > 0 && groupSize > device.MaxWorkGroupSize:
		return newError(DispatchError, "partition", fmt.Errorf("%w: %d exceeds device maximum %d", ErrInvalidWorkGroupSize, groupSize, device.MaxWorkGroupSize))
	}
	return nil
}

func bindArgs(kernel accel.Kernel, scalars []any, buffers ...accel.Buffer) error {
	want := len(scalars) + len(buffers)
	if kernel.NumArgs() != want {
		return newError(DispatchError, "bind arguments",
			fmt.Errorf("%w: kernel %s takes %d arguments, have %d", ErrArgumentMismatch, kernel.Name(), kernel.NumArgs(), want))
	}

	index := 0
	for _, s := range scalars {
		if err := kernel.SetArg(index, s); err != nil {
			return newError(DispatchError, "bind arguments", fmt.Errorf("%w: %w", ErrArgumentMismatch, err))
		}
		index++
	}
	for _, b := range buffers {
		if err := kernel.SetArg(index, b); err != nil {
			return newError(DispatchError, "bind arguments", fmt.Errorf("%w: %w", ErrArgumentMismatch, err))
		}
		index++
	}
	return nil
}
