package bench

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/clbench/internal/accel"
	"github.com/cwbudde/clbench/internal/kernels"
)

func TestBuildProgramEmptySource(t *testing.T) {
	for _, src := range []string{"", "   \n\t"} {
		drv := newSpyDriver(kernels.HostKernels())
		var out bytes.Buffer

		_, err := Run(testConfig(drv, 8, 2, &out), src)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyKernelSource)
		assert.Equal(t, BuildError, ClassOf(err))

		builds, buffers := drv.lastContext(t).counts()
		assert.Zero(t, builds, "driver compiler must not be invoked")
		assert.Zero(t, buffers, "no buffers may be created")
		assert.Contains(t, out.String(), "Error! ")
	}
}

func TestBuildProgramFailureCarriesDiagnostics(t *testing.T) {
	const broken = `
__kernel void vadd(__global const int *a, __global const int *b, __global int *c) {
    int i = get_global_id(0);
    c[i] = a[i] + b[i];
`
	drv := newSpyDriver(kernels.HostKernels())

	_, err := Run(testConfig(drv, 8, 2, nil), broken)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrKernelBuildFailed)
	assert.Equal(t, BuildError, ClassOf(err))

	var berr *Error
	require.True(t, errors.As(err, &berr))
	assert.Contains(t, berr.Diagnostics, "Build Status: BUILD_ERROR")
	assert.Contains(t, berr.Diagnostics, "Build Log:\n<kernel>:2: error: unbalanced '{'")

	_, buffers := drv.lastContext(t).counts()
	assert.Zero(t, buffers)
}

func TestBuildProgramUnlinkedKernel(t *testing.T) {
	const src = `__kernel void vmul(__global const int *a, __global const int *b, __global int *c) {}`
	device, err := NewCatalog(accel.NewHostDriver(kernels.HostKernels()), NewConsoleReporter(&bytes.Buffer{}), nil).Select(accel.FilterAll)
	require.NoError(t, err)
	ctx, err := device.NewContext()
	require.NoError(t, err)
	defer ctx.Release()

	_, err = BuildProgram(ctx, src)
	var berr *Error
	require.True(t, errors.As(err, &berr))
	assert.Contains(t, berr.Diagnostics, "no host implementation for kernel 'vmul(int*, int*, int*)'")
}

func TestBuildProgramSuccess(t *testing.T) {
	_, program, _ := openHost(t, kernels.HostKernels(), mustSource(t, kernels.VariantFloat))
	assert.Equal(t, accel.BuildSuccess, program.Status())
	assert.Equal(t, []string{kernels.EntryPoint}, program.KernelNames())
}

func TestBuildProgramRejectsForeignKernelBody(t *testing.T) {
	const subtract = `
__kernel void vadd(__global const int *a, __global const int *b, __global int *c) {
    const int i = get_global_id(0);
    c[i] = a[i] - b[i];
}
`
	drv := newSpyDriver(kernels.HostKernels())

	sum, err := Run(testConfig(drv, 8, 2, nil), subtract)
	require.Error(t, err)
	assert.Nil(t, sum)
	assert.ErrorIs(t, err, ErrKernelBuildFailed)
	assert.Equal(t, BuildError, ClassOf(err))

	var berr *Error
	require.True(t, errors.As(err, &berr))
	assert.Contains(t, berr.Diagnostics, "no host implementation for kernel body of 'vadd(int*, int*, int*)'")

	_, buffers := drv.lastContext(t).counts()
	assert.Zero(t, buffers, "nothing may be dispatched")
}

func TestBuildProgramAcceptsReformattedSource(t *testing.T) {
	const reformatted = `/* same kernel, different layout */
__kernel void vadd(__global const int* a, __global const int* b, __global int* c)
{
	const int i = get_global_id(0);   // work-item
	c[i] = a[i]+b[i];
}`
	sum, err := Run(testConfig(newSpyDriver(kernels.HostKernels()), 8, 2, nil), reformatted)
	require.NoError(t, err)
	assert.True(t, sum.Parallel[0].Passed)
}
