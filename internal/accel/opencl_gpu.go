//go:build gpu

package accel

/*
#cgo LDFLAGS: -lOpenCL
#define CL_TARGET_OPENCL_VERSION 120
#define CL_USE_DEPRECATED_OPENCL_1_2_APIS
#include <CL/cl.h>
#include <stdlib.h>

static const char* clbench_cl_error_string(cl_int status) {
	switch (status) {
	case CL_SUCCESS: return "CL_SUCCESS";
	case CL_DEVICE_NOT_FOUND: return "CL_DEVICE_NOT_FOUND";
	case CL_DEVICE_NOT_AVAILABLE: return "CL_DEVICE_NOT_AVAILABLE";
	case CL_COMPILER_NOT_AVAILABLE: return "CL_COMPILER_NOT_AVAILABLE";
	case CL_MEM_OBJECT_ALLOCATION_FAILURE: return "CL_MEM_OBJECT_ALLOCATION_FAILURE";
	case CL_OUT_OF_RESOURCES: return "CL_OUT_OF_RESOURCES";
	case CL_OUT_OF_HOST_MEMORY: return "CL_OUT_OF_HOST_MEMORY";
	case CL_BUILD_PROGRAM_FAILURE: return "CL_BUILD_PROGRAM_FAILURE";
	case CL_INVALID_VALUE: return "CL_INVALID_VALUE";
	case CL_INVALID_DEVICE_TYPE: return "CL_INVALID_DEVICE_TYPE";
	case CL_INVALID_PLATFORM: return "CL_INVALID_PLATFORM";
	case CL_INVALID_DEVICE: return "CL_INVALID_DEVICE";
	case CL_INVALID_CONTEXT: return "CL_INVALID_CONTEXT";
	case CL_INVALID_COMMAND_QUEUE: return "CL_INVALID_COMMAND_QUEUE";
	case CL_INVALID_HOST_PTR: return "CL_INVALID_HOST_PTR";
	case CL_INVALID_MEM_OBJECT: return "CL_INVALID_MEM_OBJECT";
	case CL_INVALID_BINARY: return "CL_INVALID_BINARY";
	case CL_INVALID_BUILD_OPTIONS: return "CL_INVALID_BUILD_OPTIONS";
	case CL_INVALID_PROGRAM: return "CL_INVALID_PROGRAM";
	case CL_INVALID_PROGRAM_EXECUTABLE: return "CL_INVALID_PROGRAM_EXECUTABLE";
	case CL_INVALID_KERNEL_NAME: return "CL_INVALID_KERNEL_NAME";
	case CL_INVALID_KERNEL_DEFINITION: return "CL_INVALID_KERNEL_DEFINITION";
	case CL_INVALID_KERNEL: return "CL_INVALID_KERNEL";
	case CL_INVALID_ARG_INDEX: return "CL_INVALID_ARG_INDEX";
	case CL_INVALID_ARG_VALUE: return "CL_INVALID_ARG_VALUE";
	case CL_INVALID_ARG_SIZE: return "CL_INVALID_ARG_SIZE";
	case CL_INVALID_KERNEL_ARGS: return "CL_INVALID_KERNEL_ARGS";
	case CL_INVALID_WORK_DIMENSION: return "CL_INVALID_WORK_DIMENSION";
	case CL_INVALID_WORK_GROUP_SIZE: return "CL_INVALID_WORK_GROUP_SIZE";
	case CL_INVALID_WORK_ITEM_SIZE: return "CL_INVALID_WORK_ITEM_SIZE";
	case CL_INVALID_GLOBAL_OFFSET: return "CL_INVALID_GLOBAL_OFFSET";
	case CL_INVALID_EVENT_WAIT_LIST: return "CL_INVALID_EVENT_WAIT_LIST";
	case CL_INVALID_EVENT: return "CL_INVALID_EVENT";
	case CL_INVALID_OPERATION: return "CL_INVALID_OPERATION";
	case CL_INVALID_BUFFER_SIZE: return "CL_INVALID_BUFFER_SIZE";
	default: return "CL_UNKNOWN_ERROR";
	}
}

static cl_command_queue clbench_create_queue(cl_context ctx, cl_device_id device, cl_int *status) {
	return clCreateCommandQueue(ctx, device, 0, status);
}

static cl_program clbench_create_program(cl_context ctx, const char *src, size_t len, cl_int *status) {
	return clCreateProgramWithSource(ctx, 1, &src, &len, status);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"
	"unsafe"
)

type openCLDriver struct{}

// NewOpenCLDriver returns a driver backed by the system OpenCL runtime.
func NewOpenCLDriver() (Driver, error) {
	var count C.cl_uint
	// CL_PLATFORM_NOT_FOUND_KHR (-1001) from the ICD loader means no
	// platforms; that is reported through Platforms, not here.
	if status := C.clGetPlatformIDs(0, nil, &count); status != C.CL_SUCCESS && status != -1001 {
		return nil, statusError("clGetPlatformIDs(count)", status)
	}
	return &openCLDriver{}, nil
}

func (d *openCLDriver) Name() string { return string(BackendOpenCL) }

func (d *openCLDriver) Close() error { return nil }

func (d *openCLDriver) Platforms() ([]Platform, error) {
	var count C.cl_uint
	status := C.clGetPlatformIDs(0, nil, &count)
	if status == -1001 || (status == C.CL_SUCCESS && count == 0) {
		return nil, nil
	}
	if status != C.CL_SUCCESS {
		return nil, statusError("clGetPlatformIDs(count)", status)
	}

	ids := make([]C.cl_platform_id, int(count))
	if status := C.clGetPlatformIDs(count, &ids[0], nil); status != C.CL_SUCCESS {
		return nil, statusError("clGetPlatformIDs(list)", status)
	}

	out := make([]Platform, 0, len(ids))
	for _, id := range ids {
		name, err := getPlatformString(id, C.CL_PLATFORM_NAME)
		if err != nil {
			return nil, err
		}
		vendor, err := getPlatformString(id, C.CL_PLATFORM_VENDOR)
		if err != nil {
			return nil, err
		}
		version, err := getPlatformString(id, C.CL_PLATFORM_VERSION)
		if err != nil {
			return nil, err
		}
		out = append(out, &clPlatform{
			id:   id,
			info: PlatformInfo{Name: name, Vendor: vendor, Version: version},
		})
	}
	return out, nil
}

type clPlatform struct {
	id   C.cl_platform_id
	info PlatformInfo
}

func (p *clPlatform) Info() PlatformInfo { return p.info }

func (p *clPlatform) Devices(filter DeviceFilter) ([]Device, error) {
	devType := C.cl_device_type(C.CL_DEVICE_TYPE_ALL)
	switch filter {
	case FilterCPU:
		devType = C.CL_DEVICE_TYPE_CPU
	case FilterGPU:
		devType = C.CL_DEVICE_TYPE_GPU
	}

	var count C.cl_uint
	status := C.clGetDeviceIDs(p.id, devType, 0, nil, &count)
	if status == C.CL_DEVICE_NOT_FOUND || (status == C.CL_SUCCESS && count == 0) {
		return nil, nil
	}
	if status != C.CL_SUCCESS {
		return nil, statusError("clGetDeviceIDs(count)", status)
	}

	ids := make([]C.cl_device_id, int(count))
	if status := C.clGetDeviceIDs(p.id, devType, count, &ids[0], nil); status != C.CL_SUCCESS {
		return nil, statusError("clGetDeviceIDs(list)", status)
	}

	out := make([]Device, 0, len(ids))
	for _, id := range ids {
		info, err := buildDeviceInfo(id)
		if err != nil {
			return nil, err
		}
		out = append(out, &clDevice{id: id, info: info})
	}
	return out, nil
}

type clDevice struct {
	id   C.cl_device_id
	info DeviceInfo
}

func (d *clDevice) Info() DeviceInfo { return d.info }

func (d *clDevice) NewContext() (Context, error) {
	var status C.cl_int
	ctx := C.clCreateContext(nil, 1, &d.id, nil, nil, &status)
	if status != C.CL_SUCCESS {
		return nil, statusError("clCreateContext", status)
	}

	queue := C.clbench_create_queue(ctx, d.id, &status)
	if status != C.CL_SUCCESS {
		C.clReleaseContext(ctx)
		return nil, statusError("clCreateCommandQueue", status)
	}

	return &clContext{device: d, context: ctx, queue: queue}, nil
}

type clContext struct {
	device  *clDevice
	context C.cl_context
	queue   C.cl_command_queue
}

func (c *clContext) Device() Device { return c.device }

func (c *clContext) BuildProgram(source string) (Program, error) {
	src := C.CString(source)
	defer C.free(unsafe.Pointer(src))

	var status C.cl_int
	program := C.clbench_create_program(c.context, src, C.size_t(len(source)), &status)
	if status != C.CL_SUCCESS {
		return nil, statusError("clCreateProgramWithSource", status)
	}

	p := &clProgram{context: c, program: program}
	status = C.clBuildProgram(program, 1, &c.device.id, nil, nil, nil)
	if status != C.CL_SUCCESS && status != C.CL_BUILD_PROGRAM_FAILURE {
		C.clReleaseProgram(program)
		return nil, statusError("clBuildProgram", status)
	}

	p.status = p.queryStatus()
	p.log = p.queryLog()
	return p, nil
}

func (c *clContext) CreateBuffer(flags MemFlags, size int, host unsafe.Pointer) (Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("create buffer of %d bytes: %w", size, ErrInvalidBufferSize)
	}
	if (flags.Has(MemUseHostPtr) || flags.Has(MemCopyHostPtr)) && host == nil {
		return nil, fmt.Errorf("create %s buffer: %w", flags, ErrInvalidHostPtr)
	}

	var clFlags C.cl_mem_flags
	switch {
	case flags.Has(MemReadOnly):
		clFlags |= C.CL_MEM_READ_ONLY
	case flags.Has(MemWriteOnly):
		clFlags |= C.CL_MEM_WRITE_ONLY
	default:
		clFlags |= C.CL_MEM_READ_WRITE
	}
	if flags.Has(MemUseHostPtr) {
		clFlags |= C.CL_MEM_USE_HOST_PTR
	}
	if flags.Has(MemCopyHostPtr) {
		clFlags |= C.CL_MEM_COPY_HOST_PTR
	}

	b := &clBuffer{flags: flags, size: size}
	if flags.Has(MemUseHostPtr) {
		// The runtime keeps the pointer past this call.
		b.pinner.Pin(host)
	}

	var status C.cl_int
	b.mem = C.clCreateBuffer(c.context, clFlags, C.size_t(size), host, &status)
	if status != C.CL_SUCCESS {
		b.pinner.Unpin()
		return nil, statusError("clCreateBuffer", status)
	}
	return b, nil
}

func (c *clContext) EnqueueKernel(k Kernel, global, local int) (Event, error) {
	ck, ok := k.(*clKernel)
	if !ok {
		return nil, fmt.Errorf("enqueue kernel: %w", ErrInvalidArgValue)
	}
	if global <= 0 || local <= 0 || global%local != 0 {
		return nil, fmt.Errorf("enqueue %s: local size %d for global size %d: %w", ck.name, local, global, ErrInvalidWorkGroupSize)
	}

	g := C.size_t(global)
	l := C.size_t(local)
	var ev C.cl_event
	status := C.clEnqueueNDRangeKernel(c.queue, ck.kernel, 1, nil, &g, &l, 0, nil, &ev)
	if status != C.CL_SUCCESS {
		return nil, statusError("clEnqueueNDRangeKernel", status)
	}
	C.clFlush(c.queue)
	return &clEvent{event: ev}, nil
}

func (c *clContext) ReadBuffer(b Buffer, dst unsafe.Pointer, size int) error {
	cb, ok := b.(*clBuffer)
	if !ok || cb.mem == nil {
		return fmt.Errorf("read buffer: %w", ErrInvalidMemObject)
	}
	if size < 0 || size > cb.size {
		return fmt.Errorf("read %d bytes from %d byte buffer: %w", size, cb.size, ErrInvalidBufferSize)
	}
	if size == 0 {
		return nil
	}
	status := C.clEnqueueReadBuffer(c.queue, cb.mem, C.CL_TRUE, 0, C.size_t(size), dst, 0, nil, nil)
	if status != C.CL_SUCCESS {
		return statusError("clEnqueueReadBuffer", status)
	}
	return nil
}

func (c *clContext) Release() error {
	if c.queue != nil {
		C.clFinish(c.queue)
		C.clReleaseCommandQueue(c.queue)
		c.queue = nil
	}
	if c.context != nil {
		C.clReleaseContext(c.context)
		c.context = nil
	}
	return nil
}

type clProgram struct {
	context *clContext
	program C.cl_program
	status  BuildStatus
	log     string
}

func (p *clProgram) Status() BuildStatus { return p.status }
func (p *clProgram) Log() string         { return p.log }

func (p *clProgram) queryStatus() BuildStatus {
	var raw C.cl_build_status
	status := C.clGetProgramBuildInfo(p.program, p.context.device.id, C.CL_PROGRAM_BUILD_STATUS,
		C.size_t(unsafe.Sizeof(raw)), unsafe.Pointer(&raw), nil)
	if status != C.CL_SUCCESS {
		return BuildError
	}
	switch raw {
	case C.CL_BUILD_SUCCESS:
		return BuildSuccess
	case C.CL_BUILD_IN_PROGRESS:
		return BuildInProgress
	case C.CL_BUILD_NONE:
		return BuildNone
	default:
		return BuildError
	}
}

func (p *clProgram) queryLog() string {
	var size C.size_t
	if status := C.clGetProgramBuildInfo(p.program, p.context.device.id, C.CL_PROGRAM_BUILD_LOG, 0, nil, &size); status != C.CL_SUCCESS || size == 0 {
		return ""
	}
	buf := make([]byte, int(size))
	if status := C.clGetProgramBuildInfo(p.program, p.context.device.id, C.CL_PROGRAM_BUILD_LOG, size, unsafe.Pointer(&buf[0]), nil); status != C.CL_SUCCESS {
		return ""
	}
	return strings.TrimSpace(trimNull(buf))
}

func (p *clProgram) KernelNames() []string {
	var size C.size_t
	if status := C.clGetProgramInfo(p.program, C.CL_PROGRAM_KERNEL_NAMES, 0, nil, &size); status != C.CL_SUCCESS || size == 0 {
		return nil
	}
	buf := make([]byte, int(size))
	if status := C.clGetProgramInfo(p.program, C.CL_PROGRAM_KERNEL_NAMES, size, unsafe.Pointer(&buf[0]), nil); status != C.CL_SUCCESS {
		return nil
	}
	names := strings.Split(trimNull(buf), ";")
	sort.Strings(names)
	return names
}

func (p *clProgram) Kernel(name string) (Kernel, error) {
	if p.status != BuildSuccess {
		return nil, fmt.Errorf("create kernel %q: %w", name, ErrProgramNotBuilt)
	}

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	var status C.cl_int
	kernel := C.clCreateKernel(p.program, cname, &status)
	if status == C.CL_INVALID_KERNEL_NAME {
		return nil, fmt.Errorf("create kernel %q: %w", name, ErrInvalidKernelName)
	}
	if status != C.CL_SUCCESS {
		return nil, statusError("clCreateKernel", status)
	}

	var numArgs C.cl_uint
	status = C.clGetKernelInfo(kernel, C.CL_KERNEL_NUM_ARGS, C.size_t(unsafe.Sizeof(numArgs)), unsafe.Pointer(&numArgs), nil)
	if status != C.CL_SUCCESS {
		C.clReleaseKernel(kernel)
		return nil, statusError("clGetKernelInfo(numArgs)", status)
	}

	return &clKernel{name: name, kernel: kernel, numArgs: int(numArgs)}, nil
}

func (p *clProgram) Release() error {
	if p.program != nil {
		C.clReleaseProgram(p.program)
		p.program = nil
	}
	return nil
}

type clKernel struct {
	name    string
	kernel  C.cl_kernel
	numArgs int
}

func (k *clKernel) Name() string { return k.name }
func (k *clKernel) NumArgs() int { return k.numArgs }

func (k *clKernel) SetArg(index int, value any) error {
	if index < 0 || index >= k.numArgs {
		return fmt.Errorf("%s: set arg %d of %d: %w", k.name, index, k.numArgs, ErrInvalidArgIndex)
	}

	var status C.cl_int
	switch v := value.(type) {
	case *clBuffer:
		status = C.clSetKernelArg(k.kernel, C.cl_uint(index), C.size_t(unsafe.Sizeof(v.mem)), unsafe.Pointer(&v.mem))
	case int32:
		cv := C.cl_int(v)
		status = C.clSetKernelArg(k.kernel, C.cl_uint(index), C.size_t(unsafe.Sizeof(cv)), unsafe.Pointer(&cv))
	case float32:
		cv := C.cl_float(v)
		status = C.clSetKernelArg(k.kernel, C.cl_uint(index), C.size_t(unsafe.Sizeof(cv)), unsafe.Pointer(&cv))
	default:
		return fmt.Errorf("%s: arg %d has unsupported type %T: %w", k.name, index, value, ErrInvalidArgValue)
	}

	switch status {
	case C.CL_SUCCESS:
		return nil
	case C.CL_INVALID_ARG_VALUE, C.CL_INVALID_ARG_SIZE, C.CL_INVALID_MEM_OBJECT:
		return fmt.Errorf("%s: arg %d: %w: %v", k.name, index, ErrInvalidArgValue, statusError("clSetKernelArg", status))
	default:
		return statusError("clSetKernelArg", status)
	}
}

func (k *clKernel) Release() error {
	if k.kernel != nil {
		C.clReleaseKernel(k.kernel)
		k.kernel = nil
	}
	return nil
}

type clBuffer struct {
	mem    C.cl_mem
	flags  MemFlags
	size   int
	pinner runtime.Pinner
}

func (b *clBuffer) Size() int       { return b.size }
func (b *clBuffer) Flags() MemFlags { return b.flags }

func (b *clBuffer) Release() error {
	if b.mem == nil {
		return fmt.Errorf("release buffer: %w", ErrInvalidMemObject)
	}
	status := C.clReleaseMemObject(b.mem)
	b.mem = nil
	b.pinner.Unpin()
	if status != C.CL_SUCCESS {
		return statusError("clReleaseMemObject", status)
	}
	return nil
}

type clEvent struct {
	once  sync.Once
	event C.cl_event
	err   error
}

func (e *clEvent) Wait() error {
	e.once.Do(func() {
		defer C.clReleaseEvent(e.event)
		if status := C.clWaitForEvents(1, &e.event); status != C.CL_SUCCESS {
			e.err = statusError("clWaitForEvents", status)
			return
		}
		var exec C.cl_int
		status := C.clGetEventInfo(e.event, C.CL_EVENT_COMMAND_EXECUTION_STATUS, C.size_t(unsafe.Sizeof(exec)), unsafe.Pointer(&exec), nil)
		if status == C.CL_SUCCESS && exec < 0 {
			e.err = fmt.Errorf("%w: %v", ErrKernelFault, statusError("kernel", exec))
		}
	})
	return e.err
}

func buildDeviceInfo(id C.cl_device_id) (DeviceInfo, error) {
	name, err := getDeviceString(id, C.CL_DEVICE_NAME)
	if err != nil {
		return DeviceInfo{}, err
	}
	vendor, err := getDeviceString(id, C.CL_DEVICE_VENDOR)
	if err != nil {
		return DeviceInfo{}, err
	}
	version, err := getDeviceString(id, C.CL_DEVICE_VERSION)
	if err != nil {
		return DeviceInfo{}, err
	}
	driverVersion, err := getDeviceString(id, C.CL_DRIVER_VERSION)
	if err != nil {
		return DeviceInfo{}, err
	}

	var rawType C.cl_device_type
	if err := getDeviceValue(id, C.CL_DEVICE_TYPE, unsafe.Pointer(&rawType), unsafe.Sizeof(rawType)); err != nil {
		return DeviceInfo{}, err
	}
	var computeUnits C.cl_uint
	if err := getDeviceValue(id, C.CL_DEVICE_MAX_COMPUTE_UNITS, unsafe.Pointer(&computeUnits), unsafe.Sizeof(computeUnits)); err != nil {
		return DeviceInfo{}, err
	}
	var groupSize C.size_t
	if err := getDeviceValue(id, C.CL_DEVICE_MAX_WORK_GROUP_SIZE, unsafe.Pointer(&groupSize), unsafe.Sizeof(groupSize)); err != nil {
		return DeviceInfo{}, err
	}
	var dims C.cl_uint
	if err := getDeviceValue(id, C.CL_DEVICE_MAX_WORK_ITEM_DIMENSIONS, unsafe.Pointer(&dims), unsafe.Sizeof(dims)); err != nil {
		return DeviceInfo{}, err
	}
	itemSizes := make([]C.size_t, int(dims))
	if dims > 0 {
		if err := getDeviceValue(id, C.CL_DEVICE_MAX_WORK_ITEM_SIZES, unsafe.Pointer(&itemSizes[0]), uintptr(dims)*unsafe.Sizeof(itemSizes[0])); err != nil {
			return DeviceInfo{}, err
		}
	}
	var globalMem, localMem C.cl_ulong
	if err := getDeviceValue(id, C.CL_DEVICE_GLOBAL_MEM_SIZE, unsafe.Pointer(&globalMem), unsafe.Sizeof(globalMem)); err != nil {
		return DeviceInfo{}, err
	}
	if err := getDeviceValue(id, C.CL_DEVICE_LOCAL_MEM_SIZE, unsafe.Pointer(&localMem), unsafe.Sizeof(localMem)); err != nil {
		return DeviceInfo{}, err
	}

	sizes := make([]int, len(itemSizes))
	for i, s := range itemSizes {
		sizes[i] = int(s)
	}

	return DeviceInfo{
		Name:             name,
		Vendor:           vendor,
		Version:          version,
		DriverVersion:    driverVersion,
		Type:             mapDeviceType(rawType),
		MaxWorkItemSizes: sizes,
		MaxWorkGroupSize: int(groupSize),
		MaxComputeUnits:  uint32(computeUnits),
		GlobalMemSize:    uint64(globalMem),
		LocalMemSize:     uint64(localMem),
		Backend:          BackendOpenCL,
	}, nil
}

func getDeviceValue(id C.cl_device_id, param C.cl_device_info, dst unsafe.Pointer, size uintptr) error {
	status := C.clGetDeviceInfo(id, param, C.size_t(size), dst, nil)
	if status != C.CL_SUCCESS {
		return statusError(fmt.Sprintf("clGetDeviceInfo(%d)", int(param)), status)
	}
	return nil
}

func getPlatformString(id C.cl_platform_id, param C.cl_platform_info) (string, error) {
	var size C.size_t
	status := C.clGetPlatformInfo(id, param, 0, nil, &size)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetPlatformInfo(size)", status)
	}
	if size == 0 {
		return "", nil
	}

	buf := make([]byte, int(size))
	status = C.clGetPlatformInfo(id, param, size, unsafe.Pointer(&buf[0]), nil)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetPlatformInfo(value)", status)
	}
	return trimNull(buf), nil
}

func getDeviceString(id C.cl_device_id, param C.cl_device_info) (string, error) {
	var size C.size_t
	status := C.clGetDeviceInfo(id, param, 0, nil, &size)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetDeviceInfo(size)", status)
	}
	if size == 0 {
		return "", nil
	}

	buf := make([]byte, int(size))
	status = C.clGetDeviceInfo(id, param, size, unsafe.Pointer(&buf[0]), nil)
	if status != C.CL_SUCCESS {
		return "", statusError("clGetDeviceInfo(value)", status)
	}
	return trimNull(buf), nil
}

func trimNull(buf []byte) string {
	if len(buf) == 0 {
		return ""
	}
	if buf[len(buf)-1] == 0 {
		buf = buf[:len(buf)-1]
	}
	return string(buf)
}

func mapDeviceType(dt C.cl_device_type) DeviceType {
	switch {
	case dt&C.CL_DEVICE_TYPE_GPU != 0:
		return DeviceTypeGPU
	case dt&C.CL_DEVICE_TYPE_CPU != 0:
		return DeviceTypeCPU
	case dt&C.CL_DEVICE_TYPE_ACCELERATOR != 0:
		return DeviceTypeAccelerator
	case dt&C.CL_DEVICE_TYPE_DEFAULT != 0:
		return DeviceTypeDefault
	default:
		return DeviceTypeUnknown
	}
}

// ErrOpenCL wraps every status code returned by the OpenCL runtime.
var ErrOpenCL = errors.New("opencl")

func statusError(prefix string, status C.cl_int) error {
	return fmt.Errorf("%w: %s: %s (%d)", ErrOpenCL, prefix, C.GoString(C.clbench_cl_error_string(status)), int(status))
}
