package accel

import (
	"fmt"
	"strings"
)

// DeviceType describes the class of a compute device.
type DeviceType string

const (
	DeviceTypeGPU         DeviceType = "GPU"
	DeviceTypeCPU         DeviceType = "CPU"
	DeviceTypeAccelerator DeviceType = "Accelerator"
	DeviceTypeDefault     DeviceType = "Default"
	DeviceTypeUnknown     DeviceType = "Unknown"
)

// DeviceFilter selects which device classes a platform enumerates.
type DeviceFilter string

const (
	FilterAll DeviceFilter = "ALL"
	FilterCPU DeviceFilter = "CPU"
	FilterGPU DeviceFilter = "GPU"
)

// ParseDeviceFilter maps user input to a filter. The empty string means ALL.
func ParseDeviceFilter(s string) (DeviceFilter, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "ALL":
		return FilterAll, nil
	case "CPU":
		return FilterCPU, nil
	case "GPU":
		return FilterGPU, nil
	default:
		return "", fmt.Errorf("unknown device filter %q (want ALL, CPU or GPU)", s)
	}
}

// Matches reports whether a device of type t passes the filter.
func (f DeviceFilter) Matches(t DeviceType) bool {
	switch f {
	case FilterCPU:
		return t == DeviceTypeCPU
	case FilterGPU:
		return t == DeviceTypeGPU
	default:
		return true
	}
}

// DeviceInfo captures the capability metadata of a compute device.
type DeviceInfo struct {
	Name             string
	Vendor           string
	Version          string
	DriverVersion    string
	Type             DeviceType
	MaxWorkItemSizes []int
	MaxWorkGroupSize int
	MaxComputeUnits  uint32
	GlobalMemSize    uint64
	LocalMemSize     uint64

	// Backend is the driver that enumerated the device.
	Backend Backend
}

// LocalMemPerComputeUnit splits the device's local memory evenly across its
// compute units.
func (d DeviceInfo) LocalMemPerComputeUnit() uint64 {
	if d.MaxComputeUnits == 0 {
		return 0
	}
	return d.LocalMemSize / uint64(d.MaxComputeUnits)
}

// PlatformInfo captures metadata about a platform.
type PlatformInfo struct {
	Name    string
	Vendor  string
	Version string
}

// MemFlags declares how a buffer is accessed and where its storage lives.
type MemFlags uint

const (
	MemReadWrite MemFlags = 1 << iota
	MemWriteOnly
	MemReadOnly
	MemUseHostPtr
	MemCopyHostPtr
)

// Has reports whether all bits of other are set.
func (f MemFlags) Has(other MemFlags) bool {
	return f&other == other
}

func (f MemFlags) String() string {
	var parts []string
	names := []struct {
		flag MemFlags
		name string
	}{
		{MemReadWrite, "READ_WRITE"},
		{MemWriteOnly, "WRITE_ONLY"},
		{MemReadOnly, "READ_ONLY"},
		{MemUseHostPtr, "USE_HOST_PTR"},
		{MemCopyHostPtr, "COPY_HOST_PTR"},
	}
	for _, n := range names {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// BuildStatus is the compiler-reported state of a program.
type BuildStatus int

const (
	BuildNone BuildStatus = iota
	BuildSuccess
	BuildError
	BuildInProgress
)

func (s BuildStatus) String() string {
	switch s {
	case BuildSuccess:
		return "BUILD_SUCCESS"
	case BuildError:
		return "BUILD_ERROR"
	case BuildInProgress:
		return "BUILD_IN_PROGRESS"
	default:
		return "BUILD_NONE"
	}
}

// ParamKind classifies one kernel parameter.
type ParamKind string

const (
	ParamInt         ParamKind = "int"
	ParamFloat       ParamKind = "float"
	ParamIntBuffer   ParamKind = "int*"
	ParamFloatBuffer ParamKind = "float*"
)

// IsBuffer reports whether the parameter takes a memory object.
func (k ParamKind) IsBuffer() bool {
	return k == ParamIntBuffer || k == ParamFloatBuffer
}

// Signature renders a parameter list the way build logs print it.
func Signature(params []ParamKind) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = string(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
