package accel

import "unsafe"

// HostArg is one bound kernel argument as a host kernel sees it. Exactly one
// of Scalar or Mem is set.
type HostArg struct {
	Scalar any
	Mem    []byte
}

// HostKernel is the Go rendition of a device kernel. The host driver links a
// __kernel function in the source to the HostKernel with the same name and
// parameter list.
type HostKernel struct {
	Name   string
	Params []ParamKind

	// Source is the device source Bind renders. When set, a declaration links
	// only if its body matches the body in Source, ignoring comments and
	// whitespace. When empty, name and parameters alone decide.
	Source string

	// Bind resolves the arguments once per dispatch and returns the body
	// executed for each global work-item id.
	Bind func(args []HostArg) func(gid int)
}

// Signature returns the kernel's parameter list rendered for build logs.
func (k HostKernel) Signature() string {
	return k.Name + Signature(k.Params)
}

// View reinterprets device memory as a slice of T.
func View[T int32 | float32](mem []byte) []T {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if len(mem) < size {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&mem[0])), len(mem)/size)
}
