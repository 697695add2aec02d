//go:build !gpu

package accel

import "errors"

// ErrNotBuilt indicates the binary was built without OpenCL support.
var ErrNotBuilt = errors.New("opencl support requires building with '-tags gpu'")

// NewOpenCLDriver returns an error when OpenCL support is not compiled in.
func NewOpenCLDriver() (Driver, error) {
	return nil, ErrNotBuilt
}
