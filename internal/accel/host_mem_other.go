//go:build !linux

package accel

// totalSystemMemory is unknown off Linux; the capability report prints 0.
func totalSystemMemory() uint64 {
	return 0
}
