// Package kernels holds the benchmark's elementwise kernels: the device source
// of each variant, the host formula it must agree with, and the Go rendition
// the host driver executes.
package kernels

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

// EntryPoint is the kernel function every variant defines.
const EntryPoint = "vadd"

// Numeric is the element type of a vector.
type Numeric interface {
	int32 | float32
}

// Variant names a kernel variant.
type Variant string

const (
	// VariantInt adds two int vectors.
	VariantInt Variant = "int"
	// VariantFloat computes coef*x + y*x over float vectors.
	VariantFloat Variant = "float"
)

// ErrUnknownVariant is returned when the name does not match a known variant.
var ErrUnknownVariant = errors.New("unknown kernel variant")

var (
	//go:embed vadd_int.cl
	intSource string
	//go:embed vadd_float.cl
	floatSource string
)

// ParseVariant maps user input to a variant; the empty string selects the
// int variant.
func ParseVariant(name string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "int", "int32":
		return VariantInt, nil
	case "float", "float32":
		return VariantFloat, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownVariant, name)
	}
}

// Variants returns every variant in a stable order.
func Variants() []Variant {
	return []Variant{VariantInt, VariantFloat}
}

// Source returns the embedded device source of a variant.
func Source(v Variant) (string, error) {
	switch v {
	case VariantInt:
		return intSource, nil
	case VariantFloat:
		return floatSource, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownVariant, v)
	}
}

// AddInt32 is the int variant's formula.
func AddInt32(a, b int32) int32 {
	return a + b
}

// ScaledProduct returns the float variant's formula, coef*x + y*x, with the
// same operand order as the device source. Each product is rounded to
// float32 before the sum so the compiler cannot fuse it into an FMA.
func ScaledProduct(coef float32) func(x, y float32) float32 {
	return func(x, y float32) float32 {
		return float32(coef*x) + float32(y*x)
	}
}

// SequenceInputs builds the int variant's operands, a[i] = i and
// b[i] = n - i, so that every sum equals n.
func SequenceInputs(n int) (a, b []int32) {
	a = make([]int32, n)
	b = make([]int32, n)
	for i := 0; i < n; i++ {
		a[i] = int32(i)
		b[i] = int32(n - i)
	}
	return a, b
}

// RampInputs builds the float variant's operands: two saw-tooth ramps in
// [0, 1) that stay small enough for float32 sums to be exact to well under
// the verification tolerance.
func RampInputs(n int) (x, y []float32) {
	x = make([]float32, n)
	y = make([]float32, n)
	for i := 0; i < n; i++ {
		x[i] = float32(i%1000) / 1000
		y[i] = float32((n-i)%1000) / 1000
	}
	return x, y
}
