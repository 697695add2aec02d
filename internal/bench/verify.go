package bench

import (
	"fmt"
	"math"

	"github.com/cwbudde/clbench/internal/kernels"
)

// Expectation is an expected-value source for verification.
type Expectation[T kernels.Numeric] interface {
	// Len is the expected vector length.
	Len() int
	// Check judges the element at index i.
	Check(i int, got T) (want T, ok bool)
}

// Verify checks candidate against exp element by element and fails on the
// first length or value mismatch.
func Verify[T kernels.Numeric](candidate []T, exp Expectation[T]) error {
	if len(candidate) != exp.Len() {
		return newError(VerificationError, "verify",
			fmt.Errorf("%w: vector size should equal %d but it's %d", ErrLengthMismatch, exp.Len(), len(candidate)))
	}
	for i, got := range candidate {
		if want, ok := exp.Check(i, got); !ok {
			return newError(VerificationError, "verify", &MismatchError{
				Index:    i,
				Expected: fmt.Sprint(want),
				Actual:   fmt.Sprint(got),
			})
		}
	}
	return nil
}

type exactConstant[T kernels.Numeric] struct {
	n     int
	value T
}

// ExactConstant expects n elements all equal to value.
func ExactConstant[T kernels.Numeric](n int, value T) Expectation[T] {
	return exactConstant[T]{n: n, value: value}
}

func (e exactConstant[T]) Len() int { return e.n }

func (e exactConstant[T]) Check(_ int, got T) (T, bool) {
	return e.value, got == e.value
}

type recomputed[T kernels.Numeric] struct {
	a, b      []T
	fn        func(a, b T) T
	tolerance float64
}

// Recomputed expects fn(a[i], b[i]) at every index, within an absolute
// tolerance. A zero tolerance demands exact equality.
func Recomputed[T kernels.Numeric](a, b []T, fn func(a, b T) T, tolerance float64) Expectation[T] {
	return recomputed[T]{a: a, b: b, fn: fn, tolerance: tolerance}
}

func (e recomputed[T]) Len() int { return len(e.a) }

func (e recomputed[T]) Check(i int, got T) (T, bool) {
	want := e.fn(e.a[i], e.b[i])
	return want, within(want, got, e.tolerance)
}

type matches[T kernels.Numeric] struct {
	reference []T
	tolerance float64
}

// Matches expects the reference vector, within an absolute tolerance.
func Matches[T kernels.Numeric](reference []T, tolerance float64) Expectation[T] {
	return matches[T]{reference: reference, tolerance: tolerance}
}

func (e matches[T]) Len() int { return len(e.reference) }

func (e matches[T]) Check(i int, got T) (T, bool) {
	want := e.reference[i]
	return want, within(want, got, e.tolerance)
}

func within[T kernels.Numeric](want, got T, tolerance float64) bool {
	if tolerance == 0 {
		return want == got
	}
	diff := math.Abs(float64(want) - float64(got))
	return diff <= tolerance
}
