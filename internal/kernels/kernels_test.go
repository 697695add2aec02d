package kernels

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
	}{
		{"", VariantInt},
		{"int", VariantInt},
		{" INT32 ", VariantInt},
		{"float", VariantFloat},
		{"Float32", VariantFloat},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		if err != nil {
			t.Fatalf("ParseVariant(%q) failed: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseVariant(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	if _, err := ParseVariant("double"); !errors.Is(err, ErrUnknownVariant) {
		t.Errorf("ParseVariant(double) error = %v, want ErrUnknownVariant", err)
	}
}

func TestSourcesDeclareEntryPoint(t *testing.T) {
	for _, v := range Variants() {
		src, err := Source(v)
		if err != nil {
			t.Fatalf("Source(%s) failed: %v", v, err)
		}
		if !strings.Contains(src, "__kernel void "+EntryPoint+"(") {
			t.Errorf("source of %s does not declare %s:\n%s", v, EntryPoint, src)
		}
	}
}

func TestSequenceInputsSumToN(t *testing.T) {
	const n = 8
	a, b := SequenceInputs(n)
	if len(a) != n || len(b) != n {
		t.Fatalf("lengths = %d,%d, want %d", len(a), len(b), n)
	}
	wantB := []int32{8, 7, 6, 5, 4, 3, 2, 1}
	for i := range a {
		if a[i] != int32(i) {
			t.Errorf("a[%d] = %d, want %d", i, a[i], i)
		}
		if b[i] != wantB[i] {
			t.Errorf("b[%d] = %d, want %d", i, b[i], wantB[i])
		}
		if got := AddInt32(a[i], b[i]); got != n {
			t.Errorf("a[%d]+b[%d] = %d, want %d", i, i, got, n)
		}
	}
}

func TestScaledProduct(t *testing.T) {
	op := ScaledProduct(2)
	x := []float32{1, 2, 3, 4}
	y := []float32{1, 1, 1, 1}
	want := []float32{3, 6, 9, 12}
	for i := range x {
		if got := op(x[i], y[i]); got != want[i] {
			t.Errorf("op(%v, %v) = %v, want %v", x[i], y[i], got, want[i])
		}
	}
}

func TestRampInputsRange(t *testing.T) {
	x, y := RampInputs(2500)
	for i := range x {
		if x[i] < 0 || x[i] >= 1 || y[i] < 0 || y[i] >= 1 {
			t.Fatalf("inputs out of [0,1) at %d: x=%v y=%v", i, x[i], y[i])
		}
	}
	if math.Abs(float64(x[1])-0.001) > 1e-6 {
		t.Errorf("x[1] = %v, want 0.001", x[1])
	}
}

func TestHostKernelsBind(t *testing.T) {
	hk := HostKernels()
	if len(hk) != 2 {
		t.Fatalf("HostKernels() returned %d kernels, want 2", len(hk))
	}
	for _, k := range hk {
		if k.Name != EntryPoint {
			t.Errorf("kernel name = %q, want %q", k.Name, EntryPoint)
		}
	}
}
