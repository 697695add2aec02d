package bench

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/clbench/internal/kernels"
)

func TestVerifyExactConstant(t *testing.T) {
	tests := []struct {
		name      string
		candidate []int32
		wantErr   error
		wantIndex int
	}{
		{name: "all equal", candidate: []int32{4, 4, 4, 4}},
		{name: "short", candidate: []int32{4, 4, 4}, wantErr: ErrLengthMismatch},
		{name: "long", candidate: []int32{4, 4, 4, 4, 4}, wantErr: ErrLengthMismatch},
		{name: "first mismatch wins", candidate: []int32{4, 3, 5, 4}, wantErr: ErrValueMismatch, wantIndex: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Verify(tt.candidate, ExactConstant[int32](4, 4))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, VerificationError, ClassOf(err))

			var mismatch *MismatchError
			if errors.As(err, &mismatch) {
				assert.Equal(t, tt.wantIndex, mismatch.Index)
			}
		})
	}
}

func TestVerifyLengthMessage(t *testing.T) {
	err := Verify([]int32{1, 2}, ExactConstant[int32](3, 1))
	assert.Contains(t, err.Error(), "vector size should equal 3 but it's 2")
}

func TestVerifyRecomputedTolerance(t *testing.T) {
	x := []float32{1, 2, 3, 4}
	y := []float32{1, 1, 1, 1}
	exp := Recomputed(x, y, kernels.ScaledProduct(2), FloatTolerance)

	assert.NoError(t, Verify([]float32{3, 6, 9, 12}, exp))
	assert.NoError(t, Verify([]float32{3.005, 6, 9, 11.995}, exp))

	err := Verify([]float32{3, 6, 9.5, 12}, exp)
	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, 2, mismatch.Index)
	assert.Equal(t, "9", mismatch.Expected)
	assert.Equal(t, "9.5", mismatch.Actual)
}

func TestVerifyRecomputedExact(t *testing.T) {
	a, b := kernels.SequenceInputs(16)
	exp := Recomputed(a, b, kernels.AddInt32, 0)
	got, _ := RunSequential(a, b, kernels.AddInt32, nil)
	assert.NoError(t, Verify(got, exp))

	got[15]++
	assert.ErrorIs(t, Verify(got, exp), ErrValueMismatch)
}

func TestVerifyMatches(t *testing.T) {
	ref := []float32{0.5, 1.5}
	assert.NoError(t, Verify([]float32{0.501, 1.499}, Matches(ref, FloatTolerance)))
	assert.ErrorIs(t, Verify([]float32{0.5}, Matches(ref, FloatTolerance)), ErrLengthMismatch)
	assert.ErrorIs(t, Verify([]float32{0.5, 1.6}, Matches(ref, FloatTolerance)), ErrValueMismatch)
}

func TestVerifyEmpty(t *testing.T) {
	assert.NoError(t, Verify([]int32{}, ExactConstant[int32](0, 7)))
}
