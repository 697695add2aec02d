package bench

import (
	"testing"

	"github.com/cwbudde/clbench/internal/kernels"
)

func BenchmarkExecutors(b *testing.B) {
	const n = 1 << 16
	x, y := kernels.SequenceInputs(n)
	ctx, program, info := openHost(b, kernels.HostKernels(), mustSource(b, kernels.VariantInt))

	b.Run("Sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			RunSequential(x, y, kernels.AddInt32, nil)
		}
	})

	b.Run("Parallel", func(b *testing.B) {
		params := ParallelParams[int32]{
			Context:   ctx,
			Program:   program,
			Device:    info,
			Entry:     kernels.EntryPoint,
			A:         x,
			B:         y,
			GroupSize: 64,
		}
		for i := 0; i < b.N; i++ {
			if _, err := RunParallel(params); err != nil {
				b.Fatal(err)
			}
		}
	})
}
