package bench

import (
	"fmt"
	"time"

	"github.com/juju/clock"

	"github.com/cwbudde/clbench/internal/kernels"
)

// RunSequential applies fn element by element in index order on the calling
// goroutine. It is the reference the parallel path is judged against.
func RunSequential[T kernels.Numeric](a, b []T, fn func(a, b T) T, clk clock.Clock) ([]T, time.Duration) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("bench: sequential operands differ in length: %d vs %d", len(a), len(b)))
	}
	if clk == nil {
		clk = clock.WallClock
	}

	result := make([]T, len(a))
	start := clk.Now()
	for i := range a {
		result[i] = fn(a[i], b[i])
	}
	return result, clk.Now().Sub(start)
}
