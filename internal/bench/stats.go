package bench

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarises the elapsed times of repeated runs.
type Stats struct {
	Runs   int
	Mean   time.Duration
	StdDev time.Duration
	Min    time.Duration
	Max    time.Duration
}

// Summarize computes Stats over durations. StdDev is the sample standard
// deviation and is zero for fewer than two runs.
func Summarize(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	secs := make([]float64, len(durations))
	for i, d := range durations {
		secs[i] = d.Seconds()
	}

	mean, std := stat.MeanStdDev(secs, nil)
	if len(secs) < 2 {
		std = 0
	}
	return Stats{
		Runs:   len(secs),
		Mean:   seconds(mean),
		StdDev: seconds(std),
		Min:    seconds(floats.Min(secs)),
		Max:    seconds(floats.Max(secs)),
	}
}

func seconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
