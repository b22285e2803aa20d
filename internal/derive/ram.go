/*
PURPOSE:
  RAM statistics of one run.

REQUIREMENTS:
  User-specified:
  - Median and mean over samples >= ratio * max, all samples if none qualify.
  - Sample standard deviation over all samples.

ARCHITECTURE INTEGRATION:
  - Called by: internal/derive/flatten.go

ERROR HANDLING:
  - Fewer than two samples returns ErrTooFewSamples.

IMPLEMENTATION RULES:
  - Never reorder the caller's samples.

USAGE:
  st, err := derive.RAM(samples, 0.7)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/model/types.go (RAMStats)

MAINTENANCE:
  - None.
*/

package derive

import (
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/daryltucker/forest-bench/internal/model"
)

// ErrTooFewSamples is returned when a run has fewer than two RAM samples,
// for which the sample standard deviation is undefined.
var ErrTooFewSamples = errors.New("need at least 2 ram samples")

// RAM derives the memory statistics of one run.
//
// Median and mean are taken over the samples at or above ratio*max (the
// steady state once the model is loaded); if none qualify, all samples are
// used. The standard deviation is always over all samples.
func RAM(samples []float64, ratio float64) (model.RAMStats, error) {
	if len(samples) < 2 {
		return model.RAMStats{}, fmt.Errorf("%w, got %d", ErrTooFewSamples, len(samples))
	}

	all := stats.Float64Data(samples)
	hi, err := stats.Max(all)
	if err != nil {
		return model.RAMStats{}, err
	}
	lo, err := stats.Min(all)
	if err != nil {
		return model.RAMStats{}, err
	}

	filtered := FilterRAM(samples, ratio*hi)
	median, err := stats.Median(filtered)
	if err != nil {
		return model.RAMStats{}, err
	}
	avg, err := stats.Mean(filtered)
	if err != nil {
		return model.RAMStats{}, err
	}
	std, err := stats.StandardDeviationSample(all)
	if err != nil {
		return model.RAMStats{}, err
	}

	return model.RAMStats{Max: hi, Min: lo, Median: median, Avg: avg, Std: std}, nil
}

// FilterRAM keeps the samples >= threshold, or all samples when none are.
func FilterRAM(samples []float64, threshold float64) []float64 {
	var kept []float64
	for _, v := range samples {
		if v >= threshold {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		return samples
	}
	return kept
}
