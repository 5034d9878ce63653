package dataset

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// DepthStats summarizes the valid depth samples of loaded frames, in meters.
type DepthStats struct {
	Min    float64
	Median float64
	Max    float64
	// Valid counts samples with a nonzero depth out of Total.
	Valid int
	Total int
}

// SummarizeDepth computes DepthStats over every frame. Zero depth marks a missing measurement and
// is left out.
func SummarizeDepth(frames []*Frame) (DepthStats, error) {
	var out DepthStats
	var data stats.Float64Data
	for _, f := range frames {
		out.Total += len(f.Depth)
		for _, d := range f.Depth {
			if d > 0 {
				data = append(data, float64(d))
			}
		}
	}
	out.Valid = len(data)
	if out.Valid == 0 {
		return out, errors.Errorf("no valid depth in %d samples", out.Total)
	}

	var err error
	if out.Min, err = data.Min(); err != nil {
		return out, err
	}
	if out.Median, err = data.Median(); err != nil {
		return out, err
	}
	if out.Max, err = data.Max(); err != nil {
		return out, err
	}
	return out, nil
}
