package report

import (
	"errors"
	"fmt"
	"math"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrNotEnoughData is returned when a chart has too few points to draw
var ErrNotEnoughData = errors.New("not enough data to draw chart")

// histogramBins is the bin count of the distribution charts
const histogramBins = 20

// upperRange returns a y range from zero to 10% above the largest value
func upperRange(values []float64) *chart.ContinuousRange {
	hi := 0.0
	for _, v := range values {
		if v > hi {
			hi = v
		}
	}
	if hi == 0 {
		hi = 1
	}
	return &chart.ContinuousRange{Min: 0, Max: hi * 1.1}
}

// histogram splits values into equal-width bins between their min and max
func histogram(values []float64, bins int) []chart.Value {
	if len(values) == 0 || bins <= 0 {
		return nil
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	width := (hi - lo) / float64(bins)
	if width == 0 {
		return []chart.Value{{Label: fmt.Sprintf("%.1f", lo), Value: float64(len(values))}}
	}

	counts := make([]int, bins)
	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		counts[idx]++
	}

	out := make([]chart.Value, bins)
	for i, n := range counts {
		out[i] = chart.Value{
			Label: fmt.Sprintf("%.0f", lo+width*float64(i)),
			Value: float64(n),
		}
	}
	return out
}
