package analytics

import "math"

// holtSmoothing fits additive-trend exponential smoothing (Holt's linear
// method) with fixed smoothing constants, so identical input always produces
// identical output. Returns the final level and trend.
func holtSmoothing(xs []float64) (level, trend float64, ok bool) {
	if len(xs) < 2 {
		return 0, 0, false
	}
	const alpha, beta = 0.3, 0.1

	level = xs[0]
	trend = xs[1] - xs[0]
	for _, x := range xs[1:] {
		prevLevel := level
		level = alpha*x + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
	}
	if math.IsNaN(level) || math.IsInf(level, 0) || math.IsNaN(trend) || math.IsInf(trend, 0) {
		return 0, 0, false
	}
	return level, trend, true
}

// shortHistoryForecast projects the smoothed trend across the horizon. If the
// fit fails, it falls back to a 3-day moving average held flat.
func shortHistoryForecast(xs []float64, horizon int) []float64 {
	out := make([]float64, horizon)

	level, trend, ok := holtSmoothing(xs)
	if !ok {
		avg := movingAverage(xs, 3)
		for i := range out {
			out[i] = avg
		}
		return out
	}
	for i := range out {
		out[i] = math.Max(0, level+float64(i+1)*trend)
	}
	return out
}

// movingAverage averages the last window values (or all of them when the
// series is shorter than the window).
func movingAverage(xs []float64, window int) float64 {
	if len(xs) == 0 {
		return 0
	}
	if window > len(xs) {
		window = len(xs)
	}
	sum := 0.0
	for _, x := range xs[len(xs)-window:] {
		sum += x
	}
	return sum / float64(window)
}
