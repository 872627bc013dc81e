package analytics

// crostonRate estimates intermittent demand as average non-zero demand times
// the frequency of sale days (Croston-style flat rate).
func crostonRate(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	nz := nonZero(xs)
	if len(nz) == 0 {
		return 0
	}
	frequency := float64(len(nz)) / float64(len(xs))
	return mean(nz) * frequency
}

// isSparse reports whether a series should route to the intermittent-demand
// model: more than half the days are zero-quantity, or the non-zero days are
// extremely volatile.
func isSparse(xs []float64) bool {
	if len(xs) == 0 {
		return false
	}
	zeros := 0
	for _, x := range xs {
		if x == 0 {
			zeros++
		}
	}
	if float64(zeros)/float64(len(xs)) > 0.5 {
		return true
	}
	return coefficientOfVariation(nonZero(xs)) > 1.5
}
