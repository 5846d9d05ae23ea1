package solver

import "gonum.org/v1/gonum/stat"

// BalanceScore measures how evenly load is spread across teachers as the
// population standard deviation of per-teacher weekly hours. Zero means a
// perfectly even spread. Reported through metrics after each pass.
func BalanceScore(loads map[string]float64) float64 {
	if len(loads) == 0 {
		return 0
	}
	xs := make([]float64, 0, len(loads))
	for _, l := range loads {
		xs = append(xs, l)
	}
	return stat.PopStdDev(xs, nil)
}
