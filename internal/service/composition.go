package service

import (
	"math"

	"github.com/aliskhannn/vocab-trainer-bot/internal/domain/entities"
)

// composeQuotas splits total across tables with the given capacities.
//
// The initial split follows the strategy. Tables that cannot fill their share
// leave a shortfall, which is handed out one word at a time in table order to
// tables that still have words left. The quotas never exceed a capacity and
// sum to min(total, sum of capacities) unless percentages add up to more than 100.
func composeQuotas(
	capacities []int,
	total int,
	strategy entities.CompositionStrategy,
	percentages []float64,
) []int {
	n := len(capacities)
	quotas := make([]int, n)
	if n == 0 || total <= 0 {
		return quotas
	}

	var share []int
	switch strategy {
	case entities.ComposePercentage:
		share = percentageShares(total, n, percentages)
	default:
		share = balancedShares(total, n)
	}

	taken := 0
	for i := range quotas {
		quotas[i] = min(share[i], capacities[i])
		taken += quotas[i]
	}

	shortfall := total - taken
	for shortfall > 0 {
		progressed := false
		for i := 0; i < n && shortfall > 0; i++ {
			if quotas[i] < capacities[i] {
				quotas[i]++
				shortfall--
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	return quotas
}

// balancedShares splits total evenly; the first total%n tables get one more.
func balancedShares(total, n int) []int {
	out := make([]int, n)
	base, rem := total/n, total%n
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// percentageShares gives every table but the last floor(total*p/100);
// the last table takes whatever remains.
func percentageShares(total, n int, percentages []float64) []int {
	out := make([]int, n)
	used := 0
	for i := 0; i < n-1; i++ {
		p := 0.0
		if i < len(percentages) {
			p = max(percentages[i], 0)
		}
		out[i] = int(math.Floor(float64(total) * p / 100))
		used += out[i]
	}
	out[n-1] = max(total-used, 0)
	return out
}
