package groups

import "github.com/lironhefcode/stock-market/internal/domain"

// TotalInvested sums the invested amounts of a position list.
func TotalInvested(positions []domain.Position) float64 {
	var total float64
	for _, p := range positions {
		total += p.AmountInvested
	}
	return total
}

// ComputeTodayGain returns a member's today's-gain percentage under the
// investment-weighted percent-change model: each position contributes its
// portfolio weight times its symbol's daily percent change.
//
// The system only knows dollars invested "now", not share counts or entry
// prices, so this is a deliberate approximation rather than a precise P&L
// figure. Symbols missing from changes contribute zero, so partial
// market-data outages degrade individual terms instead of failing the whole
// computation; this function never fails.
func ComputeTodayGain(positions []domain.Position, totalInvested float64, changes map[string]float64) float64 {
	if totalInvested <= 0 {
		return 0
	}

	var totalWeightedReturn float64
	for _, p := range positions {
		dp, ok := changes[p.Symbol]
		if !ok {
			continue
		}
		weight := p.AmountInvested / totalInvested
		totalWeightedReturn += weight * (dp / 100)
	}

	return totalWeightedReturn * 100
}
