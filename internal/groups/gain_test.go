package groups

import (
	"math"
	"testing"

	"github.com/lironhefcode/stock-market/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeTodayGain(t *testing.T) {
	tests := []struct {
		name      string
		positions []domain.Position
		changes   map[string]float64
		want      float64
	}{
		{
			name: "weighted average of two positions",
			positions: []domain.Position{
				{Symbol: "AAPL", AmountInvested: 600},
				{Symbol: "MSFT", AmountInvested: 400},
			},
			changes: map[string]float64{"AAPL": 10, "MSFT": -5},
			// 0.6*10% + 0.4*(-5%) = 4%
			want: 4.0,
		},
		{
			name: "missing symbol contributes zero",
			positions: []domain.Position{
				{Symbol: "AAPL", AmountInvested: 500},
				{Symbol: "GME", AmountInvested: 500},
			},
			changes: map[string]float64{"AAPL": 8},
			want:    4.0,
		},
		{
			name: "single position tracks its change exactly",
			positions: []domain.Position{
				{Symbol: "TSLA", AmountInvested: 1234.56},
			},
			changes: map[string]float64{"TSLA": -3.21},
			want:    -3.21,
		},
		{
			name:      "no positions",
			positions: nil,
			changes:   map[string]float64{"AAPL": 10},
			want:      0,
		},
		{
			name: "empty changes map",
			positions: []domain.Position{
				{Symbol: "AAPL", AmountInvested: 100},
			},
			changes: map[string]float64{},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := TotalInvested(tt.positions)
			got := ComputeTodayGain(tt.positions, total, tt.changes)
			if !almostEqual(got, tt.want) {
				t.Errorf("ComputeTodayGain() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeTodayGainZeroInvested(t *testing.T) {
	positions := []domain.Position{{Symbol: "AAPL", AmountInvested: 100}}
	if got := ComputeTodayGain(positions, 0, map[string]float64{"AAPL": 10}); got != 0 {
		t.Errorf("ComputeTodayGain() with zero total = %v, want 0", got)
	}
	if got := ComputeTodayGain(positions, -1, map[string]float64{"AAPL": 10}); got != 0 {
		t.Errorf("ComputeTodayGain() with negative total = %v, want 0", got)
	}
}

func TestTotalInvested(t *testing.T) {
	positions := []domain.Position{
		{Symbol: "AAPL", AmountInvested: 100.25},
		{Symbol: "MSFT", AmountInvested: 49.75},
	}
	if got := TotalInvested(positions); !almostEqual(got, 150) {
		t.Errorf("TotalInvested() = %v, want 150", got)
	}
	if got := TotalInvested(nil); got != 0 {
		t.Errorf("TotalInvested(nil) = %v, want 0", got)
	}
}
