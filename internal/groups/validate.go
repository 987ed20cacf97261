// Package groups holds the pure business rules for investing groups:
// position validation, invite-code generation, and the daily-gain
// computation. Everything here is side-effect free except the invite-code
// existence probe, which is injected by the caller.
package groups

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lironhefcode/stock-market/internal/domain"
)

var (
	// ErrEmptyPositions is returned when a submitted position list is empty.
	ErrEmptyPositions = errors.New("at least one stock position is required")

	// ErrMissingSymbol is returned when a position's symbol is empty after
	// trimming.
	ErrMissingSymbol = errors.New("stock symbol is required for all positions")
)

// InvalidAmountError reports a non-finite or non-positive invested amount
// for a specific symbol.
type InvalidAmountError struct {
	Symbol string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount invested for %s: must be a positive number", e.Symbol)
}

// DuplicateSymbolError reports a symbol appearing more than once in a
// position list.
type DuplicateSymbolError struct {
	Symbol string
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("duplicate symbol %s", e.Symbol)
}

// PositionInput is a raw symbol/amount pair as submitted by a client, before
// normalisation.
type PositionInput struct {
	Symbol         string  `json:"symbol"`
	AmountInvested float64 `json:"amountInvested"`
}

// ValidatePositions normalises and validates a submitted position list.
// Symbols are trimmed and upper-cased; amounts must be finite and positive
// and are rounded half-up to exactly 2 decimal places.
//
// Duplicate symbols are deliberately NOT rejected here so the same validator
// serves both whole-list replacement and single-position appends; callers
// that need symbol uniqueness use RequireUniqueSymbols.
func ValidatePositions(in []PositionInput) ([]domain.Position, error) {
	if len(in) == 0 {
		return nil, ErrEmptyPositions
	}

	out := make([]domain.Position, 0, len(in))
	for _, p := range in {
		symbol := strings.ToUpper(strings.TrimSpace(p.Symbol))
		if symbol == "" {
			return nil, ErrMissingSymbol
		}

		amount := p.AmountInvested
		if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
			return nil, &InvalidAmountError{Symbol: symbol}
		}

		rounded, _ := decimal.NewFromFloat(amount).Round(2).Float64()
		out = append(out, domain.Position{
			Symbol:         symbol,
			AmountInvested: rounded,
		})
	}

	return out, nil
}

// RequireUniqueSymbols returns a DuplicateSymbolError if any symbol appears
// more than once. Positions are expected to be already normalised.
func RequireUniqueSymbols(positions []domain.Position) error {
	seen := make(map[string]bool, len(positions))
	for _, p := range positions {
		if seen[p.Symbol] {
			return &DuplicateSymbolError{Symbol: p.Symbol}
		}
		seen[p.Symbol] = true
	}
	return nil
}
