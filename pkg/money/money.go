// Package money converts client-supplied amounts into integer smallest-unit
// values. All balances in the system are stored as int64 minor units.
package money

import (
	"fmt"

	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/shopspring/decimal"
)

const (
	// MaxEntryAmount is the largest amount a single income or expense may carry.
	MaxEntryAmount int64 = 100_000_000
	// MaxSafeInteger bounds stored totals so clients using IEEE doubles never lose precision.
	MaxSafeInteger int64 = 1<<53 - 1
)

var (
	ErrAmountNotInteger  = fmt.Errorf("%w: amount must be a whole number of units", domain.ErrValidation)
	ErrAmountNotPositive = fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	ErrAmountNegative    = fmt.Errorf("%w: amount cannot be negative", domain.ErrValidation)
	ErrAmountTooLarge    = fmt.Errorf("%w: amount exceeds the allowed maximum", domain.ErrValidation)
)

var (
	maxEntry = decimal.NewFromInt(MaxEntryAmount)
	maxSafe  = decimal.NewFromInt(MaxSafeInteger)
)

// ParseEntryAmount accepts only integral, positive amounts up to MaxEntryAmount.
func ParseEntryAmount(d decimal.Decimal) (int64, error) {
	if !d.IsInteger() {
		return 0, ErrAmountNotInteger
	}
	if !d.IsPositive() {
		return 0, ErrAmountNotPositive
	}
	if d.GreaterThan(maxEntry) {
		return 0, ErrAmountTooLarge
	}
	return d.IntPart(), nil
}

// CeilNonNegative rounds d up to whole units. Used for goal targets, which may be zero.
func CeilNonNegative(d decimal.Decimal) (int64, error) {
	if d.IsNegative() {
		return 0, ErrAmountNegative
	}
	c := d.Ceil()
	if c.GreaterThan(maxSafe) {
		return 0, ErrAmountTooLarge
	}
	return c.IntPart(), nil
}

// CeilPositive rounds d up to whole units and requires a positive result no
// larger than MaxEntryAmount. Used for reservation changes.
func CeilPositive(d decimal.Decimal) (int64, error) {
	if !d.IsPositive() {
		return 0, ErrAmountNotPositive
	}
	c := d.Ceil()
	if c.GreaterThan(maxEntry) {
		return 0, ErrAmountTooLarge
	}
	return c.IntPart(), nil
}
