// internal/domain/money.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"walpay-wallet/internal/util"
)

// MinorUnitExponent is the number of decimal places between rupees and paisa.
const MinorUnitExponent = 2

var maxMinorUnits = decimal.NewFromInt(1 << 53)

// ToMinorUnits converts a major-unit amount (e.g. "500.25" rupees) into paisa.
// Amounts with more precision than one paisa are rejected rather than rounded.
func ToMinorUnits(major decimal.Decimal) (int64, error) {
	minor := major.Shift(MinorUnitExponent)
	if !minor.IsInteger() {
		return 0, fmt.Errorf("%w: amount %s has more than %d decimal places", util.ErrInvalidAmount, major.String(), MinorUnitExponent)
	}
	if minor.Abs().GreaterThan(maxMinorUnits) {
		return 0, fmt.Errorf("%w: amount %s is out of range", util.ErrInvalidAmount, major.String())
	}
	return minor.IntPart(), nil
}

// FromMinorUnits converts paisa into a major-unit decimal.
func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}

// FormatMinorUnits renders paisa as a fixed two-decimal rupee string.
func FormatMinorUnits(minor int64) string {
	return FromMinorUnits(minor).StringFixed(MinorUnitExponent)
}
