package service

import (
	"github.com/bixmobil/vest/internal/constants"

	"github.com/shopspring/decimal"
)

// CalculateCommission returns the commission earned for printing cards
// of the given summed face value on a network. Unknown networks earn
// the default rate.
func CalculateCommission(totalValue decimal.Decimal, network string) decimal.Decimal {
	return totalValue.Mul(constants.CommissionRate(network))
}

// CalculateCommissionNGN is a convenience wrapper for integer naira
// face values.
func CalculateCommissionNGN(totalValue int64, network string) decimal.Decimal {
	return CalculateCommission(decimal.NewFromInt(totalValue), network)
}
