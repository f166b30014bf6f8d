package constants

import "github.com/shopspring/decimal"

// Network identifiers
const (
	NetworkMTN     = "mtn"
	NetworkGlo     = "glo"
	NetworkAirtel  = "airtel"
	Network9Mobile = "9mobile"
)

// Networks in display order
var Networks = []string{NetworkMTN, NetworkGlo, NetworkAirtel, Network9Mobile}

// Recharge card denominations (NGN)
var Denominations = []int64{100, 200, 500, 1000, 2000, 5000}

// Commission rates per network, fraction of face value
var (
	CommissionRates = map[string]decimal.Decimal{
		NetworkMTN:     decimal.NewFromFloat(0.020),
		NetworkGlo:     decimal.NewFromFloat(0.025),
		NetworkAirtel:  decimal.NewFromFloat(0.020),
		Network9Mobile: decimal.NewFromFloat(0.018),
	}
	CommissionRateDefault = decimal.NewFromFloat(0.020)
)

// Wallet transaction type constants
const (
	WalletTxnTypeCommission  = "commission"
	WalletTxnTypeAdminAdjust = "admin_adjust"
)

// Wallet transaction direction constants
const (
	WalletTxnDirectionIn  = "in"
	WalletTxnDirectionOut = "out"
)

// Agent status constants
const (
	AgentStatusActive   = "active"
	AgentStatusDisabled = "disabled"
)

// Queue constants
const (
	QueueDefault       = "default"
	TaskBatchReceipt   = "vend:batch_receipt"
	TaskSessionSweep   = "vend:session_sweep"
	RedisPrefixDefault = "bx"
)

// Export format constants
const (
	ExportFormatCSV = "csv"
	ExportFormatTXT = "txt"
)

// IsValidNetwork reports whether id names a supported network.
func IsValidNetwork(id string) bool {
	switch id {
	case NetworkMTN, NetworkGlo, NetworkAirtel, Network9Mobile:
		return true
	}
	return false
}

// IsValidDenomination reports whether value is a printable face value.
func IsValidDenomination(value int64) bool {
	for _, d := range Denominations {
		if d == value {
			return true
		}
	}
	return false
}

// CommissionRate returns the commission rate for a network, falling
// back to the default rate for unknown ids.
func CommissionRate(network string) decimal.Decimal {
	if rate, ok := CommissionRates[network]; ok {
		return rate
	}
	return CommissionRateDefault
}
