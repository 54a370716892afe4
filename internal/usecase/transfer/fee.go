package transfer

import (
	"github.com/mehrbank/ledger-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// transferFeeRate is the surcharge applied to TRANSFER operations (0.1%)
var transferFeeRate = decimal.RequireFromString("0.001")

// feeScale is the number of fractional digits money is kept at
const feeScale = 4

// ComputeFee returns the fee owed for an operation. Transfers pay
// amount x 0.1% truncated to 4 fractional digits; deposits and harvests
// are free. The truncated value is the fee of record: the sufficiency
// check and the debit both use it.
func ComputeFee(transferType domain.TransferType, amount decimal.Decimal) decimal.Decimal {
	if transferType != domain.TransferTypeTransfer {
		return decimal.Zero
	}

	return amount.Mul(transferFeeRate).Truncate(feeScale)
}
