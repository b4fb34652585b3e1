package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// TransferRepository owns the atomic scope of an internal transfer: both
// balance mutations and the paired ledger entries commit together or not
// at all.
type TransferRepository interface {
	ProcessInternalTransfer(ctx context.Context, sourceAccountID string, destMobile string, amount decimal.Decimal) (TransferResult, error)
}
