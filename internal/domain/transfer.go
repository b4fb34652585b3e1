package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferResult describes one committed internal transfer.
type TransferResult struct {
	Reference        string
	SourceAccountID  string
	SourceMobile     string
	DestAccountID    string
	DestMobile       string
	Amount           decimal.Decimal
	NewSourceBalance decimal.Decimal
	ProcessedAt      time.Time
}
