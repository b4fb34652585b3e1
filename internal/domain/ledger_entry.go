package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindInternalTransfer EntryKind = "INTERNAL_TRANSFER"
	EntryKindWithdraw         EntryKind = "WITHDRAW"
	EntryKindDeposit          EntryKind = "DEPOSIT"
	EntryKindAPIPayout        EntryKind = "API_PAYOUT"
)

type EntryStatus string

const (
	EntryStatusCompleted EntryStatus = "COMPLETED"
	EntryStatusPending   EntryStatus = "PENDING"
	EntryStatusFailed    EntryStatus = "FAILED"
)

// LedgerEntry is one immutable balance-affecting record. Amount is negative
// for debits and positive for credits; an internal transfer always produces
// two entries whose amounts sum to zero and whose counterparty mobiles
// cross-reference each other's owning account.
type LedgerEntry struct {
	ID                 string
	AccountID          string
	CounterpartyMobile string
	Amount             decimal.Decimal
	Kind               EntryKind
	Status             EntryStatus
	CreatedAt          time.Time
}
