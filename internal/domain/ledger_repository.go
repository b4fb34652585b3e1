package domain

import "context"

type LedgerRepository interface {
	ListByAccount(ctx context.Context, accountID string) ([]LedgerEntry, error)
}
