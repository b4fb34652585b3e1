package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/api-sage/wallet-service/internal/domain"
	"github.com/api-sage/wallet-service/internal/logger"
)

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.LedgerEntry, error) {
	const query = `
SELECT id, account_id, counterparty_mobile, amount, kind, status, created_at
FROM ledger_entries
WHERE account_id = $1
ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		logger.Error("ledger repository list failed", err, logger.Fields{
			"accountId": accountID,
		})
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var entry domain.LedgerEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.CounterpartyMobile,
			&entry.Amount,
			&entry.Kind,
			&entry.Status,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return entries, nil
}
