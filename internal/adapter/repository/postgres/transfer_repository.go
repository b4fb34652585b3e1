package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/wallet-service/internal/commons"
	"github.com/api-sage/wallet-service/internal/domain"
	"github.com/api-sage/wallet-service/internal/logger"
)

type TransferRepository struct {
	db *sql.DB
}

func NewTransferRepository(db *sql.DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// ProcessInternalTransfer moves amount from the source account to the
// account owning destMobile and appends the paired ledger entries, all in
// one transaction. Both rows are locked in ascending id order so that two
// transfers targeting each other's accounts cannot deadlock.
func (r *TransferRepository) ProcessInternalTransfer(ctx context.Context, sourceAccountID string, destMobile string, amount decimal.Decimal) (domain.TransferResult, error) {
	logger.Info("transfer repository process internal transfer", logger.Fields{
		"sourceAccountId": sourceAccountID,
		"destMobile":      destMobile,
		"amount":          amount.StringFixed(2),
	})

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("transfer repository begin tx failed", err, nil)
		return domain.TransferResult{}, fmt.Errorf("begin transfer transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	source, dest, err := lockAccounts(ctx, tx, sourceAccountID, destMobile)
	if err != nil {
		return domain.TransferResult{}, err
	}

	if source.ID == dest.ID {
		err = commons.ErrSelfTransfer
		return domain.TransferResult{}, err
	}
	if source.Balance.LessThan(amount) {
		err = commons.ErrInsufficientBalance
		return domain.TransferResult{}, err
	}

	const debitQuery = `
UPDATE accounts
SET balance = balance - $2::numeric,
    updated_at = NOW()
WHERE id = $1
  AND balance >= $2::numeric
RETURNING balance`

	var newSourceBalance decimal.Decimal
	if err = tx.QueryRowContext(ctx, debitQuery, source.ID, amount).Scan(&newSourceBalance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = commons.ErrInsufficientBalance
			return domain.TransferResult{}, err
		}
		logger.Error("transfer repository debit failed", err, logger.Fields{
			"sourceAccountId": source.ID,
		})
		return domain.TransferResult{}, fmt.Errorf("debit source account: %w", err)
	}

	const creditQuery = `
UPDATE accounts
SET balance = balance + $2::numeric,
    updated_at = NOW()
WHERE id = $1`
	if err = execRequiredRows(ctx, tx, creditQuery, dest.ID, amount); err != nil {
		return domain.TransferResult{}, err
	}

	const appendQuery = `
INSERT INTO ledger_entries (account_id, counterparty_mobile, amount, kind, status)
VALUES ($1, $2, $3, $4, $5),
       ($6, $7, $8, $4, $5)`
	if _, err = tx.ExecContext(
		ctx,
		appendQuery,
		source.ID, dest.Mobile, amount.Neg(),
		domain.EntryKindInternalTransfer, domain.EntryStatusCompleted,
		dest.ID, source.Mobile, amount,
	); err != nil {
		logger.Error("transfer repository append ledger entries failed", err, logger.Fields{
			"sourceAccountId": source.ID,
			"destAccountId":   dest.ID,
		})
		return domain.TransferResult{}, fmt.Errorf("append ledger entries: %w", err)
	}

	if err = tx.Commit(); err != nil {
		logger.Error("transfer repository commit tx failed", err, nil)
		return domain.TransferResult{}, fmt.Errorf("commit transfer transaction: %w", err)
	}

	result := domain.TransferResult{
		Reference:        uuid.New().String(),
		SourceAccountID:  source.ID,
		SourceMobile:     source.Mobile,
		DestAccountID:    dest.ID,
		DestMobile:       dest.Mobile,
		Amount:           amount,
		NewSourceBalance: newSourceBalance,
		ProcessedAt:      time.Now().UTC(),
	}

	logger.Info("transfer repository process internal transfer success", logger.Fields{
		"reference":       result.Reference,
		"sourceAccountId": result.SourceAccountID,
		"destAccountId":   result.DestAccountID,
	})

	return result, nil
}

type lockedAccount struct {
	ID      string
	Mobile  string
	Balance decimal.Decimal
}

// lockAccounts selects the source row (by id) and the destination row (by
// mobile) FOR UPDATE in a single ordered statement. Missing destination
// surfaces as commons.ErrRecordNotFound.
func lockAccounts(ctx context.Context, tx *sql.Tx, sourceAccountID string, destMobile string) (lockedAccount, lockedAccount, error) {
	const query = `
SELECT id, mobile, balance
FROM accounts
WHERE id = $1 OR mobile = $2
ORDER BY id
FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, sourceAccountID, destMobile)
	if err != nil {
		logger.Error("transfer repository lock accounts failed", err, nil)
		return lockedAccount{}, lockedAccount{}, fmt.Errorf("lock accounts: %w", err)
	}
	defer rows.Close()

	var source, dest lockedAccount
	var haveSource, haveDest bool
	for rows.Next() {
		var acc lockedAccount
		if err := rows.Scan(&acc.ID, &acc.Mobile, &acc.Balance); err != nil {
			return lockedAccount{}, lockedAccount{}, fmt.Errorf("scan locked account: %w", err)
		}
		if acc.ID == sourceAccountID {
			source = acc
			haveSource = true
		}
		if acc.Mobile == destMobile {
			dest = acc
			haveDest = true
		}
	}
	if err := rows.Err(); err != nil {
		return lockedAccount{}, lockedAccount{}, fmt.Errorf("iterate locked accounts: %w", err)
	}

	if !haveSource {
		return lockedAccount{}, lockedAccount{}, fmt.Errorf("source account: %w", commons.ErrRecordNotFound)
	}
	if !haveDest {
		return lockedAccount{}, lockedAccount{}, commons.ErrRecordNotFound
	}

	return source, dest, nil
}

func execRequiredRows(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("execute transaction statement: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if rows == 0 {
		return errors.New("transaction posting failed: record not found")
	}
	return nil
}
