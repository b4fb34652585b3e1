package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/api-sage/wallet-service/internal/commons"
	"github.com/api-sage/wallet-service/internal/domain"
	"github.com/api-sage/wallet-service/internal/logger"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	logger.Info("account repository create", logger.Fields{
		"mobile": account.Mobile,
	})

	const query = `
INSERT INTO accounts (
	name,
	mobile,
	password_hash,
	balance
) VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at`

	var (
		id        string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := r.db.QueryRowContext(
		ctx,
		query,
		account.Name,
		account.Mobile,
		account.PasswordHash,
		account.Balance,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		if isUniqueViolation(err) {
			logger.Info("account repository duplicate mobile", logger.Fields{
				"mobile": account.Mobile,
			})
			return domain.Account{}, commons.ErrDuplicateRecord
		}
		logger.Error("account repository create failed", err, logger.Fields{
			"mobile": account.Mobile,
		})
		return domain.Account{}, fmt.Errorf("create account: %w", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	logger.Info("account repository create success", logger.Fields{
		"accountId": account.ID,
	})

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT id, name, mobile, password_hash, balance, created_at, updated_at
FROM accounts
WHERE id = $1`

	return r.getOne(ctx, query, id)
}

func (r *AccountRepository) GetByMobile(ctx context.Context, mobile string) (domain.Account, error) {
	const query = `
SELECT id, name, mobile, password_hash, balance, created_at, updated_at
FROM accounts
WHERE mobile = $1`

	return r.getOne(ctx, query, mobile)
}

func (r *AccountRepository) getOne(ctx context.Context, query string, arg string) (domain.Account, error) {
	var account domain.Account
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.Name,
		&account.Mobile,
		&account.PasswordHash,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Account{}, commons.ErrRecordNotFound
		}
		logger.Error("account repository get failed", err, nil)
		return domain.Account{}, fmt.Errorf("get account: %w", err)
	}

	return account, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == "23505"
	}
	return false
}
