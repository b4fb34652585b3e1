package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/api-sage/wallet-service/internal/commons"
	"github.com/api-sage/wallet-service/internal/domain"
)

// Store is an in-memory implementation of the account, ledger and transfer
// repositories. Transfers serialize per account through dedicated mutexes
// acquired in ascending account-id order, mirroring the row-lock ordering
// of the Postgres implementation.
type Store struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
	byMobile map[string]string
	entries  []domain.LedgerEntry

	lockMu       sync.Mutex
	accountLocks map[string]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*domain.Account),
		byMobile:     make(map[string]string),
		accountLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Store) Create(_ context.Context, account domain.Account) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byMobile[account.Mobile]; exists {
		return domain.Account{}, commons.ErrDuplicateRecord
	}

	now := time.Now().UTC()
	account.ID = uuid.New().String()
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := account
	s.accounts[account.ID] = &stored
	s.byMobile[account.Mobile] = account.ID

	return account, nil
}

func (s *Store) GetByID(_ context.Context, id string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return *account, nil
}

func (s *Store) GetByMobile(_ context.Context, mobile string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byMobile[mobile]
	if !ok {
		return domain.Account{}, commons.ErrRecordNotFound
	}
	return *s.accounts[id], nil
}

func (s *Store) ListByAccount(_ context.Context, accountID string) ([]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]domain.LedgerEntry, 0)
	// Newest first.
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].AccountID == accountID {
			entries = append(entries, s.entries[i])
		}
	}
	return entries, nil
}

func (s *Store) ProcessInternalTransfer(_ context.Context, sourceAccountID string, destMobile string, amount decimal.Decimal) (domain.TransferResult, error) {
	destAccountID, err := s.resolveMobile(destMobile)
	if err != nil {
		return domain.TransferResult{}, err
	}
	if destAccountID == sourceAccountID {
		return domain.TransferResult{}, commons.ErrSelfTransfer
	}

	first, second := s.accountLock(sourceAccountID), s.accountLock(destAccountID)
	if destAccountID < sourceAccountID {
		first, second = second, first
	}
	first.Lock()
	defer first.Unlock()
	second.Lock()
	defer second.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	source, ok := s.accounts[sourceAccountID]
	if !ok {
		return domain.TransferResult{}, commons.ErrRecordNotFound
	}
	dest, ok := s.accounts[destAccountID]
	if !ok {
		return domain.TransferResult{}, commons.ErrRecordNotFound
	}

	if source.Balance.LessThan(amount) {
		return domain.TransferResult{}, commons.ErrInsufficientBalance
	}

	now := time.Now().UTC()
	source.Balance = source.Balance.Sub(amount)
	source.UpdatedAt = now
	dest.Balance = dest.Balance.Add(amount)
	dest.UpdatedAt = now

	s.entries = append(s.entries,
		domain.LedgerEntry{
			ID:                 uuid.New().String(),
			AccountID:          source.ID,
			CounterpartyMobile: dest.Mobile,
			Amount:             amount.Neg(),
			Kind:               domain.EntryKindInternalTransfer,
			Status:             domain.EntryStatusCompleted,
			CreatedAt:          now,
		},
		domain.LedgerEntry{
			ID:                 uuid.New().String(),
			AccountID:          dest.ID,
			CounterpartyMobile: source.Mobile,
			Amount:             amount,
			Kind:               domain.EntryKindInternalTransfer,
			Status:             domain.EntryStatusCompleted,
			CreatedAt:          now,
		},
	)

	return domain.TransferResult{
		Reference:        uuid.New().String(),
		SourceAccountID:  source.ID,
		SourceMobile:     source.Mobile,
		DestAccountID:    dest.ID,
		DestMobile:       dest.Mobile,
		Amount:           amount,
		NewSourceBalance: source.Balance,
		ProcessedAt:      now,
	}, nil
}

func (s *Store) resolveMobile(mobile string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byMobile[mobile]
	if !ok {
		return "", commons.ErrRecordNotFound
	}
	return id, nil
}

func (s *Store) accountLock(accountID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	if _, exists := s.accountLocks[accountID]; !exists {
		s.accountLocks[accountID] = &sync.Mutex{}
	}
	return s.accountLocks[accountID]
}
