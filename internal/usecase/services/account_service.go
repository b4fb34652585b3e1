package services

import (
	"context"
	"errors"
	"time"

	"github.com/api-sage/wallet-service/internal/adapter/http/models"
	"github.com/api-sage/wallet-service/internal/commons"
	"github.com/api-sage/wallet-service/internal/domain"
	"github.com/api-sage/wallet-service/internal/logger"
)

type AccountService struct {
	accountRepo domain.AccountRepository
	ledgerRepo  domain.LedgerRepository
}

func NewAccountService(accountRepo domain.AccountRepository, ledgerRepo domain.LedgerRepository) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

func (s *AccountService) GetBalance(ctx context.Context, accountID string) (models.BalanceResponse, error) {
	logger.Info("account service get balance request", logger.Fields{
		"accountId": accountID,
	})

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			return models.BalanceResponse{}, err
		}
		logger.Error("account service get balance failed", err, logger.Fields{
			"accountId": accountID,
		})
		return models.BalanceResponse{}, err
	}

	return models.BalanceResponse{Balance: account.Balance.StringFixed(2)}, nil
}

func (s *AccountService) GetStatement(ctx context.Context, accountID string) (models.StatementResponse, error) {
	logger.Info("account service get statement request", logger.Fields{
		"accountId": accountID,
	})

	entries, err := s.ledgerRepo.ListByAccount(ctx, accountID)
	if err != nil {
		logger.Error("account service get statement failed", err, logger.Fields{
			"accountId": accountID,
		})
		return models.StatementResponse{}, err
	}

	views := make([]models.TransactionView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, models.TransactionView{
			ID:                 entry.ID,
			CounterpartyMobile: entry.CounterpartyMobile,
			Amount:             entry.Amount.StringFixed(2),
			Kind:               string(entry.Kind),
			Status:             string(entry.Status),
			CreatedAt:          entry.CreatedAt.Format(time.RFC3339),
		})
	}

	return models.StatementResponse{Transactions: views}, nil
}
