package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/api-sage/wallet-service/internal/adapter/http/models"
	"github.com/api-sage/wallet-service/internal/auth"
	"github.com/api-sage/wallet-service/internal/commons"
	"github.com/api-sage/wallet-service/internal/domain"
	"github.com/api-sage/wallet-service/internal/logger"
)

type AuthService struct {
	accountRepo    domain.AccountRepository
	tokens         *auth.TokenManager
	openingBalance decimal.Decimal
}

func NewAuthService(accountRepo domain.AccountRepository, tokens *auth.TokenManager, openingBalance decimal.Decimal) *AuthService {
	return &AuthService{
		accountRepo:    accountRepo,
		tokens:         tokens,
		openingBalance: openingBalance,
	}
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (models.MessageResponse, error) {
	logger.Info("auth service register request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return models.MessageResponse{}, err
	}

	passwordHash, err := hashPassword(strings.TrimSpace(req.Password))
	if err != nil {
		logger.Error("auth service hash password failed", err, nil)
		return models.MessageResponse{}, err
	}

	account := domain.Account{
		Name:         strings.TrimSpace(req.Name),
		Mobile:       strings.TrimSpace(req.Mobile),
		PasswordHash: passwordHash,
		Balance:      s.openingBalance,
	}

	created, err := s.accountRepo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, commons.ErrDuplicateRecord) {
			logger.Info("auth service register duplicate mobile", logger.Fields{
				"mobile": account.Mobile,
			})
			return models.MessageResponse{}, err
		}
		logger.Error("auth service register repository failed", err, logger.Fields{
			"mobile": account.Mobile,
		})
		return models.MessageResponse{}, err
	}

	logger.Info("auth service register success", logger.Fields{
		"accountId": created.ID,
	})

	return models.MessageResponse{Message: "Registration successful. Please log in."}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	logger.Info("auth service login request", logger.Fields{
		"payload": logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return models.LoginResponse{}, fmt.Errorf("%w: %v", commons.ErrInvalidCredentials, err)
	}

	account, err := s.accountRepo.GetByMobile(ctx, strings.TrimSpace(req.Mobile))
	if err != nil {
		if errors.Is(err, commons.ErrRecordNotFound) {
			// Uniform failure for unknown mobile and wrong password.
			return models.LoginResponse{}, commons.ErrInvalidCredentials
		}
		logger.Error("auth service login lookup failed", err, nil)
		return models.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(strings.TrimSpace(req.Password))); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			logger.Info("auth service login password mismatch", logger.Fields{
				"accountId": account.ID,
			})
			return models.LoginResponse{}, commons.ErrInvalidCredentials
		}
		logger.Error("auth service login compare failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return models.LoginResponse{}, fmt.Errorf("compare password: %w", err)
	}

	token, err := s.tokens.Issue(account.ID, account.Mobile)
	if err != nil {
		logger.Error("auth service issue token failed", err, logger.Fields{
			"accountId": account.ID,
		})
		return models.LoginResponse{}, err
	}

	logger.Info("auth service login success", logger.Fields{
		"accountId": account.ID,
	})

	return models.LoginResponse{
		Message: "Login successful",
		Token:   token,
		UserID:  account.ID,
	}, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashed), nil
}
