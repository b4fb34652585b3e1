package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/wallet-service/internal/adapter/http/middleware"
	"github.com/api-sage/wallet-service/internal/adapter/http/models"
	"github.com/api-sage/wallet-service/internal/commons"
)

type AccountService interface {
	GetBalance(ctx context.Context, accountID string) (models.BalanceResponse, error)
	GetStatement(ctx context.Context, accountID string) (models.StatementResponse, error)
}

type AccountController struct {
	service AccountService
}

func NewAccountController(service AccountService) *AccountController {
	return &AccountController{service: service}
}

func (c *AccountController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	balanceHandler := http.Handler(http.HandlerFunc(c.balance))
	statementHandler := http.Handler(http.HandlerFunc(c.statement))
	if authMiddleware != nil {
		balanceHandler = authMiddleware(balanceHandler)
		statementHandler = authMiddleware(statementHandler)
	}

	mux.Handle("/profile/balance", balanceHandler)
	mux.Handle("/profile/transactions", statementHandler)
}

func (c *AccountController) balance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		logResponse(r, http.StatusMethodNotAllowed, nil, start)
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, login required.")
		logResponse(r, http.StatusUnauthorized, nil, start)
		return
	}

	response, err := c.service.GetBalance(r.Context(), caller.AccountID)
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "Error fetching balance."
		if errors.Is(err, commons.ErrRecordNotFound) {
			status = http.StatusNotFound
			message = "User not found."
		}
		writeMessage(w, status, message)
		logResponse(r, status, nil, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AccountController) statement(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		logResponse(r, http.StatusMethodNotAllowed, nil, start)
		return
	}

	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Not authorized, login required.")
		logResponse(r, http.StatusUnauthorized, nil, start)
		return
	}

	response, err := c.service.GetStatement(r.Context(), caller.AccountID)
	if err != nil {
		logError(r, err, nil)
		writeMessage(w, http.StatusInternalServerError, "Error fetching transactions.")
		logResponse(r, http.StatusInternalServerError, nil, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
