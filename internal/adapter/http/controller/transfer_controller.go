package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/wallet-service/internal/adapter/http/middleware"
	"github.com/api-sage/wallet-service/internal/adapter/http/models"
	"github.com/api-sage/wallet-service/internal/commons"
)

type TransferService interface {
	Transfer(ctx context.Context, sourceAccountID string, req models.TransferRequest) (models.TransferResponse, error)
}

type TransferController struct {
	service TransferService
}

func NewTransferController(service TransferService) *TransferController {
	return &TransferController{service: service}
}

func (c *TransferController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	handler := http.Handler(http.HandlerFunc(c.transfer))
	if authMiddleware != nil {
		handler = authMiddleware(handler)
	}

	mux.Handle("/transfer-internal", handler)
}

func (c *TransferController) transfer(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
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

	var req models.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		logResponse(r, http.StatusBadRequest, nil, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		logError(r, err, nil)
		writeMessage(w, http.StatusBadRequest, err.Error())
		logResponse(r, http.StatusBadRequest, nil, start)
		return
	}

	response, err := c.service.Transfer(r.Context(), caller.AccountID, req)
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "Transaction failed due to server error. Please try again."
		switch {
		case errors.Is(err, commons.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "Recipient mobile number not found in the system."
		case errors.Is(err, commons.ErrInsufficientBalance):
			status = http.StatusBadRequest
			message = "Insufficient balance."
		case errors.Is(err, commons.ErrSelfTransfer):
			status = http.StatusBadRequest
			message = "Sender and recipient cannot be the same."
		}
		writeMessage(w, status, message)
		logResponse(r, status, nil, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
