package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/api-sage/wallet-service/internal/adapter/http/models"
	"github.com/api-sage/wallet-service/internal/commons"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (models.MessageResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error)
}

type AuthController struct {
	service AuthService
}

func NewAuthController(service AuthService) *AuthController {
	return &AuthController{service: service}
}

func (c *AuthController) RegisterRoutes(mux *http.ServeMux, _ func(http.Handler) http.Handler) {
	// Registration and login are the unauthenticated surface.
	mux.Handle("/register", http.HandlerFunc(c.register))
	mux.Handle("/login", http.HandlerFunc(c.login))
}

func (c *AuthController) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		logResponse(r, http.StatusMethodNotAllowed, nil, start)
		return
	}

	var req models.RegisterRequest
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

	response, err := c.service.Register(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "Server error during registration."
		if errors.Is(err, commons.ErrDuplicateRecord) {
			status = http.StatusConflict
			message = "User already exists with this mobile number."
		}
		writeMessage(w, status, message)
		logResponse(r, status, nil, start)
		return
	}

	writeJSON(w, http.StatusCreated, response)
	logResponse(r, http.StatusCreated, response, start)
}

func (c *AuthController) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		writeMessage(w, http.StatusMethodNotAllowed, "method not allowed")
		logResponse(r, http.StatusMethodNotAllowed, nil, start)
		return
	}

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		logResponse(r, http.StatusBadRequest, nil, start)
		return
	}
	logRequest(r, req)

	response, err := c.service.Login(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status := http.StatusInternalServerError
		message := "Server error during login."
		if errors.Is(err, commons.ErrInvalidCredentials) {
			status = http.StatusUnauthorized
			message = "Invalid credentials."
		}
		writeMessage(w, status, message)
		logResponse(r, status, nil, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
