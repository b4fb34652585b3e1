package models

import (
	"errors"
	"strings"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func (r RegisterRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, "name is required")
	}
	if !isMobile(r.Mobile) {
		errs = append(errs, "mobile must be 10 to 15 digits")
	}
	if len(strings.TrimSpace(r.Password)) < 6 {
		errs = append(errs, "password must be at least 6 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoginRequest struct {
	Mobile   string `json:"mobile"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	var errs []string

	if !isMobile(r.Mobile) {
		errs = append(errs, "mobile must be 10 to 15 digits")
	}
	if strings.TrimSpace(r.Password) == "" {
		errs = append(errs, "password is required")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	UserID  string `json:"userId"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func isMobile(value string) bool {
	trimmed := strings.TrimSpace(value)
	return len(trimmed) >= 10 && len(trimmed) <= 15 && digitsOnly(trimmed)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return len(value) > 0
}
