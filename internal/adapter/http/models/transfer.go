package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	RecipientMobile string          `json:"recipient_mobile"`
	Amount          decimal.Decimal `json:"amount"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if !isMobile(r.RecipientMobile) {
		errs = append(errs, "recipient_mobile must be 10 to 15 digits")
	}
	if r.Amount.LessThanOrEqual(decimal.Zero) {
		errs = append(errs, "amount must be greater than zero")
	}
	if r.Amount.Exponent() < -2 {
		errs = append(errs, "amount cannot have more than 2 decimal places")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type TransferResponse struct {
	Message    string `json:"message"`
	NewBalance string `json:"new_balance"`
}
