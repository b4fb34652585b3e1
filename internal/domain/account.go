package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID           string
	Name         string
	Mobile       string
	PasswordHash string
	Balance      decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
