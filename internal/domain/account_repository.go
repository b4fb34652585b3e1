package domain

import "context"

type AccountRepository interface {
	Create(ctx context.Context, account Account) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
	GetByMobile(ctx context.Context, mobile string) (Account, error)
}
