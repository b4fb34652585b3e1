package events

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const TopicTransferCompleted = "transfer_completed"

// TransferCompleted is emitted after an internal transfer commits.
type TransferCompleted struct {
	Reference       string          `json:"reference"`
	SourceAccountID string          `json:"source_account_id"`
	SourceMobile    string          `json:"source_mobile"`
	DestAccountID   string          `json:"dest_account_id"`
	DestMobile      string          `json:"dest_mobile"`
	Amount          decimal.Decimal `json:"amount"`
	OccurredAt      time.Time       `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}

// NopPublisher discards events; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
