package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/api-sage/wallet-service/internal/adapter/http/models"
	"github.com/api-sage/wallet-service/internal/commons"
	"github.com/api-sage/wallet-service/internal/domain"
	"github.com/api-sage/wallet-service/internal/events"
	"github.com/api-sage/wallet-service/internal/usecase/services"
)

type transferRepoStub struct {
	processFn func(ctx context.Context, sourceAccountID string, destMobile string, amount decimal.Decimal) (domain.TransferResult, error)
}

func (s transferRepoStub) ProcessInternalTransfer(ctx context.Context, sourceAccountID string, destMobile string, amount decimal.Decimal) (domain.TransferResult, error) {
	if s.processFn != nil {
		return s.processFn(ctx, sourceAccountID, destMobile, amount)
	}
	return domain.TransferResult{}, nil
}

type publisherStub struct {
	published []any
	err       error
}

func (p *publisherStub) Publish(_ context.Context, _ string, event any) error {
	p.published = append(p.published, event)
	return p.err
}

func TestTransferServiceRejectsInvalidAmounts(t *testing.T) {
	svc := services.NewTransferService(transferRepoStub{
		processFn: func(context.Context, string, string, decimal.Decimal) (domain.TransferResult, error) {
			t.Fatal("repository must not be reached on validation failure")
			return domain.TransferResult{}, nil
		},
	}, nil)

	cases := map[string]models.TransferRequest{
		"zero amount":     {RecipientMobile: "1000000002", Amount: decimal.Zero},
		"negative amount": {RecipientMobile: "1000000002", Amount: decimal.RequireFromString("-5.00")},
		"three decimals":  {RecipientMobile: "1000000002", Amount: decimal.RequireFromString("10.001")},
		"bad mobile":      {RecipientMobile: "12ab", Amount: decimal.RequireFromString("10.00")},
	}

	for name, req := range cases {
		if _, err := svc.Transfer(context.Background(), "acc-1", req); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestTransferServiceSuccessPublishesEvent(t *testing.T) {
	amount := decimal.RequireFromString("250.00")
	publisher := &publisherStub{}

	svc := services.NewTransferService(transferRepoStub{
		processFn: func(_ context.Context, sourceAccountID string, destMobile string, got decimal.Decimal) (domain.TransferResult, error) {
			if sourceAccountID != "acc-1" || destMobile != "1000000002" {
				t.Fatalf("unexpected arguments: %s %s", sourceAccountID, destMobile)
			}
			if !got.Equal(amount) {
				t.Fatalf("unexpected amount: %s", got)
			}
			return domain.TransferResult{
				Reference:        "ref-1",
				SourceAccountID:  sourceAccountID,
				SourceMobile:     "1000000001",
				DestAccountID:    "acc-2",
				DestMobile:       destMobile,
				Amount:           got,
				NewSourceBalance: decimal.RequireFromString("750.00"),
				ProcessedAt:      time.Now().UTC(),
			}, nil
		},
	}, publisher)

	resp, err := svc.Transfer(context.Background(), "acc-1", models.TransferRequest{
		RecipientMobile: "1000000002",
		Amount:          amount,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if resp.NewBalance != "750.00" {
		t.Fatalf("expected new_balance 750.00, got %s", resp.NewBalance)
	}

	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}
	event, ok := publisher.published[0].(events.TransferCompleted)
	if !ok {
		t.Fatalf("unexpected event type %T", publisher.published[0])
	}
	if event.Reference != "ref-1" || !event.Amount.Equal(amount) {
		t.Fatalf("unexpected event payload: %+v", event)
	}
}

func TestTransferServicePassesThroughTypedFailures(t *testing.T) {
	for _, sentinel := range []error{
		commons.ErrRecordNotFound,
		commons.ErrInsufficientBalance,
		commons.ErrSelfTransfer,
	} {
		publisher := &publisherStub{}
		svc := services.NewTransferService(transferRepoStub{
			processFn: func(context.Context, string, string, decimal.Decimal) (domain.TransferResult, error) {
				return domain.TransferResult{}, sentinel
			},
		}, publisher)

		_, err := svc.Transfer(context.Background(), "acc-1", models.TransferRequest{
			RecipientMobile: "1000000002",
			Amount:          decimal.RequireFromString("10.00"),
		})
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected %v, got %v", sentinel, err)
		}
		if len(publisher.published) != 0 {
			t.Fatal("no event may be published for a failed transfer")
		}
	}
}

func TestTransferServicePublishFailureDoesNotFailTransfer(t *testing.T) {
	publisher := &publisherStub{err: errors.New("broker unreachable")}

	svc := services.NewTransferService(transferRepoStub{
		processFn: func(_ context.Context, _ string, _ string, amount decimal.Decimal) (domain.TransferResult, error) {
			return domain.TransferResult{
				Reference:        "ref-1",
				Amount:           amount,
				NewSourceBalance: decimal.RequireFromString("90.00"),
			}, nil
		},
	}, publisher)

	resp, err := svc.Transfer(context.Background(), "acc-1", models.TransferRequest{
		RecipientMobile: "1000000002",
		Amount:          decimal.RequireFromString("10.00"),
	})
	if err != nil {
		t.Fatalf("expected nil error despite publish failure, got %v", err)
	}
	if resp.NewBalance != "90.00" {
		t.Fatalf("expected new_balance 90.00, got %s", resp.NewBalance)
	}
}
