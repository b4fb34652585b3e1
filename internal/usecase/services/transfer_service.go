package services

import (
	"context"
	"strings"

	"github.com/api-sage/wallet-service/internal/adapter/http/models"
	"github.com/api-sage/wallet-service/internal/domain"
	"github.com/api-sage/wallet-service/internal/events"
	"github.com/api-sage/wallet-service/internal/logger"
)

type TransferService struct {
	transferRepo domain.TransferRepository
	publisher    events.Publisher
}

func NewTransferService(transferRepo domain.TransferRepository, publisher events.Publisher) *TransferService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &TransferService{
		transferRepo: transferRepo,
		publisher:    publisher,
	}
}

// Transfer moves req.Amount from the authenticated caller's account to the
// account owning req.RecipientMobile. The caller identity comes only from
// the verified token, never from the payload.
func (s *TransferService) Transfer(ctx context.Context, sourceAccountID string, req models.TransferRequest) (models.TransferResponse, error) {
	logger.Info("transfer service internal transfer request", logger.Fields{
		"sourceAccountId": sourceAccountID,
		"payload":         logger.SanitizePayload(req),
	})

	if err := req.Validate(); err != nil {
		return models.TransferResponse{}, err
	}

	result, err := s.transferRepo.ProcessInternalTransfer(
		ctx,
		sourceAccountID,
		strings.TrimSpace(req.RecipientMobile),
		req.Amount,
	)
	if err != nil {
		return models.TransferResponse{}, err
	}

	s.publishCompleted(ctx, result)

	logger.Info("transfer service internal transfer success", logger.Fields{
		"reference":       result.Reference,
		"sourceAccountId": result.SourceAccountID,
		"destAccountId":   result.DestAccountID,
		"amount":          result.Amount.StringFixed(2),
	})

	return models.TransferResponse{
		Message:    "Internal transfer successful!",
		NewBalance: result.NewSourceBalance.StringFixed(2),
	}, nil
}

// publishCompleted is best-effort: the transfer has already committed, so
// a broker failure is logged and never surfaced to the caller.
func (s *TransferService) publishCompleted(ctx context.Context, result domain.TransferResult) {
	event := events.TransferCompleted{
		Reference:       result.Reference,
		SourceAccountID: result.SourceAccountID,
		SourceMobile:    result.SourceMobile,
		DestAccountID:   result.DestAccountID,
		DestMobile:      result.DestMobile,
		Amount:          result.Amount,
		OccurredAt:      result.ProcessedAt,
	}

	if err := s.publisher.Publish(ctx, events.TopicTransferCompleted, event); err != nil {
		logger.Error("transfer service publish completed event failed", err, logger.Fields{
			"reference": result.Reference,
		})
	}
}
