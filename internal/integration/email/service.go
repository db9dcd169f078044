// Package email provides email sending functionality.
package email

import (
	"context"
	"fmt"

	"github.com/ledgerline/backend/internal/application/adapter"
	"github.com/ledgerline/backend/internal/domain/entity"
	domainerror "github.com/ledgerline/backend/internal/domain/error"
)

// Service queues reconciliation notices for delivery by the email worker.
// It implements the adapter.ReconciliationNotifier interface.
type Service struct {
	queue adapter.EmailQueueRepository
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository) *Service {
	return &Service{
		queue: queue,
	}
}

// NotifyCompleted queues a summary email after a reconciliation session is
// finalized. Delivery is asynchronous; the caller never waits for the send.
func (s *Service) NotifyCompleted(ctx context.Context, input adapter.ReconciliationCompletedInput) error {
	subject := fmt.Sprintf("Reconciliation completed - %s", input.AccountName)

	templateData := map[string]interface{}{
		"account_name":       input.AccountName,
		"statement_end_date": input.StatementEndDate,
		"matched_count":      input.MatchedCount,
		"unmatched_count":    input.UnmatchedCount,
		"forced":             input.Forced,
	}

	job := entity.NewEmailJob(
		entity.TemplateReconciliationCompleted,
		input.UserEmail,
		"", // Display name is not stored on this side of the identity boundary
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue reconciliation notice",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.ReconciliationNotifier.
var _ adapter.ReconciliationNotifier = (*Service)(nil)
