// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ResendID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send sends an email via the email provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// ReconciliationNotifier defines the interface for reconciliation completion notices.
type ReconciliationNotifier interface {
	// NotifyCompleted sends a summary email after a session is finalized.
	// Failures are logged by implementations and never block finalization.
	NotifyCompleted(ctx context.Context, input ReconciliationCompletedInput) error
}

// ReconciliationCompletedInput carries the summary for a completion notice.
type ReconciliationCompletedInput struct {
	UserEmail        string
	AccountName      string
	StatementEndDate string
	MatchedCount     int
	UnmatchedCount   int
	Forced           bool
}
