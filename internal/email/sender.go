// Package email renders and delivers transactional emails.
package email

import (
	"context"

	"crmhr_backend/platform/config"
)

// Sender delivers the transactional emails the backend produces.
type Sender interface {
	SendWelcomeEmail(ctx context.Context, toEmail, userName, loginURL string) error
	SendLeadAssignedEmail(ctx context.Context, toEmail, assigneeName, leadName string) error
	SendLeaveDecidedEmail(ctx context.Context, toEmail, userName, status, fromDate, toDate string) error
	SendDocumentReviewedEmail(ctx context.Context, toEmail, userName, kind, status, note string) error
}

// NewSenderFromConfig returns an SMTP sender when mail is configured and a
// noop sender otherwise, so callers never have to nil-check.
func NewSenderFromConfig(cfg config.SMTPConfig) Sender {
	if !cfg.IsEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(cfg)
}

// NoopSender silently drops every email. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendWelcomeEmail(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendLeadAssignedEmail(context.Context, string, string, string) error {
	return nil
}

func (NoopSender) SendLeaveDecidedEmail(context.Context, string, string, string, string, string) error {
	return nil
}

func (NoopSender) SendDocumentReviewedEmail(context.Context, string, string, string, string, string) error {
	return nil
}
