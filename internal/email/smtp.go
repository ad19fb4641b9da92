package email

import (
	"context"
	"fmt"
	"time"

	"crmhr_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers rendered HTML emails over a direct SMTP connection.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendWelcomeEmail(ctx context.Context, toEmail, userName, loginURL string) error {
	content, err := renderEmailTemplate("welcome.html", welcomeEmailData{
		baseEmailData: baseEmailData{
			Title:    "Welcome aboard",
			Heading:  "Welcome aboard",
			CTALabel: "Sign in",
			CTAURL:   loginURL,
		},
		UserName: userName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectWelcome, content)
}

func (s *SMTPSender) SendLeadAssignedEmail(ctx context.Context, toEmail, assigneeName, leadName string) error {
	subject := fmt.Sprintf(subjectLeadAssignedFmt, leadName)
	content, err := renderEmailTemplate("lead_assigned.html", leadAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:   "New lead assigned",
			Heading: "New lead assigned",
		},
		AssigneeName: assigneeName,
		LeadName:     leadName,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendLeaveDecidedEmail(ctx context.Context, toEmail, userName, status, fromDate, toDate string) error {
	subject := fmt.Sprintf(subjectLeaveDecidedFmt, status)
	content, err := renderEmailTemplate("leave_decided.html", leaveDecidedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Leave request update",
			Heading: "Leave request update",
		},
		UserName: userName,
		Status:   status,
		FromDate: fromDate,
		ToDate:   toDate,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendDocumentReviewedEmail(ctx context.Context, toEmail, userName, kind, status, note string) error {
	subject := fmt.Sprintf(subjectDocumentReviewedFmt, status)
	content, err := renderEmailTemplate("document_reviewed.html", documentReviewedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Document review update",
			Heading: "Document review update",
		},
		UserName: userName,
		Kind:     kind,
		Status:   status,
		Note:     note,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}
