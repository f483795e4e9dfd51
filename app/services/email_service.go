// Package services provides external service integrations: email dispatch, spreadsheet sources and run locks
package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	brevo "github.com/getbrevo/brevo-go/lib"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var ErrEmailProviderNotConfigured = errors.New("email provider not configured")

var emailValidator = validator.New()

// EmailMessage is one outbound transactional email
type EmailMessage struct {
	FromEmail string
	FromName  string
	To        []string
	Subject   string
	HTML      string
	Text      string
}

// EmailSender sends transactional emails and returns the provider message id
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) (string, error)
}

func validateMessage(msg EmailMessage) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("email has no recipients")
	}
	for _, to := range msg.To {
		if err := emailValidator.Var(to, "required,email"); err != nil {
			return fmt.Errorf("invalid email address: %s", to)
		}
	}
	if msg.FromEmail == "" {
		return fmt.Errorf("email has no sender")
	}
	return nil
}

// BrevoEmailSender sends through the Brevo transactional email API
type BrevoEmailSender struct {
	client *brevo.APIClient
}

func NewBrevoEmailSender(apiKey string) (EmailSender, error) {
	if apiKey == "" {
		return nil, ErrEmailProviderNotConfigured
	}

	cfg := brevo.NewConfiguration()
	cfg.AddDefaultHeader("api-key", apiKey)
	return &BrevoEmailSender{client: brevo.NewAPIClient(cfg)}, nil
}

func (s *BrevoEmailSender) SendEmail(ctx context.Context, msg EmailMessage) (string, error) {
	if err := validateMessage(msg); err != nil {
		return "", err
	}

	to := make([]brevo.SendSmtpEmailTo, 0, len(msg.To))
	for _, addr := range msg.To {
		to = append(to, brevo.SendSmtpEmailTo{Email: addr})
	}

	res, resp, err := s.client.TransactionalEmailsApi.SendTransacEmail(ctx, brevo.SendSmtpEmail{
		Sender:      &brevo.SendSmtpEmailSender{Name: msg.FromName, Email: msg.FromEmail},
		To:          to,
		Subject:     msg.Subject,
		HtmlContent: msg.HTML,
		TextContent: msg.Text,
	})
	if err != nil {
		if resp != nil {
			return "", fmt.Errorf("brevo API error: status %d: %w", resp.StatusCode, err)
		}
		return "", fmt.Errorf("brevo API error: %w", err)
	}

	return res.MessageId, nil
}

// MockEmailSender logs emails instead of sending them. Sent messages are kept for inspection.
type MockEmailSender struct {
	logger *log.Logger

	mu   sync.Mutex
	sent []EmailMessage
}

func NewMockEmailSender(logger *log.Logger) *MockEmailSender {
	if logger == nil {
		logger = log.Default()
	}
	return &MockEmailSender{logger: logger}
}

func (s *MockEmailSender) SendEmail(ctx context.Context, msg EmailMessage) (string, error) {
	if err := validateMessage(msg); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()

	id := uuid.NewString()
	s.logger.Printf("Email %s sent to %v [%s]", id, msg.To, msg.Subject)
	return id, nil
}

// Sent returns a copy of the messages accepted so far
func (s *MockEmailSender) Sent() []EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]EmailMessage(nil), s.sent...)
}
