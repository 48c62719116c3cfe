package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/domain"
)

// Provider is the delivery backend: SendGrid in production, plain SMTP
// against Mailhog everywhere else.
type Provider interface {
	Send(ctx context.Context, to, subject, body string, isHTML bool) error
}

// Config selects and configures the provider. Provider is "sendgrid"
// or "smtp".
type Config struct {
	Provider string

	FromEmail string
	FromName  string

	SendGridAPIKey string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPUseTLS   bool

	// BaseURL is stamped into every template for dashboard links.
	BaseURL string
}

// DefaultConfig targets a local Mailhog on its standard port.
func DefaultConfig() *Config {
	return &Config{
		Provider:   "smtp",
		FromEmail:  "noreply@voxwallet.io",
		FromName:   "VoxWallet",
		SMTPHost:   "localhost",
		SMTPPort:   1025,
		SMTPUseTLS: false,
		BaseURL:    "http://localhost:3000",
	}
}

// Service renders the wallet's mail (welcome, transfer receipt,
// transfer failure) and pushes it through the configured provider.
type Service struct {
	config    *Config
	provider  Provider
	templates map[string]*template.Template
	log       *zap.Logger
}

func NewService(config *Config, log *zap.Logger) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}

	provider, err := buildProvider(config)
	if err != nil {
		return nil, err
	}

	return &Service{
		config:    config,
		provider:  provider,
		templates: parseTemplates(),
		log:       log,
	}, nil
}

func buildProvider(c *Config) (Provider, error) {
	switch c.Provider {
	case "sendgrid":
		if c.SendGridAPIKey == "" {
			return nil, fmt.Errorf("SendGrid API key is required")
		}
		return NewSendGridProvider(c.SendGridAPIKey, c.FromEmail, c.FromName), nil
	case "smtp":
		return NewSMTPProvider(c.SMTPHost, c.SMTPPort, c.SMTPUsername, c.SMTPPassword, c.FromEmail, c.FromName, c.SMTPUseTLS), nil
	default:
		return nil, fmt.Errorf("unknown email provider: %s", c.Provider)
	}
}

func parseTemplates() map[string]*template.Template {
	return map[string]*template.Template{
		"welcome":          template.Must(template.New("welcome").Parse(welcomeTemplate)),
		"transfer_receipt": template.Must(template.New("transfer_receipt").Parse(transferReceiptTemplate)),
		"transfer_failed":  template.Must(template.New("transfer_failed").Parse(transferFailedTemplate)),
	}
}

// Send delivers a plain-text message.
func (s *Service) Send(ctx context.Context, to, subject, body string) error {
	return s.deliver(ctx, to, subject, body, false)
}

// SendHTML delivers an HTML message.
func (s *Service) SendHTML(ctx context.Context, to, subject, htmlBody string) error {
	return s.deliver(ctx, to, subject, htmlBody, true)
}

func (s *Service) deliver(ctx context.Context, to, subject, body string, isHTML bool) error {
	s.log.Info("Sending email",
		zap.String("to", to),
		zap.String("subject", subject),
	)

	if err := s.provider.Send(ctx, to, subject, body, isHTML); err != nil {
		s.log.Error("Failed to send email",
			zap.String("to", to),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendTemplate renders templateName with data and mails the result.
// data["Subject"] becomes the subject line; BaseURL is always filled
// in from config.
func (s *Service) SendTemplate(ctx context.Context, to, templateName string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("template not found: %s", templateName)
	}

	if data == nil {
		data = make(map[string]interface{})
	}
	data["BaseURL"] = s.config.BaseURL

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	subject, ok := data["Subject"].(string)
	if !ok {
		subject = "Notification from VoxWallet"
	}

	return s.SendHTML(ctx, to, subject, buf.String())
}

// SendWelcome greets a new account.
func (s *Service) SendWelcome(ctx context.Context, user *domain.User) error {
	data := map[string]interface{}{
		"Subject":  "Welcome to VoxWallet!",
		"UserName": user.Name,
		"Email":    user.Email,
	}

	return s.SendTemplate(ctx, user.Email, "welcome", data)
}

// SendTransferReceipt mails the receipt once a transfer confirms on
// chain.
func (s *Service) SendTransferReceipt(ctx context.Context, user *domain.User, transfer *domain.Transfer) error {
	confirmedAt := transfer.UpdatedAt
	if transfer.ConfirmedAt != nil {
		confirmedAt = *transfer.ConfirmedAt
	}

	data := map[string]interface{}{
		"Subject":     "Transfer Confirmed",
		"UserName":    user.Name,
		"TransferID":  transfer.ID,
		"Amount":      transfer.Amount,
		"Asset":       strings.ToUpper(transfer.Asset),
		"Recipient":   recipientLabel(transfer),
		"ToAddress":   transfer.ToAddress,
		"TxHash":      transfer.TxHash,
		"Network":     transfer.Network,
		"ConfirmedAt": confirmedAt.Format("2006-01-02 15:04:05"),
	}

	return s.SendTemplate(ctx, user.Email, "transfer_receipt", data)
}

// SendTransferFailed mails the failure notice with whatever reason the
// chain reported.
func (s *Service) SendTransferFailed(ctx context.Context, user *domain.User, transfer *domain.Transfer) error {
	reason := transfer.FailureReason
	if reason == "" {
		reason = "The network rejected the transaction"
	}

	data := map[string]interface{}{
		"Subject":    "Transfer Failed",
		"UserName":   user.Name,
		"TransferID": transfer.ID,
		"Amount":     transfer.Amount,
		"Asset":      strings.ToUpper(transfer.Asset),
		"Recipient":  recipientLabel(transfer),
		"ToAddress":  transfer.ToAddress,
		"Network":    transfer.Network,
		"Reason":     reason,
	}

	return s.SendTemplate(ctx, user.Email, "transfer_failed", data)
}

// recipientLabel prefers the saved contact name over the raw address.
func recipientLabel(transfer *domain.Transfer) string {
	if transfer.ToName != "" {
		return transfer.ToName
	}
	return shortAddress(transfer.ToAddress)
}

// shortAddress abbreviates a 0x address for display: 0x1234...abcd
func shortAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}
