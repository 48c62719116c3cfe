package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridProvider delivers mail through the SendGrid API. Production
// runs use it for receipts and welcome mail; local stacks point the
// SMTP provider at Mailhog instead.
type SendGridProvider struct {
	from   *mail.Email
	client *sendgrid.Client
}

func NewSendGridProvider(apiKey, fromEmail, fromName string) *SendGridProvider {
	return &SendGridProvider{
		from:   mail.NewEmail(fromName, fromEmail),
		client: sendgrid.NewSendClient(apiKey),
	}
}

// Send delivers one message. SendGrid takes plain text and HTML as
// separate parts, so whichever one the caller did not provide goes out
// empty.
func (p *SendGridProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	plain, html := body, ""
	if isHTML {
		plain, html = "", body
	}
	msg := mail.NewSingleEmail(p.from, subject, mail.NewEmail("", to), plain, html)

	resp, err := p.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid error: %w", err)
	}
	// Anything outside 2xx means the message was not accepted.
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
