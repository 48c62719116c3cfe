package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPProvider speaks plain SMTP or implicit TLS. Local stacks point
// it at Mailhog with no auth and no TLS; a real relay gets both from
// config.
type SMTPProvider struct {
	addr     string
	host     string
	username string
	password string
	from     string
	fromName string
	useTLS   bool
}

func NewSMTPProvider(host string, port int, username, password, fromEmail, fromName string, useTLS bool) *SMTPProvider {
	return &SMTPProvider{
		addr:     fmt.Sprintf("%s:%d", host, port),
		host:     host,
		username: username,
		password: password,
		from:     fromEmail,
		fromName: fromName,
		useTLS:   useTLS,
	}
}

// Send assembles the message and hands it to the transport matching
// the TLS setting.
func (p *SMTPProvider) Send(ctx context.Context, to, subject, body string, isHTML bool) error {
	msg := p.compose(to, subject, body, isHTML)
	if p.useTLS {
		return p.sendTLS(to, msg)
	}
	return p.sendPlain(to, msg)
}

func (p *SMTPProvider) compose(to, subject, body string, isHTML bool) []byte {
	contentType := "text/plain; charset=UTF-8"
	if isHTML {
		contentType = "text/html; charset=UTF-8"
	}

	sender := p.from
	if p.fromName != "" {
		sender = fmt.Sprintf("%s <%s>", p.fromName, p.from)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", sender)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: %s\r\n\r\n", contentType)
	b.WriteString(body)
	return []byte(b.String())
}

// sendPlain uses the stdlib one-shot helper. Mailhog accepts mail
// without credentials, so auth stays nil unless both are set.
func (p *SMTPProvider) sendPlain(to string, msg []byte) error {
	var auth smtp.Auth
	if p.username != "" && p.password != "" {
		auth = smtp.PlainAuth("", p.username, p.password, p.host)
	}
	if err := smtp.SendMail(p.addr, auth, p.from, []string{to}, msg); err != nil {
		return fmt.Errorf("smtp error: %w", err)
	}
	return nil
}

// sendTLS walks the SMTP conversation by hand over an implicit TLS
// connection; SendMail only knows STARTTLS.
func (p *SMTPProvider) sendTLS(to string, msg []byte) error {
	conn, err := tls.Dial("tcp", p.addr, &tls.Config{
		ServerName: p.host,
		MinVersion: tls.VersionTLS12,
	})
	if err != nil {
		return fmt.Errorf("tls dial error: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, p.host)
	if err != nil {
		return fmt.Errorf("smtp client error: %w", err)
	}
	defer client.Close()

	if p.username != "" && p.password != "" {
		if err := client.Auth(smtp.PlainAuth("", p.username, p.password, p.host)); err != nil {
			return fmt.Errorf("smtp auth error: %w", err)
		}
	}
	if err := client.Mail(p.from); err != nil {
		return fmt.Errorf("smtp mail error: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt error: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data error: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		return fmt.Errorf("smtp write error: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close error: %w", err)
	}

	return client.Quit()
}
