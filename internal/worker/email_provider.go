package worker

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// SMTPEmailProvider implements EmailProvider using SMTP with PLAIN auth
type SMTPEmailProvider struct {
	host     string
	port     int
	user     string
	password string
	fromAddr string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPEmailProvider creates a new SMTP email provider.
// fromAddr may carry a display name, e.g. "Greenie <noreply@greenie.app>".
func NewSMTPEmailProvider(host string, port int, user, password, fromAddr string) *SMTPEmailProvider {
	return &SMTPEmailProvider{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		fromAddr: fromAddr,
		send:     smtp.SendMail,
	}
}

// SendEmail sends an HTML email via SMTP
func (p *SMTPEmailProvider) SendEmail(ctx context.Context, email, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := buildMessage(p.fromAddr, email, subject, body)

	var auth smtp.Auth
	if p.user != "" {
		auth = smtp.PlainAuth("", p.user, p.password, p.host)
	}

	addr := net.JoinHostPort(p.host, strconv.Itoa(p.port))
	if err := p.send(addr, auth, envelopeAddress(p.fromAddr), []string{email}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// envelopeAddress strips a display name from an address header value
func envelopeAddress(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return strings.TrimSpace(from)
}

// MockEmailProvider records mail and logs it instead of sending; used for development and tests
type MockEmailProvider struct {
	mu         sync.Mutex
	sentEmails []SentEmail
	err        error
}

// SentEmail represents an email that was sent
type SentEmail struct {
	To      string
	Subject string
	Body    string
}

// NewMockEmailProvider creates a new mock email provider
func NewMockEmailProvider() *MockEmailProvider {
	return &MockEmailProvider{
		sentEmails: make([]SentEmail, 0),
	}
}

// SendEmail logs the email instead of sending it
func (p *MockEmailProvider) SendEmail(ctx context.Context, email, subject, body string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}

	p.sentEmails = append(p.sentEmails, SentEmail{
		To:      email,
		Subject: subject,
		Body:    body,
	})

	zap.L().Info("mock email", zap.String("to", email), zap.String("subject", subject))
	return nil
}

// FailWith makes subsequent sends return err; nil restores success
func (p *MockEmailProvider) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// GetSentEmails returns a copy of all sent emails
func (p *MockEmailProvider) GetSentEmails() []SentEmail {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]SentEmail(nil), p.sentEmails...)
}

// Clear clears the sent emails list
func (p *MockEmailProvider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sentEmails = make([]SentEmail, 0)
}
