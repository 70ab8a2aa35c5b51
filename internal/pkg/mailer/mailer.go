package mailer

import (
	"context"
	"fmt"
	"log"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	SendPasswordReset(ctx context.Context, email, link string) error
}

// ConsoleMailer logs messages instead of sending them. Used when SMTP is not configured.
type ConsoleMailer struct{}

func NewConsoleMailer() *ConsoleMailer {
	return &ConsoleMailer{}
}

func (m *ConsoleMailer) SendPasswordReset(_ context.Context, email, link string) error {
	log.Printf("[DEV-EMAIL] password reset email=%s link=%s", email, link)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPMailer struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, email, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Reset your pantry password")
	msg.SetBody("text/plain", fmt.Sprintf("Use the link below to choose a new password:\n\n%s\n\nIf you did not ask for this, ignore this email.", link))
	msg.AddAlternative("text/html", fmt.Sprintf(`<p>Use the link below to choose a new password:</p><p><a href="%s">Reset password</a></p><p>If you did not ask for this, ignore this email.</p>`, link))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send password reset mail: %w", err)
	}
	return nil
}
