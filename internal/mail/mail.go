// Package mail sends the account e-mails (activation and lost password).
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/iliyamo/shop-backend/internal/config"
	"github.com/iliyamo/shop-backend/internal/logger"
)

// Sender delivers one plain-text message.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP sender, or a LogSender when no relay is configured.
func New(cfg config.SMTPConfig) Sender {
	if cfg.Host == "" {
		return LogSender{}
	}
	return &SMTPSender{cfg: cfg}
}

// SMTPSender relays through the configured SMTP server.
type SMTPSender struct {
	cfg config.SMTPConfig
}

// Send delivers one message. The relay call itself is not cancellable, so
// ctx is only checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	addr := s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	}
	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=UTF-8",
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	logger.Debug("mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// LogSender only logs the message. Used in development.
type LogSender struct{}

// Send logs the message at info level and never fails.
func (LogSender) Send(_ context.Context, to, subject, body string) error {
	logger.Info("mail (not sent)", zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}

// ActivationMessage builds the activation e-mail for token.
func ActivationMessage(baseURL, token string) (string, string) {
	return "Activate your account",
		"Welcome!\r\n\r\nUse this token to activate your account: " + token +
			"\r\nor POST it to " + strings.TrimRight(baseURL, "/") + "/users/login/activate\r\n"
}

// PasswordResetMessage builds the lost-password e-mail for token.
func PasswordResetMessage(baseURL, token string) (string, string) {
	return "Reset your password",
		"Use this token to set a new password: " + token +
			"\r\nand PATCH it together with the new password to " + strings.TrimRight(baseURL, "/") + "/users/login/password\r\n"
}
