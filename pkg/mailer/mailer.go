// Package mailer delivers signup confirmation codes.
package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"media-review/pkg/utils"

	"go.uber.org/zap"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns an SMTP mailer, or a LogMailer when no SMTP host is configured.
func New(config utils.EmailConfig, log *zap.Logger) Mailer {
	if config.Host == "" {
		log.Warn("SMTP_HOST not set, confirmation codes will be written to the log")
		return NewLogMailer(log)
	}
	return &SMTPMailer{config: config, log: log.With(zap.String("component", "mailer"))}
}

type SMTPMailer struct {
	config utils.EmailConfig
	log    *zap.Logger
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	addr := net.JoinHostPort(m.config.Host, strconv.Itoa(m.config.Port))

	var auth smtp.Auth
	if m.config.User != "" {
		auth = smtp.PlainAuth("", m.config.User, m.config.Password, m.config.Host)
	}

	msg := buildMessage(m.config.From, to, subject, body)

	// smtp.SendMail has no context support
	errCh := make(chan error, 1)
	go func() {
		errCh <- smtp.SendMail(addr, auth, m.config.From, []string{to}, msg)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			m.log.Error("Failed to send email", zap.Error(err), zap.String("to", to))
			return fmt.Errorf("send mail to %s: %w", to, err)
		}
		m.log.Info("Email sent", zap.String("to", to), zap.String("subject", subject))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func buildMessage(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString("From: " + from + "\r\n")
	sb.WriteString("To: " + to + "\r\n")
	sb.WriteString("Subject: " + subject + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}

// LogMailer writes messages to the logger instead of delivering them.
type LogMailer struct {
	log *zap.Logger
}

func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log.With(zap.String("component", "mailer"))}
}

func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("Email (not delivered)",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}
