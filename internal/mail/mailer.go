package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	gomail "github.com/wneessen/go-mail"

	"marketplace/internal/config"
	"marketplace/internal/logger"
)

// Message is a plain text email.
type Message struct {
	To       string
	Subject  string
	BodyText string
}

// Sender delivers email. Send returns an error on transport failure.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP sender with retries, or a log sender when no SMTP host is configured.
func New(cfg config.MailConfig, log logger.Logger) Sender {
	if cfg.Host == "" {
		return NewLogSender(log)
	}
	return WithRetry(NewSMTPSender(cfg), cfg.Retries, 200*time.Millisecond)
}

// SMTPSender sends messages through an SMTP relay.
type SMTPSender struct {
	cfg config.MailConfig
}

// NewSMTPSender creates an SMTP sender.
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send dials the relay and delivers msg.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.FromEmail); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.BodyText)

	opts := []gomail.Option{gomail.WithPort(s.cfg.Port)}
	if s.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.Username),
			gomail.WithPassword(s.cfg.Password),
		)
	}

	client, err := gomail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogSender writes messages to the log instead of delivering them. Development only.
type LogSender struct {
	log logger.Logger
}

// NewLogSender creates a LogSender.
func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("mail not delivered, no smtp host configured", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.BodyText,
	})
	return nil
}

type retrySender struct {
	inner      Sender
	retries    int
	initialGap time.Duration
}

// WithRetry retries failed sends up to retries extra times with exponential backoff.
func WithRetry(inner Sender, retries int, initialGap time.Duration) Sender {
	if retries < 1 {
		return inner
	}
	return &retrySender{inner: inner, retries: retries, initialGap: initialGap}
}

func (s *retrySender) Send(ctx context.Context, msg Message) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = s.initialGap
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(s.retries)), ctx)

	return backoff.Retry(func() error {
		return s.inner.Send(ctx, msg)
	}, policy)
}
