// Package mail delivers the contact and quote form notifications.
package mail

import (
	"context"
	"fmt"

	"github.com/folio/folio/backend/api/internal/config"
	"github.com/folio/folio/backend/api/pkg/logger"
	gomail "github.com/wneessen/go-mail"
)

// Message is one outgoing mail. HTML is required; Text is an optional
// plain-text alternative.
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, m Message) error
}

// SMTP sends through a relay, opening one connection per message.
type SMTP struct {
	from   string
	client *gomail.Client
}

func NewSMTP(cfg config.SMTPConfig) (*SMTP, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.User),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTP{from: cfg.From, client: client}, nil
}

func (s *SMTP) Send(ctx context.Context, m Message) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("from %q: %w", s.from, err)
	}
	if err := msg.To(m.To...); err != nil {
		return fmt.Errorf("to %v: %w", m.To, err)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			return fmt.Errorf("reply-to %q: %w", m.ReplyTo, err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextHTML, m.HTML)
	if m.Text != "" {
		msg.AddAlternativeString(gomail.TypeTextPlain, m.Text)
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogMailer stands in when no SMTP relay is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, m Message) error {
	logger.Infof("mail (not sent, SMTP not configured): to=%v subject=%q", m.To, m.Subject)
	return nil
}

// New returns an SMTP mailer when a host is configured and a LogMailer otherwise.
func New(cfg config.SMTPConfig) (Mailer, error) {
	if cfg.Host == "" {
		return LogMailer{}, nil
	}
	return NewSMTP(cfg)
}
