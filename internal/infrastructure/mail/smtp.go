// Package mail implements ports.Mailer over SMTP and the Mailtrap send API.
package mail

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/goride/admin-api/internal/core/ports"
)

// SMTPConfig holds the connection settings for an SMTP relay. The defaults
// in config match Gmail's submission port.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	Timeout  time.Duration
	// Insecure allows plain connections, for local relays such as MailHog.
	Insecure bool
}

type SMTPMailer struct {
	cfg SMTPConfig
}

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send dials the relay, delivers msg and closes the connection.
func (m *SMTPMailer) Send(ctx context.Context, msg ports.Message) error {
	out, err := m.build(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func (m *SMTPMailer) build(msg ports.Message) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if m.cfg.FromName != "" {
		if err := out.FromFormat(m.cfg.FromName, m.cfg.From); err != nil {
			return nil, fmt.Errorf("smtp from: %w", err)
		}
	} else if err := out.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if msg.ToName != "" {
		if err := out.AddToFormat(msg.ToName, msg.To); err != nil {
			return nil, fmt.Errorf("smtp to: %w", err)
		}
	} else if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	out.Subject(msg.Subject)

	switch {
	case msg.HTML != "" && msg.Text != "":
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
		out.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		out.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	default:
		out.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}
	return out, nil
}

func (m *SMTPMailer) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithPort(m.cfg.Port),
		gomail.WithTimeout(m.cfg.Timeout),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(m.cfg.Username),
			gomail.WithPassword(m.cfg.Password),
		)
	}
	if m.cfg.Insecure {
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}
	return opts
}
