package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/goride/admin-api/internal/core/ports"
)

const defaultMailtrapURL = "https://send.api.mailtrap.io/api/send"

type MailtrapConfig struct {
	APIKey   string
	URL      string
	From     string
	FromName string
	Timeout  time.Duration
}

// MailtrapMailer posts messages to the Mailtrap email sending API.
type MailtrapMailer struct {
	cfg    MailtrapConfig
	client *http.Client
}

func NewMailtrapMailer(cfg MailtrapConfig) (*MailtrapMailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("mailtrap: api key is required")
	}
	if cfg.URL == "" {
		cfg.URL = defaultMailtrapURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &MailtrapMailer{cfg: cfg, client: &http.Client{Timeout: cfg.Timeout}}, nil
}

type mailtrapAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type mailtrapRequest struct {
	From     mailtrapAddress   `json:"from"`
	To       []mailtrapAddress `json:"to"`
	Subject  string            `json:"subject"`
	HTML     string            `json:"html,omitempty"`
	Text     string            `json:"text,omitempty"`
	Category string            `json:"category,omitempty"`
}

func (m *MailtrapMailer) Send(ctx context.Context, msg ports.Message) error {
	payload, err := json.Marshal(mailtrapRequest{
		From:     mailtrapAddress{Email: m.cfg.From, Name: m.cfg.FromName},
		To:       []mailtrapAddress{{Email: msg.To, Name: msg.ToName}},
		Subject:  msg.Subject,
		HTML:     msg.HTML,
		Text:     msg.Text,
		Category: msg.Category,
	})
	if err != nil {
		return fmt.Errorf("marshal mailtrap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create mailtrap request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("mailtrap send to %s: %w", msg.To, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("mailtrap API returned status: %d", resp.StatusCode)
	}
	return nil
}
