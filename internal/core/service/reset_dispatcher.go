package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

const resetSubject = "Password Reset Request"

var resetHTML = template.Must(template.New("reset").Parse(`<div style="text-align: center; font-family: 'Ubuntu', sans-serif;">
  <h2>Password Reset Request for <span style="color: #007bff">{{.Brand}}</span> {{.Panel}}</h2>
  <p>Hello {{.Name}},</p>
  <p>You requested a password reset. Click the button below to reset your password:</p>
  <a href="{{.URL}}" style="display: inline-block; background-color: #007bff; color: white; padding: 12px 20px; text-decoration: none; border-radius: 5px; font-size: 16px;">Reset Your Password</a>
  <p>This link expires in {{.Minutes}} minutes.</p>
  <p>If you did not request this, please ignore this email.</p>
</div>`))

var resetText = texttemplate.Must(texttemplate.New("reset").Parse(`Hello {{.Name}},

You requested a password reset for your {{.Brand}} account. Open the link below to choose a new password:

{{.URL}}

This link expires in {{.Minutes}} minutes. If you did not request this, please ignore this email.
`))

type resetEmail struct {
	Brand, Panel, Name, URL string
	Minutes                 int
}

// ResetLinkDispatcher composes the reset URL for an account and mails it.
type ResetLinkDispatcher struct {
	mailer      ports.Mailer
	frontendURL string
	brand       string
}

func NewResetLinkDispatcher(mailer ports.Mailer, frontendURL, brand string) *ResetLinkDispatcher {
	if brand == "" {
		brand = "GoRide"
	}
	return &ResetLinkDispatcher{
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		brand:       brand,
	}
}

// ResetURL returns <frontend>/<kind>/reset-password/<token>.
func (d *ResetLinkDispatcher) ResetURL(kind domain.Kind, token string) string {
	return fmt.Sprintf("%s/%s/reset-password/%s", d.frontendURL, kind, token)
}

// Dispatch sends the reset link for acc. Transport errors are returned as-is.
func (d *ResetLinkDispatcher) Dispatch(ctx context.Context, acc *domain.Account, token string) error {
	link := d.ResetURL(acc.Kind, token)
	name := acc.DisplayName()
	if name == "" {
		name = acc.Email
	}

	data := resetEmail{
		Brand:   d.brand,
		Panel:   panelName(acc.Kind),
		Name:    name,
		URL:     link,
		Minutes: int(domain.ResetTokenTTL.Minutes()),
	}
	var html, text bytes.Buffer
	if err := resetHTML.Execute(&html, data); err != nil {
		return fmt.Errorf("render reset email: %w", err)
	}
	if err := resetText.Execute(&text, data); err != nil {
		return fmt.Errorf("render reset email text: %w", err)
	}

	return d.mailer.Send(ctx, ports.Message{
		To:       acc.Email,
		ToName:   name,
		Subject:  resetSubject,
		HTML:     html.String(),
		Text:     text.String(),
		Category: "password_reset",
	})
}

func panelName(k domain.Kind) string {
	if k == domain.KindAdmin {
		return "Admin Panel"
	}
	return k.Label() + " App"
}
