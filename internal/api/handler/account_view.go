package handler

import (
	"net/url"
	"strings"

	"github.com/goride/admin-api/internal/core/domain"
)

// accountView is the public JSON form of an account. The password digest is
// never serialised.
type accountView struct {
	domain.Account
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
}

// Links builds absolute URLs for files served under /uploads.
type Links struct {
	base string
}

func NewLinks(backendURL string) Links {
	return Links{base: strings.TrimRight(backendURL, "/")}
}

// ProfilePic returns the public URL of a stored picture, or "" when none.
func (l Links) ProfilePic(kind domain.Kind, name string) string {
	if name == "" {
		return ""
	}
	return l.base + "/uploads/" + string(kind) + "/" + url.PathEscape(name)
}

func (l Links) view(acc *domain.Account) accountView {
	return accountView{Account: *acc, ProfilePicURL: l.ProfilePic(acc.Kind, acc.ProfilePic)}
}

func (l Links) views(accs []domain.Account) []accountView {
	out := make([]accountView, 0, len(accs))
	for i := range accs {
		out = append(out, l.view(&accs[i]))
	}
	return out
}
