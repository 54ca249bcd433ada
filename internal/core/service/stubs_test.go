package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

type stubAccountRepo struct {
	mu        sync.Mutex
	rows      map[domain.Kind]map[int64]*domain.Account
	nextID    int64
	createErr error
	updateErr error
	pwUpdates int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{rows: make(map[domain.Kind]map[int64]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAccountRepo) seed(acc *domain.Account) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	acc.ID = r.nextID
	if acc.Status == "" {
		acc.Status = domain.StatusActive
	}
	if r.rows[acc.Kind] == nil {
		r.rows[acc.Kind] = make(map[int64]*domain.Account)
	}
	r.rows[acc.Kind][acc.ID] = cloneAccount(acc)
	return cloneAccount(acc)
}

func (r *stubAccountRepo) Create(_ context.Context, acc *domain.Account) (*domain.Account, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.seed(cloneAccount(acc)), nil
}

func (r *stubAccountRepo) FindByID(_ context.Context, kind domain.Kind, id int64) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.rows[kind][id]; ok {
		return cloneAccount(a), nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, kind domain.Kind, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows[kind] {
		if strings.EqualFold(a.Email, email) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *stubAccountRepo) FindByEmailOrMobile(_ context.Context, kind domain.Kind, email, mobile string, excludeID int64) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for id, a := range r.rows[kind] {
		if id == excludeID {
			continue
		}
		if strings.EqualFold(a.Email, email) || a.Mobile == mobile {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *stubAccountRepo) List(_ context.Context, kind domain.Kind) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Account
	for _, a := range r.rows[kind] {
		out = append(out, *a)
	}
	return out, nil
}

func (r *stubAccountRepo) Update(_ context.Context, acc *domain.Account) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[acc.Kind][acc.ID]; !ok {
		return domain.ErrNotFound
	}
	r.rows[acc.Kind][acc.ID] = cloneAccount(acc)
	return nil
}

func (r *stubAccountRepo) UpdatePassword(_ context.Context, kind domain.Kind, email, digest string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows[kind] {
		if strings.EqualFold(a.Email, email) {
			a.PasswordDigest = digest
			r.pwUpdates++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *stubAccountRepo) get(kind domain.Kind, id int64) *domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return cloneAccount(r.rows[kind][id])
}

type stubGuard struct {
	mu      sync.Mutex
	used    map[string]bool
	err     error
	release int
}

func newStubGuard() *stubGuard { return &stubGuard{used: make(map[string]bool)} }

func (g *stubGuard) Claim(_ context.Context, id string, _ time.Duration) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.used[id] {
		return false, nil
	}
	g.used[id] = true
	return true, nil
}

func (g *stubGuard) Release(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.used, id)
	g.release++
	return nil
}

type stubNotifier struct {
	sent  []string
	accts []*domain.Account
	err   error
}

func (n *stubNotifier) Dispatch(_ context.Context, acc *domain.Account, token string) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, token)
	n.accts = append(n.accts, acc)
	return nil
}

type stubImageStore struct {
	saved   []string
	deleted []string
}

func (s *stubImageStore) Save(_ context.Context, kind string, img ports.ImageUpload) (string, error) {
	name := kind + "-" + img.Filename
	s.saved = append(s.saved, name)
	return name, nil
}

func (s *stubImageStore) Open(context.Context, string, string) (io.ReadCloser, string, error) {
	return nil, "", domain.ErrNotFound
}

func (s *stubImageStore) Delete(_ context.Context, _ string, name string) error {
	s.deleted = append(s.deleted, name)
	return nil
}

type stubMailer struct {
	msgs []ports.Message
	err  error
}

func (m *stubMailer) Send(_ context.Context, msg ports.Message) error {
	if m.err != nil {
		return m.err
	}
	m.msgs = append(m.msgs, msg)
	return nil
}

var errStore = errors.New("store unavailable")

func nopLogger() zerolog.Logger { return zerolog.Nop() }
