package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/goride/admin-api/internal/core/domain"
)

// AccountRepository implements ports.AccountRepository over database/sql.
// Queries use ? placeholders, which both MySQL and SQLite accept.
type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func table(kind domain.Kind) (string, []string, error) {
	t, ok := tables[kind]
	if !ok {
		return "", nil, oops.Code("UNKNOWN_KIND").With("kind", kind).Errorf("unknown account kind %q", kind)
	}
	return t.name, t.profile, nil
}

// columns lists the selected columns for kind in scan order.
func columns(profile []string) []string {
	cols := append([]string{"id"}, profile...)
	return append(cols, "email", "mobile", "password", "status", "profile_pic", "created_at", "updated_at")
}

func profileField(a *domain.Account, col string) *string {
	switch col {
	case "name":
		return &a.Name
	case "first_name":
		return &a.FirstName
	case "last_name":
		return &a.LastName
	case "gender":
		return &a.Gender
	case "ride_type":
		return &a.RideType
	case "auto_number":
		return &a.AutoNumber
	}
	panic("sqlstore: unmapped profile column " + col)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner, kind domain.Kind, profile []string) (*domain.Account, error) {
	a := &domain.Account{Kind: kind}
	var status string
	dest := []any{&a.ID}
	for _, col := range profile {
		dest = append(dest, profileField(a, col))
	}
	dest = append(dest, &a.Email, &a.Mobile, &a.PasswordDigest, &status, &a.ProfilePic, &a.CreatedAt, &a.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	a.Status = domain.Status(status)
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
	name, profile, err := table(acc.Kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cols := columns(profile)[1:]
	args := make([]any, 0, len(cols))
	for _, col := range profile {
		args = append(args, *profileField(acc, col))
	}
	args = append(args, acc.Email, acc.Mobile, acc.PasswordDigest, string(acc.Status), acc.ProfilePic, acc.CreatedAt.UTC(), acc.UpdatedAt.UTC())

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(cols, ", "), placeholders(len(cols)))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicateCredential
		}
		return nil, oops.Code("DB_INSERT_FAILED").With("table", name).Wrap(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, oops.Code("DB_INSERT_FAILED").With("table", name).With("operation", "last insert id").Wrap(err)
	}

	created := *acc
	created.ID = id
	return &created, nil
}

func (r *AccountRepository) queryOne(ctx context.Context, kind domain.Kind, where string, args ...any) (*domain.Account, error) {
	name, profile, err := table(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns(profile), ", "), name, where)
	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, args...), kind, profile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, oops.Code("DB_QUERY_FAILED").With("table", name).Wrap(err)
	}
	return acc, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error) {
	return r.queryOne(ctx, kind, "id = ?", id)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, kind domain.Kind, email string) (*domain.Account, error) {
	return r.queryOne(ctx, kind, "email = ?", email)
}

func (r *AccountRepository) FindByEmailOrMobile(ctx context.Context, kind domain.Kind, email, mobile string, excludeID int64) ([]domain.Account, error) {
	return r.query(ctx, kind, "(email = ? OR mobile = ?) AND id <> ?", email, mobile, excludeID)
}

func (r *AccountRepository) List(ctx context.Context, kind domain.Kind) ([]domain.Account, error) {
	return r.query(ctx, kind, "1 = 1")
}

func (r *AccountRepository) query(ctx context.Context, kind domain.Kind, where string, args ...any) ([]domain.Account, error) {
	name, profile, err := table(kind)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY id", strings.Join(columns(profile), ", "), name, where)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("table", name).Wrap(err)
	}
	defer rows.Close()

	var out []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows, kind, profile)
		if err != nil {
			return nil, oops.Code("DB_SCAN_FAILED").With("table", name).Wrap(err)
		}
		out = append(out, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("table", name).Wrap(err)
	}
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, acc *domain.Account) error {
	name, profile, err := table(acc.Kind)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sets := make([]string, 0, len(profile)+6)
	args := make([]any, 0, len(profile)+7)
	for _, col := range profile {
		sets = append(sets, col+" = ?")
		args = append(args, *profileField(acc, col))
	}
	sets = append(sets, "email = ?", "mobile = ?", "password = ?", "status = ?", "profile_pic = ?", "updated_at = ?")
	args = append(args, acc.Email, acc.Mobile, acc.PasswordDigest, string(acc.Status), acc.ProfilePic, acc.UpdatedAt.UTC(), acc.ID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", name, strings.Join(sets, ", "))
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateCredential
		}
		return oops.Code("DB_UPDATE_FAILED").With("table", name).With("id", acc.ID).Wrap(err)
	}
	return requireRow(res, func() (bool, error) {
		_, err := r.FindByID(ctx, acc.Kind, acc.ID)
		return err == nil, ignoreNotFound(err)
	})
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, kind domain.Kind, email, digest string) error {
	name, _, err := table(kind)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := fmt.Sprintf("UPDATE %s SET password = ?, updated_at = ? WHERE email = ?", name)
	res, err := r.db.ExecContext(ctx, query, digest, time.Now().UTC(), email)
	if err != nil {
		return oops.Code("DB_UPDATE_FAILED").With("table", name).Wrap(err)
	}
	return requireRow(res, func() (bool, error) {
		_, err := r.FindByEmail(ctx, kind, email)
		return err == nil, ignoreNotFound(err)
	})
}

// requireRow maps an UPDATE that touched nothing to domain.ErrNotFound.
// MySQL reports only changed rows, so a zero count is confirmed with exists.
func requireRow(res sql.Result, exists func() (bool, error)) error {
	n, err := res.RowsAffected()
	if err != nil {
		return oops.Code("DB_UPDATE_FAILED").With("operation", "rows affected").Wrap(err)
	}
	if n > 0 {
		return nil
	}
	ok, err := exists()
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
