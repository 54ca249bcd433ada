package domain

import (
	"strings"
	"time"
)

// Kind identifies which account table a record belongs to.
type Kind string

const (
	KindAdmin    Kind = "admin"
	KindCustomer Kind = "customer"
	KindDriver   Kind = "driver"
)

// Kinds lists every account kind in routing order.
var Kinds = []Kind{KindAdmin, KindCustomer, KindDriver}

// ParseKind maps a path segment or claim value to a Kind.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	return k, k.Valid()
}

func (k Kind) Valid() bool {
	switch k {
	case KindAdmin, KindCustomer, KindDriver:
		return true
	}
	return false
}

// Label is the capitalised singular used in client-facing messages.
func (k Kind) Label() string {
	switch k {
	case KindAdmin:
		return "Admin"
	case KindCustomer:
		return "Customer"
	case KindDriver:
		return "Driver"
	}
	return "Account"
}

// Plural is the lower-case plural used in listing messages ("No admins found").
func (k Kind) Plural() string {
	return string(k) + "s"
}

// Status is the lifecycle state of an account. Accounts are never removed;
// deletion moves them to StatusDeleted.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusDeleted  Status = "Deleted"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

// Account is a credential-bearing user of any kind. Admins and customers use
// Name; drivers use FirstName/LastName plus their vehicle fields.
type Account struct {
	ID             int64     `json:"id"`
	Kind           Kind      `json:"-"`
	Name           string    `json:"name,omitempty"`
	FirstName      string    `json:"first_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	Gender         string    `json:"gender,omitempty"`
	RideType       string    `json:"ride_type,omitempty"`
	AutoNumber     string    `json:"auto_number,omitempty"`
	Email          string    `json:"email"`
	Mobile         string    `json:"mobile"`
	PasswordDigest string    `json:"-"`
	Status         Status    `json:"status"`
	ProfilePic     string    `json:"profile_pic,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DisplayName returns the name to greet the account holder with.
func (a *Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// CheckLoginStatus rejects Inactive and Deleted accounts with the messages
// shown on the login screen.
func (a *Account) CheckLoginStatus() error {
	switch a.Status {
	case StatusInactive:
		return Fail(ErrAccountInactive, "Your account is Inactive. Please contact support.")
	case StatusDeleted:
		return Fail(ErrAccountDeleted, "Your account has been Deleted.")
	}
	return nil
}

// CheckMutationStatus rejects profile changes requested by an account that is
// not Active.
func (a *Account) CheckMutationStatus() error {
	switch a.Status {
	case StatusInactive:
		return Failf(ErrAccountInactive, "Unable to update the profile because your status is %s, please contact admin", a.Status)
	case StatusDeleted:
		return Failf(ErrAccountDeleted, "Unable to update the profile because your status is %s, please contact admin", a.Status)
	}
	return nil
}
