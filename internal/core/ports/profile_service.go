package ports

import (
	"context"

	"github.com/goride/admin-api/internal/core/domain"
)

// ProfileUpdate is the editable subset of an account. Status is honoured
// only for admin-initiated updates; Password only for self-service ones.
type ProfileUpdate struct {
	Name       string
	FirstName  string
	LastName   string
	Gender     string
	RideType   string
	AutoNumber string
	Email      string
	Mobile     string
	Status     domain.Status
	Password   string
}

type ProfileService interface {
	List(ctx context.Context, kind domain.Kind) ([]domain.Account, error)
	Get(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error)
	Update(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64, in ProfileUpdate) (*domain.Account, error)
	Delete(ctx context.Context, actor domain.Principal, kind domain.Kind, id int64) error
}

type RideService interface {
	RideTypes(ctx context.Context) ([]string, error)
	RidesByType(ctx context.Context, rideType string) ([]domain.Ride, error)
	Ride(ctx context.Context, id int64) (*domain.Ride, error)
}
