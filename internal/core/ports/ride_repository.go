package ports

import (
	"context"

	"github.com/goride/admin-api/internal/core/domain"
)

// RideRepository reads the ride_details catalogue.
type RideRepository interface {
	DistinctTypes(ctx context.Context) ([]string, error)
	ListByType(ctx context.Context, rideType string) ([]domain.Ride, error)
	FindByID(ctx context.Context, id int64) (*domain.Ride, error)
}
