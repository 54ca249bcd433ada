package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goride/admin-api/internal/core/domain"
	"github.com/goride/admin-api/internal/core/ports"
)

// RideService is the read-only view of the ride catalogue.
type RideService struct {
	rides ports.RideRepository
}

func NewRideService(rides ports.RideRepository) *RideService {
	return &RideService{rides: rides}
}

func (s *RideService) RideTypes(ctx context.Context) ([]string, error) {
	types, err := s.rides.DistinctTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("ride types: %w", err)
	}
	if len(types) == 0 {
		return nil, domain.Fail(domain.ErrNotFound, "No ride types available")
	}
	return types, nil
}

func (s *RideService) RidesByType(ctx context.Context, rideType string) ([]domain.Ride, error) {
	rideType = strings.TrimSpace(rideType)
	if rideType == "" {
		return nil, domain.Fail(domain.ErrValidation, "Ride type is required")
	}
	rides, err := s.rides.ListByType(ctx, rideType)
	if err != nil {
		return nil, fmt.Errorf("rides by type: %w", err)
	}
	if len(rides) == 0 {
		return nil, domain.Fail(domain.ErrNotFound, "No rides available")
	}
	return rides, nil
}

func (s *RideService) Ride(ctx context.Context, id int64) (*domain.Ride, error) {
	ride, err := s.rides.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Fail(domain.ErrNotFound, "No ride available")
		}
		return nil, fmt.Errorf("ride: %w", err)
	}
	return ride, nil
}
