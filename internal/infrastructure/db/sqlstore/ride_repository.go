package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/samber/oops"

	"github.com/goride/admin-api/internal/core/domain"
)

const rideColumns = "ride_id, ride_type, vehicle_name, capacity, base_fare, per_km_fare, description, created_at"

type RideRepository struct {
	db *sql.DB
}

func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{db: db}
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var (
		ride domain.Ride
		desc sql.NullString
	)
	err := row.Scan(&ride.ID, &ride.RideType, &ride.VehicleName, &ride.Capacity, &ride.BaseFare, &ride.PerKmFare, &desc, &ride.CreatedAt)
	if err != nil {
		return nil, err
	}
	ride.Description = desc.String
	return &ride, nil
}

func (r *RideRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT ride_type FROM ride_details ORDER BY ride_type")
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("table", "ride_details").Wrap(err)
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, oops.Code("DB_SCAN_FAILED").With("table", "ride_details").Wrap(err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *RideRepository) ListByType(ctx context.Context, rideType string) ([]domain.Ride, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, "SELECT "+rideColumns+" FROM ride_details WHERE ride_type = ? ORDER BY ride_id", rideType)
	if err != nil {
		return nil, oops.Code("DB_QUERY_FAILED").With("table", "ride_details").Wrap(err)
	}
	defer rows.Close()

	var rides []domain.Ride
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, oops.Code("DB_SCAN_FAILED").With("table", "ride_details").Wrap(err)
		}
		rides = append(rides, *ride)
	}
	return rides, rows.Err()
}

func (r *RideRepository) FindByID(ctx context.Context, id int64) (*domain.Ride, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ride, err := scanRide(r.db.QueryRowContext(ctx, "SELECT "+rideColumns+" FROM ride_details WHERE ride_id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, oops.Code("DB_QUERY_FAILED").With("table", "ride_details").With("ride_id", id).Wrap(err)
	}
	return ride, nil
}

// SeedRides inserts rides when the catalogue is empty and reports how many
// rows were written.
func (r *RideRepository) SeedRides(ctx context.Context, rides []domain.Ride) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ride_details").Scan(&n); err != nil {
		return 0, oops.Code("DB_QUERY_FAILED").With("table", "ride_details").Wrap(err)
	}
	if n > 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, oops.Code("DB_TX_FAILED").Wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, ride := range rides {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO ride_details (ride_type, vehicle_name, capacity, base_fare, per_km_fare, description, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			ride.RideType, ride.VehicleName, ride.Capacity, ride.BaseFare, ride.PerKmFare, ride.Description, ride.CreatedAt.UTC(),
		)
		if err != nil {
			return 0, oops.Code("DB_INSERT_FAILED").With("table", "ride_details").With("vehicle", ride.VehicleName).Wrap(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, oops.Code("DB_TX_FAILED").Wrap(err)
	}
	return len(rides), nil
}
