package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goride/admin-api/internal/core/domain"
)

const collectionRides = "ride_details"

type RideRepository struct {
	col *mongo.Collection
}

func NewRideRepository(db *mongo.Database) *RideRepository {
	return &RideRepository{col: db.Collection(collectionRides)}
}

func (r *RideRepository) DistinctTypes(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "ride_type", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("distinct ride types: %w", err)
	}
	types := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			types = append(types, s)
		}
	}
	sort.Strings(types)
	return types, nil
}

func (r *RideRepository) ListByType(ctx context.Context, rideType string) ([]domain.Ride, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"ride_type": rideType}, options.Find().SetSort(bson.D{{Key: "ride_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list rides: %w", err)
	}
	var rides []domain.Ride
	if err := cur.All(ctx, &rides); err != nil {
		return nil, fmt.Errorf("decode rides: %w", err)
	}
	return rides, nil
}

func (r *RideRepository) FindByID(ctx context.Context, id int64) (*domain.Ride, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var ride domain.Ride
	if err := r.col.FindOne(ctx, bson.M{"ride_id": id}).Decode(&ride); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find ride: %w", err)
	}
	return &ride, nil
}

// EnsureIndexes creates necessary indexes on the ride_details collection.
func (r *RideRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ride_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ride_type", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// SeedRides inserts rides with sequential ride_id values when the catalogue
// is empty and reports how many documents were written.
func (r *RideRepository) SeedRides(ctx context.Context, rides []domain.Ride) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count rides: %w", err)
	}
	if n > 0 || len(rides) == 0 {
		return 0, nil
	}

	docs := make([]interface{}, 0, len(rides))
	for i, ride := range rides {
		ride.ID = int64(i + 1)
		ride.CreatedAt = ride.CreatedAt.UTC()
		docs = append(docs, ride)
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return 0, fmt.Errorf("seed rides: %w", err)
	}
	return len(docs), nil
}
