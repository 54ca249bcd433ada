package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goride/admin-api/internal/core/domain"
)

const collectionCounters = "counters"

// collections maps each account kind to its own collection, mirroring the
// one-table-per-kind layout of the SQL store.
var collections = map[domain.Kind]string{
	domain.KindAdmin:    "admins",
	domain.KindCustomer: "customers",
	domain.KindDriver:   "drivers",
}

// AccountRepository implements ports.AccountRepository using MongoDB.
// Documents use integer _id values drawn from the counters collection so
// IDs look the same whichever store backs the service.
type AccountRepository struct {
	db *mongo.Database
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{db: db}
}

type accountDoc struct {
	ID         int64     `bson:"_id"`
	Name       string    `bson:"name,omitempty"`
	FirstName  string    `bson:"first_name,omitempty"`
	LastName   string    `bson:"last_name,omitempty"`
	Gender     string    `bson:"gender,omitempty"`
	RideType   string    `bson:"ride_type,omitempty"`
	AutoNumber string    `bson:"auto_number,omitempty"`
	Email      string    `bson:"email"`
	Mobile     string    `bson:"mobile"`
	Password   string    `bson:"password"`
	Status     string    `bson:"status"`
	ProfilePic string    `bson:"profile_pic,omitempty"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

func toDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:         a.ID,
		Name:       a.Name,
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Gender:     a.Gender,
		RideType:   a.RideType,
		AutoNumber: a.AutoNumber,
		Email:      a.Email,
		Mobile:     a.Mobile,
		Password:   a.PasswordDigest,
		Status:     string(a.Status),
		ProfilePic: a.ProfilePic,
		CreatedAt:  a.CreatedAt.UTC(),
		UpdatedAt:  a.UpdatedAt.UTC(),
	}
}

func (d accountDoc) toDomain(kind domain.Kind) *domain.Account {
	return &domain.Account{
		ID:             d.ID,
		Kind:           kind,
		Name:           d.Name,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Gender:         d.Gender,
		RideType:       d.RideType,
		AutoNumber:     d.AutoNumber,
		Email:          d.Email,
		Mobile:         d.Mobile,
		PasswordDigest: d.Password,
		Status:         domain.Status(d.Status),
		ProfilePic:     d.ProfilePic,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

func (r *AccountRepository) col(kind domain.Kind) (*mongo.Collection, error) {
	name, ok := collections[kind]
	if !ok {
		return nil, fmt.Errorf("unknown account kind %q", kind)
	}
	return r.db.Collection(name), nil
}

// nextID atomically increments the sequence for collection name.
func (r *AccountRepository) nextID(ctx context.Context, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next id for %s: %w", name, err)
	}
	return counter.Seq, nil
}

func (r *AccountRepository) Create(ctx context.Context, acc *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(acc.Kind)
	if err != nil {
		return nil, err
	}
	id, err := r.nextID(ctx, col.Name())
	if err != nil {
		return nil, err
	}

	created := *acc
	created.ID = id
	if _, err := col.InsertOne(ctx, toDoc(&created)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateCredential
		}
		return nil, fmt.Errorf("insert %s: %w", acc.Kind, err)
	}
	return &created, nil
}

func (r *AccountRepository) findOne(ctx context.Context, kind domain.Kind, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(kind)
	if err != nil {
		return nil, err
	}
	var doc accountDoc
	if err := col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find %s: %w", kind, err)
	}
	return doc.toDomain(kind), nil
}

func (r *AccountRepository) FindByID(ctx context.Context, kind domain.Kind, id int64) (*domain.Account, error) {
	return r.findOne(ctx, kind, bson.M{"_id": id})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, kind domain.Kind, email string) (*domain.Account, error) {
	return r.findOne(ctx, kind, bson.M{"email": email})
}

func (r *AccountRepository) FindByEmailOrMobile(ctx context.Context, kind domain.Kind, email, mobile string, excludeID int64) ([]domain.Account, error) {
	filter := bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"mobile": mobile}}}
	if excludeID > 0 {
		filter["_id"] = bson.M{"$ne": excludeID}
	}
	return r.find(ctx, kind, filter)
}

func (r *AccountRepository) List(ctx context.Context, kind domain.Kind) ([]domain.Account, error) {
	return r.find(ctx, kind, bson.M{})
}

func (r *AccountRepository) find(ctx context.Context, kind domain.Kind, filter bson.M) ([]domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(kind)
	if err != nil {
		return nil, err
	}
	cur, err := col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	var docs []accountDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}

	out := make([]domain.Account, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.toDomain(kind))
	}
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, acc *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(acc.Kind)
	if err != nil {
		return err
	}
	doc := toDoc(acc)
	set := bson.M{
		"name":        doc.Name,
		"first_name":  doc.FirstName,
		"last_name":   doc.LastName,
		"gender":      doc.Gender,
		"ride_type":   doc.RideType,
		"auto_number": doc.AutoNumber,
		"email":       doc.Email,
		"mobile":      doc.Mobile,
		"password":    doc.Password,
		"status":      doc.Status,
		"profile_pic": doc.ProfilePic,
		"updated_at":  doc.UpdatedAt,
	}
	res, err := col.UpdateOne(ctx, bson.M{"_id": acc.ID}, bson.M{"$set": set})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateCredential
		}
		return fmt.Errorf("update %s: %w", acc.Kind, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) UpdatePassword(ctx context.Context, kind domain.Kind, email, digest string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	col, err := r.col(kind)
	if err != nil {
		return err
	}
	res, err := col.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": digest, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update %s password: %w", kind, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email and mobile indexes on every account
// collection. They back the service-level duplicate check against races.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, kind := range domain.Kinds {
		col, err := r.col(kind)
		if err != nil {
			return err
		}
		indexes := []mongo.IndexModel{
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "mobile", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		}
		if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("indexes for %s: %w", col.Name(), err)
		}
	}
	return nil
}
