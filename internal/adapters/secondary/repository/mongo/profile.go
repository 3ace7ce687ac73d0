package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/DangKhoi2208/imago-core/internal/core/domain"
)

type profileDocument struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Bio       string    `bson:"bio"`
	PhotoURL  string    `bson:"photoUrl"`
	Phone     string    `bson:"phone"`
	UserName  string    `bson:"userName"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	Category  []string  `bson:"category"`
	Followers []string  `bson:"followers"`
	Following []string  `bson:"following"`
	Gender    string    `bson:"gender"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
	Version   int64     `bson:"version"`
}

func toProfileDocument(p *domain.Profile) profileDocument {
	return profileDocument{
		ID:        p.ID,
		Email:     p.Email,
		Bio:       p.Bio,
		PhotoURL:  p.PhotoURL,
		Phone:     p.Phone,
		UserName:  p.UserName,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Category:  nonNil(p.Category.Slice()),
		Followers: nonNil(p.Followers.Slice()),
		Following: nonNil(p.Following.Slice()),
		Gender:    p.Gender,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Version:   p.Version,
	}
}

func (d profileDocument) toDomain() *domain.Profile {
	return &domain.Profile{
		ID:        d.ID,
		Email:     d.Email,
		Bio:       d.Bio,
		PhotoURL:  d.PhotoURL,
		Phone:     d.Phone,
		UserName:  d.UserName,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Category:  domain.NewIDSet(d.Category...),
		Followers: domain.NewIDSet(d.Followers...),
		Following: domain.NewIDSet(d.Following...),
		Gender:    d.Gender,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Version:   d.Version,
	}
}

type ProfileRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

func NewProfileRepo(client *mongo.Client, db *mongo.Database) *ProfileRepo {
	return &ProfileRepo{client: client, coll: db.Collection(profilesCollection)}
}

func (r *ProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	_, err := r.coll.InsertOne(ctx, toProfileDocument(p))
	return handleError(err, domain.EntityProfile, p.ID)
}

func (r *ProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	return r.replace(ctx, p)
}

// UpdateMany replaces every profile inside one transaction.
func (r *ProfileRepo) UpdateMany(ctx context.Context, profiles ...*domain.Profile) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	// Versions are bumped only once the transaction commits.
	staged := make([]*domain.Profile, len(profiles))
	for i, p := range profiles {
		staged[i] = p.Clone()
	}
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for i, p := range profiles {
			staged[i].Version = p.Version
			if err := r.replace(sc, staged[i]); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}
	for i, p := range profiles {
		p.Version = staged[i].Version
	}
	return nil
}

func (r *ProfileRepo) Get(ctx context.Context, id string) (*domain.Profile, error) {
	var doc profileDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, handleError(err, domain.EntityProfile, id)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepo) GetAll(ctx context.Context) ([]*domain.Profile, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: get all profiles: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode profiles: %w", err)
	}
	out := make([]*domain.Profile, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

// replace writes p only if the stored version still matches.
func (r *ProfileRepo) replace(ctx context.Context, p *domain.Profile) error {
	doc := toProfileDocument(p)
	doc.Version = p.Version + 1

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID, "version": p.Version}, doc)
	if err != nil {
		return handleError(err, domain.EntityProfile, p.ID)
	}
	if res.MatchedCount == 0 {
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": p.ID})
		if err != nil {
			return handleError(err, domain.EntityProfile, p.ID)
		}
		if n > 0 {
			return domain.NewStaleWriteError(domain.EntityProfile, p.ID)
		}
		return domain.NewNotFoundError(domain.EntityProfile, p.ID, "Profile not found")
	}
	p.Version = doc.Version
	return nil
}
