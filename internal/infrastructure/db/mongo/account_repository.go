package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogweb/blog-api/internal/core/domain"
)

const (
	collectionUsers = "users"

	emailIndex = "users_email_key"
	slugIndex  = "users_slug_key"
)

// AccountRepository implements ports.AccountRepository on MongoDB. Roles are
// embedded in the user document.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionUsers)}
}

type mongoRole struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
	Slug string `bson:"slug"`
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Slug         string             `bson:"slug"`
	PasswordHash string             `bson:"password_hash"`
	Bio          string             `bson:"bio,omitempty"`
	Image        string             `bson:"image,omitempty"`
	Roles        []mongoRole        `bson:"roles,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

// Create inserts the account. The unique indexes on email and slug are
// translated to domain.ErrDuplicateEmail and domain.ErrDuplicateSlug.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(account)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateError(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(true), nil
}

// FindByEmail loads the account by its exact email.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string, includeRoles bool) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if !includeRoles {
		opts.SetProjection(bson.M{"roles": 0})
	}

	var mu mongoUser
	if err := r.col.FindOne(ctx, bson.M{"email": email}, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(includeRoles), nil
}

// Update rewrites the mutable profile fields. Roles are left untouched.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"email": account.Email}
	if oid, err := primitive.ObjectIDFromHex(account.ID); err == nil {
		filter = bson.M{"_id": oid}
	}

	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"name":       account.Name,
		"bio":        account.Bio,
		"image":      account.Image,
		"updated_at": account.UpdatedAt.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// EnsureIndexes creates the unique indexes the duplicate checks rely on.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(emailIndex)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true).SetName(slugIndex)},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// duplicateError picks the domain error from the violated index, which the
// server reports by name in the error message.
func duplicateError(err error) error {
	if strings.Contains(err.Error(), slugIndex) {
		return domain.ErrDuplicateSlug
	}
	return domain.ErrDuplicateEmail
}

func toMongoUser(a *domain.Account) *mongoUser {
	doc := &mongoUser{
		Name:         a.Name,
		Email:        a.Email,
		Slug:         a.Slug,
		PasswordHash: a.PasswordHash,
		Bio:          a.Bio,
		Image:        a.Image,
		CreatedAt:    a.CreatedAt.UTC(),
		UpdatedAt:    a.UpdatedAt.UTC(),
	}
	for _, role := range a.Roles {
		doc.Roles = append(doc.Roles, mongoRole{ID: role.ID, Name: role.Name, Slug: role.Slug})
	}
	return doc
}

func (mu *mongoUser) toDomain(includeRoles bool) *domain.Account {
	a := &domain.Account{
		ID:           mu.ID.Hex(),
		Name:         mu.Name,
		Email:        mu.Email,
		Slug:         mu.Slug,
		PasswordHash: mu.PasswordHash,
		Bio:          mu.Bio,
		Image:        mu.Image,
		CreatedAt:    mu.CreatedAt,
		UpdatedAt:    mu.UpdatedAt,
	}
	if includeRoles {
		a.Roles = make([]domain.Role, 0, len(mu.Roles))
		for _, role := range mu.Roles {
			a.Roles = append(a.Roles, domain.Role{ID: role.ID, Name: role.Name, Slug: role.Slug})
		}
	}
	return a
}
