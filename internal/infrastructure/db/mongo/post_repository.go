package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/blogweb/blog-api/internal/core/domain"
	"github.com/blogweb/blog-api/internal/core/ports"
)

const collectionPosts = "posts"

// PostRepository implements ports.PostRepository on MongoDB. Category and
// author are stored as snapshots inside each post document.
type PostRepository struct {
	col *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{col: db.Collection(collectionPosts)}
}

type mongoCategory struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
	Slug string `bson:"slug"`
}

type mongoAuthor struct {
	ID    string      `bson:"id"`
	Name  string      `bson:"name"`
	Email string      `bson:"email"`
	Slug  string      `bson:"slug"`
	Image string      `bson:"image,omitempty"`
	Roles []mongoRole `bson:"roles,omitempty"`
}

type mongoPost struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Title          string             `bson:"title"`
	Summary        string             `bson:"summary"`
	Body           string             `bson:"body"`
	Slug           string             `bson:"slug"`
	CreateDate     time.Time          `bson:"create_date"`
	LastUpdateDate time.Time          `bson:"last_update_date"`
	Category       mongoCategory      `bson:"category"`
	Author         mongoAuthor        `bson:"author"`
}

var summaryProjection = bson.M{"body": 0, "summary": 0}

// List returns one page ordered by last update, newest first.
func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter) ([]domain.PostSummary, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "last_update_date", Value: -1}}).
		SetSkip(int64(filter.Page * filter.PageSize)).
		SetLimit(int64(filter.PageSize)).
		SetProjection(summaryProjection)

	posts, err := r.findSummaries(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ListByCategory returns every post in the category, newest first.
func (r *PostRepository) ListByCategory(ctx context.Context, categorySlug string) ([]domain.PostSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "last_update_date", Value: -1}}).
		SetProjection(summaryProjection)

	return r.findSummaries(ctx, bson.M{"category.slug": categorySlug}, opts)
}

// FindByID returns domain.ErrPostNotFound for unknown or malformed ids.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mp mongoPost
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	return mp.toDomain(), nil
}

func (mp *mongoPost) toDomain() *domain.Post {
	roles := make([]domain.Role, 0, len(mp.Author.Roles))
	for _, r := range mp.Author.Roles {
		roles = append(roles, domain.Role{ID: r.ID, Name: r.Name, Slug: r.Slug})
	}
	return &domain.Post{
		ID:             mp.ID.Hex(),
		Title:          mp.Title,
		Summary:        mp.Summary,
		Body:           mp.Body,
		Slug:           mp.Slug,
		CreateDate:     mp.CreateDate,
		LastUpdateDate: mp.LastUpdateDate,
		Category:       domain.Category{ID: mp.Category.ID, Name: mp.Category.Name, Slug: mp.Category.Slug},
		Author: domain.Account{
			ID:    mp.Author.ID,
			Name:  mp.Author.Name,
			Email: mp.Author.Email,
			Slug:  mp.Author.Slug,
			Image: mp.Author.Image,
			Roles: roles,
		},
	}
}

// EnsureIndexes creates the indexes backing the list queries.
func (r *PostRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "last_update_date", Value: -1}}},
		{Keys: bson.D{{Key: "category.slug", Value: 1}, {Key: "last_update_date", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *PostRepository) findSummaries(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.PostSummary, error) {
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoPost
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	posts := make([]domain.PostSummary, 0, len(docs))
	for _, mp := range docs {
		posts = append(posts, domain.PostSummary{
			ID:             mp.ID.Hex(),
			Title:          mp.Title,
			Slug:           mp.Slug,
			LastUpdateDate: mp.LastUpdateDate,
			Category:       mp.Category.Name,
			AuthorName:     mp.Author.Name,
			AuthorEmail:    mp.Author.Email,
		})
	}
	return posts, nil
}
