package ports

import (
	"context"

	"github.com/blogweb/blog-api/internal/core/domain"
)

// PostFilter carries pagination for the post list. Page is 0-based.
type PostFilter struct {
	Page     int
	PageSize int
}

// PostRepository defines the read side of posts.
type PostRepository interface {
	// List returns a page of posts ordered by last update (newest first) and the total count.
	List(ctx context.Context, filter PostFilter) ([]domain.PostSummary, int64, error)
	// ListByCategory returns every post in the category, newest first.
	ListByCategory(ctx context.Context, categorySlug string) ([]domain.PostSummary, error)
	// FindByID returns the full post or domain.ErrPostNotFound.
	FindByID(ctx context.Context, id string) (*domain.Post, error)
}
