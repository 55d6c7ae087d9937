package ports

import (
	"context"

	"github.com/blogweb/blog-api/internal/core/domain"
)

// ListPostsInput carries the list query parameters.
type ListPostsInput struct {
	Page     int
	PageSize int
}

// ListPostsResult is returned by ListPosts.
type ListPostsResult struct {
	Total    int64
	Page     int
	PageSize int
	Posts    []domain.PostSummary
}

// PostService defines the post read use cases.
type PostService interface {
	ListPosts(ctx context.Context, input ListPostsInput) (*ListPostsResult, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListByCategory(ctx context.Context, slug string) ([]domain.PostSummary, error)
}
