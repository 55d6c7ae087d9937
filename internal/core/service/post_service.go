package service

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/blogweb/blog-api/internal/core/domain"
	"github.com/blogweb/blog-api/internal/core/ports"
)

const (
	DefaultPageSize = 25
	MaxPageSize     = 100
)

type PostService struct {
	repo   ports.PostRepository
	logger zerolog.Logger
}

func NewPostService(repo ports.PostRepository, logger zerolog.Logger) *PostService {
	return &PostService{repo: repo, logger: logger}
}

// ListPosts returns one page of posts. Page is 0-based; PageSize is clamped to
// [1, MaxPageSize]. Pages whose offset does not fit an int yield
// domain.ErrPageOutOfRange.
func (s *PostService) ListPosts(ctx context.Context, input ports.ListPostsInput) (*ports.ListPostsResult, error) {
	page := input.Page
	if page < 0 {
		page = 0
	}
	size := input.PageSize
	switch {
	case size <= 0:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}
	if page > math.MaxInt/size {
		return nil, domain.ErrPageOutOfRange
	}

	posts, total, err := s.repo.List(ctx, ports.PostFilter{Page: page, PageSize: size})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list posts")
		return nil, fmt.Errorf("list posts: %w: %w", domain.ErrStore, err)
	}
	if posts == nil {
		posts = []domain.PostSummary{}
	}

	return &ports.ListPostsResult{
		Total:    total,
		Page:     page,
		PageSize: size,
		Posts:    posts,
	}, nil
}

func (s *PostService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get post: %w: %w", domain.ErrStore, err)
	}
	return post, nil
}

// ListByCategory returns domain.ErrNoCategoryPosts when the category has no posts.
func (s *PostService) ListByCategory(ctx context.Context, slug string) ([]domain.PostSummary, error) {
	posts, err := s.repo.ListByCategory(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("list category posts: %w: %w", domain.ErrStore, err)
	}
	if len(posts) == 0 {
		return nil, domain.ErrNoCategoryPosts
	}
	return posts, nil
}
