package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogweb/blog-api/internal/core/domain"
	"github.com/blogweb/blog-api/internal/core/ports"
)

type stubPostRepo struct {
	posts      []domain.PostSummary
	full       map[string]*domain.Post
	err        error
	lastFilter ports.PostFilter
}

func (r *stubPostRepo) List(_ context.Context, filter ports.PostFilter) ([]domain.PostSummary, int64, error) {
	r.lastFilter = filter
	if r.err != nil {
		return nil, 0, r.err
	}
	start := filter.Page * filter.PageSize
	if start >= len(r.posts) {
		return nil, int64(len(r.posts)), nil
	}
	end := start + filter.PageSize
	if end > len(r.posts) {
		end = len(r.posts)
	}
	return r.posts[start:end], int64(len(r.posts)), nil
}

func (r *stubPostRepo) ListByCategory(_ context.Context, slug string) ([]domain.PostSummary, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []domain.PostSummary
	for _, p := range r.posts {
		if p.Category == slug {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id string) (*domain.Post, error) {
	if r.err != nil {
		return nil, r.err
	}
	p, ok := r.full[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return p, nil
}

func seededPostRepo(n int) *stubPostRepo {
	repo := &stubPostRepo{full: make(map[string]*domain.Post)}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		category := "go"
		if i%2 == 1 {
			category = "rust"
		}
		repo.posts = append(repo.posts, domain.PostSummary{
			ID:             string(rune('a' + i)),
			Title:          "post",
			LastUpdateDate: base.Add(time.Duration(-i) * time.Hour),
			Category:       category,
		})
	}
	repo.full["a"] = &domain.Post{ID: "a", Title: "first"}
	return repo
}

func TestPostService_ListPosts_Defaults(t *testing.T) {
	repo := seededPostRepo(3)
	svc := NewPostService(repo, zerolog.Nop())

	res, err := svc.ListPosts(context.Background(), ports.ListPostsInput{Page: -4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastFilter.Page != 0 || repo.lastFilter.PageSize != DefaultPageSize {
		t.Fatalf("unexpected filter: %+v", repo.lastFilter)
	}
	if res.Total != 3 || len(res.Posts) != 3 {
		t.Fatalf("unexpected result: total=%d len=%d", res.Total, len(res.Posts))
	}
}

func TestPostService_ListPosts_ClampsPageSize(t *testing.T) {
	repo := seededPostRepo(1)
	svc := NewPostService(repo, zerolog.Nop())

	res, err := svc.ListPosts(context.Background(), ports.ListPostsInput{PageSize: 5000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.PageSize != MaxPageSize {
		t.Fatalf("expected page size %d, got %d", MaxPageSize, res.PageSize)
	}
}

func TestPostService_ListPosts_PastLastPage(t *testing.T) {
	svc := NewPostService(seededPostRepo(2), zerolog.Nop())

	res, err := svc.ListPosts(context.Background(), ports.ListPostsInput{Page: 7, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Posts == nil || len(res.Posts) != 0 {
		t.Fatalf("expected empty non-nil page, got %v", res.Posts)
	}
	if res.Total != 2 {
		t.Fatalf("expected total 2, got %d", res.Total)
	}
}

func TestPostService_ListPosts_PageOffsetOverflow(t *testing.T) {
	repo := seededPostRepo(2)
	svc := NewPostService(repo, zerolog.Nop())

	_, err := svc.ListPosts(context.Background(), ports.ListPostsInput{Page: math.MaxInt / 20, PageSize: 25})
	if !errors.Is(err, domain.ErrPageOutOfRange) {
		t.Fatalf("expected ErrPageOutOfRange, got %v", err)
	}
	if repo.lastFilter != (ports.PostFilter{}) {
		t.Fatalf("store must not be queried, got filter %+v", repo.lastFilter)
	}
}

func TestPostService_ListPosts_LargestPageReachesStore(t *testing.T) {
	repo := seededPostRepo(2)
	svc := NewPostService(repo, zerolog.Nop())

	res, err := svc.ListPosts(context.Background(), ports.ListPostsInput{Page: math.MaxInt / 25, PageSize: 25})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if offset := repo.lastFilter.Page * repo.lastFilter.PageSize; offset < 0 {
		t.Fatalf("offset overflowed: %d", offset)
	}
	if len(res.Posts) != 0 || res.Total != 2 {
		t.Fatalf("unexpected result: total=%d len=%d", res.Total, len(res.Posts))
	}
}

func TestPostService_ListPosts_StoreError(t *testing.T) {
	svc := NewPostService(&stubPostRepo{err: errors.New("db down")}, zerolog.Nop())

	if _, err := svc.ListPosts(context.Background(), ports.ListPostsInput{}); !errors.Is(err, domain.ErrStore) {
		t.Fatalf("expected ErrStore, got %v", err)
	}
}

func TestPostService_GetPost(t *testing.T) {
	svc := NewPostService(seededPostRepo(1), zerolog.Nop())

	post, err := svc.GetPost(context.Background(), "a")
	if err != nil || post.Title != "first" {
		t.Fatalf("unexpected result: %v %v", post, err)
	}

	if _, err := svc.GetPost(context.Background(), "zzz"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := svc.GetPost(context.Background(), "zzz"); errors.Is(err, domain.ErrStore) {
		t.Fatalf("not found must not be reported as a store error")
	}
}

func TestPostService_ListByCategory(t *testing.T) {
	svc := NewPostService(seededPostRepo(4), zerolog.Nop())

	posts, err := svc.ListByCategory(context.Background(), "rust")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}

	if _, err := svc.ListByCategory(context.Background(), "cobol"); !errors.Is(err, domain.ErrPostNotFound) {
		t.Fatalf("expected ErrPostNotFound for empty category, got %v", err)
	}
}
