package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/blogweb/blog-api/internal/core/domain"
	"github.com/blogweb/blog-api/internal/core/ports"
)

var _ ports.PostRepository = (*PostRepository)(nil)

// PostRepository implements ports.PostRepository on PostgreSQL.
type PostRepository struct {
	db DB
}

func NewPostRepository(db DB) *PostRepository {
	return &PostRepository{db: db}
}

const summaryColumns = `p.id, p.title, p.slug, p.last_update_date, c.name, u.name, u.email
	FROM posts p
	JOIN categories c ON c.id = p.category_id
	JOIN users u ON u.id = p.author_id`

func (r *PostRepository) List(ctx context.Context, filter ports.PostFilter) ([]domain.PostSummary, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `SELECT ` + summaryColumns + `
		ORDER BY p.last_update_date DESC
		LIMIT $1 OFFSET $2`
	posts, err := r.querySummaries(ctx, query, filter.PageSize, filter.Page*filter.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) ListByCategory(ctx context.Context, categorySlug string) ([]domain.PostSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := `SELECT ` + summaryColumns + `
		WHERE c.slug = $1
		ORDER BY p.last_update_date DESC`
	return r.querySummaries(ctx, query, categorySlug)
}

// FindByID returns the post with its author's roles, or domain.ErrPostNotFound
// for unknown or non-numeric ids.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*domain.Post, error) {
	postID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, domain.ErrPostNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const query = `SELECT p.id, p.title, p.summary, p.body, p.slug, p.create_date, p.last_update_date,
			c.id, c.name, c.slug,
			u.id, u.name, u.email, u.slug, u.image
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`

	var (
		p                  domain.Post
		pid, cid, authorID int64
	)
	err = r.db.QueryRow(ctx, query, postID).Scan(
		&pid, &p.Title, &p.Summary, &p.Body, &p.Slug, &p.CreateDate, &p.LastUpdateDate,
		&cid, &p.Category.Name, &p.Category.Slug,
		&authorID, &p.Author.Name, &p.Author.Email, &p.Author.Slug, &p.Author.Image,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	p.ID = strconv.FormatInt(pid, 10)
	p.Category.ID = strconv.FormatInt(cid, 10)
	p.Author.ID = strconv.FormatInt(authorID, 10)

	roles, err := loadRoles(ctx, r.db, authorID)
	if err != nil {
		return nil, err
	}
	p.Author.Roles = roles
	return &p, nil
}

func (r *PostRepository) querySummaries(ctx context.Context, query string, args ...any) ([]domain.PostSummary, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.PostSummary, 0)
	for rows.Next() {
		var (
			s  domain.PostSummary
			id int64
		)
		if err := rows.Scan(&id, &s.Title, &s.Slug, &s.LastUpdateDate, &s.Category, &s.AuthorName, &s.AuthorEmail); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		s.ID = strconv.FormatInt(id, 10)
		posts = append(posts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}
