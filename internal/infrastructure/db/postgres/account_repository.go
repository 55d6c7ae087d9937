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

const (
	emailConstraint = "users_email_key"
	slugConstraint  = "users_slug_key"
)

var _ ports.AccountRepository = (*AccountRepository)(nil)

// AccountRepository implements ports.AccountRepository on PostgreSQL.
type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create inserts the account and links any roles given by slug in one
// transaction.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	created := *account
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		const insertUser = `INSERT INTO users (name, email, slug, password_hash, bio, image, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`
		var id int64
		if err := tx.QueryRow(ctx, insertUser,
			account.Name,
			account.Email,
			account.Slug,
			account.PasswordHash,
			account.Bio,
			account.Image,
			account.CreatedAt,
			account.UpdatedAt,
		).Scan(&id); err != nil {
			return err
		}
		created.ID = strconv.FormatInt(id, 10)

		const linkRole = `INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE slug = $2
			ON CONFLICT DO NOTHING`
		for _, role := range account.Roles {
			if _, err := tx.Exec(ctx, linkRole, id, role.Slug); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch uniqueViolation(err) {
		case "":
			return nil, fmt.Errorf("insert user: %w", err)
		case slugConstraint:
			return nil, domain.ErrDuplicateSlug
		default:
			return nil, domain.ErrDuplicateEmail
		}
	}
	return &created, nil
}

// FindByEmail loads the account by exact email, optionally with its roles.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string, includeRoles bool) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const query = `SELECT id, name, email, slug, password_hash, bio, image, created_at, updated_at
		FROM users WHERE email = $1`

	var (
		a  domain.Account
		id int64
	)
	err := r.db.QueryRow(ctx, query, email).Scan(
		&id, &a.Name, &a.Email, &a.Slug, &a.PasswordHash, &a.Bio, &a.Image, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	a.ID = strconv.FormatInt(id, 10)

	if includeRoles {
		roles, err := loadRoles(ctx, r.db, id)
		if err != nil {
			return nil, err
		}
		a.Roles = roles
	}
	return &a, nil
}

// Update rewrites the mutable profile fields. Roles are left untouched.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	const query = `UPDATE users SET name = $2, bio = $3, image = $4, updated_at = $5 WHERE email = $1`
	tag, err := r.db.Exec(ctx, query, account.Email, account.Name, account.Bio, account.Image, account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// Ping is used by the readiness probe.
func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
