package ports

import (
	"context"

	"github.com/blogweb/blog-api/internal/core/domain"
)

// AccountRepository is the slice of persistence the credential flows depend on.
// Implementations return domain.ErrDuplicateEmail / domain.ErrDuplicateSlug on
// uniqueness violations and domain.ErrAccountNotFound when no row matches.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string, includeRoles bool) (*domain.Account, error)
	Update(ctx context.Context, account *domain.Account) error
}
