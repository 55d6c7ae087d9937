package ports

import (
	"context"
	"time"

	"github.com/blogweb/blog-api/internal/core/domain"
)

// SecretGenerator produces random human-presentable passwords.
type SecretGenerator interface {
	Generate(length int) (string, error)
}

// PasswordHasher hashes and verifies passwords. Verify returns (false, nil) on
// a mismatch and domain.ErrHashMalformed when the stored hash cannot be parsed.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) (bool, error)
}

// TokenService issues and validates signed session tokens.
type TokenService interface {
	Issue(account *domain.Account) (string, error)
	Validate(token string) (*domain.Claims, error)
}

// TokenDenylist remembers revoked token ids until they would have expired anyway.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LoginLimiter counts failed logins per key inside a sliding window.
type LoginLimiter interface {
	Exceeded(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}
