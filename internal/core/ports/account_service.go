package ports

import (
	"context"

	"github.com/blogweb/blog-api/internal/core/domain"
)

// RegisterInput carries the already shape-validated registration request.
type RegisterInput struct {
	Name  string
	Email string
}

// RegisterResult is returned once the account is durably created.
// Password is the one-time plaintext secret; it is also emailed to the user.
type RegisterResult struct {
	Email    string
	Password string
	// Notified is false when the welcome email could not be handed off.
	Notified bool
}

// LoginInput carries the submitted credentials.
type LoginInput struct {
	Email    string
	Password string
}

// UploadImageInput carries the authenticated identity and the encoded image.
type UploadImageInput struct {
	Claims      *domain.Claims
	Base64Image string
}

// AccountService defines the account and session use cases.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Login(ctx context.Context, input LoginInput) (string, error)
	UploadImage(ctx context.Context, input UploadImageInput) (string, error)
	Authenticate(ctx context.Context, token string) (*domain.Claims, error)
	Logout(ctx context.Context, claims *domain.Claims) error
}
