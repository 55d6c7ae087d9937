package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/blogweb/blog-api/internal/core/domain"
	"github.com/blogweb/blog-api/internal/core/ports"
	"github.com/blogweb/blog-api/internal/pkg/metrics"
)

const welcomeSubject = "Welcome to Blog Web"

// dataURIPrefix matches the "data:image/<type>;base64," header browsers put in front of the payload.
var dataURIPrefix = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// AccountDeps groups the collaborators of AccountService.
// Denylist and Limiter are optional.
type AccountDeps struct {
	Repo     ports.AccountRepository
	Secrets  ports.SecretGenerator
	Hasher   ports.PasswordHasher
	Tokens   ports.TokenService
	Notifier ports.Notifier
	Assets   ports.AssetStore
	Denylist ports.TokenDenylist
	Limiter  ports.LoginLimiter
}

// AccountService implements registration, login, image upload and session checks.
type AccountService struct {
	repo     ports.AccountRepository
	secrets  ports.SecretGenerator
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	notifier ports.Notifier
	assets   ports.AssetStore
	denylist ports.TokenDenylist
	limiter  ports.LoginLimiter
	log      zerolog.Logger
	now      func() time.Time
}

func NewAccountService(deps AccountDeps, log zerolog.Logger) *AccountService {
	return &AccountService{
		repo:     deps.Repo,
		secrets:  deps.Secrets,
		hasher:   deps.Hasher,
		tokens:   deps.Tokens,
		notifier: deps.Notifier,
		assets:   deps.Assets,
		denylist: deps.Denylist,
		limiter:  deps.Limiter,
		log:      log,
		now:      time.Now,
	}
}

// Register creates an account with a generated password, then emails the
// password to the user. A failed email does not undo the account.
func (s *AccountService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	secret, err := s.secrets.Generate(domain.GeneratedPasswordLength)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("register: generate password: %w", err)
	}

	start := time.Now()
	hash, err := s.hasher.Hash(secret)
	metrics.PasswordHashDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	account := &domain.Account{
		Name:         in.Name,
		Email:        in.Email,
		Slug:         domain.SlugFromEmail(in.Email),
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateSlug) {
			metrics.RegistrationsTotal.WithLabelValues("duplicate").Inc()
			s.log.Info().Str("email", in.Email).Err(err).Msg("registration rejected")
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, fmt.Errorf("register: %w: %w", domain.ErrStore, err)
	}
	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()

	result := &ports.RegisterResult{Email: created.Email, Password: secret, Notified: true}

	body, err := renderWelcome(created.Name, secret)
	if err == nil {
		err = s.notifier.Send(ctx, created.Name, created.Email, welcomeSubject, body)
	}
	if err != nil {
		result.Notified = false
		s.log.Warn().
			Err(err).
			Str("account_id", created.ID).
			Str("email", created.Email).
			Msg("welcome email not delivered")
	}

	s.log.Info().Str("account_id", created.ID).Str("email", created.Email).Msg("account registered")
	return result, nil
}

// Login verifies the credentials and returns a signed session token. Unknown
// email and wrong password both surface as domain.ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, in ports.LoginInput) (string, error) {
	if s.limiter != nil {
		exceeded, err := s.limiter.Exceeded(ctx, in.Email)
		if err != nil {
			s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
		} else if exceeded {
			metrics.LoginsTotal.WithLabelValues("throttled").Inc()
			return "", domain.ErrTooManyAttempts
		}
	}

	account, err := s.repo.FindByEmail(ctx, in.Email, true)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("not_found").Inc()
			s.recordFailure(ctx, in.Email)
			s.log.Debug().Str("email", in.Email).Msg("login for unknown email")
			return "", fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
		}
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return "", fmt.Errorf("login: %w: %w", domain.ErrStore, err)
	}

	ok, err := s.hasher.Verify(account.PasswordHash, in.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("malformed_hash").Inc()
		s.recordFailure(ctx, in.Email)
		s.log.Error().Err(err).Str("account_id", account.ID).Msg("stored password hash cannot be verified")
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, err)
	}
	if !ok {
		metrics.LoginsTotal.WithLabelValues("mismatch").Inc()
		s.recordFailure(ctx, in.Email)
		s.log.Debug().Str("account_id", account.ID).Msg("login password mismatch")
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidCredentials, domain.ErrPasswordMismatch)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, in.Email); err != nil {
			s.log.Warn().Err(err).Msg("failed to reset login limiter")
		}
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info().Str("account_id", account.ID).Msg("login succeeded")
	return token, nil
}

// UploadImage stores the decoded image and points the caller's account at it.
// If the account update fails after the write, the stored asset is orphaned.
func (s *AccountService) UploadImage(ctx context.Context, in ports.UploadImageInput) (string, error) {
	data, err := decodeImage(in.Base64Image)
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("invalid").Inc()
		return "", err
	}

	name := uuid.NewString() + ".jpg"
	if err := s.assets.WriteBytes(ctx, name, data); err != nil {
		metrics.ImageUploadsTotal.WithLabelValues("storage_error").Inc()
		return "", fmt.Errorf("upload image: %w: %w", domain.ErrStorage, err)
	}

	account, err := s.repo.FindByEmail(ctx, in.Claims.Email, false)
	if err != nil {
		metrics.ImageUploadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		if errors.Is(err, domain.ErrAccountNotFound) {
			return "", fmt.Errorf("upload image: authenticated account %q missing: %w", in.Claims.Subject, err)
		}
		return "", fmt.Errorf("upload image: %w: %w", domain.ErrStore, err)
	}

	account.Image = name
	account.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, account); err != nil {
		metrics.ImageUploadsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		s.log.Warn().Str("asset", name).Msg("image stored but account update failed, asset orphaned")
		return "", fmt.Errorf("upload image: %w: %w", domain.ErrStore, err)
	}

	metrics.ImageUploadsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.log.Info().Str("account_id", account.ID).Str("asset", name).Msg("profile image updated")
	return name, nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*domain.Claims, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		metrics.TokenValidationsTotal.WithLabelValues(tokenResult(err)).Inc()
		return nil, err
	}

	if s.denylist != nil && claims.TokenID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
		if err != nil {
			s.log.Warn().Err(err).Msg("token denylist unavailable, accepting token")
		} else if revoked {
			metrics.TokenValidationsTotal.WithLabelValues("revoked").Inc()
			return nil, domain.ErrTokenRevoked
		}
	}

	metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
	return claims, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *AccountService) Logout(ctx context.Context, claims *domain.Claims) error {
	if s.denylist == nil {
		return domain.ErrRevocationUnavailable
	}
	if err := s.denylist.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w: %w", domain.ErrStore, err)
	}
	s.log.Info().Str("account_id", claims.Subject).Msg("session revoked")
	return nil
}

func (s *AccountService) recordFailure(ctx context.Context, email string) {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.RecordFailure(ctx, email); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
}

// decodeImage strips an optional data URI header and decodes standard base64.
func decodeImage(encoded string) ([]byte, error) {
	payload := strings.TrimSpace(dataURIPrefix.ReplaceAllString(strings.TrimSpace(encoded), ""))
	if payload == "" {
		return nil, domain.ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil || len(data) == 0 {
		return nil, domain.ErrInvalidImage
	}
	return data, nil
}

func tokenResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired"
	case errors.Is(err, domain.ErrTokenSignatureInvalid):
		return "signature_invalid"
	default:
		return "malformed"
	}
}
