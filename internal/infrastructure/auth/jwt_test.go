package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogweb/blog-api/internal/core/domain"
)

var testSecret = []byte("test-signing-key-0123456789abcdef-0123")

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestJWT(t *testing.T, clock *fakeClock) *JWTService {
	t.Helper()
	svc, err := NewJWTService(TokenConfig{Secret: testSecret, Issuer: "blog-test", TTL: time.Hour}, WithClock(clock.Now))
	require.NoError(t, err)
	return svc
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:    "42",
		Email: "ada@x.com",
		Roles: []domain.Role{{Name: "author"}, {Name: "admin"}},
	}
}

func TestJWTService_IssueAndValidate(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := newTestJWT(t, clock)

	token, err := svc.Issue(testAccount())
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, "ada@x.com", claims.Email)
	assert.Equal(t, []string{"author", "admin"}, claims.Roles)
	assert.NotEmpty(t, claims.TokenID)
	assert.True(t, claims.IssuedAt.Equal(clock.t))
	assert.True(t, claims.ExpiresAt.Equal(clock.t.Add(time.Hour)))
}

func TestJWTService_TokenIDsAreUnique(t *testing.T) {
	svc := newTestJWT(t, &fakeClock{t: time.Now().Truncate(time.Second)})

	a, err := svc.Issue(testAccount())
	require.NoError(t, err)
	b, err := svc.Issue(testAccount())
	require.NoError(t, err)

	ca, err := svc.Validate(a)
	require.NoError(t, err)
	cb, err := svc.Validate(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.TokenID, cb.TokenID)
}

func TestJWTService_Expired(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := newTestJWT(t, clock)

	token, err := svc.Issue(testAccount())
	require.NoError(t, err)

	clock.Advance(time.Hour - time.Second)
	_, err = svc.Validate(token)
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = svc.Validate(token)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired), "got %v", err)
	assert.False(t, errors.Is(err, domain.ErrTokenSignatureInvalid))
}

func TestJWTService_TamperedSignature(t *testing.T) {
	svc := newTestJWT(t, &fakeClock{t: time.Now().Truncate(time.Second)})

	token, err := svc.Issue(testAccount())
	require.NoError(t, err)

	sigStart := strings.LastIndex(token, ".") + 1
	replacement := byte('A')
	if token[sigStart] == 'A' {
		replacement = 'B'
	}
	tampered := token[:sigStart] + string(replacement) + token[sigStart+1:]

	_, err = svc.Validate(tampered)
	assert.True(t, errors.Is(err, domain.ErrTokenSignatureInvalid), "got %v", err)
}

func TestJWTService_WrongKey(t *testing.T) {
	clock := &fakeClock{t: time.Now().Truncate(time.Second)}
	issuer := newTestJWT(t, clock)
	other, err := NewJWTService(TokenConfig{Secret: []byte("another-signing-key-0123456789abcdef"), Issuer: "blog-test"}, WithClock(clock.Now))
	require.NoError(t, err)

	token, err := issuer.Issue(testAccount())
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.True(t, errors.Is(err, domain.ErrTokenSignatureInvalid), "got %v", err)
}

func TestJWTService_Malformed(t *testing.T) {
	svc := newTestJWT(t, &fakeClock{t: time.Now()})

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := svc.Validate(raw)
		assert.True(t, errors.Is(err, domain.ErrTokenMalformed), "token %q: got %v", raw, err)
	}
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	svc := newTestJWT(t, &fakeClock{t: time.Now()})

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(unsigned)
	assert.True(t, domain.IsTokenError(err), "got %v", err)
}

func TestNewJWTService_RejectsShortSecret(t *testing.T) {
	_, err := NewJWTService(TokenConfig{Secret: []byte("short")})
	assert.Error(t, err)
}

func TestNewJWTService_DefaultTTL(t *testing.T) {
	svc, err := NewJWTService(TokenConfig{Secret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, 8*time.Hour, svc.TTL())
}
