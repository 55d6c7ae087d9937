package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogweb/blog-api/internal/core/domain"
)

var userColumns = []string{"id", "name", "email", "slug", "password_hash", "bio", "image", "created_at", "updated_at"}

func newMockDB(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func newAccount() *domain.Account {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Account{
		Name:         "Ada",
		Email:        "ada@x.com",
		Slug:         "ada-x-com",
		PasswordHash: "$2a$10$hash",
		Roles:        []domain.Role{{Slug: "author"}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestAccountRepository_Create(t *testing.T) {
	mock := newMockDB(t)
	account := newAccount()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Ada", "ada@x.com", "ada-x-com", "$2a$10$hash", "", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO user_roles").
		WithArgs(int64(7), "author").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	created, err := NewAccountRepository(mock).Create(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, "7", created.ID)
	assert.Equal(t, "ada@x.com", created.Email)
	assert.Empty(t, account.ID)
}

func TestAccountRepository_Create_UniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{"email", emailConstraint, domain.ErrDuplicateEmail},
		{"slug", slugConstraint, domain.ErrDuplicateSlug},
		{"unnamed", "", domain.ErrDuplicateEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			mock.ExpectBegin()
			mock.ExpectQuery("INSERT INTO users").
				WillReturnError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: tt.constraint})
			mock.ExpectRollback()

			_, err := NewAccountRepository(mock).Create(context.Background(), newAccount())
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAccountRepository_Create_StoreFailure(t *testing.T) {
	mock := newMockDB(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec("INSERT INTO user_roles").WillReturnError(boom)
	mock.ExpectRollback()

	_, err := NewAccountRepository(mock).Create(context.Background(), newAccount())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.NotErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestAccountRepository_FindByEmail_WithRoles(t *testing.T) {
	mock := newMockDB(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("ada@x.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(7), "Ada", "ada@x.com", "ada-x-com", "$2a$10$hash", "", "", created, created))
	mock.ExpectQuery("FROM roles r JOIN user_roles").
		WithArgs(int64(7)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slug"}).
			AddRow(int64(1), "Author", "author").
			AddRow(int64(2), "Editor", "editor"))

	account, err := NewAccountRepository(mock).FindByEmail(context.Background(), "ada@x.com", true)
	require.NoError(t, err)
	assert.Equal(t, "7", account.ID)
	assert.Equal(t, "$2a$10$hash", account.PasswordHash)
	assert.Equal(t, []domain.Role{
		{ID: "1", Name: "Author", Slug: "author"},
		{ID: "2", Name: "Editor", Slug: "editor"},
	}, account.Roles)
}

func TestAccountRepository_FindByEmail_WithoutRoles(t *testing.T) {
	mock := newMockDB(t)
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("ada@x.com").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(int64(7), "Ada", "ada@x.com", "ada-x-com", "$2a$10$hash", "", "", created, created))

	account, err := NewAccountRepository(mock).FindByEmail(context.Background(), "ada@x.com", false)
	require.NoError(t, err)
	assert.Nil(t, account.Roles)
}

func TestAccountRepository_FindByEmail_NotFound(t *testing.T) {
	mock := newMockDB(t)
	mock.ExpectQuery("FROM users WHERE email").
		WithArgs("ghost@x.com").
		WillReturnRows(pgxmock.NewRows(userColumns))

	_, err := NewAccountRepository(mock).FindByEmail(context.Background(), "ghost@x.com", true)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountRepository_Update(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		want     error
	}{
		{"updated", 1, nil},
		{"unknown email", 0, domain.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMockDB(t)
			account := newAccount()
			account.Image = "abc.jpg"

			mock.ExpectExec("UPDATE users SET").
				WithArgs("ada@x.com", "Ada", "", "abc.jpg", pgxmock.AnyArg()).
				WillReturnResult(pgxmock.NewResult("UPDATE", tt.affected))

			err := NewAccountRepository(mock).Update(context.Background(), account)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
