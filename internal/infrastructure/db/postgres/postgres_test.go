package postgres

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"email", &pgconn.PgError{Code: "23505", ConstraintName: emailConstraint}, emailConstraint},
		{"slug wrapped", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: slugConstraint}), slugConstraint},
		{"unnamed", &pgconn.PgError{Code: "23505"}, "unknown"},
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "user_roles_user_id_fkey"}, ""},
		{"plain", errors.New("connection reset"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uniqueViolation(tt.err))
		})
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, f := range files {
		body, err := fs.ReadFile(migrations, f)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", f)
		assert.Contains(t, string(body), "-- +goose Down", f)
	}

	initSQL, err := fs.ReadFile(migrations, "migrations/00001_init.sql")
	require.NoError(t, err)
	schema := string(initSQL)
	for _, constraint := range []string{emailConstraint, slugConstraint} {
		assert.True(t, strings.Contains(schema, "CONSTRAINT "+constraint), constraint)
	}
}
