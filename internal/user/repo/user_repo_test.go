package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/auth"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/storetest"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/user/entity"
	"github.com/ovaphlow/pitchfork/service-healthcare-go/pkg/database"
)

func newRepo(t *testing.T) *UserRepo {
	t.Helper()
	r := NewUserRepo(storetest.Open(t))
	require.NoError(t, r.EnsureTable(context.Background()))
	// idempotent
	require.NoError(t, r.EnsureTable(context.Background()))
	return r
}

func TestUserRepoCreateAndGet(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &entity.User{ID: "u1", Name: "Alice", Email: "alice@x.com", PasswordHash: "hash", Role: auth.RoleBasic, CreatedAt: created}
	require.NoError(t, r.Create(ctx, u))

	byEmail, err := r.GetByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)
	assert.Equal(t, auth.RoleBasic, byEmail.Role)
	assert.Equal(t, "hash", byEmail.PasswordHash)
	assert.True(t, created.Equal(byEmail.CreatedAt))

	assert.Equal(t, "Alice", byEmail.Name)

	_, err = r.GetByEmail(ctx, "bob@x.com")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUserRepoEmailUnique(t *testing.T) {
	ctx := context.Background()
	r := newRepo(t)
	now := time.Now().UTC()
	require.NoError(t, r.Create(ctx, &entity.User{ID: "u1", Name: "A", Email: "dup@x.com", PasswordHash: "h", Role: auth.RoleBasic, CreatedAt: now}))

	err := r.Create(ctx, &entity.User{ID: "u2", Name: "B", Email: "dup@x.com", PasswordHash: "h", Role: auth.RoleBasic, CreatedAt: now})
	require.Error(t, err)
	assert.True(t, database.IsUniqueViolation(err))
}
