package repository

import (
	"context"
	"testing"

	"invoicepro/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepo()

	u := &models.AppUser{Name: "Asha", Email: "asha@example.com", Password: "hash"}
	require.NoError(t, repo.CreateUser(ctx, u))
	assert.Equal(t, int64(1), u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.GetUserByEmail(ctx, "ASHA@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Asha", got.Name)

	err = repo.CreateUser(ctx, &models.AppUser{Email: "asha@example.com"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	missing, err := repo.GetUserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
