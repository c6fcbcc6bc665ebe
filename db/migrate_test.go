package db

import (
	"io"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	src, err := iofs.New(migrations, "migrations")
	require.NoError(t, err)
	defer src.Close()

	version, err := src.First()
	require.NoError(t, err)
	var versions []uint
	for {
		versions = append(versions, version)

		up, _, err := src.ReadUp(version)
		require.NoError(t, err, "up migration %d", version)
		body, err := io.ReadAll(up)
		up.Close()
		require.NoError(t, err)
		assert.NotEmpty(t, body)

		down, _, err := src.ReadDown(version)
		require.NoError(t, err, "down migration %d", version)
		down.Close()

		next, err := src.Next(version)
		if err != nil {
			break
		}
		version = next
	}
	assert.Equal(t, []uint{1, 2}, versions)
}

func TestRunMigrationsNeedsURL(t *testing.T) {
	assert.Error(t, RunMigrations("", nil))
}
