package config_test

import (
	"context"
	"testing"

	"bookstore-api/internal/adapters/persistence/models"
	"bookstore-api/internal/adapters/persistence/testdb"
	"bookstore-api/internal/config"
	"bookstore-api/internal/core/domain"
	"bookstore-api/internal/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdmin(t *testing.T) {
	password.DefaultCost = bcrypt.MinCost
	db := testdb.New(t)
	seeder := config.NewSeeder(db)
	ctx := context.Background()

	created, err := seeder.SeedAdmin(ctx, " Admin@Example.com ", "supersecret")
	require.NoError(t, err)
	assert.True(t, created)

	var admin models.User
	require.NoError(t, db.Where("email = ?", "admin@example.com").First(&admin).Error)
	assert.Equal(t, string(domain.RoleAdmin), admin.Role)
	assert.True(t, password.Verify("supersecret", admin.HashedPassword))

	t.Run("second run is a no-op", func(t *testing.T) {
		created, err := seeder.SeedAdmin(ctx, "other@example.com", "supersecret")
		require.NoError(t, err)
		assert.False(t, created)

		var count int64
		db.Model(&models.User{}).Count(&count)
		assert.EqualValues(t, 1, count)
	})
}

func TestSeedAdminRejectsBadInput(t *testing.T) {
	db := testdb.New(t)
	seeder := config.NewSeeder(db)

	_, err := seeder.SeedAdmin(context.Background(), "not-an-email", "supersecret")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = seeder.SeedAdmin(context.Background(), "admin@example.com", "short")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
