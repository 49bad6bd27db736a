package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&UserRecord{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestGormUserRepository_CreateAndLookup(t *testing.T) {
	repo := NewUserRepository(setupUserDB(t))
	ctx := context.Background()

	user, err := domain.NewUser("aa-admin", "aa@example.com", "hash", "Ann", "Admin", domain.RoleAdmin, "AA")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEmpty(t, user.ID)

	byName, err := repo.GetByLogin(ctx, "aa-admin")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Equal(t, "AA", byName.AssignedAirlineCode)
	assert.Equal(t, domain.RoleAdmin, byName.Role)

	byEmail, err := repo.GetByLogin(ctx, "aa@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash", byID.PasswordHash)
}

func TestGormUserRepository_UnrestrictedAdmin(t *testing.T) {
	repo := NewUserRepository(setupUserDB(t))
	ctx := context.Background()

	user, err := domain.NewUser("root", "root@example.com", "hash", "", "", domain.RoleAdmin, "")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, got.AssignedAirlineCode)
}

func TestGormUserRepository_NotFound(t *testing.T) {
	repo := NewUserRepository(setupUserDB(t))

	_, err := repo.GetByLogin(context.Background(), "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGormUserRepository_Duplicate(t *testing.T) {
	repo := NewUserRepository(setupUserDB(t))
	ctx := context.Background()

	first, _ := domain.NewUser("dup", "dup@example.com", "hash", "", "", domain.RoleUser, "")
	require.NoError(t, repo.Create(ctx, first))

	second, _ := domain.NewUser("dup", "other@example.com", "hash", "", "", domain.RoleUser, "")
	err := repo.Create(ctx, second)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}
