package user

import (
	"context"
	"testing"

	"papertrade-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{DB: db}, db
}

func TestRegister_DefaultCash(t *testing.T) {
	svc, _ := setupUserService(t)

	u, err := svc.Register(context.Background(), "alice", "hunter22", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.Cash.Equal(domain.DefaultCash), u.Cash.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter22")))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "  ", "pw", "pw")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = svc.Register(ctx, "alice", "", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, err = svc.Register(ctx, "alice", "pw", "other")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "pw", "pw")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "pw2", "pw2")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestChangePassword(t *testing.T) {
	svc, db := setupUserService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "oldpw", "oldpw")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID, "wrong", "newpw", "newpw")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	err = svc.ChangePassword(ctx, u.ID, "oldpw", "newpw", "different")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	err = svc.ChangePassword(ctx, u.ID, "oldpw", "newpw", "newpw")
	require.NoError(t, err)

	var stored domain.User
	require.NoError(t, db.First(&stored, u.ID).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("newpw")))
}
