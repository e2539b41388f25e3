package user

import (
	"context"
	"errors"
	"strings"

	"papertrade-backend/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUsernameRequired = errors.New("You must enter the username")
	ErrPasswordRequired = errors.New("You must provide a password")
	ErrPasswordMismatch = errors.New("Passwords are not the same")
	ErrUserExists       = errors.New("User already exists")
	ErrInvalidPassword  = errors.New("Invalid password")
	ErrUserNotFound     = errors.New("User not found")
)

// Service handles account creation and password changes.
type Service struct {
	DB *gorm.DB
}

// Register creates a new account with the default opening cash balance.
func (s *Service) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}
	if password != confirmation {
		return nil, ErrPasswordMismatch
	}

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Cash:         domain.DefaultCash,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword, confirmation string) error {
	if oldPassword == "" || newPassword == "" {
		return ErrPasswordRequired
	}
	if newPassword != confirmation {
		return ErrPasswordMismatch
	}

	var u domain.User
	if err := s.DB.WithContext(ctx).First(&u, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), 10)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", userID).
		Update("hash", string(hash)).Error
}
