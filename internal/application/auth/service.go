package auth

import (
	"errors"

	"papertrade-backend/internal/domain"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCredentialsRequired = errors.New("Username and password are required")
	ErrInvalidCredentials  = errors.New("Invalid username and/or password")
)

// UserFinder abstracts user lookup by username+password (GORM in
// production, fakes in tests).
type UserFinder interface {
	FindByUsernameAndPassword(username, password string) (*domain.User, error)
}

// GormUserFinder implements UserFinder using GORM and bcrypt.
type GormUserFinder struct{ DB *gorm.DB }

func (g *GormUserFinder) FindByUsernameAndPassword(username, password string) (*domain.User, error) {
	return Login(g.DB, username, password)
}

// Login finds a user by username and verifies the password.
func Login(db *gorm.DB, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, ErrCredentialsRequired
	}
	var u domain.User
	if err := db.Where("username = ?", username).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}
