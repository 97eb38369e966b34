package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	maxFailedLoginAttempts = 5
	lockoutDuration        = 15 * time.Minute
)

type tokenIssuer interface {
	Issue(userID int64, role string) (string, error)
}

// Service contains the back-office authentication logic.
type Service struct {
	users  UserRepository
	tokens tokenIssuer
}

type LoginResult struct {
	User        *User
	AccessToken string
}

func NewService(users UserRepository, tokens tokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Login verifies credentials and returns a signed access token.
// Five consecutive failures lock the account for fifteen minutes.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= maxFailedLoginAttempts {
			until := time.Now().Add(lockoutDuration)
			user.LockedUntil = &until
			user.FailedLoginAttempts = 0
		}
		_ = s.users.Update(ctx, user)
		return nil, ErrInvalidCredentials
	}

	if user.FailedLoginAttempts > 0 || user.LockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		_ = s.users.Update(ctx, user)
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, AccessToken: token}, nil
}

// HashPassword is used by the seed tool when provisioning accounts.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
