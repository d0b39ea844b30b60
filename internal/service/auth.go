package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/boardy-hostel/boardy-api/internal/domain"
	"github.com/boardy-hostel/boardy-api/internal/pkg/jwthelper"
	"github.com/boardy-hostel/boardy-api/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("wrong email or password")
)

// dummyHash stands in for the stored hash of an unknown email.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("boardy-dummy-password"), bcrypt.DefaultCost)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// Session is a signed-in user and the bearer token for later requests.
type Session struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	repo       AuthUserRepository
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(repo AuthUserRepository, signingKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		repo:       repo,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// Signup registers a resident. New accounts wait for an admin to verify them
// before they can rent games or join events.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := HashPassword(user.Password)
	if err != nil {
		return domain.User{}, err
	}

	user.Email = normalizeEmail(user.Email)
	user.Password = hash
	user.IsVerified = false
	user.IsAdmin = false

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// Login checks the credentials and signs a token bound to userAgent.
func (s *AuthService) Login(ctx context.Context, email, password, userAgent string) (Session, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return Session{}, ErrInvalidCredentials
	case err != nil:
		return Session{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := jwthelper.GenerateToken(s.signingKey, user.ID, userAgent, s.tokenTTL)
	if err != nil {
		return Session{}, fmt.Errorf("jwthelper.GenerateToken -> %w", err)
	}

	return Session{
		User:      user,
		Token:     token,
		ExpiresAt: s.now().Add(s.tokenTTL).UTC(),
	}, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	return string(hash), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
