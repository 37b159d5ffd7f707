package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/devlink/bookings-api/internal/core/domain"
	"github.com/devlink/bookings-api/internal/core/ports"
)

// AuthService implements registration and login. New accounts always start
// as customers; promotion is a separate administrative action.
type AuthService struct {
	profiles ports.ProfileRepository
	tokens   *TokenManager
}

func NewAuthService(profiles ports.ProfileRepository, tokens *TokenManager) *AuthService {
	return &AuthService{profiles: profiles, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Profile, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || input.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	profile := &domain.Profile{
		Email:        email,
		FullName:     input.FullName,
		PasswordHash: string(hash),
		Role:         domain.RoleCustomer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return s.profiles.Create(ctx, profile)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Profile, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	profile, err := s.profiles.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(profile)
	if err != nil {
		return "", nil, err
	}

	return token, profile, nil
}
