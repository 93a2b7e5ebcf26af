package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ratescope/api/internal/config"
	"ratescope/api/internal/ids"
	"ratescope/api/internal/models"
	"ratescope/api/internal/repository"
	"ratescope/api/internal/security"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases are intentionally indistinguishable so the
	// login endpoint cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailInUse         = errors.New("email already in use")
	ErrInvalidToken       = errors.New("invalid token")
)

type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

type TokenStore interface {
	Create(ctx context.Context, token models.RefreshToken) error
	FindLive(ctx context.Context, tokenHash []byte) (models.RefreshToken, error)
	DeleteByHash(ctx context.Context, userID string, tokenHash []byte) error
}

type AuthService struct {
	users  UserStore
	tokens TokenStore
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewAuthService(users UserStore, tokens TokenStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		log:    log,
	}
}

type SignupInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	Token string
	User  models.User
}

func (s *AuthService) Signup(ctx context.Context, input SignupInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return AuthResult{}, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return AuthResult{}, err
	}

	passwordHash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	user := models.User{
		ID:           ids.New(),
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return AuthResult{}, ErrEmailInUse
		}
		return AuthResult{}, err
	}

	return s.issueToken(ctx, user)
}

type LoginInput struct {
	Email    string
	Password string
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("update last login failed")
	}

	return s.issueToken(ctx, user)
}

// Logout removes exactly the presented token from its owner's refresh-token
// list. A token that was already removed is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := security.ParseSessionToken(token, s.cfg.Security.JWTSecret)
	if err != nil {
		return ErrInvalidToken
	}

	return s.tokens.DeleteByHash(ctx, claims.UserID, security.HashSessionToken(token))
}

func (s *AuthService) issueToken(ctx context.Context, user models.User) (AuthResult, error) {
	token, err := security.GenerateSessionToken(s.cfg.Security.JWTSecret, user.ID, s.cfg.Security.TokenTTL)
	if err != nil {
		return AuthResult{}, err
	}

	record := models.RefreshToken{
		ID:        ids.New(),
		UserID:    user.ID,
		TokenHash: security.HashSessionToken(token),
		ExpiresAt: time.Now().Add(s.cfg.Security.TokenTTL),
	}
	if err := s.tokens.Create(ctx, record); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Token: token, User: user}, nil
}
