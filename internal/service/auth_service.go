package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/exaima/exaima-backend/internal/config"
	"github.com/exaima/exaima-backend/internal/model"
	"github.com/exaima/exaima-backend/internal/repository"
)

// Common auth errors.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already exists")
	ErrTokenNotFound      = errors.New("token not found")
	ErrUnauthorized       = errors.New("invalid or revoked token")
)

// TokenTypeBearer is the fixed token-type label returned at login.
const TokenTypeBearer = "bearer"

// Claims extends JWT registered claims with the identity fields embedded
// at login. There is deliberately no expiry claim: tokens stay valid until
// the matching row is revoked by logout.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthService handles registration, login, logout and per-request
// authentication.
type AuthService struct {
	cfg    *config.Config
	users  UserStore
	tokens TokenStore
}

// NewAuthService creates a new AuthService.
func NewAuthService(cfg *config.Config, users UserStore, tokens TokenStore) *AuthService {
	return &AuthService{cfg: cfg, users: users, tokens: tokens}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Register creates a new user. Username and email must both be unused;
// the returned user carries no password hash in its JSON form.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	taken, err := s.users.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration; the pre-checks
		// passed but the unique constraint fired.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials, signs a non-expiring token and records it.
// Unknown usernames and wrong passwords both come back as
// ErrInvalidCredentials so the response cannot be used to probe accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.signToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	if _, err := s.tokens.Create(ctx, user.ID, signed); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	return &model.TokenResponse{AccessToken: signed, TokenType: TokenTypeBearer}, nil
}

// Logout revokes the token row matching the literal token string.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokens.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTokenNotFound
		}
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Authenticate resolves a bearer token to its user. It requires a
// non-revoked token row, a valid signature, and a subject that resolves
// to an existing user; anything else is ErrUnauthorized. Invoked on every
// protected request, two store lookups each time, no caching.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if _, err := s.tokens.GetActive(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("check token: %w", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) signToken(user *model.User) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.New().String(),
			Subject:  user.ID.String(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
			// No ExpiresAt: revocation is the only way to invalidate.
		},
		Username: user.Username,
		Email:    user.Email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
