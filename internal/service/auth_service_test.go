package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/exaima/exaima-backend/internal/config"
	"github.com/exaima/exaima-backend/internal/model"
	"github.com/exaima/exaima-backend/internal/repository"
)

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeTokenStore) {
	cfg := &config.Config{
		JWTSecret:  "test-secret",
		BcryptCost: bcrypt.MinCost,
	}
	users := &fakeUserStore{}
	tokens := newFakeTokenStore()
	return NewAuthService(cfg, users, tokens), users, tokens
}

func registerTestUser(t *testing.T, svc *AuthService) *model.User {
	t.Helper()
	user, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Example",
		Password: "password123",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, tokens := newAuthFixture()
	user := registerTestUser(t, svc)

	if user.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("registered user has zero ID")
	}
	if user.PasswordHash == "password123" {
		t.Error("password stored in plaintext")
	}

	resp, err := svc.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.TokenType != TokenTypeBearer {
		t.Errorf("TokenType = %q, want %q", resp.TokenType, TokenTypeBearer)
	}
	if _, ok := tokens.tokens[resp.AccessToken]; !ok {
		t.Error("issued token not recorded")
	}

	claims, err := svc.ValidateToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Username != "alice" {
		t.Errorf("Username claim = %q, want alice", claims.Username)
	}
	if claims.ExpiresAt != nil {
		t.Error("token carries an expiry claim")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "bob",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRegisterLostRace(t *testing.T) {
	svc, users, _ := newAuthFixture()
	users.createErr = repository.ErrDuplicate

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "password123",
	})
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registerTestUser(t, svc)

	// Wrong password and unknown username produce the same error.
	if _, err := svc.Login(context.Background(), "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(context.Background(), "nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown username: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateResolvesUser(t *testing.T) {
	svc, _, _ := newAuthFixture()
	user := registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	got, err := svc.Authenticate(context.Background(), resp.AccessToken)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("resolved user %s, want %s", got.ID, user.ID)
	}
}

func TestAuthenticateRejectsRevokedToken(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(context.Background(), resp.AccessToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	// The signature is still valid; the revoked row alone must reject it.
	if _, err := svc.Authenticate(context.Background(), resp.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestAuthenticateRejectsUnrecordedToken(t *testing.T) {
	svc, _, _ := newAuthFixture()
	user := registerTestUser(t, svc)

	// A correctly signed token never persisted by Login must not pass.
	signed, err := svc.signToken(user)
	if err != nil {
		t.Fatalf("signToken: %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), signed); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestLogoutUnknownToken(t *testing.T) {
	svc, _, _ := newAuthFixture()

	if err := svc.Logout(context.Background(), "no-such-token"); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestLogoutIsIdempotentlyRejected(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(context.Background(), resp.AccessToken); err != nil {
		t.Fatalf("first Logout: %v", err)
	}
	if err := svc.Logout(context.Background(), resp.AccessToken); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("second Logout err = %v, want ErrTokenNotFound", err)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _, _ := newAuthFixture()
	registerTestUser(t, svc)

	resp, err := svc.Login(context.Background(), "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tampered := resp.AccessToken[:len(resp.AccessToken)-2] + "xx"
	if _, err := svc.ValidateToken(tampered); err == nil {
		t.Error("tampered token validated")
	}
}
