package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/mocks"
)

const testSecret = "test-secret-key"

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

type fixture struct {
	users *mocks.MockUserRepository
	cache *mocks.MockCache
	email *mocks.MockEmailService
	svc   *Service
}

func newFixture(users *mocks.MockUserRepository) *fixture {
	f := &fixture{
		users: users,
		cache: mocks.NewMockCache(),
		email: &mocks.MockEmailService{},
	}
	svc := NewService(f.users, f.cache, f.email, Config{Secret: testSecret}, newTestLogger())
	f.svc = svc.(*Service)
	return f
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return string(h)
}

// knownUser returns a stored account and a repository that resolves it
// by email and by ID.
func knownUser(t *testing.T) (*domain.User, *mocks.MockUserRepository) {
	t.Helper()
	user := &domain.User{
		ID:       "user-123",
		Email:    "test@example.com",
		Password: hashed(t, "password123"),
		Role:     domain.UserRoleUser,
		Status:   "Active",
	}
	repo := &mocks.MockUserRepository{
		FindByEmailFunc: func(_ context.Context, email string) (*domain.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, nil
		},
		FindByIDFunc: func(_ context.Context, id string) (*domain.User, error) {
			if id == user.ID {
				return user, nil
			}
			return nil, nil
		},
	}
	return user, repo
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a token pair", func(t *testing.T) {
		_, repo := knownUser(t)
		f := newFixture(repo)

		access, refresh, err := f.svc.Login(ctx, "test@example.com", "password123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if access == "" || refresh == "" {
			t.Fatal("got an empty token")
		}
		if access == refresh {
			t.Error("access and refresh tokens must differ")
		}
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{})

		_, _, err := f.svc.Login(ctx, "nobody@example.com", "password123")
		if err == nil {
			t.Fatal("want error, got nil")
		}
		if got := err.Error(); got != "invalid credentials" {
			t.Errorf("got error %q, want %q", got, "invalid credentials")
		}
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, repo := knownUser(t)
		f := newFixture(repo)

		_, _, err := f.svc.Login(ctx, "test@example.com", "not-the-password")
		if err == nil {
			t.Fatal("want error, got nil")
		}
		if got := err.Error(); got != "invalid credentials" {
			t.Errorf("got error %q, want %q", got, "invalid credentials")
		}
	})

	t.Run("masks repository errors as bad credentials", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{
			FindByEmailFunc: func(context.Context, string) (*domain.User, error) {
				return nil, errors.New("database down")
			},
		})

		_, _, err := f.svc.Login(ctx, "test@example.com", "password123")
		if err == nil {
			t.Fatal("want error, got nil")
		}
		if got := err.Error(); got != "invalid credentials" {
			t.Errorf("got error %q, want %q", got, "invalid credentials")
		}
	})
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and applies account defaults", func(t *testing.T) {
		var saved *domain.User
		f := newFixture(&mocks.MockUserRepository{
			SaveFunc: func(_ context.Context, user *domain.User) error {
				saved = user
				return nil
			},
		})

		err := f.svc.Register(ctx, &domain.User{
			Name:     "Test User",
			Email:    "new@example.com",
			Password: "password123",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}

		if saved == nil {
			t.Fatal("user was never saved")
		}
		if saved.Password == "password123" {
			t.Error("password was stored in plain text")
		}
		if saved.ID == "" {
			t.Error("got empty user ID, want a generated one")
		}
		if saved.Role != domain.UserRoleUser {
			t.Errorf("got role %q, want %q", saved.Role, domain.UserRoleUser)
		}
		if saved.Status != "Active" {
			t.Errorf("got status %q, want %q", saved.Status, "Active")
		}
		if !saved.NotifyByEmail {
			t.Error("want email notifications on by default")
		}
		if len(f.email.SentEmails) != 1 || f.email.SentEmails[0].Template != "welcome" {
			t.Error("want exactly one welcome email")
		}
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		_, repo := knownUser(t)
		f := newFixture(repo)

		err := f.svc.Register(ctx, &domain.User{Email: "test@example.com", Password: "password123"})
		if err == nil {
			t.Fatal("want error, got nil")
		}
		if got := err.Error(); got != "email already registered" {
			t.Errorf("got error %q, want %q", got, "email already registered")
		}
	})

	t.Run("rejects a short password", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{})

		if err := f.svc.Register(ctx, &domain.User{Email: "new@example.com", Password: "short"}); err == nil {
			t.Fatal("want error, got nil")
		}
	})

	t.Run("succeeds even when the welcome mail fails", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{})
		f.email.SendWelcomeFunc = func(context.Context, *domain.User) error {
			return errors.New("provider down")
		}

		if err := f.svc.Register(ctx, &domain.User{Email: "new@example.com", Password: "password123"}); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	})

	t.Run("propagates save errors", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{
			SaveFunc: func(context.Context, *domain.User) error {
				return errors.New("database down")
			},
		})

		if err := f.svc.Register(ctx, &domain.User{Email: "new@example.com", Password: "password123"}); err == nil {
			t.Fatal("want error, got nil")
		}
	})
}

func TestService_ValidateToken(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts a fresh access token", func(t *testing.T) {
		user, repo := knownUser(t)
		f := newFixture(repo)
		access, _, err := f.svc.generateTokens(user)
		if err != nil {
			t.Fatalf("generateTokens failed: %v", err)
		}

		got, err := f.svc.ValidateToken(ctx, access)
		if err != nil {
			t.Fatalf("ValidateToken failed: %v", err)
		}
		if got == nil || got.ID != user.ID {
			t.Errorf("got user %+v, want ID %q", got, user.ID)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{})

		if _, err := f.svc.ValidateToken(ctx, "not-a-token"); err == nil {
			t.Fatal("want error, got nil")
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{})
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "user-123",
			"role": "user",
			"exp":  time.Now().Add(-time.Hour).Unix(),
			"type": "access",
		})
		expired, _ := token.SignedString([]byte(testSecret))

		if _, err := f.svc.ValidateToken(ctx, expired); err == nil {
			t.Fatal("want error, got nil")
		}
	})

	t.Run("rejects a refresh token", func(t *testing.T) {
		user, repo := knownUser(t)
		f := newFixture(repo)
		_, refresh, err := f.svc.generateTokens(user)
		if err != nil {
			t.Fatalf("generateTokens failed: %v", err)
		}

		if _, err := f.svc.ValidateToken(ctx, refresh); err == nil {
			t.Fatal("want a refresh token to fail access validation")
		}
	})
}

func TestService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a new access token", func(t *testing.T) {
		user, repo := knownUser(t)
		f := newFixture(repo)
		_, refresh, err := f.svc.generateTokens(user)
		if err != nil {
			t.Fatalf("generateTokens failed: %v", err)
		}

		access, err := f.svc.RefreshToken(ctx, refresh)
		if err != nil {
			t.Fatalf("RefreshToken failed: %v", err)
		}
		if access == "" {
			t.Error("got empty access token")
		}
	})

	t.Run("rejects an access token", func(t *testing.T) {
		user, repo := knownUser(t)
		f := newFixture(repo)
		access, _, err := f.svc.generateTokens(user)
		if err != nil {
			t.Fatalf("generateTokens failed: %v", err)
		}

		if _, err := f.svc.RefreshToken(ctx, access); err == nil {
			t.Fatal("want an access token to fail refresh")
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{})

		if _, err := f.svc.RefreshToken(ctx, "not-a-token"); err == nil {
			t.Fatal("want error, got nil")
		}
	})

	t.Run("fails when the user no longer exists", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{})
		_, refresh, err := f.svc.generateTokens(&domain.User{ID: "deleted-user"})
		if err != nil {
			t.Fatalf("generateTokens failed: %v", err)
		}

		if _, err := f.svc.RefreshToken(ctx, refresh); err == nil {
			t.Fatal("want error, got nil")
		}
	})
}

func TestService_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the access token", func(t *testing.T) {
		user, repo := knownUser(t)
		f := newFixture(repo)
		access, _, err := f.svc.generateTokens(user)
		if err != nil {
			t.Fatalf("generateTokens failed: %v", err)
		}
		if _, err := f.svc.ValidateToken(ctx, access); err != nil {
			t.Fatalf("token should validate before logout: %v", err)
		}

		if err := f.svc.Logout(ctx, access); err != nil {
			t.Fatalf("Logout failed: %v", err)
		}
		if _, err := f.svc.ValidateToken(ctx, access); err == nil {
			t.Fatal("want the revoked token to be rejected")
		}
	})

	t.Run("rejects a malformed token", func(t *testing.T) {
		f := newFixture(&mocks.MockUserRepository{})

		if err := f.svc.Logout(ctx, "garbage"); err == nil {
			t.Fatal("want error, got nil")
		}
	})
}
