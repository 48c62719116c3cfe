package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/seu-repo/voxwallet/internal/domain"
	"github.com/seu-repo/voxwallet/internal/ports"
)

// Claims are the JWT claims issued by this service.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
	Type string `json:"type"` // "access" or "refresh"
}

// Config carries token settings.
type Config struct {
	Secret          string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type Service struct {
	users      ports.UserRepository
	cache      ports.Cache
	email      ports.EmailService
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *zap.Logger
}

func NewService(users ports.UserRepository, cache ports.Cache, email ports.EmailService, cfg Config, log *zap.Logger) ports.AuthService {
	if cfg.AccessTokenTTL <= 0 {
		cfg.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.RefreshTokenTTL <= 0 {
		cfg.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	return &Service{
		users:      users,
		cache:      cache,
		email:      email,
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		log:        log,
	}
}

// Login verifies credentials and returns an access and a refresh token.
// Every failure surfaces as the same "invalid credentials" error.
func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.log.Warn("Login lookup failed", zap.Error(err))
		return "", "", errors.New("invalid credentials")
	}
	if user == nil {
		return "", "", errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", errors.New("invalid credentials")
	}

	return s.generateTokens(user)
}

func (s *Service) Register(ctx context.Context, user *domain.User) error {
	if user.Email == "" {
		return errors.New("email is required")
	}
	if len(user.Password) < 8 {
		return errors.New("password must be at least 8 characters")
	}

	existing, err := s.users.FindByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("email already registered")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPwd)

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = domain.UserRoleUser
	}
	user.Status = "Active"
	user.NotifyByEmail = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}

	// Welcome mail failure does not fail the registration.
	if err := s.email.SendWelcome(ctx, user); err != nil {
		s.log.Warn("Failed to send welcome email",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}

	return nil
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
func (s *Service) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.parseClaims(refreshToken)
	if err != nil {
		return "", errors.New("invalid refresh token")
	}
	if claims.Type != "refresh" {
		return "", errors.New("not a refresh token")
	}
	if s.isRevoked(ctx, claims.ID) {
		return "", errors.New("token has been revoked")
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil || user == nil {
		return "", errors.New("user not found")
	}

	return s.generateAccessToken(user)
}

// ValidateToken checks an access token and returns its user.
func (s *Service) ValidateToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	claims, err := s.parseClaims(tokenStr)
	if err != nil {
		return nil, errors.New("invalid token")
	}
	if claims.Type != "access" {
		return nil, errors.New("not an access token")
	}
	if s.isRevoked(ctx, claims.ID) {
		return nil, errors.New("token has been revoked")
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// Logout revokes the token for the remainder of its lifetime.
func (s *Service) Logout(ctx context.Context, tokenStr string) error {
	claims, err := s.parseClaims(tokenStr)
	if err != nil {
		return errors.New("invalid token")
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil // already expired
	}

	key := fmt.Sprintf("revoked_token:%s", claims.ID)
	if err := s.cache.Set(ctx, key, "revoked", ttl); err != nil {
		s.log.Error("Failed to revoke token",
			zap.String("jti", claims.ID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	s.log.Info("Token revoked", zap.String("jti", claims.ID))
	return nil
}

func (s *Service) parseClaims(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (s *Service) isRevoked(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	val, err := s.cache.Get(ctx, fmt.Sprintf("revoked_token:%s", jti))
	if err != nil {
		// If the key does not exist or there is an error, treat as not revoked.
		return false
	}
	return val == "revoked"
}

func (s *Service) generateTokens(user *domain.User) (string, string, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", err
	}

	now := time.Now()
	refreshClaims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Type: "refresh",
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(s.secret)
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) generateAccessToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
		Role: string(user.Role),
		Type: "access",
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
