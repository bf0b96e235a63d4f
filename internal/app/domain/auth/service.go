package auth

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tripmate/tripmate/internal/app/middleware"
	"github.com/tripmate/tripmate/internal/app/models"
	"github.com/tripmate/tripmate/internal/pkg/config"
)

type Service struct {
	repo   Repo
	jwtCfg middleware.JWTConfig
	logger *zap.Logger
}

func NewService(repo Repo, cfg config.AuthConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo: repo,
		jwtCfg: middleware.JWTConfig{
			SecretKey:       cfg.JWTSecret,
			TokenExpiration: cfg.TokenTTL,
			Logger:          logger,
		},
		logger: logger,
	}
}

// Register creates an account and returns a signed token so the client
// is logged in immediately.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, string(hashed))
	if err != nil {
		return "", err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID))
	return middleware.GenerateToken(s.jwtCfg, user.ID, user.Email)
}

// dummyPasswordHash is a fixed bcrypt hash compared against when the
// email has no account, so both login failure modes pay the same
// hashing cost. The compare result is discarded.
var dummyPasswordHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Login verifies credentials and issues a token. Wrong email and wrong
// password both come back as ErrUnauthenticated, and both run a bcrypt
// compare, so neither the error nor the response time reveals which
// accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials: %w", models.ErrUnauthenticated)
	}

	return middleware.GenerateToken(s.jwtCfg, user.ID, user.Email)
}

// GetUserByID returns the account behind a validated token.
func (s *Service) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	return s.repo.GetUserByID(ctx, userID)
}

// JWTConfig exposes the signing configuration for the router's
// middleware wiring.
func (s *Service) JWTConfig() middleware.JWTConfig {
	return s.jwtCfg
}
