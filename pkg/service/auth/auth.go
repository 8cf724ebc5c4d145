// Package auth issues, verifies and revokes session tokens. A token is only
// accepted while it is both correctly signed and present in the whitelist.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/domain/user"
	"github.com/saveblue/saveblue/pkg/metrics"
	"github.com/saveblue/saveblue/pkg/repository"
	"github.com/saveblue/saveblue/pkg/utils"
)

var (
	// ErrInvalidToken is returned for tokens that fail signature or claim checks.
	ErrInvalidToken = fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	// ErrTokenRevoked is returned for well-formed tokens missing from the whitelist.
	ErrTokenRevoked = fmt.Errorf("%w: token revoked", domain.ErrUnauthorized)
)

// dummyHash is compared against when a login names an unknown user, so both
// failure paths spend the same bcrypt time.
var dummyHash = sync.OnceValue(func() string {
	h, _ := utils.HashPassword("saveblue-dummy-password")
	return h
})

// JWTStrategy signs and parses HS256 session tokens.
type JWTStrategy struct {
	cfg    *config.Jwt
	logger *slog.Logger
}

// NewJWTStrategy creates a JWTStrategy.
func NewJWTStrategy(cfg *config.Jwt, logger *slog.Logger) *JWTStrategy {
	return &JWTStrategy{cfg: cfg, logger: logger}
}

// GenerateToken signs a token carrying the user id, expiry, issue time and a
// unique id so that two tokens issued in the same second still differ.
func (s *JWTStrategy) GenerateToken(userID uuid.UUID, issuedAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"id":  userID.String(),
		"iat": issuedAt.Unix(),
		"exp": issuedAt.Add(s.cfg.Expiry).Unix(),
		"jti": uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		s.logger.Error("GenerateToken failed", "userID", userID, "error", err)
		return "", err
	}
	return signed, nil
}

// Parse verifies the signature and expiry of raw.
func (s *JWTStrategy) Parse(raw string) (*jwt.Token, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return token, nil
}

// GetCurrentUserID extracts the user id claim from a verified token.
func (s *JWTStrategy) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	raw, ok := claims["id"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	return id, nil
}

// Service combines credential checks, token signing and the whitelist.
type Service struct {
	uow    repository.UnitOfWork
	tokens repository.TokenStore
	jwt    *JWTStrategy
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
}

// New creates an auth Service. Whitelisted tokens older than whitelistTTL
// are removed by SweepExpired.
func New(
	uow repository.UnitOfWork,
	tokens repository.TokenStore,
	cfg *config.Jwt,
	whitelistTTL time.Duration,
	logger *slog.Logger,
) *Service {
	if whitelistTTL <= 0 {
		whitelistTTL = cfg.Expiry
	}
	return &Service{
		uow:    uow,
		tokens: tokens,
		jwt:    NewJWTStrategy(cfg, logger),
		ttl:    whitelistTTL,
		now:    time.Now,
		logger: logger,
	}
}

// Login looks a user up by email when identity is an address, otherwise by
// username, and checks the password. Unknown users and wrong passwords yield
// the same error.
func (s *Service) Login(ctx context.Context, identity, password string) (*user.User, error) {
	log := s.logger.With("context", "Login", "identity", identity)
	log.Debug("Login called")

	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	var u *user.User
	if utils.IsEmail(identity) {
		u, err = users.GetByEmail(ctx, identity)
	} else {
		u, err = users.GetByUsername(ctx, identity)
	}
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error("Login failed", "error", err)
			return nil, err
		}
		_ = utils.CheckPasswordHash(password, dummyHash())
		metrics.AuthRejections.WithLabelValues("credentials").Inc()
		log.Info("Login rejected: unknown user")
		return nil, user.ErrInvalidCredentials
	}
	if !u.CheckPassword(password) {
		metrics.AuthRejections.WithLabelValues("credentials").Inc()
		log.Info("Login rejected: wrong password", "userID", u.ID)
		return nil, user.ErrInvalidCredentials
	}
	log.Info("Login successful", "userID", u.ID)
	return u, nil
}

// GenerateToken signs a token for userID without whitelisting it.
func (s *Service) GenerateToken(userID uuid.UUID) (string, error) {
	return s.jwt.GenerateToken(userID, s.now())
}

// IssueToken signs a token for userID and adds it to the whitelist.
func (s *Service) IssueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	log := s.logger.With("context", "IssueToken", "userID", userID)
	issuedAt := s.now()
	token, err := s.jwt.GenerateToken(userID, issuedAt)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Add(ctx, token, userID, issuedAt); err != nil {
		log.Error("failed to whitelist token", "error", err)
		return "", err
	}
	log.Info("IssueToken successful")
	return token, nil
}

// Verify parses raw and checks it against the whitelist.
func (s *Service) Verify(ctx context.Context, raw string) (uuid.UUID, error) {
	token, err := s.jwt.Parse(raw)
	if err != nil {
		metrics.AuthRejections.WithLabelValues("invalid").Inc()
		return uuid.Nil, err
	}
	return s.Authenticate(ctx, token)
}

// CheckWhitelist returns ErrTokenRevoked unless raw is whitelisted.
func (s *Service) CheckWhitelist(ctx context.Context, raw string) error {
	ok, err := s.tokens.Exists(ctx, raw)
	if err != nil {
		s.logger.Error("whitelist lookup failed", "error", err)
		return err
	}
	if !ok {
		metrics.AuthRejections.WithLabelValues("revoked").Inc()
		return ErrTokenRevoked
	}
	return nil
}

// Authenticate resolves the subject of a token already verified by the
// signature middleware, requiring it to still be whitelisted.
func (s *Service) Authenticate(ctx context.Context, token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, ErrInvalidToken
	}
	if err := s.CheckWhitelist(ctx, token.Raw); err != nil {
		return uuid.Nil, err
	}
	return s.GetCurrentUserID(token)
}

// GetCurrentUserID extracts the subject from token.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	id, err := s.jwt.GetCurrentUserID(token)
	if err != nil {
		metrics.AuthRejections.WithLabelValues("invalid").Inc()
		s.logger.Error("GetCurrentUserID failed", "error", err)
	}
	return id, err
}

// Logout revokes raw, then opportunistically sweeps expired tokens.
func (s *Service) Logout(ctx context.Context, raw string) error {
	log := s.logger.With("context", "Logout")
	if err := s.tokens.Remove(ctx, raw); err != nil {
		log.Error("Logout failed", "error", err)
		return err
	}
	if _, err := s.SweepExpired(ctx); err != nil {
		log.Warn("sweep after logout failed", "error", err)
	}
	log.Info("Logout successful")
	return nil
}

// Revoke removes a single token from the whitelist.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	return s.tokens.Remove(ctx, raw)
}

// RevokeUser drops every whitelisted token of userID.
func (s *Service) RevokeUser(ctx context.Context, userID uuid.UUID) error {
	return s.tokens.RemoveByUser(ctx, userID)
}

// SweepExpired removes whitelisted tokens issued longer than the TTL ago.
func (s *Service) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.tokens.Sweep(ctx, s.now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		metrics.TokensSwept.Add(float64(removed))
		s.logger.Info("swept expired tokens", "count", removed)
	}
	return removed, nil
}
