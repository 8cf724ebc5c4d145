// Package middleware provides the fiber handlers that gate every protected
// route: token signature, whitelist membership, then resource ownership.
package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/saveblue/saveblue/pkg/config"
	"github.com/saveblue/saveblue/pkg/domain"
	"github.com/saveblue/saveblue/pkg/metrics"
	authsvc "github.com/saveblue/saveblue/pkg/service/auth"
	"github.com/saveblue/saveblue/webapi/common"
)

const (
	// TokenKey holds the verified *jwt.Token.
	TokenKey = "user"
	// SubjectKey holds the authenticated user id.
	SubjectKey = "subject"
)

// JwtProtected verifies the HS256 signature and expiry of the token carried
// in cfg.TokenHeader.
func JwtProtected(cfg *config.Auth) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.Jwt.Secret)},
		TokenLookup:  "header:" + cfg.TokenHeader,
		AuthScheme:   "",
		ContextKey:   TokenKey,
		ErrorHandler: jwtError,
	})
}

// jwtError answers every token failure, including a missing token, with 401.
func jwtError(c *fiber.Ctx, err error) error {
	reason := "invalid"
	if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
		reason = "missing"
	}
	metrics.AuthRejections.WithLabelValues(reason).Inc()
	return common.ProblemDetailsJSON(c, "Unauthorized", domain.ErrUnauthorized, err.Error())
}

// Whitelisted rejects verified tokens that are no longer in the whitelist and
// exposes the token's subject under SubjectKey.
func Whitelisted(auth *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals(TokenKey).(*jwt.Token)
		if !ok {
			return common.ProblemDetailsJSON(c, "Unauthorized", domain.ErrUnauthorized, "missing user context")
		}
		subject, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Unauthorized", err)
		}
		c.Locals(SubjectKey, subject)
		return c.Next()
	}
}

// Protected chains JwtProtected and Whitelisted in front of handlers.
func Protected(cfg *config.Auth, auth *authsvc.Service, handlers ...fiber.Handler) []fiber.Handler {
	return append([]fiber.Handler{JwtProtected(cfg), Whitelisted(auth)}, handlers...)
}

// Subject returns the authenticated user id set by Whitelisted.
func Subject(c *fiber.Ctx) (uuid.UUID, bool) {
	id, ok := c.Locals(SubjectKey).(uuid.UUID)
	return id, ok
}

// RawToken returns the verified token string.
func RawToken(c *fiber.Ctx) string {
	if token, ok := c.Locals(TokenKey).(*jwt.Token); ok {
		return token.Raw
	}
	return ""
}
