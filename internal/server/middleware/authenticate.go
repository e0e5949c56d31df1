package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/notekeep/notekeep/internal/auth"
	"go.uber.org/zap"
)

const claimsLocal = "auth.claims"

// Authenticate validates bearer tokens and injects the verified claims
// into request locals. Every failure maps to 401; the policy layer
// downstream decides 403.
type Authenticate struct {
	guard *auth.Guard

	logger *zap.Logger
}

func NewAuthenticate(guard *auth.Guard, logger *zap.Logger) *Authenticate {
	return &Authenticate{
		guard:  guard,
		logger: logger,
	}
}

func (m *Authenticate) Handle(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
	}

	tokenString := strings.TrimPrefix(header, "Bearer ")
	if tokenString == header {
		return fiber.NewError(fiber.StatusUnauthorized, "authorization header is not a bearer token")
	}

	claims, err := m.guard.Authorize(tokenString, nil, auth.Authenticated())
	if err != nil {
		m.logger.Debug("token rejected", zap.Error(err))
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	c.Locals(claimsLocal, claims)

	return c.Next()
}

// Claims returns the verified claims stored by Handle, or nil on an
// unauthenticated request.
func Claims(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(claimsLocal).(*auth.Claims)
	return claims
}
