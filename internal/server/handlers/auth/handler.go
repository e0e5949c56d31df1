package auth

import (
	"errors"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/server/validation"
	"go.uber.org/zap"
)

type Handler struct {
	authSvc *auth.Service

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(authSvc *auth.Service, validator *validator.Validate, logger *zap.Logger) handler.Handler {
	return &Handler{
		authSvc: authSvc,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/auth")

	r.Use(h.errorsHandler)
	r.Post("/login", validation.DecorateWithBodyEx(h.validator, h.login))
}

//	@Summary	Authenticate and obtain a bearer token
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		request	body		LoginRequest	true	"Credentials"
//	@Success	200		{object}	LoginResponse
//	@Failure	400		{object}	map[string]string
//	@Failure	401		{object}	map[string]string
//	@Router		/auth/login [post]
func (h *Handler) login(c *fiber.Ctx, req *LoginRequest) error {
	_, token, claims, err := h.authSvc.Authenticate(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: claims.ExpiresAt.Time,
	})
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	if errors.Is(err, auth.ErrInvalidCredentials) {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
