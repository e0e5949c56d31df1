package users

import (
	"errors"
	"strconv"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/server/middleware"
	"github.com/notekeep/notekeep/internal/server/validation"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	authSvc *auth.Service
	guard   *auth.Guard
	authMW  *middleware.Authenticate

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	authSvc *auth.Service,
	guard *auth.Guard,
	authMW *middleware.Authenticate,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		authSvc: authSvc,
		guard:   guard,
		authMW:  authMW,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/users")

	r.Use(h.authMW.Handle)
	r.Use(h.errorsHandler)
	r.Get("/me", h.me)
	r.Get("/", h.list)
	r.Post("/", validation.DecorateWithBodyEx(h.validator, h.post))
	r.Delete("/:id", h.delete)
}

//	@Summary	Current identity
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	IdentityResponse
//	@Router		/users/me [get]
func (h *Handler) me(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	identity, err := h.authSvc.GetIdentity(c.Context(), claims.UserID)
	if err != nil {
		return err
	}

	return c.JSON(newIdentityResponse(identity))
}

//	@Summary	List identities
//	@Tags		users
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	IdentityResponse
//	@Router		/users [get]
func (h *Handler) list(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if err := h.guard.Require(claims, nil, auth.RoleIs(auth.RoleAdmin)); err != nil {
		return err
	}

	identities, err := h.authSvc.ListIdentities(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(lo.Map(identities, func(identity auth.Identity, _ int) IdentityResponse {
		return newIdentityResponse(&identity)
	}))
}

//	@Summary	Provision an identity
//	@Tags		users
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		CreateRequest	true	"Identity"
//	@Success	201		{object}	IdentityResponse
//	@Router		/users [post]
func (h *Handler) post(c *fiber.Ctx, req *CreateRequest) error {
	claims := middleware.Claims(c)
	if err := h.guard.Require(claims, nil, auth.RoleIs(auth.RoleAdmin)); err != nil {
		return err
	}

	identity, err := h.authSvc.CreateIdentity(c.Context(), auth.IdentityDraft{
		Username: req.Username,
		Password: req.Password,
		Role:     auth.Role(req.Role),
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newIdentityResponse(identity))
}

//	@Summary	Delete an identity
//	@Tags		users
//	@Security	BearerAuth
//	@Param		id	path	integer	true	"Identity id"
//	@Success	204
//	@Router		/users/{id} [delete]
func (h *Handler) delete(c *fiber.Ctx) error {
	claims := middleware.Claims(c)
	if err := h.guard.Require(claims, nil, auth.RoleIs(auth.RoleAdmin)); err != nil {
		return err
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.authSvc.DeleteIdentity(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, auth.ErrUserNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, auth.ErrDuplicateUser):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
