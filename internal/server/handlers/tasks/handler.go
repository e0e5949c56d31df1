package tasks

import (
	"errors"
	"strconv"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/server/middleware"
	"github.com/notekeep/notekeep/internal/server/validation"
	"github.com/notekeep/notekeep/internal/tasks"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	tasksSvc *tasks.Service
	guard    *auth.Guard
	authMW   *middleware.Authenticate

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	tasksSvc *tasks.Service,
	guard *auth.Guard,
	authMW *middleware.Authenticate,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		tasksSvc: tasksSvc,
		guard:    guard,
		authMW:   authMW,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/tasks")

	r.Use(h.authMW.Handle)
	r.Use(h.errorsHandler)
	r.Post("/", validation.DecorateWithBodyEx(h.validator, h.post))
	r.Get("/", h.list)
	r.Get("/:id", h.get)
	r.Put("/:id", validation.DecorateWithBodyEx(h.validator, h.put))
	r.Patch("/:id", validation.DecorateWithBodyEx(h.validator, h.patch))
	r.Delete("/:id", h.delete)
}

//	@Summary	Create a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		CreateRequest	true	"Task"
//	@Success	201		{object}	TaskResponse
//	@Router		/tasks [post]
func (h *Handler) post(c *fiber.Ctx, req *CreateRequest) error {
	claims := middleware.Claims(c)

	task, err := h.tasksSvc.Create(c.Context(), &tasks.TaskDraft{
		OwnerID:     claims.UserID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newTaskResponse(task))
}

//	@Summary	List tasks (own; admins see all)
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	TaskResponse
//	@Router		/tasks [get]
func (h *Handler) list(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var (
		result []tasks.Task
		err    error
	)
	if claims.Role == auth.RoleAdmin {
		result, err = h.tasksSvc.ListAll(c.Context())
	} else {
		result, err = h.tasksSvc.ListOwned(c.Context(), claims.UserID)
	}
	if err != nil {
		return err
	}

	return c.JSON(lo.Map(result, func(task tasks.Task, _ int) TaskResponse {
		return newTaskResponse(&task)
	}))
}

//	@Summary	Get a task
//	@Tags		tasks
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		integer	true	"Task id"
//	@Success	200	{object}	TaskResponse
//	@Router		/tasks/{id} [get]
func (h *Handler) get(c *fiber.Ctx) error {
	task, err := h.authorizedTask(c)
	if err != nil {
		return err
	}

	return c.JSON(newTaskResponse(task))
}

//	@Summary	Replace a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		integer		true	"Task id"
//	@Param		request	body		PutRequest	true	"Task"
//	@Success	200		{object}	TaskResponse
//	@Router		/tasks/{id} [put]
func (h *Handler) put(c *fiber.Ctx, req *PutRequest) error {
	task, err := h.authorizedTask(c)
	if err != nil {
		return err
	}

	updated, err := h.tasksSvc.Replace(c.Context(), task.ID, tasks.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		return err
	}

	return c.JSON(newTaskResponse(updated))
}

//	@Summary	Update fields of a task
//	@Tags		tasks
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		integer			true	"Task id"
//	@Param		request	body		PatchRequest	true	"Fields"
//	@Success	200		{object}	TaskResponse
//	@Router		/tasks/{id} [patch]
func (h *Handler) patch(c *fiber.Ctx, req *PatchRequest) error {
	task, err := h.authorizedTask(c)
	if err != nil {
		return err
	}

	updated, err := h.tasksSvc.Patch(c.Context(), task.ID, tasks.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		return err
	}

	return c.JSON(newTaskResponse(updated))
}

//	@Summary	Delete a task
//	@Tags		tasks
//	@Security	BearerAuth
//	@Param		id	path	integer	true	"Task id"
//	@Success	204
//	@Router		/tasks/{id} [delete]
func (h *Handler) delete(c *fiber.Ctx) error {
	task, err := h.authorizedTask(c)
	if err != nil {
		return err
	}

	if err := h.tasksSvc.Delete(c.Context(), task.ID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// authorizedTask loads the target task and enforces the owner-or-admin
// policy against the request claims.
func (h *Handler) authorizedTask(c *fiber.Ctx) (*tasks.Task, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	task, err := h.tasksSvc.Get(c.Context(), id)
	if err != nil {
		return nil, err
	}

	claims := middleware.Claims(c)
	if reqErr := h.guard.Require(claims, task, auth.OwnerOrAdmin()); reqErr != nil {
		return nil, reqErr
	}

	return task, nil
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
