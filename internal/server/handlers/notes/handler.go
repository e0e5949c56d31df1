package notes

import (
	"errors"
	"strconv"

	"github.com/go-core-fx/fiberfx/handler"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/notekeep/notekeep/internal/auth"
	"github.com/notekeep/notekeep/internal/notes"
	"github.com/notekeep/notekeep/internal/server/middleware"
	"github.com/notekeep/notekeep/internal/server/validation"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Handler struct {
	notesSvc *notes.Service
	guard    *auth.Guard
	authMW   *middleware.Authenticate

	validator *validator.Validate
	logger    *zap.Logger
}

func NewHandler(
	notesSvc *notes.Service,
	guard *auth.Guard,
	authMW *middleware.Authenticate,
	validator *validator.Validate,
	logger *zap.Logger,
) handler.Handler {
	return &Handler{
		notesSvc: notesSvc,
		guard:    guard,
		authMW:   authMW,

		validator: validator,
		logger:    logger,
	}
}

// Register implements handler.Handler.
func (h *Handler) Register(r fiber.Router) {
	r = r.Group("/notes")

	r.Use(h.authMW.Handle)
	r.Use(h.errorsHandler)
	r.Post("/", validation.DecorateWithBodyEx(h.validator, h.post))
	r.Get("/", h.list)
	r.Get("/:id", h.get)
	r.Put("/:id", validation.DecorateWithBodyEx(h.validator, h.put))
	r.Patch("/:id", validation.DecorateWithBodyEx(h.validator, h.patch))
	r.Delete("/:id", h.delete)
}

//	@Summary	Create a note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		request	body		CreateRequest	true	"Note"
//	@Success	201		{object}	NoteResponse
//	@Router		/notes [post]
func (h *Handler) post(c *fiber.Ctx, req *CreateRequest) error {
	claims := middleware.Claims(c)

	note, err := h.notesSvc.Create(c.Context(), &notes.NoteDraft{
		OwnerID: claims.UserID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(newNoteResponse(note))
}

//	@Summary	List notes (own; admins see all)
//	@Tags		notes
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}	NoteResponse
//	@Router		/notes [get]
func (h *Handler) list(c *fiber.Ctx) error {
	claims := middleware.Claims(c)

	var (
		result []notes.Note
		err    error
	)
	if claims.Role == auth.RoleAdmin {
		result, err = h.notesSvc.ListAll(c.Context())
	} else {
		result, err = h.notesSvc.ListOwned(c.Context(), claims.UserID)
	}
	if err != nil {
		return err
	}

	return c.JSON(lo.Map(result, func(note notes.Note, _ int) NoteResponse {
		return newNoteResponse(&note)
	}))
}

//	@Summary	Get a note
//	@Tags		notes
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		integer	true	"Note id"
//	@Success	200	{object}	NoteResponse
//	@Router		/notes/{id} [get]
func (h *Handler) get(c *fiber.Ctx) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return err
	}

	return c.JSON(newNoteResponse(note))
}

//	@Summary	Replace a note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		integer		true	"Note id"
//	@Param		request	body		PutRequest	true	"Note"
//	@Success	200		{object}	NoteResponse
//	@Router		/notes/{id} [put]
func (h *Handler) put(c *fiber.Ctx, req *PutRequest) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return err
	}

	updated, err := h.notesSvc.Replace(c.Context(), note.ID, notes.NoteUpdate{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	return c.JSON(newNoteResponse(updated))
}

//	@Summary	Update fields of a note
//	@Tags		notes
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		integer			true	"Note id"
//	@Param		request	body		PatchRequest	true	"Fields"
//	@Success	200		{object}	NoteResponse
//	@Router		/notes/{id} [patch]
func (h *Handler) patch(c *fiber.Ctx, req *PatchRequest) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return err
	}

	updated, err := h.notesSvc.Patch(c.Context(), note.ID, notes.NotePatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return err
	}

	return c.JSON(newNoteResponse(updated))
}

//	@Summary	Delete a note
//	@Tags		notes
//	@Security	BearerAuth
//	@Param		id	path	integer	true	"Note id"
//	@Success	204
//	@Router		/notes/{id} [delete]
func (h *Handler) delete(c *fiber.Ctx) error {
	note, err := h.authorizedNote(c)
	if err != nil {
		return err
	}

	if err := h.notesSvc.Delete(c.Context(), note.ID); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// authorizedNote loads the target note and enforces the owner-or-admin
// policy against the request claims.
func (h *Handler) authorizedNote(c *fiber.Ctx) (*notes.Note, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	note, err := h.notesSvc.Get(c.Context(), id)
	if err != nil {
		return nil, err
	}

	claims := middleware.Claims(c)
	if reqErr := h.guard.Require(claims, note, auth.OwnerOrAdmin()); reqErr != nil {
		return nil, reqErr
	}

	return note, nil
}

func (h *Handler) errorsHandler(c *fiber.Ctx) error {
	err := c.Next()
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, notes.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	}

	return err //nolint:wrapcheck //already wrapped
}
