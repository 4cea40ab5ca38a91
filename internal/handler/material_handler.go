package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/middleware"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/service"
	"github.com/noah-isme/tcms-go-api/internal/utils"
)

// MaterialHandler manages study material endpoints.
type MaterialHandler struct {
	service  service.MaterialService
	activity service.ActivityLogService
	logger   zerolog.Logger
}

// NewMaterialHandler builds a material handler instance.
func NewMaterialHandler(service service.MaterialService, activity service.ActivityLogService, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service:  service,
		activity: activity,
		logger:   logger.With().Str("component", "material_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *MaterialHandler) Register(router fiber.Router) {
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleTeacher)
	router.Get("", h.list)
	router.Post("", staff, h.create)
	router.Delete("/:id", staff, h.delete)
}

func (h *MaterialHandler) list(c *fiber.Ctx) error {
	materials, err := h.service.ListForUser(c.Context(), userIDFromContext(c), userRoleFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "materials retrieved", materials)
}

func (h *MaterialHandler) create(c *fiber.Ctx) error {
	var payload dto.MaterialCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	material, err := h.service.Create(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "material shared", material)
}

func (h *MaterialHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.service.Delete(c.Context(), id, userIDFromContext(c), userRoleFromContext(c)); err != nil {
		return h.handleError(c, err)
	}

	if h.activity != nil {
		h.activity.Record(c.Context(), activityActorFromContext(c), "material.delete", "material", &id, nil)
	}

	return utils.SendSuccess(c, "material deleted", nil)
}

func (h *MaterialHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrMaterialNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "material not found")
	case errors.Is(err, service.ErrNotMaterialOwner):
		return utils.SendError(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "user not found")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
