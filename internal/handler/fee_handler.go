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

// FeeHandler manages fee endpoints.
type FeeHandler struct {
	service  service.FeeService
	activity service.ActivityLogService
	logger   zerolog.Logger
}

// NewFeeHandler builds a fee handler instance.
func NewFeeHandler(service service.FeeService, activity service.ActivityLogService, logger zerolog.Logger) *FeeHandler {
	return &FeeHandler{
		service:  service,
		activity: activity,
		logger:   logger.With().Str("component", "fee_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *FeeHandler) Register(router fiber.Router) {
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleTeacher)
	router.Get("", staff, h.list)
	router.Post("", staff, h.create)
	router.Get("/my", middleware.RequireRole(models.RoleStudent), h.listMine)
	router.Put("/:id", staff, h.markPaid)
}

func (h *FeeHandler) list(c *fiber.Ctx) error {
	var filter dto.FeeFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	entries, err := h.service.ListView(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "fees retrieved", entries)
}

func (h *FeeHandler) create(c *fiber.Ctx) error {
	var payload dto.FeeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.service.Create(c.Context(), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if h.activity != nil {
		h.activity.Record(c.Context(), activityActorFromContext(c), "fee.create", "fee", entry.ID, map[string]interface{}{
			"student_id": entry.StudentID,
			"subject":    entry.Subject,
			"status":     entry.Status,
		})
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "fee recorded", entry)
}

func (h *FeeHandler) markPaid(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.FeeUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entry, err := h.service.MarkPaid(c.Context(), id, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if h.activity != nil {
		h.activity.Record(c.Context(), activityActorFromContext(c), "fee.mark_paid", "fee", entry.ID, map[string]interface{}{
			"student_id": entry.StudentID,
			"subject":    entry.Subject,
		})
	}

	return utils.SendSuccess(c, "fee marked paid", entry)
}

func (h *FeeHandler) listMine(c *fiber.Ctx) error {
	month, err := parseQueryInt(c, "month")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid month")
	}
	year, err := parseQueryInt(c, "year")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid year")
	}

	entries, err := h.service.ListForStudent(c.Context(), userIDFromContext(c), month, year)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "fees retrieved", entries)
}

func (h *FeeHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrFeeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "fee record not found")
	case errors.Is(err, service.ErrFeeAlreadyPaid):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrFeeAlreadyRecorded):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
