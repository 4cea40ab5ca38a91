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

// AttendanceHandler manages attendance endpoints.
type AttendanceHandler struct {
	service  service.AttendanceService
	activity service.ActivityLogService
	logger   zerolog.Logger
}

// NewAttendanceHandler builds an attendance handler instance.
func NewAttendanceHandler(service service.AttendanceService, activity service.ActivityLogService, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service:  service,
		activity: activity,
		logger:   logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AttendanceHandler) Register(router fiber.Router) {
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleTeacher)
	router.Get("", staff, h.list)
	router.Post("", staff, h.mark)
	router.Get("/my", middleware.RequireRole(models.RoleStudent), h.listMine)
}

func (h *AttendanceHandler) list(c *fiber.Ctx) error {
	var filter dto.AttendanceFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	entries, err := h.service.ListView(c.Context(), filter)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", entries)
}

func (h *AttendanceHandler) mark(c *fiber.Ctx) error {
	var payload []dto.AttendanceMarkRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	entries, err := h.service.Mark(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	if h.activity != nil {
		h.activity.Record(c.Context(), activityActorFromContext(c), "attendance.mark", "attendance", nil, map[string]interface{}{
			"entries": len(entries),
		})
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "attendance marked", entries)
}

func (h *AttendanceHandler) listMine(c *fiber.Ctx) error {
	entries, err := h.service.ListForStudent(c.Context(), userIDFromContext(c), c.Query("subject"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attendance retrieved", entries)
}

func (h *AttendanceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrAttendanceAlreadyMarked):
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
