package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tcms-go-api/internal/middleware"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/service"
	"github.com/noah-isme/tcms-go-api/internal/utils"
)

// PerformanceHandler serves the per-student performance read model.
type PerformanceHandler struct {
	service service.PerformanceService
	logger  zerolog.Logger
}

// NewPerformanceHandler builds a performance handler instance.
func NewPerformanceHandler(service service.PerformanceService, logger zerolog.Logger) *PerformanceHandler {
	return &PerformanceHandler{
		service: service,
		logger:  logger.With().Str("component", "performance_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *PerformanceHandler) Register(router fiber.Router) {
	router.Get("/me", middleware.RequireRole(models.RoleStudent), h.me)
	router.Get("/student/:id", middleware.RequireRole(models.RoleAdmin, models.RoleTeacher), h.student)
}

func (h *PerformanceHandler) me(c *fiber.Ctx) error {
	performance, err := h.service.GetForStudent(c.Context(), userIDFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "performance retrieved", performance)
}

func (h *PerformanceHandler) student(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	performance, err := h.service.GetForStudent(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "performance retrieved", performance)
}

func (h *PerformanceHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "student not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
