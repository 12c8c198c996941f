package handlers

import (
	"errors"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InsightHandler struct {
	insightService *service.InsightService
	logger         *zap.Logger
}

func NewInsightHandler(insightService *service.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		logger:         logger,
	}
}

// ListInsights godoc
// @Summary List spending insights
// @Description Get the caller's AI-generated spending insights, newest first
// @Tags insights
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.InsightResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/insights [get]
func (h *InsightHandler) ListInsights(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	insights, err := h.insightService.List(c.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list insights", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list insights",
		})
	}

	return c.JSON(insights)
}

// UpdateInsightStatus godoc
// @Summary Update insight status
// @Description Move an insight one step through its lifecycle (new -> viewed -> acted_on, or dismiss)
// @Tags insights
// @Accept json
// @Produce json
// @Param id path string true "Insight ID"
// @Param request body dto.UpdateInsightStatusRequest true "Target status"
// @Security Bearer
// @Success 200 {object} dto.InsightResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/insights/{id}/status [patch]
func (h *InsightHandler) UpdateInsightStatus(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	insightID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid insight ID",
		})
	}

	var req dto.UpdateInsightStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.insightService.UpdateStatus(c.Context(), userID, insightID, models.InsightStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid insight status",
			})
		case errors.Is(err, service.ErrInsightNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Insight not found",
			})
		case errors.Is(err, service.ErrInvalidTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Status transition not permitted",
			})
		default:
			h.logger.Error("Failed to update insight status", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update insight status",
			})
		}
	}

	return c.JSON(resp)
}
