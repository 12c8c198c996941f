package handlers

import (
	"finsight/internal/dto"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DeliveryHandler struct {
	notifier service.DeliveryNotifier
	logger   *zap.Logger
}

func NewDeliveryHandler(notifier service.DeliveryNotifier, logger *zap.Logger) *DeliveryHandler {
	return &DeliveryHandler{
		notifier: notifier,
		logger:   logger,
	}
}

// NotifyDelivery godoc
// @Summary Send a delivery booking notification
// @Description Notify a partner delivery company about a new booking
// @Tags delivery
// @Accept json
// @Produce json
// @Param request body dto.DeliveryNotificationRequest true "Delivery booking"
// @Security Bearer
// @Success 200 {object} dto.DeliveryNotificationResponse
// @Failure 400 {object} map[string]string
// @Router /api/v1/delivery/notify [post]
func (h *DeliveryHandler) NotifyDelivery(c *fiber.Ctx) error {
	var req dto.DeliveryNotificationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.notifier.Notify(c.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to send delivery notification", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   "Failed to send delivery notification",
		})
	}

	return c.JSON(resp)
}
