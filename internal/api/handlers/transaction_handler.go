package handlers

import (
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// ListTransactions godoc
// @Summary List transactions
// @Description Get the caller's derived transactions, newest first, optionally scoped to one statement upload
// @Tags transactions
// @Produce json
// @Param limit query int false "Limit" default(20)
// @Param offset query int false "Offset" default(0)
// @Param statement_id query string false "Filter by statement upload"
// @Security Bearer
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	if raw := c.Query("statement_id"); raw != "" {
		statementID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid statement ID",
			})
		}

		transactions, err := h.txService.ListByStatement(c.Context(), userID, statementID)
		if err != nil {
			h.logger.Error("Failed to list statement transactions", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list transactions",
			})
		}
		return c.JSON(transactions)
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)

	transactions, err := h.txService.List(c.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list transactions", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list transactions",
		})
	}

	return c.JSON(transactions)
}

// GetSummary godoc
// @Summary Financial summary
// @Description Income/expense totals, net cash flow and top expense categories
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.FinancialSummaryResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/transactions/summary [get]
func (h *TransactionHandler) GetSummary(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	summary, err := h.txService.Summary(c.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to build financial summary", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to build financial summary",
		})
	}

	return c.JSON(summary)
}
