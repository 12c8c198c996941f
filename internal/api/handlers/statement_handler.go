package handlers

import (
	"errors"
	"io"

	"finsight/internal/dto"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StatementHandler struct {
	stmtService *service.StatementService
	logger      *zap.Logger
}

func NewStatementHandler(stmtService *service.StatementService, logger *zap.Logger) *StatementHandler {
	return &StatementHandler{
		stmtService: stmtService,
		logger:      logger,
	}
}

// AnalyzeStatement godoc
// @Summary Analyze a bank statement
// @Description Upload a CSV/TXT bank statement for AI transaction extraction and spending insights
// @Tags statements
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Bank statement file (CSV or TXT, max 10MB)"
// @Security Bearer
// @Success 200 {object} dto.AnalyzeStatementResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/v1/statements/analyze [post]
func (h *StatementHandler) AnalyzeStatement(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File is required",
		})
	}

	contentType := file.Header.Get("Content-Type")

	// Validate before reading so a bad upload never touches the
	// pipeline or the categorization service.
	if err := service.ValidateStatementFile(file.Filename, contentType, file.Size); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, service.MaxStatementSize+1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	resp, err := h.stmtService.Analyze(c.Context(), userID, file.Filename, contentType, content)
	if err != nil {
		return h.analyzeError(c, err)
	}

	// Rate-limited results travel as success:false over HTTP 200 so the
	// caller can tell "service busy" apart from a hard failure.
	return c.JSON(resp)
}

func (h *StatementHandler) analyzeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidFileType),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrUnsupportedFormat):
		return c.Status(fiber.StatusBadRequest).JSON(dto.AnalyzeStatementResponse{
			Success: false,
			Error:   err.Error(),
		})
	case errors.Is(err, service.ErrAnalysisInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.AnalyzeStatementResponse{
			Success: false,
			Error:   err.Error(),
		})
	case errors.Is(err, service.ErrAnalysisTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(dto.AnalyzeStatementResponse{
			Success: false,
			Error:   "The analysis service took too long to respond. Please try again.",
		})
	default:
		h.logger.Error("Failed to analyze bank statement", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(dto.AnalyzeStatementResponse{
			Success: false,
			Error:   "Failed to analyze bank statement",
		})
	}
}

// GetStatement godoc
// @Summary Get a statement upload
// @Description Get one uploaded statement with its processing status and stored analysis
// @Tags statements
// @Produce json
// @Param id path string true "Statement ID"
// @Security Bearer
// @Success 200 {object} dto.StatementResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/statements/{id} [get]
func (h *StatementHandler) GetStatement(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	statementID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid statement ID",
		})
	}

	stmt, err := h.stmtService.GetStatement(c.Context(), userID, statementID)
	if err != nil {
		if errors.Is(err, service.ErrStatementNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Bank statement not found",
			})
		}
		h.logger.Error("Failed to get statement", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get statement",
		})
	}

	return c.JSON(stmt)
}

// ListStatements godoc
// @Summary List statement uploads
// @Description Get the caller's uploaded statements with processing status
// @Tags statements
// @Produce json
// @Param limit query int false "Limit" default(10)
// @Param offset query int false "Offset" default(0)
// @Security Bearer
// @Success 200 {array} dto.StatementResponse
// @Failure 401 {object} map[string]string
// @Router /api/v1/statements [get]
func (h *StatementHandler) ListStatements(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	limit := c.QueryInt("limit", 10)
	offset := c.QueryInt("offset", 0)

	statements, err := h.stmtService.ListStatements(c.Context(), userID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list statements", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list statements",
		})
	}

	return c.JSON(statements)
}
