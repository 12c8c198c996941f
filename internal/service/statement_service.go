package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxStatementSize caps uploads at 10 MiB. Content is read fully into
// memory, so the cap also bounds per-request memory.
const MaxStatementSize = 10 << 20

var (
	ErrInvalidFileType    = errors.New("invalid file type: please upload a PDF, CSV, or TXT bank statement")
	ErrFileTooLarge       = errors.New("file too large: please upload a file smaller than 10MB")
	ErrUnsupportedFormat  = errors.New("PDF files are not currently supported. Please convert your PDF to a CSV or TXT file and try again")
	ErrAnalysisInProgress = errors.New("a statement analysis is already in progress for this user")
	ErrStatementNotFound  = errors.New("bank statement not found")
)

var allowedStatementTypes = map[string]struct{}{
	"text/plain":      {},
	"text/csv":        {},
	"application/pdf": {},
}

// ValidateStatementFile rejects bad uploads before any statement record
// is created or any remote call is made. PDF passes the type check but
// fails fast here: there is no text extraction for binary content, and
// silently mis-parsing it would be worse than refusing.
func ValidateStatementFile(filename, contentType string, size int64) error {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	if _, ok := allowedStatementTypes[contentType]; !ok {
		return ErrInvalidFileType
	}
	if size > MaxStatementSize {
		return ErrFileTooLarge
	}
	if contentType == "application/pdf" || strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ErrUnsupportedFormat
	}
	return nil
}

type StatementService struct {
	statements  StatementStore
	txs         TransactionStore
	insights    InsightStore
	categorizer Categorizer
	logger      *zap.Logger

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

func NewStatementService(
	statements StatementStore,
	txs TransactionStore,
	insights InsightStore,
	categorizer Categorizer,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		statements:  statements,
		txs:         txs,
		insights:    insights,
		categorizer: categorizer,
		logger:      logger,
		inflight:    make(map[uuid.UUID]struct{}),
	}
}

// Analyze runs the ingestion pipeline for one uploaded statement:
// validate, record the attempt, call the categorization service, store
// the result, and materialize derived transaction and insight rows.
//
// The completion write happens before the derived inserts, and the two
// are not transactionally coupled: a partial derived-row failure is
// logged and does not roll back the completed statement.
func (s *StatementService) Analyze(ctx context.Context, userID uuid.UUID, filename, contentType string, content []byte) (*dto.AnalyzeStatementResponse, error) {
	if err := ValidateStatementFile(filename, contentType, int64(len(content))); err != nil {
		return nil, err
	}

	// One analysis per user at a time.
	if !s.beginAnalysis(userID) {
		return nil, ErrAnalysisInProgress
	}
	defer s.endAnalysis(userID)

	// The processing row is written before the remote call so a failure
	// after this point leaves auditable evidence of the attempt.
	now := time.Now()
	stmt := &models.BankStatement{
		ID:               uuid.New(),
		UserID:           userID,
		Filename:         filename,
		FileSize:         int64(len(content)),
		ProcessingStatus: models.StatementProcessing,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.statements.Create(ctx, stmt); err != nil {
		return nil, fmt.Errorf("failed to create bank statement record: %w", err)
	}

	s.logger.Info("Processing bank statement",
		zap.String("statement_id", stmt.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("filename", filename),
	)

	analysis, err := s.categorizer.Analyze(ctx, string(content), filename)
	if errors.Is(err, ErrRateLimited) {
		note := &StatementAnalysis{Error: "Analysis service rate limit exceeded. Please try again later."}
		payload, _ := json.Marshal(note)
		if uerr := s.statements.UpdateStatus(ctx, stmt.ID, models.StatementRateLimited, payload); uerr != nil {
			s.logger.Error("Failed to mark statement rate limited", zap.Error(uerr))
		}
		return &dto.AnalyzeStatementResponse{
			Success:         false,
			Error:           note.Error,
			BankStatementID: stmt.ID.String(),
			RateLimited:     true,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to analyze bank statement: %w", err)
	}

	payload, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}

	if err := s.statements.UpdateStatus(ctx, stmt.ID, models.StatementCompleted, payload); err != nil {
		return nil, fmt.Errorf("failed to store analysis result: %w", err)
	}

	if analysis.Parsed() {
		s.persistDerived(ctx, userID, stmt.ID, analysis)
	}

	return &dto.AnalyzeStatementResponse{
		Success:         true,
		BankStatementID: stmt.ID.String(),
		Analysis:        payload,
	}, nil
}

// persistDerived materializes parsed transactions and insights as rows
// owned by the invoking user. Best-effort: insert failures are logged,
// not surfaced, and do not affect the statement's completed status.
func (s *StatementService) persistDerived(ctx context.Context, userID, statementID uuid.UUID, analysis *StatementAnalysis) {
	now := time.Now()

	transactions := make([]*models.Transaction, 0, len(analysis.Transactions))
	for _, entry := range analysis.Transactions {
		txType := models.TransactionType(entry.TransactionType)
		if !txType.Valid() {
			txType = models.TypeExpense
		}

		date := now
		if entry.Date != "" {
			if parsed, err := time.Parse("2006-01-02", entry.Date); err == nil {
				date = parsed
			}
		}

		transactions = append(transactions, &models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			StatementID: statementID,
			Date:        date,
			Description: sanitizeUTF8(entry.Description),
			Amount:      entry.Amount.Abs(),
			Type:        txType,
			Category:    models.NormalizeCategory(entry.Category),
			Merchant:    sanitizeUTF8(entry.Merchant),
			AIParsed:    true,
			CreatedAt:   now,
		})
	}

	if len(transactions) > 0 {
		if err := s.txs.CreateBatch(ctx, transactions); err != nil {
			s.logger.Error("Failed to insert derived transactions",
				zap.String("statement_id", statementID.String()),
				zap.Error(err),
			)
		} else {
			s.logger.Info("Inserted derived transactions",
				zap.String("statement_id", statementID.String()),
				zap.Int("count", len(transactions)),
			)
		}
	}

	insights := make([]*models.SpendingInsight, 0, len(analysis.Insights))
	for _, entry := range analysis.Insights {
		insType := models.InsightType(entry.Type)
		if !insType.Valid() {
			insType = models.InsightSpendingCategory
		}
		priority := models.InsightPriority(entry.Priority)
		if !priority.Valid() {
			priority = models.PriorityMedium
		}

		insights = append(insights, &models.SpendingInsight{
			ID:               uuid.New(),
			UserID:           userID,
			Type:             insType,
			Title:            sanitizeUTF8(entry.Title),
			Description:      sanitizeUTF8(entry.Description),
			PotentialSavings: entry.PotentialSavings,
			Priority:         priority,
			Status:           models.InsightNew,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	if len(insights) > 0 {
		if err := s.insights.CreateBatch(ctx, insights); err != nil {
			s.logger.Error("Failed to insert spending insights",
				zap.String("statement_id", statementID.String()),
				zap.Error(err),
			)
		} else {
			s.logger.Info("Inserted spending insights",
				zap.String("statement_id", statementID.String()),
				zap.Int("count", len(insights)),
			)
		}
	}
}

// ListStatements lists the caller's statement uploads, newest first.
func (s *StatementService) ListStatements(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.StatementResponse, error) {
	statements, err := s.statements.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.StatementResponse, len(statements))
	for i, stmt := range statements {
		responses[i] = statementResponse(stmt)
	}

	return responses, nil
}

// GetStatement fetches one statement upload with its stored analysis.
// A statement owned by another user is reported as not found.
func (s *StatementService) GetStatement(ctx context.Context, userID, statementID uuid.UUID) (*dto.StatementResponse, error) {
	stmt, err := s.statements.GetByID(ctx, statementID)
	if err != nil {
		return nil, ErrStatementNotFound
	}
	if stmt.UserID != userID {
		return nil, ErrStatementNotFound
	}

	return statementResponse(stmt), nil
}

func statementResponse(stmt *models.BankStatement) *dto.StatementResponse {
	return &dto.StatementResponse{
		ID:               stmt.ID.String(),
		Filename:         stmt.Filename,
		FileSize:         stmt.FileSize,
		ProcessingStatus: string(stmt.ProcessingStatus),
		Analysis:         stmt.Analysis,
		CreatedAt:        stmt.CreatedAt.Format(time.RFC3339),
	}
}

func (s *StatementService) beginAnalysis(userID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[userID]; busy {
		return false
	}
	s.inflight[userID] = struct{}{}
	return true
}

func (s *StatementService) endAnalysis(userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, userID)
}
