package service

import (
	"context"
	"encoding/json"

	"finsight/internal/models"

	"github.com/google/uuid"
)

// Store contracts consumed by the services. The pgx repositories in
// internal/repository satisfy these; tests substitute in-memory fakes.

type StatementStore interface {
	Create(ctx context.Context, stmt *models.BankStatement) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProcessingStatus, analysis json.RawMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BankStatement, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BankStatement, error)
}

type TransactionStore interface {
	CreateBatch(ctx context.Context, transactions []*models.Transaction) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error)
	ListAllByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error)
	ListByStatementID(ctx context.Context, statementID uuid.UUID) ([]*models.Transaction, error)
}

type InsightStore interface {
	CreateBatch(ctx context.Context, insights []*models.SpendingInsight) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.SpendingInsight, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.InsightStatus) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SpendingInsight, error)
}
