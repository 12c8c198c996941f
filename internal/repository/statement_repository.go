package repository

import (
	"context"
	"encoding/json"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type StatementRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewStatementRepository(db *pgxpool.Pool, logger *zap.Logger) *StatementRepository {
	return &StatementRepository{
		db:     db,
		logger: logger,
	}
}

func (r *StatementRepository) Create(ctx context.Context, stmt *models.BankStatement) error {
	query := squirrel.Insert("bank_statements").
		Columns("id", "user_id", "filename", "file_size", "processing_status", "ai_analysis", "created_at", "updated_at").
		Values(stmt.ID, stmt.UserID, stmt.Filename, stmt.FileSize, stmt.ProcessingStatus, stmt.Analysis, stmt.CreatedAt, stmt.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// UpdateStatus sets the processing status and analysis payload in one
// write, so a completed statement is never observable without it.
func (r *StatementRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProcessingStatus, analysis json.RawMessage) error {
	query := squirrel.Update("bank_statements").
		Set("processing_status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	if analysis != nil {
		query = query.Set("ai_analysis", analysis)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *StatementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BankStatement, error) {
	query := squirrel.Select("id", "user_id", "filename", "file_size", "processing_status", "ai_analysis", "created_at", "updated_at").
		From("bank_statements").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var stmt models.BankStatement
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&stmt.ID, &stmt.UserID, &stmt.Filename, &stmt.FileSize, &stmt.ProcessingStatus, &stmt.Analysis, &stmt.CreatedAt, &stmt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &stmt, nil
}

func (r *StatementRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BankStatement, error) {
	query := squirrel.Select("id", "user_id", "filename", "file_size", "processing_status", "ai_analysis", "created_at", "updated_at").
		From("bank_statements").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statements []*models.BankStatement
	for rows.Next() {
		var stmt models.BankStatement
		if err := rows.Scan(
			&stmt.ID, &stmt.UserID, &stmt.Filename, &stmt.FileSize, &stmt.ProcessingStatus, &stmt.Analysis, &stmt.CreatedAt, &stmt.UpdatedAt,
		); err != nil {
			return nil, err
		}
		statements = append(statements, &stmt)
	}

	return statements, nil
}
