package repository

import (
	"context"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const insightColumns = "id, user_id, insight_type, title, description, potential_savings, priority, status, created_at, updated_at"

type InsightRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewInsightRepository(db *pgxpool.Pool, logger *zap.Logger) *InsightRepository {
	return &InsightRepository{
		db:     db,
		logger: logger,
	}
}

func (r *InsightRepository) CreateBatch(ctx context.Context, insights []*models.SpendingInsight) error {
	if len(insights) == 0 {
		return nil
	}

	builder := squirrel.Insert("spending_insights").
		Columns("id", "user_id", "insight_type", "title", "description", "potential_savings", "priority", "status", "created_at", "updated_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, ins := range insights {
		builder = builder.Values(ins.ID, ins.UserID, ins.Type, ins.Title, ins.Description, ins.PotentialSavings, ins.Priority, ins.Status, ins.CreatedAt, ins.UpdatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *InsightRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.SpendingInsight, error) {
	query := squirrel.Select(insightColumns).
		From("spending_insights").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var ins models.SpendingInsight
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&ins.ID, &ins.UserID, &ins.Type, &ins.Title, &ins.Description, &ins.PotentialSavings, &ins.Priority, &ins.Status, &ins.CreatedAt, &ins.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &ins, nil
}

func (r *InsightRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InsightStatus) error {
	query := squirrel.Update("spending_insights").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *InsightRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SpendingInsight, error) {
	query := squirrel.Select(insightColumns).
		From("spending_insights").
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

	var insights []*models.SpendingInsight
	for rows.Next() {
		var ins models.SpendingInsight
		if err := rows.Scan(
			&ins.ID, &ins.UserID, &ins.Type, &ins.Title, &ins.Description, &ins.PotentialSavings, &ins.Priority, &ins.Status, &ins.CreatedAt, &ins.UpdatedAt,
		); err != nil {
			return nil, err
		}
		insights = append(insights, &ins)
	}

	return insights, nil
}
