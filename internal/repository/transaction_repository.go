package repository

import (
	"context"

	"finsight/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const transactionColumns = "id, user_id, statement_id, date, description, amount, transaction_type, category, merchant, ai_parsed, created_at"

type TransactionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTransactionRepository(db *pgxpool.Pool, logger *zap.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *TransactionRepository) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	builder := squirrel.Insert("transactions").
		Columns("id", "user_id", "statement_id", "date", "description", "amount", "transaction_type", "category", "merchant", "ai_parsed", "created_at").
		PlaceholderFormat(squirrel.Dollar)

	for _, tx := range transactions {
		builder = builder.Values(tx.ID, tx.UserID, tx.StatementID, tx.Date, tx.Description, tx.Amount, tx.Type, tx.Category, tx.Merchant, tx.AIParsed, tx.CreatedAt)
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *TransactionRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

// ListAllByUserID returns every transaction a user owns, newest first.
// Used by the summary calculation, which aggregates the full history.
func (r *TransactionRepository) ListAllByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns).
		From("transactions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("date DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

func (r *TransactionRepository) ListByStatementID(ctx context.Context, statementID uuid.UUID) ([]*models.Transaction, error) {
	query := squirrel.Select(transactionColumns).
		From("transactions").
		Where(squirrel.Eq{"statement_id": statementID}).
		OrderBy("date DESC").
		PlaceholderFormat(squirrel.Dollar)

	return r.list(ctx, query)
}

func (r *TransactionRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Transaction, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.StatementID, &tx.Date, &tx.Description, &tx.Amount, &tx.Type, &tx.Category, &tx.Merchant, &tx.AIParsed, &tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		transactions = append(transactions, &tx)
	}

	return transactions, nil
}
