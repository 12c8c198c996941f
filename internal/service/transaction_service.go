package service

import (
	"context"
	"sort"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type TransactionService struct {
	txs    TransactionStore
	logger *zap.Logger
}

func NewTransactionService(txs TransactionStore, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		txs:    txs,
		logger: logger,
	}
}

func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.TransactionResponse, error) {
	transactions, err := s.txs.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return transactionResponses(transactions), nil
}

// ListByStatement returns the transactions derived from one statement
// upload. Rows belonging to other users are filtered out rather than
// reported, so a foreign statement ID just looks empty.
func (s *TransactionService) ListByStatement(ctx context.Context, userID, statementID uuid.UUID) ([]*dto.TransactionResponse, error) {
	transactions, err := s.txs.ListByStatementID(ctx, statementID)
	if err != nil {
		return nil, err
	}

	owned := transactions[:0]
	for _, tx := range transactions {
		if tx.UserID == userID {
			owned = append(owned, tx)
		}
	}

	return transactionResponses(owned), nil
}

func transactionResponses(transactions []*models.Transaction) []*dto.TransactionResponse {
	responses := make([]*dto.TransactionResponse, len(transactions))
	for i, tx := range transactions {
		responses[i] = &dto.TransactionResponse{
			ID:          tx.ID.String(),
			StatementID: tx.StatementID.String(),
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Amount:      tx.Amount,
			Type:        string(tx.Type),
			Category:    string(tx.Category),
			Merchant:    tx.Merchant,
			AIParsed:    tx.AIParsed,
			CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
		}
	}
	return responses
}

// Summary aggregates the caller's full transaction history: income and
// expense totals, net cash flow and the top five expense categories.
func (s *TransactionService) Summary(ctx context.Context, userID uuid.UUID) (*dto.FinancialSummaryResponse, error) {
	transactions, err := s.txs.ListAllByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expenses := decimal.Zero
	type categoryTotal struct {
		amount decimal.Decimal
		count  int
	}
	byCategory := make(map[models.TransactionCategory]categoryTotal)

	for _, tx := range transactions {
		switch tx.Type {
		case models.TypeIncome:
			income = income.Add(tx.Amount)
		case models.TypeExpense:
			expenses = expenses.Add(tx.Amount)
			total := byCategory[tx.Category]
			total.amount = total.amount.Add(tx.Amount)
			total.count++
			byCategory[tx.Category] = total
		}
	}

	topCategories := make([]dto.CategorySummary, 0, len(byCategory))
	for category, total := range byCategory {
		topCategories = append(topCategories, dto.CategorySummary{
			Category: string(category),
			Amount:   total.amount,
			Count:    total.count,
		})
	}
	sort.Slice(topCategories, func(i, j int) bool {
		if cmp := topCategories[i].Amount.Cmp(topCategories[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return topCategories[i].Category < topCategories[j].Category
	})
	if len(topCategories) > 5 {
		topCategories = topCategories[:5]
	}

	return &dto.FinancialSummaryResponse{
		TotalIncome:      income,
		TotalExpenses:    expenses,
		NetCashFlow:      income.Sub(expenses),
		TransactionCount: len(transactions),
		TopCategories:    topCategories,
	}, nil
}
