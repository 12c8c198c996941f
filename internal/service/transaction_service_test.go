package service

import (
	"context"
	"testing"
	"time"

	"finsight/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func addTransaction(store *fakeTransactionStore, userID uuid.UUID, txType models.TransactionType, category models.TransactionCategory, amount string) {
	store.rows = append(store.rows, &models.Transaction{
		ID:        uuid.New(),
		UserID:    userID,
		Date:      time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Amount:    decimal.RequireFromString(amount),
		Type:      txType,
		Category:  category,
		CreatedAt: time.Now(),
	})
}

func TestSummary(t *testing.T) {
	userID := uuid.New()
	store := &fakeTransactionStore{}
	svc := NewTransactionService(store, zap.NewNop())

	addTransaction(store, userID, models.TypeIncome, models.CategoryBusiness, "1500.00")
	addTransaction(store, userID, models.TypeIncome, models.CategoryBusiness, "250.50")
	addTransaction(store, userID, models.TypeExpense, models.CategoryFood, "42.10")
	addTransaction(store, userID, models.TypeExpense, models.CategoryFood, "17.90")
	addTransaction(store, userID, models.TypeExpense, models.CategoryUtilities, "130.00")

	// Another user's history must not leak into the summary.
	addTransaction(store, uuid.New(), models.TypeExpense, models.CategoryShopping, "9999.99")

	summary, err := svc.Summary(context.Background(), userID)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if !summary.TotalIncome.Equal(decimal.RequireFromString("1750.50")) {
		t.Errorf("total income = %s, want 1750.50", summary.TotalIncome)
	}
	if !summary.TotalExpenses.Equal(decimal.RequireFromString("190.00")) {
		t.Errorf("total expenses = %s, want 190.00", summary.TotalExpenses)
	}
	if !summary.NetCashFlow.Equal(decimal.RequireFromString("1560.50")) {
		t.Errorf("net cash flow = %s, want 1560.50", summary.NetCashFlow)
	}
	if summary.TransactionCount != 5 {
		t.Errorf("transaction count = %d, want 5", summary.TransactionCount)
	}

	if len(summary.TopCategories) != 2 {
		t.Fatalf("expected 2 expense categories, got %d", len(summary.TopCategories))
	}
	if summary.TopCategories[0].Category != "utilities" {
		t.Errorf("top category = %s, want utilities", summary.TopCategories[0].Category)
	}
	if !summary.TopCategories[0].Amount.Equal(decimal.RequireFromString("130.00")) {
		t.Errorf("top category amount = %s, want 130.00", summary.TopCategories[0].Amount)
	}
	if summary.TopCategories[1].Category != "food" || summary.TopCategories[1].Count != 2 {
		t.Errorf("second category = %+v, want food with count 2", summary.TopCategories[1])
	}
}

func TestSummary_TopFiveCapped(t *testing.T) {
	userID := uuid.New()
	store := &fakeTransactionStore{}
	svc := NewTransactionService(store, zap.NewNop())

	categories := []models.TransactionCategory{
		models.CategoryFood,
		models.CategoryTransportation,
		models.CategoryUtilities,
		models.CategoryEntertainment,
		models.CategoryShopping,
		models.CategoryHealthcare,
		models.CategoryOther,
	}
	for i, category := range categories {
		addTransaction(store, userID, models.TypeExpense, category, decimal.NewFromInt(int64(100*(i+1))).String())
	}

	summary, err := svc.Summary(context.Background(), userID)
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}

	if len(summary.TopCategories) != 5 {
		t.Fatalf("expected top list capped at 5, got %d", len(summary.TopCategories))
	}
	// Largest spend first.
	if summary.TopCategories[0].Category != string(models.CategoryOther) {
		t.Errorf("top category = %s, want other", summary.TopCategories[0].Category)
	}
	for i := 1; i < len(summary.TopCategories); i++ {
		if summary.TopCategories[i].Amount.GreaterThan(summary.TopCategories[i-1].Amount) {
			t.Errorf("top categories not sorted at index %d", i)
		}
	}
}

func TestSummary_Empty(t *testing.T) {
	svc := NewTransactionService(&fakeTransactionStore{}, zap.NewNop())

	summary, err := svc.Summary(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Summary() error = %v", err)
	}
	if !summary.TotalIncome.IsZero() || !summary.TotalExpenses.IsZero() || !summary.NetCashFlow.IsZero() {
		t.Errorf("empty history should produce zero totals: %+v", summary)
	}
	if summary.TransactionCount != 0 || len(summary.TopCategories) != 0 {
		t.Errorf("empty history should produce no categories: %+v", summary)
	}
}

func TestListByStatement(t *testing.T) {
	userID := uuid.New()
	statementID := uuid.New()
	store := &fakeTransactionStore{}
	svc := NewTransactionService(store, zap.NewNop())

	store.rows = append(store.rows,
		&models.Transaction{ID: uuid.New(), UserID: userID, StatementID: statementID, Amount: decimal.New(1, 0), Type: models.TypeExpense},
		&models.Transaction{ID: uuid.New(), UserID: userID, StatementID: statementID, Amount: decimal.New(2, 0), Type: models.TypeExpense},
		&models.Transaction{ID: uuid.New(), UserID: userID, StatementID: uuid.New(), Amount: decimal.New(3, 0), Type: models.TypeExpense},
		// Simulates a mismatched row: same statement, different owner.
		&models.Transaction{ID: uuid.New(), UserID: uuid.New(), StatementID: statementID, Amount: decimal.New(4, 0), Type: models.TypeExpense},
	)

	transactions, err := svc.ListByStatement(context.Background(), userID, statementID)
	if err != nil {
		t.Fatalf("ListByStatement() error = %v", err)
	}
	if len(transactions) != 2 {
		t.Errorf("expected 2 owned rows for the statement, got %d", len(transactions))
	}

	foreign, err := svc.ListByStatement(context.Background(), uuid.New(), statementID)
	if err != nil {
		t.Fatalf("ListByStatement() error = %v", err)
	}
	if len(foreign) != 0 {
		t.Errorf("a foreign caller must see an empty listing, got %d rows", len(foreign))
	}
}

func TestList_Pagination(t *testing.T) {
	userID := uuid.New()
	store := &fakeTransactionStore{}
	svc := NewTransactionService(store, zap.NewNop())

	for i := 0; i < 7; i++ {
		addTransaction(store, userID, models.TypeExpense, models.CategoryFood, "1.00")
	}

	page, err := svc.List(context.Background(), userID, 5, 5)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(page) != 2 {
		t.Errorf("second page size = %d, want 2", len(page))
	}
}
