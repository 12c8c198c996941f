package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType carries the direction of a transaction. Amounts are
// stored as non-negative magnitudes; the sign lives here, not in the number.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

type TransactionCategory string

const (
	CategoryFood           TransactionCategory = "food"
	CategoryTransportation TransactionCategory = "transportation"
	CategoryUtilities      TransactionCategory = "utilities"
	CategoryEntertainment  TransactionCategory = "entertainment"
	CategoryShopping       TransactionCategory = "shopping"
	CategoryHealthcare     TransactionCategory = "healthcare"
	CategoryBusiness       TransactionCategory = "business"
	CategoryOther          TransactionCategory = "other"
)

func (c TransactionCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryTransportation, CategoryUtilities, CategoryEntertainment,
		CategoryShopping, CategoryHealthcare, CategoryBusiness, CategoryOther:
		return true
	}
	return false
}

// NormalizeCategory maps any label outside the fixed set to "other".
func NormalizeCategory(raw string) TransactionCategory {
	c := TransactionCategory(raw)
	if c.Valid() {
		return c
	}
	return CategoryOther
}

// Transaction is a single derived income/expense entry. Rows are
// immutable once written; there is no update path.
type Transaction struct {
	ID          uuid.UUID           `db:"id"`
	UserID      uuid.UUID           `db:"user_id"`
	StatementID uuid.UUID           `db:"statement_id"`
	Date        time.Time           `db:"date"`
	Description string              `db:"description"`
	Amount      decimal.Decimal     `db:"amount"`
	Type        TransactionType     `db:"transaction_type"`
	Category    TransactionCategory `db:"category"`
	Merchant    string              `db:"merchant"`
	AIParsed    bool                `db:"ai_parsed"`
	CreatedAt   time.Time           `db:"created_at"`
}
