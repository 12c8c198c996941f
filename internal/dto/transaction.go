package dto

import "github.com/shopspring/decimal"

type TransactionResponse struct {
	ID          string          `json:"id"`
	StatementID string          `json:"statement_id"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"transaction_type"`
	Category    string          `json:"category"`
	Merchant    string          `json:"merchant,omitempty"`
	AIParsed    bool            `json:"ai_parsed"`
	CreatedAt   string          `json:"created_at"`
}

type CategorySummary struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
}

type FinancialSummaryResponse struct {
	TotalIncome      decimal.Decimal   `json:"total_income"`
	TotalExpenses    decimal.Decimal   `json:"total_expenses"`
	NetCashFlow      decimal.Decimal   `json:"net_cash_flow"`
	TransactionCount int               `json:"transaction_count"`
	TopCategories    []CategorySummary `json:"top_categories"`
}
