package dto

import "github.com/shopspring/decimal"

type UpdateInsightStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=viewed acted_on dismissed"`
}

type InsightResponse struct {
	ID               string           `json:"id"`
	Type             string           `json:"insight_type"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	PotentialSavings *decimal.Decimal `json:"potential_savings,omitempty"`
	Priority         string           `json:"priority"`
	Status           string           `json:"status"`
	CreatedAt        string           `json:"created_at"`
}
