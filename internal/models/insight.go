package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InsightType string

const (
	InsightSpendingCategory   InsightType = "spending_category"
	InsightCostCutting        InsightType = "cost_cutting"
	InsightRevenueOpportunity InsightType = "revenue_opportunity"
	InsightCashFlow           InsightType = "cash_flow"
)

func (t InsightType) Valid() bool {
	switch t {
	case InsightSpendingCategory, InsightCostCutting, InsightRevenueOpportunity, InsightCashFlow:
		return true
	}
	return false
}

type InsightPriority string

const (
	PriorityHigh   InsightPriority = "high"
	PriorityMedium InsightPriority = "medium"
	PriorityLow    InsightPriority = "low"
)

func (p InsightPriority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// InsightStatus is the only mutable field of an insight. Transitions are
// one-way: new -> viewed -> acted_on, with dismissed reachable from new
// or viewed. acted_on and dismissed are terminal.
type InsightStatus string

const (
	InsightNew       InsightStatus = "new"
	InsightViewed    InsightStatus = "viewed"
	InsightActedOn   InsightStatus = "acted_on"
	InsightDismissed InsightStatus = "dismissed"
)

func (s InsightStatus) Valid() bool {
	switch s {
	case InsightNew, InsightViewed, InsightActedOn, InsightDismissed:
		return true
	}
	return false
}

var insightTransitions = map[InsightStatus][]InsightStatus{
	InsightNew:    {InsightViewed, InsightDismissed},
	InsightViewed: {InsightActedOn, InsightDismissed},
}

// CanTransitionTo reports whether the move is permitted. Anything not in
// the transition table is rejected, never coerced.
func (s InsightStatus) CanTransitionTo(next InsightStatus) bool {
	for _, allowed := range insightTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

type SpendingInsight struct {
	ID               uuid.UUID        `db:"id"`
	UserID           uuid.UUID        `db:"user_id"`
	Type             InsightType      `db:"insight_type"`
	Title            string           `db:"title"`
	Description      string           `db:"description"`
	PotentialSavings *decimal.Decimal `db:"potential_savings"`
	Priority         InsightPriority  `db:"priority"`
	Status           InsightStatus    `db:"status"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}
