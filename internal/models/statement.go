package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ProcessingStatus tracks a bank statement through the analysis pipeline.
// The lifecycle only moves forward: pending -> processing -> one of
// completed, rate_limited or failed. Nothing leaves completed;
// rate_limited and failed require a fresh upload, not a resume.
type ProcessingStatus string

const (
	StatementPending     ProcessingStatus = "pending"
	StatementProcessing  ProcessingStatus = "processing"
	StatementCompleted   ProcessingStatus = "completed"
	StatementRateLimited ProcessingStatus = "rate_limited"
	StatementFailed      ProcessingStatus = "failed"
)

func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatementPending, StatementProcessing, StatementCompleted, StatementRateLimited, StatementFailed:
		return true
	}
	return false
}

// CanTransitionTo enforces the monotone statement lifecycle.
func (s ProcessingStatus) CanTransitionTo(next ProcessingStatus) bool {
	switch s {
	case StatementPending:
		return next == StatementProcessing
	case StatementProcessing:
		return next == StatementCompleted || next == StatementRateLimited || next == StatementFailed
	}
	return false
}

type BankStatement struct {
	ID               uuid.UUID        `db:"id"`
	UserID           uuid.UUID        `db:"user_id"`
	Filename         string           `db:"filename"`
	FileSize         int64            `db:"file_size"`
	ProcessingStatus ProcessingStatus `db:"processing_status"`
	Analysis         json.RawMessage  `db:"ai_analysis"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
}
