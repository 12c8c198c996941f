package dto

import "encoding/json"

// AnalyzeStatementResponse is the envelope returned by the analyze
// endpoint. A rate-limited upstream is reported as success:false over
// HTTP 200 so callers can tell "temporarily unavailable" apart from a
// hard failure; hard failures carry success:false with an error status.
type AnalyzeStatementResponse struct {
	Success         bool            `json:"success"`
	BankStatementID string          `json:"bankStatementId,omitempty"`
	Analysis        json.RawMessage `json:"analysis,omitempty"`
	Error           string          `json:"error,omitempty"`
	RateLimited     bool            `json:"rate_limited,omitempty"`
}

type StatementResponse struct {
	ID               string          `json:"id"`
	Filename         string          `json:"filename"`
	FileSize         int64           `json:"file_size"`
	ProcessingStatus string          `json:"processing_status"`
	Analysis         json.RawMessage `json:"ai_analysis,omitempty"`
	CreatedAt        string          `json:"created_at"`
}
