package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"finsight/pkg/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	// ErrRateLimited signals the upstream model API returned 429. The
	// pipeline degrades gracefully instead of treating this as a failure.
	ErrRateLimited = errors.New("analysis service rate limit exceeded")

	// ErrAnalysisTimeout signals the caller-side request timeout fired
	// before the model responded.
	ErrAnalysisTimeout = errors.New("analysis request timed out")
)

// TransactionEntry is one extracted transaction in the fixed analysis shape.
type TransactionEntry struct {
	Date            string          `json:"date"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transaction_type"`
	Category        string          `json:"category"`
	Merchant        string          `json:"merchant,omitempty"`
}

// InsightEntry is one extracted spending insight in the fixed analysis shape.
type InsightEntry struct {
	Type             string           `json:"type"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	PotentialSavings *decimal.Decimal `json:"potential_savings,omitempty"`
	Priority         string           `json:"priority"`
}

type AnalysisSummary struct {
	TotalIncome           decimal.Decimal `json:"total_income"`
	TotalExpenses         decimal.Decimal `json:"total_expenses"`
	NetCashFlow           decimal.Decimal `json:"net_cash_flow"`
	TopSpendingCategories []string        `json:"top_spending_categories"`
	UnusualTransactions   []string        `json:"unusual_transactions"`
}

// StatementAnalysis is the parsed categorization result. When the model
// reply is not parseable as the fixed shape, the raw text is preserved
// under RawResponse instead of being discarded. Error carries the note
// stored for rate-limited attempts.
type StatementAnalysis struct {
	Transactions []TransactionEntry `json:"transactions,omitempty"`
	Insights     []InsightEntry     `json:"insights,omitempty"`
	Summary      *AnalysisSummary   `json:"summary,omitempty"`
	RawResponse  string             `json:"raw_response,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// Parsed reports whether the analysis carries structured data rather
// than a raw-text fallback.
func (a *StatementAnalysis) Parsed() bool {
	return a.RawResponse == ""
}

// Categorizer turns raw statement text into a structured breakdown of
// transactions and insights.
type Categorizer interface {
	Analyze(ctx context.Context, statementText, filename string) (*StatementAnalysis, error)
}

const categorizerSystemPrompt = `You are a financial analyst AI that extracts transaction data from bank statements and provides spending insights.

Analyze the bank statement text and return a JSON response with this exact structure:
{
  "transactions": [
    {
      "date": "YYYY-MM-DD",
      "description": "Transaction description",
      "amount": 123.45,
      "transaction_type": "income" or "expense",
      "category": "food", "transportation", "utilities", "entertainment", "shopping", "healthcare", "business", "other",
      "merchant": "Merchant name if identifiable"
    }
  ],
  "insights": [
    {
      "type": "spending_category" | "cost_cutting" | "revenue_opportunity" | "cash_flow",
      "title": "Insight title",
      "description": "Detailed description",
      "potential_savings": 123.45,
      "priority": "high" | "medium" | "low"
    }
  ],
  "summary": {
    "total_income": 1000.00,
    "total_expenses": 800.00,
    "net_cash_flow": 200.00,
    "top_spending_categories": ["food", "transportation"],
    "unusual_transactions": ["Any unusual spending patterns"]
  }
}

Return ONLY valid JSON, without markdown fences or commentary.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIClient calls the OpenAI chat completions API. It is a
// single-shot client: no retry or backoff, one bounded request per
// statement.
type OpenAIClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
	logger     *zap.Logger
}

func NewOpenAIClient(cfg *config.OpenAIConfig, logger *zap.Logger) *OpenAIClient {
	return &OpenAIClient{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

func (c *OpenAIClient) Analyze(ctx context.Context, statementText, filename string) (*StatementAnalysis, error) {
	reqBody := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: categorizerSystemPrompt},
			{Role: "user", Content: fmt.Sprintf("Please analyze this bank statement and extract transactions and insights:\n\n%s", statementText)},
		},
		MaxTokens:   4000,
		Temperature: 0.3,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, ErrAnalysisTimeout
		}
		return nil, fmt.Errorf("analysis request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		errText, _ := io.ReadAll(resp.Body)
		c.logger.Warn("Analysis API rate limited",
			zap.String("filename", filename),
			zap.ByteString("response", errText),
		)
		return nil, ErrRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		errText, _ := io.ReadAll(resp.Body)
		c.logger.Error("Analysis API error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", errText),
		)
		return nil, fmt.Errorf("analysis API error: status %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response from model")
	}

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	analysis := parseAnalysis(content)
	if !analysis.Parsed() {
		c.logger.Warn("Model response is not valid analysis JSON, storing raw text",
			zap.String("filename", filename),
		)
	}

	return analysis, nil
}

// parseAnalysis parses the model reply as the fixed analysis shape. The
// reply sometimes arrives wrapped in markdown fences; those are
// stripped before the second attempt. An unparseable reply is kept as a
// raw-text fallback rather than dropped.
func parseAnalysis(content string) *StatementAnalysis {
	var analysis StatementAnalysis
	if err := json.Unmarshal([]byte(content), &analysis); err == nil {
		return &analysis
	}

	cleaned := strings.TrimSpace(content)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	analysis = StatementAnalysis{}
	if err := json.Unmarshal([]byte(cleaned), &analysis); err == nil {
		return &analysis
	}

	return &StatementAnalysis{RawResponse: content}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
