package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"

	"finsight/internal/dto"
	"finsight/internal/models"
	"finsight/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type memStatementStore struct {
	statements []*models.BankStatement
}

func (m *memStatementStore) Create(ctx context.Context, stmt *models.BankStatement) error {
	copied := *stmt
	m.statements = append(m.statements, &copied)
	return nil
}

func (m *memStatementStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProcessingStatus, analysis json.RawMessage) error {
	for _, stmt := range m.statements {
		if stmt.ID == id {
			stmt.ProcessingStatus = status
			if analysis != nil {
				stmt.Analysis = analysis
			}
			return nil
		}
	}
	return errors.New("statement not found")
}

func (m *memStatementStore) GetByID(ctx context.Context, id uuid.UUID) (*models.BankStatement, error) {
	for _, stmt := range m.statements {
		if stmt.ID == id {
			return stmt, nil
		}
	}
	return nil, errors.New("statement not found")
}

func (m *memStatementStore) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BankStatement, error) {
	var out []*models.BankStatement
	for _, stmt := range m.statements {
		if stmt.UserID == userID {
			out = append(out, stmt)
		}
	}
	return out, nil
}

type memTransactionStore struct {
	rows []*models.Transaction
}

func (m *memTransactionStore) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	m.rows = append(m.rows, transactions...)
	return nil
}

func (m *memTransactionStore) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	return m.rows, nil
}

func (m *memTransactionStore) ListAllByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	return m.rows, nil
}

func (m *memTransactionStore) ListByStatementID(ctx context.Context, statementID uuid.UUID) ([]*models.Transaction, error) {
	return m.rows, nil
}

type memInsightStore struct {
	rows []*models.SpendingInsight
}

func (m *memInsightStore) CreateBatch(ctx context.Context, insights []*models.SpendingInsight) error {
	m.rows = append(m.rows, insights...)
	return nil
}

func (m *memInsightStore) GetByID(ctx context.Context, id uuid.UUID) (*models.SpendingInsight, error) {
	return nil, errors.New("insight not found")
}

func (m *memInsightStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InsightStatus) error {
	return errors.New("insight not found")
}

func (m *memInsightStore) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SpendingInsight, error) {
	return m.rows, nil
}

type stubCategorizer struct {
	result *service.StatementAnalysis
	err    error
}

func (s *stubCategorizer) Analyze(ctx context.Context, statementText, filename string) (*service.StatementAnalysis, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// newStatementTestApp wires the handler behind a stub identity
// middleware standing in for JWT auth.
func newStatementTestApp(userID uuid.UUID, categorizer service.Categorizer) (*fiber.App, *memStatementStore) {
	store := &memStatementStore{}
	svc := service.NewStatementService(store, &memTransactionStore{}, &memInsightStore{}, categorizer, zap.NewNop())
	handler := NewStatementHandler(svc, zap.NewNop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userID", userID.String())
		return c.Next()
	})
	app.Post("/api/v1/statements/analyze", handler.AnalyzeStatement)
	app.Get("/api/v1/statements", handler.ListStatements)
	return app, store
}

func multipartUpload(t *testing.T, filename, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	return body, writer.FormDataContentType()
}

func TestAnalyzeStatement_Success(t *testing.T) {
	userID := uuid.New()
	app, store := newStatementTestApp(userID, &stubCategorizer{result: &service.StatementAnalysis{
		Transactions: []service.TransactionEntry{
			{Date: "2024-03-01", Description: "Coffee", TransactionType: "expense", Category: "food"},
		},
	}})

	body, contentType := multipartUpload(t, "march.csv", "text/csv", []byte("2024-03-01,Coffee,4.50"))
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/statements/analyze", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope dto.AnalyzeStatementResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !envelope.Success {
		t.Errorf("expected success envelope, got %+v", envelope)
	}
	if envelope.BankStatementID == "" {
		t.Error("expected a statement ID in the envelope")
	}

	if len(store.statements) != 1 {
		t.Fatalf("expected 1 statement row, got %d", len(store.statements))
	}
	if store.statements[0].UserID != userID {
		t.Error("statement owner must come from the verified identity")
	}
}

func TestAnalyzeStatement_RateLimitedIs200(t *testing.T) {
	app, _ := newStatementTestApp(uuid.New(), &stubCategorizer{err: service.ErrRateLimited})

	body, contentType := multipartUpload(t, "march.csv", "text/csv", []byte("data"))
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/statements/analyze", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 for a rate-limited analysis", resp.StatusCode)
	}

	var envelope dto.AnalyzeStatementResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Success || !envelope.RateLimited {
		t.Errorf("expected success:false with rate_limited:true, got %+v", envelope)
	}
}

func TestAnalyzeStatement_BadUploads(t *testing.T) {
	cases := []struct {
		name        string
		filename    string
		contentType string
		content     []byte
	}{
		{"pdf", "statement.pdf", "application/pdf", []byte("%PDF-1.4")},
		{"spreadsheet", "sheet.xlsx", "application/vnd.ms-excel", []byte("data")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app, store := newStatementTestApp(uuid.New(), &stubCategorizer{})

			body, contentType := multipartUpload(t, tc.filename, tc.contentType, tc.content)
			req, _ := http.NewRequest(http.MethodPost, "/api/v1/statements/analyze", body)
			req.Header.Set("Content-Type", contentType)

			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			if len(store.statements) != 0 {
				t.Error("a rejected upload must not create a statement row")
			}
		})
	}
}

func TestAnalyzeStatement_MissingFile(t *testing.T) {
	app, _ := newStatementTestApp(uuid.New(), &stubCategorizer{})

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/statements/analyze", bytes.NewReader(nil))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=empty")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestListStatements(t *testing.T) {
	userID := uuid.New()
	app, store := newStatementTestApp(userID, &stubCategorizer{})
	store.statements = append(store.statements, &models.BankStatement{
		ID:               uuid.New(),
		UserID:           userID,
		Filename:         "march.csv",
		ProcessingStatus: models.StatementCompleted,
	})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/statements", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var statements []dto.StatementResponse
	if err := json.NewDecoder(resp.Body).Decode(&statements); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(statements) != 1 || statements[0].Filename != "march.csv" {
		t.Errorf("unexpected listing: %+v", statements)
	}
}
