package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"finsight/internal/models"

	"github.com/google/uuid"
)

type fakeStatementStore struct {
	mu         sync.Mutex
	statements map[uuid.UUID]*models.BankStatement
	createErr  error
	updateErr  error
}

func newFakeStatementStore() *fakeStatementStore {
	return &fakeStatementStore{statements: make(map[uuid.UUID]*models.BankStatement)}
}

func (f *fakeStatementStore) Create(ctx context.Context, stmt *models.BankStatement) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *stmt
	f.statements[stmt.ID] = &copied
	return nil
}

func (f *fakeStatementStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProcessingStatus, analysis json.RawMessage) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	stmt, ok := f.statements[id]
	if !ok {
		return errors.New("statement not found")
	}
	stmt.ProcessingStatus = status
	if analysis != nil {
		stmt.Analysis = analysis
	}
	return nil
}

func (f *fakeStatementStore) GetByID(ctx context.Context, id uuid.UUID) (*models.BankStatement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stmt, ok := f.statements[id]
	if !ok {
		return nil, errors.New("statement not found")
	}
	copied := *stmt
	return &copied, nil
}

func (f *fakeStatementStore) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.BankStatement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.BankStatement
	for _, stmt := range f.statements {
		if stmt.UserID == userID {
			copied := *stmt
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeStatementStore) single() *models.BankStatement {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, stmt := range f.statements {
		return stmt
	}
	return nil
}

type fakeTransactionStore struct {
	mu        sync.Mutex
	rows      []*models.Transaction
	createErr error
}

func (f *fakeTransactionStore) CreateBatch(ctx context.Context, transactions []*models.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, transactions...)
	return nil
}

func (f *fakeTransactionStore) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Transaction, error) {
	all, _ := f.ListAllByUserID(ctx, userID)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeTransactionStore) ListByStatementID(ctx context.Context, statementID uuid.UUID) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range f.rows {
		if tx.StatementID == statementID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTransactionStore) ListAllByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range f.rows {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeInsightStore struct {
	mu        sync.Mutex
	rows      []*models.SpendingInsight
	createErr error
	updateErr error
}

func (f *fakeInsightStore) CreateBatch(ctx context.Context, insights []*models.SpendingInsight) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = append(f.rows, insights...)
	return nil
}

func (f *fakeInsightStore) GetByID(ctx context.Context, id uuid.UUID) (*models.SpendingInsight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ins := range f.rows {
		if ins.ID == id {
			copied := *ins
			return &copied, nil
		}
	}
	return nil, errors.New("insight not found")
}

func (f *fakeInsightStore) UpdateStatus(ctx context.Context, id uuid.UUID, status models.InsightStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ins := range f.rows {
		if ins.ID == id {
			ins.Status = status
			return nil
		}
	}
	return errors.New("insight not found")
}

func (f *fakeInsightStore) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.SpendingInsight, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.SpendingInsight
	for _, ins := range f.rows {
		if ins.UserID == userID {
			copied := *ins
			out = append(out, &copied)
		}
	}
	return out, nil
}

// fakeCategorizer counts invocations and returns a canned result. When
// block is set it waits until the channel is closed, which lets tests
// hold an analysis in flight.
type fakeCategorizer struct {
	mu     sync.Mutex
	calls  int
	result *StatementAnalysis
	err    error
	block  chan struct{}
}

func (f *fakeCategorizer) Analyze(ctx context.Context, statementText, filename string) (*StatementAnalysis, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeCategorizer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
