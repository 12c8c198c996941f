package service

import (
	"context"
	"errors"
	"time"

	"finsight/internal/dto"
	"finsight/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInsightNotFound   = errors.New("insight not found")
	ErrInvalidStatus     = errors.New("invalid insight status")
	ErrInvalidTransition = errors.New("insight status transition not permitted")
)

type InsightService struct {
	insights InsightStore
	logger   *zap.Logger
}

func NewInsightService(insights InsightStore, logger *zap.Logger) *InsightService {
	return &InsightService{
		insights: insights,
		logger:   logger,
	}
}

func (s *InsightService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*dto.InsightResponse, error) {
	insights, err := s.insights.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	responses := make([]*dto.InsightResponse, len(insights))
	for i, ins := range insights {
		responses[i] = insightResponse(ins)
	}

	return responses, nil
}

// UpdateStatus applies one step of the insight lifecycle. A transition
// outside the table is refused, never coerced. A foreign insight is
// reported as not found rather than forbidden.
func (s *InsightService) UpdateStatus(ctx context.Context, userID, insightID uuid.UUID, next models.InsightStatus) (*dto.InsightResponse, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	ins, err := s.insights.GetByID(ctx, insightID)
	if err != nil {
		return nil, ErrInsightNotFound
	}
	if ins.UserID != userID {
		return nil, ErrInsightNotFound
	}

	if !ins.Status.CanTransitionTo(next) {
		return nil, ErrInvalidTransition
	}

	if err := s.insights.UpdateStatus(ctx, insightID, next); err != nil {
		return nil, err
	}

	s.logger.Info("Insight status updated",
		zap.String("insight_id", insightID.String()),
		zap.String("from", string(ins.Status)),
		zap.String("to", string(next)),
	)

	ins.Status = next
	return insightResponse(ins), nil
}

func insightResponse(ins *models.SpendingInsight) *dto.InsightResponse {
	return &dto.InsightResponse{
		ID:               ins.ID.String(),
		Type:             string(ins.Type),
		Title:            ins.Title,
		Description:      ins.Description,
		PotentialSavings: ins.PotentialSavings,
		Priority:         string(ins.Priority),
		Status:           string(ins.Status),
		CreatedAt:        ins.CreatedAt.Format(time.RFC3339),
	}
}
