package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finsight/internal/dto"

	"go.uber.org/zap"
)

// DeliveryNotifier sends a delivery booking notification to a partner
// company. Callers only see this interface, so a real email/SMS gateway
// can be substituted without touching them.
type DeliveryNotifier interface {
	Notify(ctx context.Context, req *dto.DeliveryNotificationRequest) (*dto.DeliveryNotificationResponse, error)
}

// LogDeliveryNotifier is the shipped implementation: not yet wired to a
// real gateway, it logs the booking intent and fabricates a synthetic
// acknowledgment.
type LogDeliveryNotifier struct {
	logger *zap.Logger
}

func NewLogDeliveryNotifier(logger *zap.Logger) *LogDeliveryNotifier {
	return &LogDeliveryNotifier{logger: logger}
}

func (n *LogDeliveryNotifier) Notify(ctx context.Context, req *dto.DeliveryNotificationRequest) (*dto.DeliveryNotificationResponse, error) {
	n.logger.Info("Delivery notification request received",
		zap.String("company_email", req.CompanyEmail),
		zap.String("company_name", req.CompanyName),
		zap.String("user_email", req.UserEmail),
		zap.String("estimated_time", req.DeliveryDetails.EstimatedTime),
		zap.String("price", req.DeliveryDetails.Price),
		zap.String("features", strings.Join(req.DeliveryDetails.Features, ", ")),
	)

	ack := dto.DeliveryEmailResponse{
		ID:      fmt.Sprintf("delivery_%d", time.Now().UnixMilli()),
		To:      req.CompanyEmail,
		Subject: fmt.Sprintf("New Delivery Request from %s", req.UserEmail),
		Message: "New delivery booking received",
	}

	n.logger.Info("Delivery notification sent", zap.String("id", ack.ID), zap.String("to", ack.To))

	return &dto.DeliveryNotificationResponse{
		Success:       true,
		Message:       "Delivery notification sent successfully",
		EmailResponse: ack,
	}, nil
}
