package activity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garmentcrm/backend/internal/domain/activity"
	"github.com/garmentcrm/backend/internal/domain/shared"
)

// ActivityService writes and reads the append-only activity history.
// It satisfies the pipeline's audit sink.
type ActivityService struct {
	records activity.RecordRepository
	logger  *zap.Logger
}

// NewActivityService creates a new activity service
func NewActivityService(records activity.RecordRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{records: records, logger: logger}
}

// Record appends one history entry
func (s *ActivityService) Record(ctx context.Context, customerID uuid.UUID, status, activityText, activityType string, documentID uuid.UUID, documentType, userOwner string) error {
	record, err := activity.NewRecord(customerID, status, activityText, activityType, documentID, documentType, userOwner)
	if err != nil {
		return err
	}
	if err := s.records.Create(ctx, record); err != nil {
		return err
	}
	s.logger.Debug("activity recorded",
		zap.String("type", activityType),
		zap.String("document_id", documentID.String()))
	return nil
}

// HistoryForDocument returns the history of one document, newest first
func (s *ActivityService) HistoryForDocument(ctx context.Context, documentID uuid.UUID, documentType string) ([]activity.Record, error) {
	return s.records.FindByDocument(ctx, documentID, shared.DefaultFilter())
}
