package activity

import (
	"context"
	"time"

	"github.com/garmentcrm/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Record is an append-only audit entry describing one state transition of a
// business document. Records are never mutated or deleted once written.
type Record struct {
	ID           uuid.UUID
	CustomerID   uuid.UUID
	Status       string
	Activity     string
	ActivityType string // Create, Update, Upload, Convert, ...
	DocumentID   uuid.UUID
	DocumentType string // Shipping, Orders, Quotes, ...
	UserOwner    string
	CreatedAt    time.Time
}

// NewRecord creates an audit record for a document transition
func NewRecord(customerID uuid.UUID, status, activityText, activityType string, documentID uuid.UUID, documentType, userOwner string) (*Record, error) {
	if documentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	if activityText == "" {
		return nil, shared.NewDomainError("INVALID_ACTIVITY", "Activity description cannot be empty")
	}
	if userOwner == "" {
		userOwner = "Undefined User"
	}
	return &Record{
		ID:           uuid.New(),
		CustomerID:   customerID,
		Status:       status,
		Activity:     activityText,
		ActivityType: activityType,
		DocumentID:   documentID,
		DocumentType: documentType,
		UserOwner:    userOwner,
		CreatedAt:    time.Now(),
	}, nil
}

// RecordRepository defines the interface for audit record persistence
type RecordRepository interface {
	// Create appends an audit record
	Create(ctx context.Context, record *Record) error

	// FindByDocument finds records for a document, newest first
	FindByDocument(ctx context.Context, documentID uuid.UUID, filter shared.Filter) ([]Record, error)
}
