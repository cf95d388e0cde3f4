package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/garmentcrm/backend/internal/domain/activity"
)

// ActivityRecordModel is the persistence model for audit records
type ActivityRecordModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID   uuid.UUID `gorm:"type:uuid;index"`
	Status       string    `gorm:"type:varchar(50)"`
	Activity     string    `gorm:"type:text;not null"`
	ActivityType string    `gorm:"type:varchar(30);not null"`
	DocumentID   uuid.UUID `gorm:"type:uuid;not null;index:idx_activity_document"`
	DocumentType string    `gorm:"type:varchar(30);not null"`
	UserOwner    string    `gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (ActivityRecordModel) TableName() string {
	return "activity_records"
}

// ToDomain converts the persistence model to a domain Record
func (m *ActivityRecordModel) ToDomain() *activity.Record {
	return &activity.Record{
		ID:           m.ID,
		CustomerID:   m.CustomerID,
		Status:       m.Status,
		Activity:     m.Activity,
		ActivityType: m.ActivityType,
		DocumentID:   m.DocumentID,
		DocumentType: m.DocumentType,
		UserOwner:    m.UserOwner,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Record
func (m *ActivityRecordModel) FromDomain(r *activity.Record) {
	m.ID = r.ID
	m.CustomerID = r.CustomerID
	m.Status = r.Status
	m.Activity = r.Activity
	m.ActivityType = r.ActivityType
	m.DocumentID = r.DocumentID
	m.DocumentType = r.DocumentType
	m.UserOwner = r.UserOwner
	m.CreatedAt = r.CreatedAt
}
