// internal/models/outbox.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Outbox event types
const (
	EventOrderPlaced    = "order.placed"
	EventOrderCancelled = "order.cancelled"
)

// OutboxEvent rows are written in the same transaction as the state change
// they describe and delivered later by the relay, so notification delivery
// can never fail or delay the committing request.
type OutboxEvent struct {
	BaseModel
	EventType     string       `json:"eventType" gorm:"size:50;not null;index"`
	AggregateID   uuid.UUID    `json:"aggregateId" gorm:"type:uuid;not null;index"`
	Payload       JSONB        `json:"payload" gorm:"type:jsonb"`
	Status        OutboxStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	Attempts      int          `json:"attempts" gorm:"default:0"`
	LastError     string       `json:"lastError,omitempty" gorm:"type:text"`
	NextAttemptAt time.Time    `json:"nextAttemptAt" gorm:"index"`
}
