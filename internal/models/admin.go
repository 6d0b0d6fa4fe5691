// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// AdminNotification backs the admin console's notification feed.
type AdminNotification struct {
	BaseModel
	Type                string     `json:"type" gorm:"size:50;not null;index"`
	Title               string     `json:"title" gorm:"size:255;not null"`
	Message             string     `json:"message" gorm:"type:text"`
	Priority            string     `json:"priority" gorm:"size:20;default:'medium'"`
	RelatedResourceType string     `json:"relatedResourceType,omitempty" gorm:"size:50"`
	RelatedResourceID   *uuid.UUID `json:"relatedResourceId,omitempty" gorm:"type:uuid"`
	ReadAt              *time.Time `json:"readAt,omitempty"`
}
