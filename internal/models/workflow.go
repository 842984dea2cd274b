// internal/models/workflow.go
package models

import (
	"github.com/google/uuid"
)

// WorkflowRule is a VMS automation rule: when TriggerEvent fires and every
// condition matches the event payload, the configured actions run.
type WorkflowRule struct {
	BaseModel
	Name         string    `json:"name" gorm:"size:255;not null"`
	Description  string    `json:"description,omitempty" gorm:"type:text"`
	TriggerEvent string    `json:"trigger_event" gorm:"size:100;not null;index"`
	Conditions   JSONB     `json:"conditions" gorm:"type:jsonb"`
	Actions      JSONB     `json:"actions" gorm:"type:jsonb"`
	Enabled      bool      `json:"enabled" gorm:"default:true;index"`
	CreatedBy    uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	RunCount     int64     `json:"run_count" gorm:"default:0"`
}
