// internal/models/msa.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// MSA is the Master Service Agreement between a company and a bureau. An
// ACTIVE MSA is the precondition for any hire action between the pair.
type MSA struct {
	BaseModel
	CompanyID         uuid.UUID  `json:"company_id" gorm:"type:uuid;not null;index:idx_msas_pair"`
	BureauID          uuid.UUID  `json:"bureau_id" gorm:"type:uuid;not null;index:idx_msas_pair"`
	Status            MSAStatus  `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	FeePercent        float64    `json:"fee_percent" gorm:"type:decimal(5,2);not null"`
	PaymentTermsDays  int        `json:"payment_terms_days" gorm:"default:30"`
	Terms             JSONB      `json:"terms" gorm:"type:jsonb"`
	CreatedBy         uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	CompanyApprovedAt *time.Time `json:"company_approved_at"`
	BureauApprovedAt  *time.Time `json:"bureau_approved_at"`
	RejectedBy        *uuid.UUID `json:"rejected_by" gorm:"type:uuid"`
	RejectionReason   string     `json:"rejection_reason,omitempty" gorm:"type:text"`
	TerminatedAt      *time.Time `json:"terminated_at"`

	// Relationships
	Company Organization `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Bureau  Organization `json:"bureau,omitempty" gorm:"foreignKey:BureauID"`
}

// FullyApproved reports whether both parties have stamped their approval.
func (m *MSA) FullyApproved() bool {
	return m.CompanyApprovedAt != nil && m.BureauApprovedAt != nil
}
