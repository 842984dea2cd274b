// internal/models/contract.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Contract struct {
	BaseModel
	ContractNumber     string         `json:"contract_number" gorm:"size:50;uniqueIndex;not null"`
	Title              string         `json:"title" gorm:"size:255;not null"`
	Description        string         `json:"description,omitempty" gorm:"type:text"`
	CompanyID          uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	BureauID           uuid.UUID      `json:"bureau_id" gorm:"type:uuid;not null;index"`
	MSAID              *uuid.UUID     `json:"msa_id" gorm:"type:uuid;index"`
	Status             ContractStatus `json:"status" gorm:"type:varchar(30);default:'DRAFT';index"`
	Terms              JSONB          `json:"terms" gorm:"type:jsonb"`
	RateAmount         float64        `json:"rate_amount" gorm:"type:decimal(10,2)"`
	RateUnit           string         `json:"rate_unit" gorm:"size:20;default:'hour'"`
	StartDate          *time.Time     `json:"start_date"`
	EndDate            *time.Time     `json:"end_date"`
	DocumentKey        string         `json:"document_key,omitempty" gorm:"size:512"`
	DocumentURL        string         `json:"document_url,omitempty" gorm:"size:1024"`
	SignaturesRequired int            `json:"signatures_required" gorm:"default:2"`
	SignaturesReceived int            `json:"signatures_received" gorm:"default:0"`
	CreatedBy          uuid.UUID      `json:"created_by" gorm:"type:uuid;not null"`
	ActivatedAt        *time.Time     `json:"activated_at"`
	CompletedAt        *time.Time     `json:"completed_at"`
	TerminatedAt       *time.Time     `json:"terminated_at"`
	TerminationReason  string         `json:"termination_reason,omitempty" gorm:"type:text"`

	// Relationships
	Company    Organization        `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Bureau     Organization        `json:"bureau,omitempty" gorm:"foreignKey:BureauID"`
	MSA        *MSA                `json:"msa,omitempty" gorm:"foreignKey:MSAID"`
	Creator    User                `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
	Signatures []ContractSignature `json:"signatures,omitempty" gorm:"foreignKey:ContractID"`
	Approvals  []ContractApproval  `json:"approvals,omitempty" gorm:"foreignKey:ContractID"`
}

// ContractSignature is created when a sign action succeeds. The captured
// signature is a typed name, a drawn image, or an uploaded image; it is stored
// as-is and never verified beyond the presence checks at capture time.
type ContractSignature struct {
	BaseModel
	ContractID    uuid.UUID     `json:"contract_id" gorm:"type:uuid;not null;index"`
	SignerID      uuid.UUID     `json:"signer_id" gorm:"type:uuid;not null;index"`
	SignerName    string        `json:"signer_name" gorm:"size:255;not null"`
	SignerRole    UserType      `json:"signer_role" gorm:"type:varchar(20);not null"`
	SignatureType SignatureType `json:"signature_type" gorm:"type:varchar(20);not null"`
	TypedName     string        `json:"typed_name,omitempty" gorm:"size:255"`
	ImageKey      string        `json:"image_key,omitempty" gorm:"size:512"`
	ImageURL      string        `json:"image_url,omitempty" gorm:"size:1024"`
	IsValid       bool          `json:"is_valid" gorm:"default:true"`
	SignedAt      time.Time     `json:"signed_at" gorm:"not null"`

	// Relationships
	Contract Contract `json:"contract,omitempty" gorm:"foreignKey:ContractID"`
	Signer   User     `json:"signer,omitempty" gorm:"foreignKey:SignerID"`
}

type ContractApproval struct {
	BaseModel
	ContractID   uuid.UUID      `json:"contract_id" gorm:"type:uuid;not null;index"`
	ApproverID   *uuid.UUID     `json:"approver_id" gorm:"type:uuid;index"`
	ApproverRole UserType       `json:"approver_role" gorm:"type:varchar(20);not null"`
	Status       ApprovalStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	Comments     string         `json:"comments,omitempty" gorm:"type:text"`
	DecidedAt    *time.Time     `json:"decided_at"`

	// Relationships
	Contract Contract `json:"contract,omitempty" gorm:"foreignKey:ContractID"`
	Approver *User    `json:"approver,omitempty" gorm:"foreignKey:ApproverID"`
}
