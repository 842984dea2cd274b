// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeCompany UserType = "company"
	UserTypeBureau  UserType = "bureau"
	UserTypeAdmin   UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type OrganizationType string

const (
	OrganizationTypeCompany OrganizationType = "company"
	OrganizationTypeBureau  OrganizationType = "bureau"
)

type ContractStatus string

const (
	ContractStatusDraft            ContractStatus = "DRAFT"
	ContractStatusPendingReview    ContractStatus = "PENDING_REVIEW"
	ContractStatusPendingApproval  ContractStatus = "PENDING_APPROVAL"
	ContractStatusApproved         ContractStatus = "APPROVED"
	ContractStatusPendingSignature ContractStatus = "PENDING_SIGNATURE"
	ContractStatusPartiallySigned  ContractStatus = "PARTIALLY_SIGNED"
	ContractStatusFullySigned      ContractStatus = "FULLY_SIGNED"
	ContractStatusActive           ContractStatus = "ACTIVE"
	ContractStatusCompleted        ContractStatus = "COMPLETED"
	ContractStatusCancelled        ContractStatus = "CANCELLED"
	ContractStatusTerminated       ContractStatus = "TERMINATED"
)

type SignatureType string

const (
	SignatureTypeTyped    SignatureType = "typed"
	SignatureTypeDrawn    SignatureType = "drawn"
	SignatureTypeUploaded SignatureType = "uploaded"
)

type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "PENDING"
	ApprovalStatusApproved ApprovalStatus = "APPROVED"
	ApprovalStatusRejected ApprovalStatus = "REJECTED"
)

type MSAStatus string

const (
	MSAStatusDraft      MSAStatus = "DRAFT"
	MSAStatusPending    MSAStatus = "PENDING"
	MSAStatusActive     MSAStatus = "ACTIVE"
	MSAStatusRejected   MSAStatus = "REJECTED"
	MSAStatusTerminated MSAStatus = "TERMINATED"
)

type JobStatus string

const (
	JobStatusDraft  JobStatus = "draft"
	JobStatusOpen   JobStatus = "open"
	JobStatusFilled JobStatus = "filled"
	JobStatusClosed JobStatus = "closed"
)

type DistributionStatus string

const (
	DistributionStatusPending  DistributionStatus = "PENDING"
	DistributionStatusViewed   DistributionStatus = "VIEWED"
	DistributionStatusAccepted DistributionStatus = "ACCEPTED"
	DistributionStatusDeclined DistributionStatus = "DECLINED"
	DistributionStatusHired    DistributionStatus = "HIRED"
	DistributionStatusClosed   DistributionStatus = "CLOSED"
)

type ShortlistStatus string

const (
	ShortlistStatusProposed     ShortlistStatus = "PROPOSED"
	ShortlistStatusReviewed     ShortlistStatus = "REVIEWED"
	ShortlistStatusInterviewing ShortlistStatus = "INTERVIEWING"
	ShortlistStatusOffered      ShortlistStatus = "OFFERED"
	ShortlistStatusHired        ShortlistStatus = "HIRED"
	ShortlistStatusRejected     ShortlistStatus = "REJECTED"
)

type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)
