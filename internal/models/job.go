// internal/models/job.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type JobPosting struct {
	BaseModel
	CompanyID   uuid.UUID      `json:"company_id" gorm:"type:uuid;not null;index"`
	CreatedBy   uuid.UUID      `json:"created_by" gorm:"type:uuid;not null"`
	Title       string         `json:"title" gorm:"size:255;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Skills      pq.StringArray `json:"skills" gorm:"type:text[]"`
	Location    string         `json:"location" gorm:"size:255"`
	Remote      bool           `json:"remote" gorm:"default:false"`
	RateMin     float64        `json:"rate_min" gorm:"type:decimal(10,2)"`
	RateMax     float64        `json:"rate_max" gorm:"type:decimal(10,2)"`
	Currency    string         `json:"currency" gorm:"size:3;default:'USD'"`
	Openings    int            `json:"openings" gorm:"default:1"`
	Status      JobStatus      `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	// Relationships
	Company       Organization      `json:"company,omitempty" gorm:"foreignKey:CompanyID"`
	Distributions []JobDistribution `json:"distributions,omitempty" gorm:"foreignKey:JobID"`
}

// JobDistribution is a job routed from a company to a bureau for candidate
// sourcing.
type JobDistribution struct {
	BaseModel
	JobID       uuid.UUID          `json:"job_id" gorm:"type:uuid;not null;index"`
	BureauID    uuid.UUID          `json:"bureau_id" gorm:"type:uuid;not null;index"`
	Status      DistributionStatus `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	Notes       string             `json:"notes,omitempty" gorm:"type:text"`
	ViewedAt    *time.Time         `json:"viewed_at"`
	RespondedAt *time.Time         `json:"responded_at"`
	HiredAt     *time.Time         `json:"hired_at"`

	// Relationships
	Job       JobPosting       `json:"job,omitempty" gorm:"foreignKey:JobID"`
	Bureau    Organization     `json:"bureau,omitempty" gorm:"foreignKey:BureauID"`
	Shortlist []ShortlistEntry `json:"shortlist,omitempty" gorm:"foreignKey:DistributionID"`
	Messages  []BureauMessage  `json:"messages,omitempty" gorm:"foreignKey:DistributionID"`
}

// ShortlistEntry is a candidate a bureau proposes against a distribution.
type ShortlistEntry struct {
	BaseModel
	DistributionID  uuid.UUID       `json:"distribution_id" gorm:"type:uuid;not null;index"`
	BureauID        uuid.UUID       `json:"bureau_id" gorm:"type:uuid;not null;index"`
	CandidateName   string          `json:"candidate_name" gorm:"size:255;not null"`
	CandidateEmail  string          `json:"candidate_email" gorm:"size:255"`
	Skills          pq.StringArray  `json:"skills" gorm:"type:text[]"`
	RateExpectation float64         `json:"rate_expectation" gorm:"type:decimal(10,2)"`
	Notes           string          `json:"notes,omitempty" gorm:"type:text"`
	Status          ShortlistStatus `json:"status" gorm:"type:varchar(20);default:'PROPOSED';index"`
	ProposedBy      uuid.UUID       `json:"proposed_by" gorm:"type:uuid;not null"`
	HiredAt         *time.Time      `json:"hired_at"`

	// Relationships
	Distribution JobDistribution `json:"distribution,omitempty" gorm:"foreignKey:DistributionID"`
	Bureau       Organization    `json:"bureau,omitempty" gorm:"foreignKey:BureauID"`
}

// BureauMessage is one entry in the company/bureau thread attached to a
// distribution.
type BureauMessage struct {
	BaseModel
	DistributionID uuid.UUID  `json:"distribution_id" gorm:"type:uuid;not null;index"`
	SenderID       uuid.UUID  `json:"sender_id" gorm:"type:uuid;not null"`
	SenderOrgID    uuid.UUID  `json:"sender_org_id" gorm:"type:uuid;not null"`
	Body           string     `json:"body" gorm:"type:text;not null"`
	ReadAt         *time.Time `json:"read_at"`

	// Relationships
	Distribution JobDistribution `json:"distribution,omitempty" gorm:"foreignKey:DistributionID"`
	Sender       User            `json:"sender,omitempty" gorm:"foreignKey:SenderID"`
}
