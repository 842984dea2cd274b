// internal/models/organization.go
package models

import (
	"github.com/lib/pq"
)

// Organization is either a hiring company or a staffing bureau.
type Organization struct {
	BaseModel
	Name         string           `json:"name" gorm:"size:255;not null"`
	Type         OrganizationType `json:"type" gorm:"type:varchar(20);not null;index"`
	ContactEmail string           `json:"contact_email" gorm:"size:255"`
	ContactPhone string           `json:"contact_phone" gorm:"size:50"`
	Website      string           `json:"website" gorm:"size:255"`
	Specialties  pq.StringArray   `json:"specialties" gorm:"type:text[]"`
	Regions      pq.StringArray   `json:"regions" gorm:"type:text[]"`
	Profile      JSONB            `json:"profile" gorm:"type:jsonb"`
	Rating       float64          `json:"rating" gorm:"type:decimal(3,2);default:0"`

	// Relationships
	Members []User `json:"members,omitempty" gorm:"foreignKey:OrganizationID"`
}
