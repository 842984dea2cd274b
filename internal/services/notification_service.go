// internal/services/notification_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/staffhub/staffhub-backend/internal/config"
	"github.com/staffhub/staffhub-backend/internal/models"
)

// NotificationService creates in-app notification rows. Email delivery is
// handled outside this system.
type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

func (s *NotificationService) Create(n *models.Notification) {
	if err := s.db.Create(n).Error; err != nil {
		logrus.WithError(err).Error("Failed to create notification")
	}
}

// NotifyOrg creates a notification addressed to every member of an
// organization (delivered by the portals polling the org feed).
func (s *NotificationService) NotifyOrg(orgID uuid.UUID, notifType, title, message, priority, resourceType string, resourceID *uuid.UUID) {
	s.Create(&models.Notification{
		RecipientOrgID:      &orgID,
		Type:                notifType,
		Title:               title,
		Message:             message,
		Priority:            priority,
		RelatedResourceType: resourceType,
		RelatedResourceID:   resourceID,
	})
}

// Contract notifications

func (s *NotificationService) SendContractStatusNotification(contract *models.Contract) {
	title := fmt.Sprintf("Contract %s: %s", contract.ContractNumber, contract.Status.Badge().Label)
	message := fmt.Sprintf("Contract '%s' is now %s", contract.Title, contract.Status)

	s.NotifyOrg(contract.CompanyID, "contract_status", title, message, "medium", "contract", &contract.ID)
	s.NotifyOrg(contract.BureauID, "contract_status", title, message, "medium", "contract", &contract.ID)
}

func (s *NotificationService) SendSignatureRequestNotification(contract *models.Contract) {
	title := fmt.Sprintf("Signature requested: %s", contract.ContractNumber)
	message := fmt.Sprintf("Contract '%s' is ready for signature (%d of %d signatures received)",
		contract.Title, contract.SignaturesReceived, contract.SignaturesRequired)

	s.NotifyOrg(contract.CompanyID, "signature_request", title, message, "high", "contract", &contract.ID)
	s.NotifyOrg(contract.BureauID, "signature_request", title, message, "high", "contract", &contract.ID)
}

func (s *NotificationService) SendApprovalRequestNotification(contract *models.Contract) {
	title := fmt.Sprintf("Approval requested: %s", contract.ContractNumber)
	message := fmt.Sprintf("Contract '%s' is waiting for approval from both parties", contract.Title)

	s.NotifyOrg(contract.CompanyID, "approval_request", title, message, "high", "contract", &contract.ID)
	s.NotifyOrg(contract.BureauID, "approval_request", title, message, "high", "contract", &contract.ID)
}

// MSA notifications

func (s *NotificationService) SendMSACreatedNotification(msa *models.MSA) {
	title := "New Master Service Agreement"
	message := "A new MSA is waiting for approval from both parties"

	s.NotifyOrg(msa.CompanyID, "msa_created", title, message, "high", "msa", &msa.ID)
	s.NotifyOrg(msa.BureauID, "msa_created", title, message, "high", "msa", &msa.ID)
}

func (s *NotificationService) SendMSAStatusNotification(msa *models.MSA) {
	title := fmt.Sprintf("MSA %s", msa.Status)
	message := fmt.Sprintf("The Master Service Agreement is now %s", msa.Status)

	s.NotifyOrg(msa.CompanyID, "msa_status", title, message, "medium", "msa", &msa.ID)
	s.NotifyOrg(msa.BureauID, "msa_status", title, message, "medium", "msa", &msa.ID)
}

// Bureau portal notifications

func (s *NotificationService) SendDistributionNotification(distribution *models.JobDistribution, job *models.JobPosting) {
	title := "New job received"
	message := fmt.Sprintf("Job '%s' has been routed to your bureau for sourcing", job.Title)

	s.NotifyOrg(distribution.BureauID, "job_distribution", title, message, "high", "job_distribution", &distribution.ID)
}

func (s *NotificationService) SendCandidateProposedNotification(entry *models.ShortlistEntry, job *models.JobPosting) {
	title := "Candidate proposed"
	message := fmt.Sprintf("A candidate was shortlisted for job '%s'", job.Title)

	s.NotifyOrg(job.CompanyID, "candidate_proposed", title, message, "medium", "shortlist_entry", &entry.ID)
}

func (s *NotificationService) SendHireNotification(entry *models.ShortlistEntry, job *models.JobPosting) {
	title := "Candidate hired"
	message := fmt.Sprintf("Candidate '%s' was hired for job '%s'", entry.CandidateName, job.Title)

	s.NotifyOrg(job.CompanyID, "candidate_hired", title, message, "high", "shortlist_entry", &entry.ID)
	s.NotifyOrg(entry.BureauID, "candidate_hired", title, message, "high", "shortlist_entry", &entry.ID)
}

// Feed access

func (s *NotificationService) ListForOrg(orgID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	query := s.db.Model(&models.Notification{}).Where("recipient_org_id = ?", orgID)
	if unreadOnly {
		query = query.Where("status = ?", "unread")
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}
