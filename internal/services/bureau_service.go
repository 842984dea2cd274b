// internal/services/bureau_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/staffhub/staffhub-backend/internal/database"
	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

// BureauService backs the bureau portal: received jobs, candidate shortlists,
// the message thread per distribution, and the performance summary.
type BureauService struct {
	db                  *gorm.DB
	msaService          *MSAService
	notificationService *NotificationService
	workflowService     *WorkflowService
}

type ProposeCandidateRequest struct {
	CandidateName   string   `json:"candidate_name" validate:"required,min=2,max=200"`
	CandidateEmail  string   `json:"candidate_email,omitempty" validate:"omitempty,email"`
	Skills          []string `json:"skills,omitempty" validate:"max=30,dive,min=1,max=50"`
	RateExpectation float64  `json:"rate_expectation,omitempty" validate:"omitempty,gte=0"`
	Notes           string   `json:"notes,omitempty" validate:"max=2000"`
}

type UpdateShortlistStatusRequest struct {
	Status models.ShortlistStatus `json:"status" validate:"required"`
}

type SendMessageRequest struct {
	Body string `json:"body" validate:"required,min=1,max=5000"`
}

type DeclineDistributionRequest struct {
	Notes string `json:"notes,omitempty" validate:"max=2000"`
}

type DistributionSearchParams struct {
	utils.PaginationParams
	Status         *models.DistributionStatus `json:"status,omitempty"`
	ReceivedAfter  *time.Time                 `json:"received_after,omitempty"`
	ReceivedBefore *time.Time                 `json:"received_before,omitempty"`
}

// BureauPerformance is the aggregate block on the bureau dashboard.
type BureauPerformance struct {
	TotalReceived      int64   `json:"total_received"`
	TotalAccepted      int64   `json:"total_accepted"`
	TotalDeclined      int64   `json:"total_declined"`
	CandidatesProposed int64   `json:"candidates_proposed"`
	CandidatesHired    int64   `json:"candidates_hired"`
	AcceptanceRate     float64 `json:"acceptance_rate"`
	HireRate           float64 `json:"hire_rate"`
	AvgResponseHours   float64 `json:"avg_response_hours"`
}

func NewBureauService(db *gorm.DB, msaService *MSAService, notificationService *NotificationService, workflowService *WorkflowService) *BureauService {
	return &BureauService{
		db:                  db,
		msaService:          msaService,
		notificationService: notificationService,
		workflowService:     workflowService,
	}
}

func (s *BureauService) ListDistributions(bureauID uuid.UUID, params DistributionSearchParams) ([]models.JobDistribution, int64, error) {
	query := s.db.Model(&models.JobDistribution{}).
		Preload("Job").Preload("Job.Company").
		Where("bureau_id = ?", bureauID)

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("job_id IN (?)",
			s.db.Model(&models.JobPosting{}).Select("id").
				Where("title ILIKE ? OR description ILIKE ?", searchTerm, searchTerm))
	}
	if params.ReceivedAfter != nil {
		query = query.Where("created_at >= ?", *params.ReceivedAfter)
	}
	if params.ReceivedBefore != nil {
		query = query.Where("created_at <= ?", *params.ReceivedBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count distributions: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var distributions []models.JobDistribution
	if err := query.Find(&distributions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch distributions: %w", err)
	}

	return distributions, total, nil
}

// GetDistribution returns the detail for one received job. A first view by
// the bureau moves a PENDING distribution to VIEWED.
func (s *BureauService) GetDistribution(distributionID, bureauID uuid.UUID) (*models.JobDistribution, error) {
	var dist models.JobDistribution
	err := s.db.Preload("Job").Preload("Job.Company").
		Preload("Shortlist").Preload("Messages").
		First(&dist, distributionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("distribution not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if dist.BureauID != bureauID {
		return nil, errors.New("unauthorized to view this distribution")
	}

	if dist.Status == models.DistributionStatusPending {
		now := time.Now()
		dist.Status = models.DistributionStatusViewed
		dist.ViewedAt = &now
		if err := s.db.Save(&dist).Error; err != nil {
			return nil, fmt.Errorf("failed to update distribution: %w", err)
		}
	}

	return &dist, nil
}

// AcceptDistribution commits the bureau to sourcing for the job.
func (s *BureauService) AcceptDistribution(distributionID, bureauID uuid.UUID) (*models.JobDistribution, error) {
	dist, err := s.loadDistribution(distributionID, bureauID)
	if err != nil {
		return nil, err
	}

	if dist.Status != models.DistributionStatusPending && dist.Status != models.DistributionStatusViewed {
		return nil, errors.New("distribution can no longer be accepted")
	}

	now := time.Now()
	dist.Status = models.DistributionStatusAccepted
	dist.RespondedAt = &now
	if dist.ViewedAt == nil {
		dist.ViewedAt = &now
	}
	if err := s.db.Save(dist).Error; err != nil {
		return nil, fmt.Errorf("failed to update distribution: %w", err)
	}

	go s.workflowService.FireEvent("distribution.accepted", map[string]interface{}{
		"distribution_id": dist.ID.String(),
		"bureau_id":       bureauID.String(),
		"org_id":          dist.Job.CompanyID.String(),
	})

	return dist, nil
}

func (s *BureauService) DeclineDistribution(distributionID, bureauID uuid.UUID, req *DeclineDistributionRequest) (*models.JobDistribution, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	dist, err := s.loadDistribution(distributionID, bureauID)
	if err != nil {
		return nil, err
	}

	if dist.Status != models.DistributionStatusPending && dist.Status != models.DistributionStatusViewed {
		return nil, errors.New("distribution can no longer be declined")
	}

	now := time.Now()
	dist.Status = models.DistributionStatusDeclined
	dist.RespondedAt = &now
	if req.Notes != "" {
		dist.Notes = req.Notes
	}
	if err := s.db.Save(dist).Error; err != nil {
		return nil, fmt.Errorf("failed to update distribution: %w", err)
	}

	return dist, nil
}

// ProposeCandidate adds a candidate to the distribution's shortlist. The
// bureau must have accepted the distribution first.
func (s *BureauService) ProposeCandidate(distributionID, bureauID, proposerID uuid.UUID, req *ProposeCandidateRequest) (*models.ShortlistEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	dist, err := s.loadDistribution(distributionID, bureauID)
	if err != nil {
		return nil, err
	}
	if dist.Status != models.DistributionStatusAccepted {
		return nil, errors.New("distribution must be accepted before proposing candidates")
	}

	entry := &models.ShortlistEntry{
		DistributionID:  dist.ID,
		BureauID:        bureauID,
		CandidateName:   req.CandidateName,
		CandidateEmail:  req.CandidateEmail,
		Skills:          pq.StringArray(req.Skills),
		RateExpectation: req.RateExpectation,
		Notes:           req.Notes,
		Status:          models.ShortlistStatusProposed,
		ProposedBy:      proposerID,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create shortlist entry: %w", err)
	}

	var job models.JobPosting
	if err := s.db.First(&job, dist.JobID).Error; err == nil {
		go s.notificationService.SendCandidateProposedNotification(entry, &job)
	}

	return entry, nil
}

// UpdateShortlistStatus moves a candidate through the review pipeline. HIRED
// is reserved for the company hire action; terminal entries stay put.
func (s *BureauService) UpdateShortlistStatus(entryID, actorOrgID uuid.UUID, req *UpdateShortlistStatusRequest) (*models.ShortlistEntry, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	switch req.Status {
	case models.ShortlistStatusReviewed, models.ShortlistStatusInterviewing,
		models.ShortlistStatusOffered, models.ShortlistStatusRejected:
	case models.ShortlistStatusHired:
		return nil, errors.New("use the hire action to mark a candidate as hired")
	default:
		return nil, errors.New("invalid shortlist status")
	}

	var entry models.ShortlistEntry
	err := s.db.Preload("Distribution").Preload("Distribution.Job").First(&entry, entryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("shortlist entry not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if entry.BureauID != actorOrgID && entry.Distribution.Job.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to update this shortlist entry")
	}
	if entry.Status == models.ShortlistStatusHired || entry.Status == models.ShortlistStatusRejected {
		return nil, errors.New("shortlist entry is already settled")
	}

	entry.Status = req.Status
	if err := s.db.Save(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to update shortlist entry: %w", err)
	}

	return &entry, nil
}

// SendMessage appends to the company/bureau thread on a distribution. Both
// sides of the route may post.
func (s *BureauService) SendMessage(distributionID, senderID, senderOrgID uuid.UUID, req *SendMessageRequest) (*models.BureauMessage, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var dist models.JobDistribution
	err := s.db.Preload("Job").First(&dist, distributionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("distribution not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if senderOrgID != dist.BureauID && senderOrgID != dist.Job.CompanyID {
		return nil, errors.New("unauthorized to message on this distribution")
	}

	message := &models.BureauMessage{
		DistributionID: dist.ID,
		SenderID:       senderID,
		SenderOrgID:    senderOrgID,
		Body:           req.Body,
	}

	if err := s.db.Create(message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	// Notify the other side
	recipientOrgID := dist.Job.CompanyID
	if senderOrgID == dist.Job.CompanyID {
		recipientOrgID = dist.BureauID
	}
	go s.notificationService.NotifyOrg(recipientOrgID, "bureau_message",
		"New message", fmt.Sprintf("New message on job '%s'", dist.Job.Title),
		"low", "distribution", &dist.ID)

	return message, nil
}

// ListMessages returns the thread oldest first and marks the other side's
// messages as read.
func (s *BureauService) ListMessages(distributionID, readerOrgID uuid.UUID) ([]models.BureauMessage, error) {
	var dist models.JobDistribution
	err := s.db.Preload("Job").First(&dist, distributionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("distribution not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if readerOrgID != dist.BureauID && readerOrgID != dist.Job.CompanyID {
		return nil, errors.New("unauthorized to view this thread")
	}

	var messages []models.BureauMessage
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("distribution_id = ?", dist.ID).
			Order("created_at ASC").Find(&messages).Error; err != nil {
			return fmt.Errorf("failed to fetch messages: %w", err)
		}
		return tx.Model(&models.BureauMessage{}).
			Where("distribution_id = ? AND sender_org_id <> ? AND read_at IS NULL", dist.ID, readerOrgID).
			Update("read_at", time.Now()).Error
	})
	if err != nil {
		return nil, err
	}

	return messages, nil
}

// GetPerformance aggregates the bureau's routing and hiring numbers.
func (s *BureauService) GetPerformance(bureauID uuid.UUID) (*BureauPerformance, error) {
	perf := &BureauPerformance{}

	base := s.db.Model(&models.JobDistribution{}).Where("bureau_id = ?", bureauID)
	if err := base.Session(&gorm.Session{}).Count(&perf.TotalReceived).Error; err != nil {
		return nil, fmt.Errorf("failed to count distributions: %w", err)
	}
	base.Session(&gorm.Session{}).
		Where("status IN (?, ?)", models.DistributionStatusAccepted, models.DistributionStatusHired).
		Count(&perf.TotalAccepted)
	base.Session(&gorm.Session{}).
		Where("status = ?", models.DistributionStatusDeclined).
		Count(&perf.TotalDeclined)

	s.db.Model(&models.ShortlistEntry{}).
		Where("bureau_id = ?", bureauID).
		Count(&perf.CandidatesProposed)
	s.db.Model(&models.ShortlistEntry{}).
		Where("bureau_id = ? AND status = ?", bureauID, models.ShortlistStatusHired).
		Count(&perf.CandidatesHired)

	responded := perf.TotalAccepted + perf.TotalDeclined
	if perf.TotalReceived > 0 {
		perf.AcceptanceRate = float64(perf.TotalAccepted) / float64(perf.TotalReceived) * 100
	}
	if perf.CandidatesProposed > 0 {
		perf.HireRate = float64(perf.CandidatesHired) / float64(perf.CandidatesProposed) * 100
	}

	if responded > 0 {
		var avgSeconds float64
		s.db.Model(&models.JobDistribution{}).
			Where("bureau_id = ? AND responded_at IS NOT NULL", bureauID).
			Select("COALESCE(AVG(EXTRACT(EPOCH FROM (responded_at - created_at))), 0)").
			Scan(&avgSeconds)
		perf.AvgResponseHours = avgSeconds / 3600
	}

	return perf, nil
}

func (s *BureauService) loadDistribution(distributionID, bureauID uuid.UUID) (*models.JobDistribution, error) {
	var dist models.JobDistribution
	if err := s.db.Preload("Job").First(&dist, distributionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("distribution not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if dist.BureauID != bureauID {
		return nil, errors.New("unauthorized to act on this distribution")
	}
	return &dist, nil
}
