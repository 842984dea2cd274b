// internal/services/job_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/staffhub/staffhub-backend/internal/config"
	"github.com/staffhub/staffhub-backend/internal/database"
	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type JobService struct {
	db                  *gorm.DB
	config              *config.Config
	msaService          *MSAService
	notificationService *NotificationService
	workflowService     *WorkflowService
	subscriptionService *SubscriptionService
}

type CreateJobRequest struct {
	Title       string   `json:"title" validate:"required,min=3,max=200"`
	Description string   `json:"description,omitempty" validate:"max=10000"`
	Skills      []string `json:"skills,omitempty" validate:"max=30,dive,min=1,max=50"`
	Location    string   `json:"location,omitempty" validate:"max=255"`
	Remote      bool     `json:"remote"`
	RateMin     float64  `json:"rate_min,omitempty" validate:"omitempty,gte=0"`
	RateMax     float64  `json:"rate_max,omitempty" validate:"omitempty,gte=0"`
	Currency    string   `json:"currency,omitempty" validate:"omitempty,len=3"`
	Openings    int      `json:"openings,omitempty" validate:"omitempty,min=1,max=100"`
}

type UpdateJobRequest struct {
	Title       *string  `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string  `json:"description,omitempty" validate:"omitempty,max=10000"`
	Skills      []string `json:"skills,omitempty" validate:"omitempty,max=30,dive,min=1,max=50"`
	Location    *string  `json:"location,omitempty" validate:"omitempty,max=255"`
	Remote      *bool    `json:"remote,omitempty"`
	RateMin     *float64 `json:"rate_min,omitempty" validate:"omitempty,gte=0"`
	RateMax     *float64 `json:"rate_max,omitempty" validate:"omitempty,gte=0"`
	Openings    *int     `json:"openings,omitempty" validate:"omitempty,min=1,max=100"`
}

type DistributeJobRequest struct {
	BureauIDs []uuid.UUID `json:"bureau_ids" validate:"required,min=1,max=50"`
	Notes     string      `json:"notes,omitempty" validate:"max=2000"`
}

type JobSearchParams struct {
	utils.PaginationParams
	Status *models.JobStatus `json:"status,omitempty"`
	Remote *bool             `json:"remote,omitempty"`
}

func NewJobService(db *gorm.DB, cfg *config.Config, msaService *MSAService, notificationService *NotificationService, workflowService *WorkflowService, subscriptionService *SubscriptionService) *JobService {
	return &JobService{
		db:                  db,
		config:              cfg,
		msaService:          msaService,
		notificationService: notificationService,
		workflowService:     workflowService,
		subscriptionService: subscriptionService,
	}
}

func (s *JobService) CreateJob(creatorID, companyID uuid.UUID, req *CreateJobRequest) (*models.JobPosting, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if req.RateMin > 0 && req.RateMax > 0 && req.RateMax < req.RateMin {
		return nil, errors.New("rate_max must not be below rate_min")
	}

	if err := s.subscriptionService.CheckJobPostAllowance(companyID); err != nil {
		return nil, err
	}

	openings := req.Openings
	if openings == 0 {
		openings = 1
	}
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	job := &models.JobPosting{
		CompanyID:   companyID,
		CreatedBy:   creatorID,
		Title:       req.Title,
		Description: req.Description,
		Skills:      pq.StringArray(req.Skills),
		Location:    req.Location,
		Remote:      req.Remote,
		RateMin:     req.RateMin,
		RateMax:     req.RateMax,
		Currency:    currency,
		Openings:    openings,
		Status:      models.JobStatusDraft,
	}

	if err := s.db.Create(job).Error; err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	return job, nil
}

func (s *JobService) UpdateJob(jobID, actorOrgID uuid.UUID, req *UpdateJobRequest) (*models.JobPosting, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	job, err := s.loadJob(jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to update this job")
	}
	if job.Status == models.JobStatusFilled || job.Status == models.JobStatusClosed {
		return nil, errors.New("job can no longer be edited")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Skills != nil {
		updates["skills"] = pq.StringArray(req.Skills)
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Remote != nil {
		updates["remote"] = *req.Remote
	}
	if req.RateMin != nil {
		updates["rate_min"] = *req.RateMin
	}
	if req.RateMax != nil {
		updates["rate_max"] = *req.RateMax
	}
	if req.Openings != nil {
		updates["openings"] = *req.Openings
	}

	if len(updates) > 0 {
		if err := s.db.Model(job).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update job: %w", err)
		}
	}

	return s.loadJob(jobID)
}

func (s *JobService) GetJob(jobID, actorOrgID uuid.UUID, isAdmin bool) (*models.JobPosting, error) {
	var job models.JobPosting
	err := s.db.Preload("Company").Preload("Distributions").Preload("Distributions.Bureau").
		First(&job, jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("job not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !isAdmin && job.CompanyID != actorOrgID {
		// Bureaus see jobs only through a distribution
		var count int64
		s.db.Model(&models.JobDistribution{}).
			Where("job_id = ? AND bureau_id = ?", job.ID, actorOrgID).Count(&count)
		if count == 0 {
			return nil, errors.New("unauthorized to view this job")
		}
	}

	return &job, nil
}

func (s *JobService) SearchJobs(params JobSearchParams, actorOrgID uuid.UUID, isAdmin bool) ([]models.JobPosting, int64, error) {
	query := s.db.Model(&models.JobPosting{}).Preload("Company")

	if !isAdmin {
		query = query.Where("company_id = ?", actorOrgID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Remote != nil {
		query = query.Where("remote = ?", *params.Remote)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "title", "status", "rate_max"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var jobs []models.JobPosting
	if err := query.Find(&jobs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch jobs: %w", err)
	}

	return jobs, total, nil
}

// PublishJob moves a draft to open so it can be distributed.
func (s *JobService) PublishJob(jobID, actorOrgID uuid.UUID) (*models.JobPosting, error) {
	job, err := s.loadJob(jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to publish this job")
	}
	if job.Status != models.JobStatusDraft {
		return nil, errors.New("only draft jobs can be published")
	}

	job.Status = models.JobStatusOpen
	if err := s.db.Save(job).Error; err != nil {
		return nil, fmt.Errorf("failed to update job: %w", err)
	}

	return job, nil
}

func (s *JobService) CloseJob(jobID, actorOrgID uuid.UUID) (*models.JobPosting, error) {
	job, err := s.loadJob(jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to close this job")
	}
	if job.Status == models.JobStatusClosed {
		return nil, errors.New("job is already closed")
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		job.Status = models.JobStatusClosed
		if err := tx.Save(job).Error; err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}
		// Close out any open distributions
		return tx.Model(&models.JobDistribution{}).
			Where("job_id = ? AND status IN (?, ?, ?)", job.ID,
				models.DistributionStatusPending, models.DistributionStatusViewed, models.DistributionStatusAccepted).
			Update("status", models.DistributionStatusClosed).Error
	})
	if err != nil {
		return nil, err
	}

	return job, nil
}

// DistributeJob routes an open job to the selected bureaus. Already-routed
// bureaus are skipped rather than duplicated.
func (s *JobService) DistributeJob(jobID, actorOrgID uuid.UUID, req *DistributeJobRequest) ([]models.JobDistribution, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	job, err := s.loadJob(jobID)
	if err != nil {
		return nil, err
	}
	if job.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to distribute this job")
	}
	if job.Status != models.JobStatusOpen {
		return nil, errors.New("only open jobs can be distributed")
	}

	var created []models.JobDistribution
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		for _, bureauID := range req.BureauIDs {
			var bureau models.Organization
			if err := tx.First(&bureau, bureauID).Error; err != nil {
				return fmt.Errorf("bureau %s not found", bureauID)
			}
			if bureau.Type != models.OrganizationTypeBureau {
				return fmt.Errorf("organization %s is not a bureau", bureauID)
			}

			var existing int64
			if err := tx.Model(&models.JobDistribution{}).
				Where("job_id = ? AND bureau_id = ?", job.ID, bureauID).
				Count(&existing).Error; err != nil {
				return fmt.Errorf("failed to check existing distribution: %w", err)
			}
			if existing > 0 {
				continue
			}

			dist := models.JobDistribution{
				JobID:    job.ID,
				BureauID: bureauID,
				Status:   models.DistributionStatusPending,
				Notes:    req.Notes,
			}
			if err := tx.Create(&dist).Error; err != nil {
				return fmt.Errorf("failed to create distribution: %w", err)
			}
			created = append(created, dist)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i := range created {
		dist := created[i]
		go s.notificationService.SendDistributionNotification(&dist, job)
	}
	go s.workflowService.FireEvent("job.distributed", map[string]interface{}{
		"job_id":     job.ID.String(),
		"company_id": job.CompanyID.String(),
		"org_id":     job.CompanyID.String(),
	})

	return created, nil
}

// HireCandidate marks a shortlist entry as HIRED from the company side. The
// company/bureau pair must have an ACTIVE MSA.
func (s *JobService) HireCandidate(entryID, actorOrgID uuid.UUID) (*models.ShortlistEntry, error) {
	var entry models.ShortlistEntry
	err := s.db.Preload("Distribution").Preload("Distribution.Job").First(&entry, entryID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("shortlist entry not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	job := entry.Distribution.Job
	if job.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to hire against this job")
	}
	if entry.Status == models.ShortlistStatusHired {
		return nil, errors.New("candidate is already hired")
	}
	if entry.Status == models.ShortlistStatusRejected {
		return nil, errors.New("candidate has been rejected")
	}

	if _, err := s.msaService.RequireActiveMSA(job.CompanyID, entry.BureauID); err != nil {
		return nil, err
	}

	now := time.Now()
	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		entry.Status = models.ShortlistStatusHired
		entry.HiredAt = &now
		if err := tx.Save(&entry).Error; err != nil {
			return fmt.Errorf("failed to update shortlist entry: %w", err)
		}

		if err := tx.Model(&models.JobDistribution{}).
			Where("id = ?", entry.DistributionID).
			Updates(map[string]interface{}{"status": models.DistributionStatusHired, "hired_at": now}).Error; err != nil {
			return fmt.Errorf("failed to update distribution: %w", err)
		}

		var hires int64
		if err := tx.Model(&models.ShortlistEntry{}).
			Joins("JOIN job_distributions ON job_distributions.id = shortlist_entries.distribution_id").
			Where("job_distributions.job_id = ? AND shortlist_entries.status = ?", job.ID, models.ShortlistStatusHired).
			Count(&hires).Error; err != nil {
			return fmt.Errorf("failed to count hires: %w", err)
		}
		if int(hires) >= job.Openings {
			if err := tx.Model(&models.JobPosting{}).
				Where("id = ?", job.ID).
				Update("status", models.JobStatusFilled).Error; err != nil {
				return fmt.Errorf("failed to update job: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.notificationService.SendHireNotification(&entry, &job)
	go s.workflowService.FireEvent("candidate.hired", map[string]interface{}{
		"job_id":    job.ID.String(),
		"bureau_id": entry.BureauID.String(),
		"org_id":    entry.BureauID.String(),
	})

	return &entry, nil
}

func (s *JobService) loadJob(jobID uuid.UUID) (*models.JobPosting, error) {
	var job models.JobPosting
	if err := s.db.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("job not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &job, nil
}
