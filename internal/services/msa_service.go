// internal/services/msa_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffhub/staffhub-backend/internal/config"
	"github.com/staffhub/staffhub-backend/internal/database"
	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

// ErrMSARequired is returned by hire-path operations when the company/bureau
// pair has no ACTIVE Master Service Agreement. Handlers translate it to the
// MSA_REQUIRED error code the clients intercept.
var ErrMSARequired = errors.New("an active MSA is required for this company/bureau pair")

type MSAService struct {
	db                  *gorm.DB
	config              *config.Config
	notificationService *NotificationService
}

type CreateMSARequest struct {
	CompanyID        uuid.UUID              `json:"company_id" validate:"required"`
	BureauID         uuid.UUID              `json:"bureau_id" validate:"required"`
	FeePercent       float64                `json:"fee_percent,omitempty" validate:"omitempty,min=0,max=100"`
	PaymentTermsDays int                    `json:"payment_terms_days,omitempty" validate:"omitempty,min=0"`
	Terms            map[string]interface{} `json:"terms,omitempty"`
}

type RejectMSARequest struct {
	Reason string `json:"reason" validate:"required"`
}

type MSASearchParams struct {
	utils.PaginationParams
	CompanyID *uuid.UUID        `json:"company_id,omitempty"`
	BureauID  *uuid.UUID        `json:"bureau_id,omitempty"`
	Status    *models.MSAStatus `json:"status,omitempty"`
}

func NewMSAService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *MSAService {
	return &MSAService{
		db:                  db,
		config:              cfg,
		notificationService: notificationService,
	}
}

func (s *MSAService) CreateMSA(creatorID uuid.UUID, req *CreateMSARequest) (*models.MSA, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify the pair exists and has the right org types
	var company, bureau models.Organization
	if err := s.db.First(&company, req.CompanyID).Error; err != nil {
		return nil, errors.New("company not found")
	}
	if company.Type != models.OrganizationTypeCompany {
		return nil, errors.New("company_id does not reference a company organization")
	}
	if err := s.db.First(&bureau, req.BureauID).Error; err != nil {
		return nil, errors.New("bureau not found")
	}
	if bureau.Type != models.OrganizationTypeBureau {
		return nil, errors.New("bureau_id does not reference a bureau organization")
	}

	// One live MSA per pair
	var existing models.MSA
	if err := s.db.Where("company_id = ? AND bureau_id = ? AND status IN (?, ?)",
		req.CompanyID, req.BureauID, models.MSAStatusPending, models.MSAStatusActive).
		First(&existing).Error; err == nil {
		if existing.Status == models.MSAStatusActive {
			return nil, errors.New("an active MSA already exists for this company/bureau pair")
		}
		return nil, errors.New("an MSA is already pending approval for this company/bureau pair")
	}

	feePercent := req.FeePercent
	if feePercent == 0 {
		feePercent = s.config.Platform.DefaultMSAFeePercent
	}
	paymentTerms := req.PaymentTermsDays
	if paymentTerms == 0 {
		paymentTerms = s.config.Platform.DefaultPaymentTermsDays
	}

	msa := &models.MSA{
		CompanyID:        req.CompanyID,
		BureauID:         req.BureauID,
		Status:           models.MSAStatusPending,
		FeePercent:       feePercent,
		PaymentTermsDays: paymentTerms,
		Terms:            models.JSONB(req.Terms),
		CreatedBy:        creatorID,
	}

	if err := s.db.Create(msa).Error; err != nil {
		return nil, fmt.Errorf("failed to create MSA: %w", err)
	}

	go s.notificationService.SendMSACreatedNotification(msa)

	return msa, nil
}

// ApproveMSA records the approval of the acting party's side. When both sides
// have approved, the MSA becomes ACTIVE. The row is locked for the update so
// concurrent approvals from the two sides cannot overwrite each other's
// timestamp.
func (s *MSAService) ApproveMSA(msaID uuid.UUID, actorOrgID uuid.UUID) (*models.MSA, error) {
	var msa models.MSA
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&msa, msaID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("MSA not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if msa.Status != models.MSAStatusPending {
			return errors.New("MSA is not pending approval")
		}

		now := time.Now()
		switch actorOrgID {
		case msa.CompanyID:
			if msa.CompanyApprovedAt != nil {
				return errors.New("company has already approved this MSA")
			}
			msa.CompanyApprovedAt = &now
		case msa.BureauID:
			if msa.BureauApprovedAt != nil {
				return errors.New("bureau has already approved this MSA")
			}
			msa.BureauApprovedAt = &now
		default:
			return errors.New("unauthorized to approve this MSA")
		}

		if msa.FullyApproved() {
			msa.Status = models.MSAStatusActive
		}

		if err := tx.Save(&msa).Error; err != nil {
			return fmt.Errorf("failed to update MSA: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if msa.Status == models.MSAStatusActive {
		go s.notificationService.SendMSAStatusNotification(&msa)
	}

	return &msa, nil
}

func (s *MSAService) RejectMSA(msaID uuid.UUID, actorID uuid.UUID, actorOrgID uuid.UUID, req *RejectMSARequest) (*models.MSA, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var msa models.MSA
	if err := s.db.First(&msa, msaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("MSA not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if msa.Status != models.MSAStatusPending {
		return nil, errors.New("only pending MSAs can be rejected")
	}

	if actorOrgID != msa.CompanyID && actorOrgID != msa.BureauID {
		return nil, errors.New("unauthorized to reject this MSA")
	}

	msa.Status = models.MSAStatusRejected
	msa.RejectedBy = &actorID
	msa.RejectionReason = req.Reason

	if err := s.db.Save(&msa).Error; err != nil {
		return nil, fmt.Errorf("failed to update MSA: %w", err)
	}

	go s.notificationService.SendMSAStatusNotification(&msa)

	return &msa, nil
}

func (s *MSAService) TerminateMSA(msaID uuid.UUID, actorOrgID uuid.UUID, isAdmin bool) (*models.MSA, error) {
	var msa models.MSA
	if err := s.db.First(&msa, msaID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("MSA not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if msa.Status != models.MSAStatusActive {
		return nil, errors.New("only active MSAs can be terminated")
	}

	if !isAdmin && actorOrgID != msa.CompanyID && actorOrgID != msa.BureauID {
		return nil, errors.New("unauthorized to terminate this MSA")
	}

	now := time.Now()
	msa.Status = models.MSAStatusTerminated
	msa.TerminatedAt = &now

	if err := s.db.Save(&msa).Error; err != nil {
		return nil, fmt.Errorf("failed to update MSA: %w", err)
	}

	go s.notificationService.SendMSAStatusNotification(&msa)

	return &msa, nil
}

func (s *MSAService) GetMSA(id uuid.UUID, actorOrgID uuid.UUID, isAdmin bool) (*models.MSA, error) {
	var msa models.MSA
	if err := s.db.Preload("Company").Preload("Bureau").First(&msa, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("MSA not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !isAdmin && actorOrgID != msa.CompanyID && actorOrgID != msa.BureauID {
		return nil, errors.New("unauthorized to view this MSA")
	}

	return &msa, nil
}

func (s *MSAService) SearchMSAs(params MSASearchParams, actorOrgID uuid.UUID, isAdmin bool) ([]models.MSA, int64, error) {
	query := s.db.Model(&models.MSA{}).Preload("Company").Preload("Bureau")

	if !isAdmin {
		query = query.Where("company_id = ? OR bureau_id = ?", actorOrgID, actorOrgID)
	}

	if params.CompanyID != nil {
		query = query.Where("company_id = ?", *params.CompanyID)
	}
	if params.BureauID != nil {
		query = query.Where("bureau_id = ?", *params.BureauID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count MSAs: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var msas []models.MSA
	if err := query.Find(&msas).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch MSAs: %w", err)
	}

	return msas, total, nil
}

// FindActiveMSA returns the ACTIVE MSA for the pair, or nil when none exists.
func (s *MSAService) FindActiveMSA(companyID, bureauID uuid.UUID) (*models.MSA, error) {
	var msa models.MSA
	err := s.db.Where("company_id = ? AND bureau_id = ? AND status = ?",
		companyID, bureauID, models.MSAStatusActive).First(&msa).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &msa, nil
}

// RequireActiveMSA is the hire gate: it returns the ACTIVE MSA for the pair or
// ErrMSARequired.
func (s *MSAService) RequireActiveMSA(companyID, bureauID uuid.UUID) (*models.MSA, error) {
	msa, err := s.FindActiveMSA(companyID, bureauID)
	if err != nil {
		return nil, err
	}
	if msa == nil {
		return nil, ErrMSARequired
	}
	return msa, nil
}
