// internal/services/contract_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/staffhub/staffhub-backend/internal/config"
	"github.com/staffhub/staffhub-backend/internal/database"
	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

type ContractService struct {
	db                  *gorm.DB
	config              *config.Config
	msaService          *MSAService
	storageService      *StorageService
	notificationService *NotificationService
	workflowService     *WorkflowService
}

type CreateContractRequest struct {
	BureauID           uuid.UUID              `json:"bureau_id" validate:"required"`
	Title              string                 `json:"title" validate:"required,min=3,max=200"`
	Description        string                 `json:"description,omitempty" validate:"max=5000"`
	RateAmount         float64                `json:"rate_amount" validate:"required,gt=0"`
	RateUnit           string                 `json:"rate_unit" validate:"required,oneof=hour day month placement"`
	StartDate          *time.Time             `json:"start_date,omitempty"`
	EndDate            *time.Time             `json:"end_date,omitempty"`
	Terms              map[string]interface{} `json:"terms,omitempty"`
	SignaturesRequired int                    `json:"signatures_required,omitempty" validate:"omitempty,min=1,max=10"`
}

type UpdateContractRequest struct {
	Title       *string                `json:"title,omitempty" validate:"omitempty,min=3,max=200"`
	Description *string                `json:"description,omitempty" validate:"omitempty,max=5000"`
	RateAmount  *float64               `json:"rate_amount,omitempty" validate:"omitempty,gt=0"`
	RateUnit    *string                `json:"rate_unit,omitempty" validate:"omitempty,oneof=hour day month placement"`
	StartDate   *time.Time             `json:"start_date,omitempty"`
	EndDate     *time.Time             `json:"end_date,omitempty"`
	Terms       map[string]interface{} `json:"terms,omitempty"`
}

type SignContractRequest struct {
	SignatureType models.SignatureType `json:"signature_type" validate:"required,signature_type"`
	TypedName     string               `json:"typed_name,omitempty"`
	SignatureData string               `json:"signature_data,omitempty"`
	Agreement     bool                 `json:"agreement"`
}

type ApprovalDecisionRequest struct {
	Approved bool   `json:"approved"`
	Comments string `json:"comments,omitempty" validate:"max=2000"`
}

type TerminateContractRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=2000"`
}

type ContractSearchParams struct {
	utils.PaginationParams
	Status   *models.ContractStatus `json:"status,omitempty"`
	BureauID *uuid.UUID             `json:"bureau_id,omitempty"`
	MSAID    *uuid.UUID             `json:"msa_id,omitempty"`
}

// ContractDetail bundles the contract with the affordance flags the detail
// page renders action buttons from.
type ContractDetail struct {
	models.Contract
	Permissions models.ContractPermissions `json:"permissions"`
	Badge       models.StatusBadge         `json:"badge"`
}

func NewContractService(db *gorm.DB, cfg *config.Config, msaService *MSAService, storageService *StorageService, notificationService *NotificationService, workflowService *WorkflowService) *ContractService {
	return &ContractService{
		db:                  db,
		config:              cfg,
		msaService:          msaService,
		storageService:      storageService,
		notificationService: notificationService,
		workflowService:     workflowService,
	}
}

// CreateContract creates a DRAFT contract. The company/bureau pair must have
// an ACTIVE MSA; the contract is bound to it.
func (s *ContractService) CreateContract(creatorID, companyID uuid.UUID, req *CreateContractRequest) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, errors.New("end_date must not be before start_date")
	}

	msa, err := s.msaService.RequireActiveMSA(companyID, req.BureauID)
	if err != nil {
		return nil, err
	}

	signaturesRequired := req.SignaturesRequired
	if signaturesRequired == 0 {
		signaturesRequired = s.config.Platform.DefaultSignaturesRequired
	}

	contractNumber, err := utils.GenerateContractNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contract number: %w", err)
	}

	contract := &models.Contract{
		ContractNumber:     contractNumber,
		CompanyID:          companyID,
		BureauID:           req.BureauID,
		Title:              req.Title,
		Description:        req.Description,
		Status:             models.ContractStatusDraft,
		RateAmount:         req.RateAmount,
		RateUnit:           req.RateUnit,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Terms:              models.JSONB(req.Terms),
		SignaturesRequired: signaturesRequired,
		CreatedBy:          creatorID,
	}
	contract.MSAID = &msa.ID

	if err := s.db.Create(contract).Error; err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	go s.workflowService.FireEvent("contract.created", map[string]interface{}{
		"contract_id": contract.ID.String(),
		"company_id":  contract.CompanyID.String(),
		"bureau_id":   contract.BureauID.String(),
		"org_id":      contract.BureauID.String(),
	})

	return contract, nil
}

func (s *ContractService) UpdateContract(contractID, actorOrgID uuid.UUID, req *UpdateContractRequest) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}

	if contract.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to update this contract")
	}
	if contract.Status != models.ContractStatusDraft && contract.Status != models.ContractStatusPendingReview {
		return nil, errors.New("contract can no longer be edited")
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.RateAmount != nil {
		updates["rate_amount"] = *req.RateAmount
	}
	if req.RateUnit != nil {
		updates["rate_unit"] = *req.RateUnit
	}
	if req.StartDate != nil {
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		updates["end_date"] = *req.EndDate
	}
	if req.Terms != nil {
		updates["terms"] = models.JSONB(req.Terms)
	}

	if len(updates) == 0 {
		return contract, nil
	}

	if err := s.db.Model(contract).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	return s.loadContract(contractID)
}

func (s *ContractService) GetContract(contractID, actorOrgID uuid.UUID, isAdmin bool) (*ContractDetail, error) {
	var contract models.Contract
	err := s.db.Preload("Company").Preload("Bureau").Preload("MSA").
		Preload("Signatures").Preload("Approvals").
		First(&contract, contractID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("contract not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !isAdmin && contract.CompanyID != actorOrgID && contract.BureauID != actorOrgID {
		return nil, errors.New("unauthorized to view this contract")
	}

	return &ContractDetail{
		Contract:    contract,
		Permissions: contract.Permissions(),
		Badge:       contract.Status.Badge(),
	}, nil
}

func (s *ContractService) SearchContracts(params ContractSearchParams, actorOrgID uuid.UUID, isAdmin bool) ([]models.Contract, int64, error) {
	query := s.db.Model(&models.Contract{}).Preload("Company").Preload("Bureau")

	if !isAdmin {
		query = query.Where("company_id = ? OR bureau_id = ?", actorOrgID, actorOrgID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.BureauID != nil {
		query = query.Where("bureau_id = ?", *params.BureauID)
	}
	if params.MSAID != nil {
		query = query.Where("msa_id = ?", *params.MSAID)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(contract_number) LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count contracts: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status", "rate_amount", "title"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var contracts []models.Contract
	if err := query.Find(&contracts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch contracts: %w", err)
	}

	return contracts, total, nil
}

// SubmitForReview moves a DRAFT contract to PENDING_REVIEW and opens approval
// slots for both parties.
func (s *ContractService) SubmitForReview(contractID, actorID, actorOrgID uuid.UUID) (*models.Contract, error) {
	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to submit this contract")
	}

	if err := s.transition(contract, models.ContractStatusPendingReview, actorID, "submitted for review"); err != nil {
		return nil, err
	}

	go s.notificationService.SendContractStatusNotification(contract)

	return contract, nil
}

// RequestApproval moves the contract to PENDING_APPROVAL and creates the
// pending approval rows for the two parties.
func (s *ContractService) RequestApproval(contractID, actorID, actorOrgID uuid.UUID) (*models.Contract, error) {
	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.CompanyID != actorOrgID {
		return nil, errors.New("unauthorized to request approval for this contract")
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if !contract.Status.CanTransitionTo(models.ContractStatusPendingApproval) {
			return fmt.Errorf("contract cannot move from %s to %s", contract.Status, models.ContractStatusPendingApproval)
		}
		contract.Status = models.ContractStatusPendingApproval
		if err := tx.Save(contract).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		// Supersede rows from any prior approval round so a rejected
		// contract can go through the cycle again.
		if err := tx.Where("contract_id = ?", contract.ID).
			Delete(&models.ContractApproval{}).Error; err != nil {
			return fmt.Errorf("failed to clear prior approvals: %w", err)
		}

		approvals := []models.ContractApproval{
			{ContractID: contract.ID, ApproverRole: models.UserTypeCompany, Status: models.ApprovalStatusPending},
			{ContractID: contract.ID, ApproverRole: models.UserTypeBureau, Status: models.ApprovalStatusPending},
		}
		if err := tx.Create(&approvals).Error; err != nil {
			return fmt.Errorf("failed to create approvals: %w", err)
		}

		s.recordHistory(tx, contract.ID, actorID, "approval_requested", "")
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.notificationService.SendApprovalRequestNotification(contract)

	return contract, nil
}

// DecideApproval records one party's approval decision. When both sides have
// approved, the contract becomes APPROVED; a rejection sends it back to DRAFT.
func (s *ContractService) DecideApproval(contractID, actorID, actorOrgID uuid.UUID, req *ApprovalDecisionRequest) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.Status != models.ContractStatusPendingApproval {
		return nil, errors.New("contract is not pending approval")
	}

	var role models.UserType
	switch actorOrgID {
	case contract.CompanyID:
		role = models.UserTypeCompany
	case contract.BureauID:
		role = models.UserTypeBureau
	default:
		return nil, errors.New("unauthorized to approve this contract")
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var approvals []models.ContractApproval
		if err := tx.Where("contract_id = ?", contract.ID).Find(&approvals).Error; err != nil {
			return fmt.Errorf("failed to load approvals: %w", err)
		}

		approval := pendingApprovalFor(approvals, role)
		if approval == nil {
			return errors.New("this party has already decided")
		}

		now := time.Now()
		approval.ApproverID = &actorID
		approval.Comments = req.Comments
		approval.DecidedAt = &now
		if req.Approved {
			approval.Status = models.ApprovalStatusApproved
		} else {
			approval.Status = models.ApprovalStatusRejected
		}
		if err := tx.Save(approval).Error; err != nil {
			return fmt.Errorf("failed to save approval: %w", err)
		}

		if !req.Approved {
			contract.Status = models.ContractStatusDraft
			if err := tx.Save(contract).Error; err != nil {
				return fmt.Errorf("failed to update contract: %w", err)
			}
			s.recordHistory(tx, contract.ID, actorID, "approval_rejected", req.Comments)
			return nil
		}

		if approvalQuorumReached(approvals) {
			contract.Status = models.ContractStatusApproved
			if err := tx.Save(contract).Error; err != nil {
				return fmt.Errorf("failed to update contract: %w", err)
			}
		}
		s.recordHistory(tx, contract.ID, actorID, "approval_granted", req.Comments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if contract.Status == models.ContractStatusApproved {
		go s.notificationService.SendContractStatusNotification(contract)
		go s.workflowService.FireEvent("contract.approved", map[string]interface{}{
			"contract_id": contract.ID.String(),
			"company_id":  contract.CompanyID.String(),
			"bureau_id":   contract.BureauID.String(),
			"org_id":      contract.CompanyID.String(),
		})
	}

	return contract, nil
}

// pendingApprovalFor picks the open slot for a role out of the current round's
// approval rows. A nil result means that party has already decided.
func pendingApprovalFor(approvals []models.ContractApproval, role models.UserType) *models.ContractApproval {
	for i := range approvals {
		if approvals[i].ApproverRole == role && approvals[i].Status == models.ApprovalStatusPending {
			return &approvals[i]
		}
	}
	return nil
}

// approvalQuorumReached reports whether every approval slot is APPROVED.
func approvalQuorumReached(approvals []models.ContractApproval) bool {
	if len(approvals) == 0 {
		return false
	}
	for i := range approvals {
		if approvals[i].Status != models.ApprovalStatusApproved {
			return false
		}
	}
	return true
}

// SendForSignature moves an APPROVED contract to PENDING_SIGNATURE.
func (s *ContractService) SendForSignature(contractID, actorID, actorOrgID uuid.UUID) (*models.Contract, error) {
	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.CompanyID != actorOrgID && contract.BureauID != actorOrgID {
		return nil, errors.New("unauthorized to send this contract for signature")
	}

	if err := s.transition(contract, models.ContractStatusPendingSignature, actorID, "sent for signature"); err != nil {
		return nil, err
	}

	go s.notificationService.SendSignatureRequestNotification(contract)

	return contract, nil
}

// SignContract records one signer's signature. A signature needs the
// agreement checkbox plus non-empty input for its type. Drawn and uploaded
// signatures arrive as base64 data URLs and are stored as images. When the
// signature count reaches the required quorum the contract becomes
// FULLY_SIGNED, otherwise PARTIALLY_SIGNED.
func (s *ContractService) SignContract(contractID, signerID, actorOrgID uuid.UUID, req *SignContractRequest) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateSignatureInput(req); err != nil {
		return nil, err
	}

	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if !contract.Status.CanSign() {
		return nil, errors.New("contract is not open for signing")
	}

	var role models.UserType
	switch actorOrgID {
	case contract.CompanyID:
		role = models.UserTypeCompany
	case contract.BureauID:
		role = models.UserTypeBureau
	default:
		return nil, errors.New("unauthorized to sign this contract")
	}

	var signer models.User
	if err := s.db.First(&signer, signerID).Error; err != nil {
		return nil, errors.New("signer not found")
	}

	// Reject duplicate signers before storing any signature image so a
	// rejection never orphans an uploaded object. The check is repeated
	// under the transaction's row lock to close the race.
	var already int64
	if err := s.db.Model(&models.ContractSignature{}).
		Where("contract_id = ? AND signer_id = ? AND is_valid = ?", contract.ID, signerID, true).
		Count(&already).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing signatures: %w", err)
	}
	if already > 0 {
		return nil, errors.New("you have already signed this contract")
	}

	signature := models.ContractSignature{
		ContractID:    contract.ID,
		SignerID:      signerID,
		SignerName:    signer.Username,
		SignerRole:    role,
		SignatureType: req.SignatureType,
		SignedAt:      time.Now(),
	}

	switch req.SignatureType {
	case models.SignatureTypeTyped:
		signature.TypedName = strings.TrimSpace(req.TypedName)
	case models.SignatureTypeDrawn, models.SignatureTypeUploaded:
		result, err := s.storageService.UploadDataURL(req.SignatureData, "signatures")
		if err != nil {
			return nil, fmt.Errorf("failed to store signature image: %w", err)
		}
		signature.ImageKey = result.Key
		signature.ImageURL = result.URL
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var locked models.Contract
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&locked, contract.ID).Error; err != nil {
			return fmt.Errorf("failed to lock contract: %w", err)
		}
		if !locked.Status.CanSign() {
			return errors.New("contract is not open for signing")
		}

		var existing int64
		if err := tx.Model(&models.ContractSignature{}).
			Where("contract_id = ? AND signer_id = ? AND is_valid = ?", locked.ID, signerID, true).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to check existing signatures: %w", err)
		}
		if existing > 0 {
			return errors.New("you have already signed this contract")
		}

		if err := tx.Create(&signature).Error; err != nil {
			return fmt.Errorf("failed to save signature: %w", err)
		}

		locked.SignaturesReceived++
		locked.Status = signatureQuorumStatus(locked.SignaturesReceived, locked.SignaturesRequired)
		if err := tx.Save(&locked).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}
		*contract = locked

		s.recordHistory(tx, contract.ID, signerID, "signed", string(req.SignatureType))
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.notificationService.SendContractStatusNotification(contract)
	if contract.Status == models.ContractStatusFullySigned {
		go s.workflowService.FireEvent("contract.fully_signed", map[string]interface{}{
			"contract_id": contract.ID.String(),
			"company_id":  contract.CompanyID.String(),
			"bureau_id":   contract.BureauID.String(),
			"org_id":      contract.CompanyID.String(),
		})
	}

	return contract, nil
}

// validateSignatureInput enforces the capture-time presence checks: the
// agreement box plus non-empty input for the chosen signature type. The
// captured content itself is stored as-is and never verified.
func validateSignatureInput(req *SignContractRequest) error {
	if !req.Agreement {
		return errors.New("agreement to the contract terms is required")
	}
	switch req.SignatureType {
	case models.SignatureTypeTyped:
		if strings.TrimSpace(req.TypedName) == "" {
			return errors.New("typed_name is required for a typed signature")
		}
	case models.SignatureTypeDrawn, models.SignatureTypeUploaded:
		if strings.TrimSpace(req.SignatureData) == "" {
			return errors.New("signature_data is required for this signature type")
		}
	}
	return nil
}

// signatureQuorumStatus is the status a contract holds after a signature
// lands: FULLY_SIGNED once the quorum is met, PARTIALLY_SIGNED before.
func signatureQuorumStatus(received, required int) models.ContractStatus {
	if received >= required {
		return models.ContractStatusFullySigned
	}
	return models.ContractStatusPartiallySigned
}

// ActivateContract moves a FULLY_SIGNED contract to ACTIVE.
func (s *ContractService) ActivateContract(contractID, actorID, actorOrgID uuid.UUID) (*models.Contract, error) {
	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.CompanyID != actorOrgID && contract.BureauID != actorOrgID {
		return nil, errors.New("unauthorized to activate this contract")
	}
	if !contract.Status.CanActivate() {
		return nil, errors.New("contract must be fully signed before activation")
	}

	now := time.Now()
	contract.ActivatedAt = &now
	if err := s.transition(contract, models.ContractStatusActive, actorID, "activated"); err != nil {
		return nil, err
	}

	go s.notificationService.SendContractStatusNotification(contract)
	go s.workflowService.FireEvent("contract.activated", map[string]interface{}{
		"contract_id": contract.ID.String(),
		"company_id":  contract.CompanyID.String(),
		"bureau_id":   contract.BureauID.String(),
		"org_id":      contract.BureauID.String(),
	})

	return contract, nil
}

// TerminateContract ends an ACTIVE contract early with a reason.
func (s *ContractService) TerminateContract(contractID, actorID, actorOrgID uuid.UUID, req *TerminateContractRequest) (*models.Contract, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.CompanyID != actorOrgID && contract.BureauID != actorOrgID {
		return nil, errors.New("unauthorized to terminate this contract")
	}
	if !contract.Status.CanTerminate() {
		return nil, errors.New("only active contracts can be terminated")
	}

	now := time.Now()
	contract.TerminatedAt = &now
	contract.TerminationReason = req.Reason
	if err := s.transition(contract, models.ContractStatusTerminated, actorID, req.Reason); err != nil {
		return nil, err
	}

	go s.notificationService.SendContractStatusNotification(contract)

	return contract, nil
}

// CompleteContract marks an ACTIVE contract as COMPLETED at its natural end.
func (s *ContractService) CompleteContract(contractID, actorID, actorOrgID uuid.UUID) (*models.Contract, error) {
	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.CompanyID != actorOrgID && contract.BureauID != actorOrgID {
		return nil, errors.New("unauthorized to complete this contract")
	}

	now := time.Now()
	contract.CompletedAt = &now
	if err := s.transition(contract, models.ContractStatusCompleted, actorID, "completed"); err != nil {
		return nil, err
	}

	go s.notificationService.SendContractStatusNotification(contract)

	return contract, nil
}

// CancelContract abandons a pre-active contract.
func (s *ContractService) CancelContract(contractID, actorID, actorOrgID uuid.UUID) (*models.Contract, error) {
	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.CompanyID != actorOrgID && contract.BureauID != actorOrgID {
		return nil, errors.New("unauthorized to cancel this contract")
	}

	if err := s.transition(contract, models.ContractStatusCancelled, actorID, "cancelled"); err != nil {
		return nil, err
	}

	go s.notificationService.SendContractStatusNotification(contract)

	return contract, nil
}

// UploadDocument attaches the contract document file.
func (s *ContractService) UploadDocument(contractID, actorOrgID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.Contract, error) {
	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if contract.CompanyID != actorOrgID && contract.BureauID != actorOrgID {
		return nil, errors.New("unauthorized to upload to this contract")
	}

	opts := s.storageService.GetDefaultUploadOptions("contract_documents")
	result, err := s.storageService.UploadFile(file, header, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	contract.DocumentKey = result.Key
	contract.DocumentURL = result.URL
	if err := s.db.Save(contract).Error; err != nil {
		return nil, fmt.Errorf("failed to update contract: %w", err)
	}

	return contract, nil
}

// GetHistory returns the audit trail for a contract, newest first.
func (s *ContractService) GetHistory(contractID, actorOrgID uuid.UUID, isAdmin bool) ([]models.AuditLog, error) {
	contract, err := s.loadContract(contractID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && contract.CompanyID != actorOrgID && contract.BureauID != actorOrgID {
		return nil, errors.New("unauthorized to view this contract")
	}

	var logs []models.AuditLog
	err = s.db.Where("resource_type = ? AND resource_id = ?", "contract", contract.ID).
		Order("created_at DESC").Limit(200).Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	return logs, nil
}

func (s *ContractService) loadContract(contractID uuid.UUID) (*models.Contract, error) {
	var contract models.Contract
	if err := s.db.First(&contract, contractID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("contract not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &contract, nil
}

// transition applies a status change after checking the lifecycle table, and
// writes a history row.
func (s *ContractService) transition(contract *models.Contract, to models.ContractStatus, actorID uuid.UUID, detail string) error {
	if !contract.Status.CanTransitionTo(to) {
		return fmt.Errorf("contract cannot move from %s to %s", contract.Status, to)
	}
	from := contract.Status
	contract.Status = to

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Save(contract).Error; err != nil {
			contract.Status = from
			return fmt.Errorf("failed to update contract: %w", err)
		}
		s.recordHistory(tx, contract.ID, actorID, "status_"+strings.ToLower(string(to)), detail)
		return nil
	})
}

func (s *ContractService) recordHistory(tx *gorm.DB, contractID, actorID uuid.UUID, action, detail string) {
	entry := models.AuditLog{
		UserID:       &actorID,
		Action:       action,
		ResourceType: "contract",
		ResourceID:   &contractID,
		NewValues:    models.JSONB{"detail": detail},
	}
	if err := tx.Create(&entry).Error; err != nil {
		logrus.WithError(err).Warn("Failed to record contract history entry")
	}
}
