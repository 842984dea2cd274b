// internal/services/contract_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/staffhub/staffhub-backend/internal/models"
)

func approvalRow(role models.UserType, status models.ApprovalStatus) models.ContractApproval {
	return models.ContractApproval{
		ContractID:   uuid.New(),
		ApproverRole: role,
		Status:       status,
	}
}

func TestPendingApprovalFor(t *testing.T) {
	approvals := []models.ContractApproval{
		approvalRow(models.UserTypeCompany, models.ApprovalStatusApproved),
		approvalRow(models.UserTypeBureau, models.ApprovalStatusPending),
	}

	assert.Nil(t, pendingApprovalFor(approvals, models.UserTypeCompany))

	slot := pendingApprovalFor(approvals, models.UserTypeBureau)
	assert.NotNil(t, slot)
	assert.Equal(t, models.UserTypeBureau, slot.ApproverRole)

	assert.Nil(t, pendingApprovalFor(nil, models.UserTypeCompany))
}

func TestApprovalQuorumReached(t *testing.T) {
	assert.False(t, approvalQuorumReached(nil))

	approvals := []models.ContractApproval{
		approvalRow(models.UserTypeCompany, models.ApprovalStatusApproved),
		approvalRow(models.UserTypeBureau, models.ApprovalStatusPending),
	}
	assert.False(t, approvalQuorumReached(approvals))

	approvals[1].Status = models.ApprovalStatusRejected
	assert.False(t, approvalQuorumReached(approvals))

	approvals[1].Status = models.ApprovalStatusApproved
	assert.True(t, approvalQuorumReached(approvals))
}

// A rejected round is superseded by a fresh pair of PENDING slots when
// approval is requested again; the new round must be able to reach quorum on
// its own.
func TestApprovalCycleAfterRejection(t *testing.T) {
	round := []models.ContractApproval{
		approvalRow(models.UserTypeCompany, models.ApprovalStatusRejected),
		approvalRow(models.UserTypeBureau, models.ApprovalStatusPending),
	}
	assert.Nil(t, pendingApprovalFor(round, models.UserTypeCompany))
	assert.False(t, approvalQuorumReached(round))

	// Re-request replaces the rows entirely.
	round = []models.ContractApproval{
		approvalRow(models.UserTypeCompany, models.ApprovalStatusPending),
		approvalRow(models.UserTypeBureau, models.ApprovalStatusPending),
	}

	companySlot := pendingApprovalFor(round, models.UserTypeCompany)
	assert.NotNil(t, companySlot)
	companySlot.Status = models.ApprovalStatusApproved
	assert.False(t, approvalQuorumReached(round))

	bureauSlot := pendingApprovalFor(round, models.UserTypeBureau)
	assert.NotNil(t, bureauSlot)
	bureauSlot.Status = models.ApprovalStatusApproved
	assert.True(t, approvalQuorumReached(round))
}

func TestSignatureQuorumStatus(t *testing.T) {
	assert.Equal(t, models.ContractStatusPartiallySigned, signatureQuorumStatus(1, 2))
	assert.Equal(t, models.ContractStatusFullySigned, signatureQuorumStatus(2, 2))
	assert.Equal(t, models.ContractStatusFullySigned, signatureQuorumStatus(3, 2))
	assert.Equal(t, models.ContractStatusFullySigned, signatureQuorumStatus(1, 1))
}

func TestValidateSignatureInput(t *testing.T) {
	err := validateSignatureInput(&SignContractRequest{
		SignatureType: models.SignatureTypeTyped,
		TypedName:     "Jordan Doe",
	})
	assert.Error(t, err, "agreement flag is required")

	err = validateSignatureInput(&SignContractRequest{
		SignatureType: models.SignatureTypeTyped,
		TypedName:     "   ",
		Agreement:     true,
	})
	assert.Error(t, err, "typed signature needs a name")

	err = validateSignatureInput(&SignContractRequest{
		SignatureType: models.SignatureTypeTyped,
		TypedName:     "Jordan Doe",
		Agreement:     true,
	})
	assert.NoError(t, err)

	for _, sigType := range []models.SignatureType{models.SignatureTypeDrawn, models.SignatureTypeUploaded} {
		err = validateSignatureInput(&SignContractRequest{
			SignatureType: sigType,
			Agreement:     true,
		})
		assert.Error(t, err, string(sigType))

		err = validateSignatureInput(&SignContractRequest{
			SignatureType: sigType,
			SignatureData: "data:image/png;base64,AAAA",
			Agreement:     true,
		})
		assert.NoError(t, err, string(sigType))
	}
}
