// internal/models/status_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContractStatusTransitions(t *testing.T) {
	cases := []struct {
		from    ContractStatus
		to      ContractStatus
		allowed bool
	}{
		{ContractStatusDraft, ContractStatusPendingReview, true},
		{ContractStatusDraft, ContractStatusPendingApproval, true},
		{ContractStatusDraft, ContractStatusCancelled, true},
		{ContractStatusDraft, ContractStatusActive, false},
		{ContractStatusDraft, ContractStatusFullySigned, false},

		{ContractStatusPendingReview, ContractStatusPendingApproval, true},
		{ContractStatusPendingReview, ContractStatusDraft, true},
		{ContractStatusPendingReview, ContractStatusApproved, false},

		{ContractStatusPendingApproval, ContractStatusApproved, true},
		{ContractStatusPendingApproval, ContractStatusDraft, true},
		{ContractStatusPendingApproval, ContractStatusPendingSignature, false},

		{ContractStatusApproved, ContractStatusPendingSignature, true},
		{ContractStatusApproved, ContractStatusCancelled, true},
		{ContractStatusApproved, ContractStatusActive, false},

		{ContractStatusPendingSignature, ContractStatusPartiallySigned, true},
		{ContractStatusPendingSignature, ContractStatusFullySigned, true},
		{ContractStatusPendingSignature, ContractStatusActive, false},

		{ContractStatusPartiallySigned, ContractStatusFullySigned, true},
		{ContractStatusPartiallySigned, ContractStatusPendingSignature, false},

		{ContractStatusFullySigned, ContractStatusActive, true},
		{ContractStatusFullySigned, ContractStatusCompleted, false},

		{ContractStatusActive, ContractStatusCompleted, true},
		{ContractStatusActive, ContractStatusTerminated, true},
		{ContractStatusActive, ContractStatusCancelled, false},

		{ContractStatusCompleted, ContractStatusActive, false},
		{ContractStatusCancelled, ContractStatusDraft, false},
		{ContractStatusTerminated, ContractStatusActive, false},
	}

	for _, tc := range cases {
		got := tc.from.CanTransitionTo(tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestTerminalStatusesHaveNoTransitions(t *testing.T) {
	terminal := []ContractStatus{
		ContractStatusCompleted,
		ContractStatusCancelled,
		ContractStatusTerminated,
	}
	all := []ContractStatus{
		ContractStatusDraft, ContractStatusPendingReview, ContractStatusPendingApproval,
		ContractStatusApproved, ContractStatusPendingSignature, ContractStatusPartiallySigned,
		ContractStatusFullySigned, ContractStatusActive, ContractStatusCompleted,
		ContractStatusCancelled, ContractStatusTerminated,
	}

	for _, from := range terminal {
		assert.True(t, from.IsTerminal())
		for _, to := range all {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s must be blocked", from, to)
		}
	}
}

func TestContractStatusAffordances(t *testing.T) {
	assert.True(t, ContractStatusPendingSignature.CanSign())
	assert.True(t, ContractStatusPartiallySigned.CanSign())
	assert.False(t, ContractStatusDraft.CanSign())
	assert.False(t, ContractStatusFullySigned.CanSign())
	assert.False(t, ContractStatusActive.CanSign())

	assert.True(t, ContractStatusFullySigned.CanActivate())
	assert.False(t, ContractStatusPartiallySigned.CanActivate())
	assert.False(t, ContractStatusActive.CanActivate())

	assert.True(t, ContractStatusActive.CanTerminate())
	assert.False(t, ContractStatusFullySigned.CanTerminate())
	assert.False(t, ContractStatusCompleted.CanTerminate())
}

func TestContractPermissions(t *testing.T) {
	contract := &Contract{Status: ContractStatusPartiallySigned}
	perms := contract.Permissions()
	assert.True(t, perms.CanSign)
	assert.False(t, perms.CanActivate)
	assert.False(t, perms.CanTerminate)

	contract.Status = ContractStatusActive
	perms = contract.Permissions()
	assert.False(t, perms.CanSign)
	assert.True(t, perms.CanTerminate)
}

func TestStatusBadges(t *testing.T) {
	badge := ContractStatusActive.Badge()
	assert.Equal(t, "Active", badge.Label)
	assert.Equal(t, "green", badge.Color)

	badge = ContractStatusPartiallySigned.Badge()
	assert.Equal(t, "Partially Signed", badge.Label)
	assert.Equal(t, "orange", badge.Color)

	// Every known status has an explicit badge
	for status := range contractTransitions {
		b := status.Badge()
		assert.NotEqual(t, "file", b.Icon, "status %s missing a badge entry", status)
	}
}

func TestStatusBadgeFallback(t *testing.T) {
	badge := ContractStatus("SOMETHING_NEW").Badge()
	assert.Equal(t, "SOMETHING_NEW", badge.Label)
	assert.Equal(t, "file", badge.Icon)
	assert.Equal(t, "gray", badge.Color)
}
