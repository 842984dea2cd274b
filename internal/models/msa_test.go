// internal/models/msa_test.go
package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMSAFullyApproved(t *testing.T) {
	now := time.Now()

	msa := &MSA{}
	assert.False(t, msa.FullyApproved())

	msa.CompanyApprovedAt = &now
	assert.False(t, msa.FullyApproved(), "one-sided approval is not enough")

	msa.BureauApprovedAt = &now
	assert.True(t, msa.FullyApproved())

	msa = &MSA{BureauApprovedAt: &now}
	assert.False(t, msa.FullyApproved())
}
