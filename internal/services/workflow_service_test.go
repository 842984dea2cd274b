// internal/services/workflow_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/staffhub/staffhub-backend/internal/models"
)

func TestConditionsMatch(t *testing.T) {
	payload := map[string]interface{}{
		"status":     "FULLY_SIGNED",
		"company_id": "5c1f8f4e",
		"openings":   3,
	}

	assert.True(t, conditionsMatch(nil, payload))
	assert.True(t, conditionsMatch(models.JSONB{}, payload))
	assert.True(t, conditionsMatch(models.JSONB{"status": "FULLY_SIGNED"}, payload))
	assert.True(t, conditionsMatch(models.JSONB{"status": "FULLY_SIGNED", "openings": 3}, payload))

	// Numeric values compare by their string form, so JSON float decoding still matches.
	assert.True(t, conditionsMatch(models.JSONB{"openings": "3"}, payload))

	assert.False(t, conditionsMatch(models.JSONB{"status": "DRAFT"}, payload))
	assert.False(t, conditionsMatch(models.JSONB{"missing_key": "x"}, payload))
}
