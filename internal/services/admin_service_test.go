// internal/services/admin_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDailyAnalyticsRows(t *testing.T) {
	day := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	metrics := map[string]interface{}{
		"contract_creations": int64(7),
		"revenue":            1234.5,
		"unparsed":           "n/a",
	}

	rows := dailyAnalyticsRows(metrics, day)
	assert.Len(t, rows, 3)

	byName := map[string]float64{}
	for _, row := range rows {
		assert.Equal(t, "daily", row.MetricPeriod)
		assert.Equal(t, day, row.MetricDate)
		byName[row.MetricName] = row.MetricValue
	}

	assert.Equal(t, float64(7), byName["contract_creations"])
	assert.Equal(t, 1234.5, byName["revenue"])
	assert.Equal(t, float64(0), byName["unparsed"])
}

func TestDailyAnalyticsRowsEmpty(t *testing.T) {
	assert.Empty(t, dailyAnalyticsRows(nil, time.Now()))
}
