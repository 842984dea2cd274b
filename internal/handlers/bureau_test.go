// internal/handlers/bureau_test.go
package handlers

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/staffhub/staffhub-backend/internal/models"
	"github.com/staffhub/staffhub-backend/internal/utils"
)

func distributionQueryContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/bureau/distributions?"+query, nil)
	return c
}

func TestDistributionFiltersFromQuery(t *testing.T) {
	c := distributionQueryContext("status=ACCEPTED&received_after=2026-08-01&received_before=2026-08-28&search=engineer")
	params := utils.GetPaginationParams(c)

	filters := distributionFiltersFromQuery(c, params)

	assert.NotNil(t, filters.Status)
	assert.Equal(t, models.DistributionStatus("ACCEPTED"), *filters.Status)
	assert.Equal(t, "engineer", filters.Search)

	assert.NotNil(t, filters.ReceivedAfter)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *filters.ReceivedAfter)
	assert.NotNil(t, filters.ReceivedBefore)
	assert.Equal(t, time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC), *filters.ReceivedBefore)
}

func TestDistributionFiltersDefaultsAndBadDates(t *testing.T) {
	c := distributionQueryContext("")
	filters := distributionFiltersFromQuery(c, utils.GetPaginationParams(c))

	assert.Nil(t, filters.Status)
	assert.Nil(t, filters.ReceivedAfter)
	assert.Nil(t, filters.ReceivedBefore)

	c = distributionQueryContext("received_after=yesterday&received_before=29-08-2026")
	filters = distributionFiltersFromQuery(c, utils.GetPaginationParams(c))

	assert.Nil(t, filters.ReceivedAfter)
	assert.Nil(t, filters.ReceivedBefore)
}
