// internal/handlers/contract_test.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/staffhub/staffhub-backend/internal/services"
)

func newErrorContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", nil)
	return c, w
}

func TestRespondContractErrorMSARequired(t *testing.T) {
	h := &ContractHandler{}

	c, w := newErrorContext()
	h.respondContractError(c, services.ErrMSARequired)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "MSA_REQUIRED")
	assert.Contains(t, w.Body.String(), "Master Service Agreement")

	// Wrapped by a service layer, the sentinel still maps to 422.
	c, w = newErrorContext()
	h.respondContractError(c, fmt.Errorf("failed to create contract: %w", services.ErrMSARequired))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "MSA_REQUIRED")
}

func TestRespondContractErrorMapping(t *testing.T) {
	h := &ContractHandler{}

	c, w := newErrorContext()
	h.respondContractError(c, errors.New("contract not found"))
	assert.Equal(t, http.StatusNotFound, w.Code)

	c, w = newErrorContext()
	h.respondContractError(c, errors.New("unauthorized to sign this contract"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	c, w = newErrorContext()
	h.respondContractError(c, errors.New("contract is not open for signing"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
