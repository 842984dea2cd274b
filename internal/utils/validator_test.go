// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type signatureInput struct {
	SignatureType string `validate:"required,signature_type"`
}

type orgInput struct {
	Type string `validate:"required,org_type"`
}

func TestSignatureTypeValidation(t *testing.T) {
	for _, valid := range []string{"typed", "drawn", "uploaded"} {
		err := ValidateStruct(&signatureInput{SignatureType: valid})
		assert.NoError(t, err, valid)
	}

	for _, invalid := range []string{"", "scanned", "TYPED", "typed "} {
		err := ValidateStruct(&signatureInput{SignatureType: invalid})
		assert.Error(t, err, invalid)
	}
}

func TestOrgTypeValidation(t *testing.T) {
	assert.NoError(t, ValidateStruct(&orgInput{Type: "company"}))
	assert.NoError(t, ValidateStruct(&orgInput{Type: "bureau"}))
	assert.Error(t, ValidateStruct(&orgInput{Type: "admin"}))
	assert.Error(t, ValidateStruct(&orgInput{Type: ""}))
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&signatureInput{SignatureType: "scanned"})
	assert.Error(t, err)

	errors := GetValidationErrors(err)
	assert.Len(t, errors, 1)
	assert.Equal(t, "signaturetype", errors[0].Field)
	assert.Equal(t, "signature_type", errors[0].Tag)
	assert.Contains(t, errors[0].Message, "typed, drawn, uploaded")
}
