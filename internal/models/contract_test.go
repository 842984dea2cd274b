// internal/models/contract_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContractSerializesDescription(t *testing.T) {
	c := Contract{
		Title:       "Backend contractor engagement",
		Description: "Six month staff augmentation for the payments team",
	}

	data, err := json.Marshal(&c)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"description":"Six month staff augmentation for the payments team"`)
}

func TestContractDescriptionOmittedWhenEmpty(t *testing.T) {
	data, err := json.Marshal(&Contract{Title: "Untitled"})
	assert.NoError(t, err)
	assert.NotContains(t, string(data), `"description"`)
}
