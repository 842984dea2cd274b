// internal/utils/crypto_test.go
package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(16)
	assert.NoError(t, err)
	assert.Len(t, s1, 16)

	s2, err := GenerateRandomString(16)
	assert.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}

func TestGenerateContractNumber(t *testing.T) {
	number, err := GenerateContractNumber()
	assert.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^CTR-\d{8}-[A-Za-z0-9]{6}$`), number)
}

func TestHashString(t *testing.T) {
	h1 := HashString("hello")
	h2 := HashString("hello")
	h3 := HashString("world")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64)
}
