// internal/services/storage_service_test.go
package services

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDataURL(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4E, 0x47}
	encoded := base64.StdEncoding.EncodeToString(payload)

	contentType, got, err := parseDataURL("data:image/png;base64," + encoded)
	assert.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, payload, got)
}

func TestParseDataURLRejectsBadInput(t *testing.T) {
	cases := []string{
		"image/png;base64,AAAA",                 // missing data: prefix
		"data:image/png;base64",                 // no comma separator
		"data:image/png,AAAA",                   // not base64 encoded
		"data:image/png;base64,not-valid-b64!!", // undecodable payload
		"data:image/png;base64,",                // empty payload
	}

	for _, c := range cases {
		_, _, err := parseDataURL(c)
		assert.Error(t, err, c)
	}
}

func TestExtensionForContentType(t *testing.T) {
	assert.Equal(t, ".png", extensionForContentType("image/png"))
	assert.Equal(t, ".jpg", extensionForContentType("image/jpeg"))
	assert.Equal(t, ".gif", extensionForContentType("image/gif"))
	assert.Equal(t, ".bin", extensionForContentType("application/octet-stream"))
}

func TestGetDefaultUploadOptions(t *testing.T) {
	s := &StorageService{}

	opts := s.GetDefaultUploadOptions("contract_documents")
	assert.Equal(t, "contracts", opts.Folder)
	assert.Contains(t, opts.AllowedTypes, ".pdf")
	assert.False(t, opts.IsPublic)

	opts = s.GetDefaultUploadOptions("signatures")
	assert.Equal(t, "signatures", opts.Folder)
	assert.Equal(t, int64(2*1024*1024), opts.MaxSize)

	opts = s.GetDefaultUploadOptions("something_else")
	assert.Equal(t, "general", opts.Folder)
}
