package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/segyhp/microloan-engine/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePublicID(t *testing.T) {
	tests := []struct {
		filename string
		prefix   string
	}{
		{"passport.jpg", "passport_"},
		{"national id.png", "national_id_"},
		{"dir/scan.pdf", "scan_"},
		{"", "document_"},
		{".jpg", "document_"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			id := generatePublicID(tt.filename)
			assert.True(t, strings.HasPrefix(id, tt.prefix), "got %s", id)
			assert.Len(t, id, len(tt.prefix)+8)
		})
	}

	assert.NotEqual(t, generatePublicID("a.jpg"), generatePublicID("a.jpg"))
}

func TestFolderFor(t *testing.T) {
	assert.Equal(t, "customers/id", folderFor("customers", "id"))
	assert.Equal(t, "id", folderFor("", "id"))
	assert.Equal(t, "customers", folderFor("customers", ""))
}

func TestCloudinaryStorage_RejectsEmptyDocument(t *testing.T) {
	s, err := NewCloudinaryStorage(config.CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret", Folder: "customers"})
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), nil, "id")
	assert.Error(t, err)
}
