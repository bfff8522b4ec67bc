package validation

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://shop.example.com", false},
		{"http://localhost:8080/", false},
		{"ftp://example.com", true},
		{"/relative", true},
		{"https://", true},
		{"https://exa mple.com", true},
		{"javascript:alert(1)", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateOriginPattern(t *testing.T) {
	assert.NoError(t, ValidateOriginPattern("shop.example.com"))
	assert.NoError(t, ValidateOriginPattern("*.example.com"))
	assert.Error(t, ValidateOriginPattern(""))
	assert.Error(t, ValidateOriginPattern("https://shop.example.com"))
	assert.Error(t, ValidateOriginPattern("[bad"))
}

func TestCleanRelPath(t *testing.T) {
	got, err := CleanRelPath("/images/products/rings/img2.webp?v=3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("images", "products", "rings", "img2.webp"), got)

	got, err = CleanRelPath("images/./a/../b.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("images", "b.png"), got)

	for _, bad := range []string{"", "/", "../etc/passwd", "/images/../../secret", "a\x00b"} {
		_, err := CleanRelPath(bad)
		assert.Error(t, err, bad)
	}
}
