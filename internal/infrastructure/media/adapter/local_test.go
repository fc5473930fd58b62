package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ishwar-meena/whatsappchat/internal/infrastructure/media/port"
)

func TestKindFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
		wantErr     bool
	}{
		{"image/png", "image", false},
		{"image/jpeg", "image", false},
		{"video/mp4", "video", false},
		{"application/pdf", "", true},
		{"text/plain", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := kindFor(tt.contentType)
		if tt.wantErr {
			assert.ErrorIs(t, err, port.ErrUnsupportedType, tt.contentType)
			continue
		}
		require.NoError(t, err, tt.contentType)
		assert.Equal(t, tt.want, got)
	}
}

func TestLocalUploaderStoresFile(t *testing.T) {
	dir := t.TempDir()
	up, err := NewLocalUploader(dir, "/media/", zerolog.Nop())
	require.NoError(t, err)

	res, err := up.Upload(context.Background(), "cat.PNG", "image/png", strings.NewReader("pngbytes"))
	require.NoError(t, err)
	assert.Equal(t, "image", res.Kind)
	assert.True(t, strings.HasPrefix(res.URL, "/media/"))
	assert.True(t, strings.HasSuffix(res.URL, ".png"), "extension is preserved lowercased")

	name := filepath.Base(res.URL)
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "pngbytes", string(data))
}

func TestLocalUploaderRejectsBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	up, err := NewLocalUploader(dir, "/media", zerolog.Nop())
	require.NoError(t, err)

	_, err = up.Upload(context.Background(), "doc.pdf", "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, port.ErrUnsupportedType)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing may hit disk for a rejected type")
}
