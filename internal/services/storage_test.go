package services

import (
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileHeader(name, contentType string, size int64) *multipart.FileHeader {
	h := textproto.MIMEHeader{}
	h.Set("Content-Type", contentType)
	return &multipart.FileHeader{Filename: name, Header: h, Size: size}
}

func TestImageExtension(t *testing.T) {
	tests := []struct {
		name    string
		file    *multipart.FileHeader
		want    string
		wantErr bool
	}{
		{"jpeg", fileHeader("foto.jpeg", "image/jpeg", 1024), ".jpg", false},
		{"png", fileHeader("foto.png", "image/png", 1024), ".png", false},
		{"octet-stream by extension", fileHeader("foto.WEBP", "application/octet-stream", 10), ".webp", false},
		{"jpeg extension fallback", fileHeader("foto.jpeg", "", 10), ".jpg", false},
		{"pdf", fileHeader("doc.pdf", "application/pdf", 10), "", true},
		{"empty", fileHeader("foto.png", "image/png", 0), "", true},
		{"too big", fileHeader("foto.png", "image/png", MaxImageSize+1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ImageExtension(tt.file)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPublicURL(t *testing.T) {
	s := NewStorage(nil, "feira", "minio:9000", false)
	assert.Equal(t, "http://minio:9000/feira/avatars/u1.png", s.PublicURL("avatars/u1.png"))

	s = NewStorage(nil, "feira", "cdn.feira.app", true)
	assert.Equal(t, "https://cdn.feira.app/feira/a.jpg", s.PublicURL("a.jpg"))
}
