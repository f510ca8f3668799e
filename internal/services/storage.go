package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
)

const MaxImageSize = 5 << 20

var ErrInvalidImage = errors.New("arquivo de imagem inválido")

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Storage grava as imagens do app (avatares e fotos de produto) no MinIO.
type Storage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

func NewStorage(client *minio.Client, bucket, endpoint string, useSSL bool) *Storage {
	return &Storage{client: client, bucket: bucket, endpoint: endpoint, useSSL: useSSL}
}

// ImageExtension valida o content-type e devolve a extensão a usar.
func ImageExtension(file *multipart.FileHeader) (string, error) {
	if file.Size <= 0 || file.Size > MaxImageSize {
		return "", fmt.Errorf("%w: tamanho %d", ErrInvalidImage, file.Size)
	}
	contentType := file.Header.Get("Content-Type")
	if ext, ok := imageExtensions[contentType]; ok {
		return ext, nil
	}
	// alguns clientes mandam application/octet-stream
	ext := strings.ToLower(filepath.Ext(file.Filename))
	for _, known := range imageExtensions {
		if ext == known || (ext == ".jpeg" && known == ".jpg") {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: tipo %q", ErrInvalidImage, contentType)
}

// Upload grava o arquivo em <objectName><ext> e devolve a URL pública.
// Um objeto de mesmo nome é sobrescrito.
func (s *Storage) Upload(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error) {
	ext, err := ImageExtension(file)
	if err != nil {
		return "", err
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := objectName + ext
	contentType := file.Header.Get("Content-Type")
	if _, ok := imageExtensions[contentType]; !ok {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, f, file.Size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

func (s *Storage) PublicURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key)
}
