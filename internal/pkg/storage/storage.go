// Package storage stores uploaded images on local disk or in an S3 bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const MaxImageSize = 10 * 1024 * 1024 // 10 MB

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("file type is not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Storage persists objects under a key and returns their public URL.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(url string) string
}

// Image is a validated upload ready to be handed to a Storage.
type Image struct {
	Key         string
	ContentType string
	Size        int64
	Body        multipart.File
}

// OpenImage validates size and sniffed content type of an uploaded image and builds
// its object key under prefix. The caller closes Body.
func OpenImage(fh *multipart.FileHeader, prefix string) (*Image, error) {
	if fh.Size == 0 {
		return nil, ErrEmptyFile
	}
	if fh.Size > MaxImageSize {
		return nil, ErrFileTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	mimeType := strings.Split(http.DetectContentType(buf[:n]), ";")[0]
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		file.Close()
		return nil, ErrInvalidMimeType
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("rewind upload: %w", err)
	}

	return &Image{
		Key:         ObjectKey(prefix, ext),
		ContentType: mimeType,
		Size:        fh.Size,
		Body:        file,
	}, nil
}

// ObjectKey builds prefix/YYYY/MM/<uuid><ext>.
func ObjectKey(prefix, ext string) string {
	now := time.Now()
	name := uuid.NewString() + ext
	return filepath.ToSlash(filepath.Join(strings.Trim(prefix, "/"), fmt.Sprintf("%d/%02d", now.Year(), now.Month()), name))
}

func keyFromURL(base, url string) string {
	base = strings.TrimRight(base, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return ""
	}
	return strings.TrimPrefix(url, base)
}
