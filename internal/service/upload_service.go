package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	apperrors "canopy/internal/errors"
	"canopy/internal/storage"
)

const (
	maxUploadBytes = 10 * 1024 * 1024
	targetWidth    = 800
	jpegQuality    = 80
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadService compresses uploaded images and stores them on the image host.
type UploadService interface {
	Upload(ctx context.Context, contentType string, size int64, r io.Reader) (url string, err error)
}

type uploadService struct {
	store storage.ObjectStorage
}

// NewUploadService builds an UploadService over the given object storage.
func NewUploadService(store storage.ObjectStorage) UploadService {
	return &uploadService{store: store}
}

// Upload validates, downscales to 800px wide, re-encodes as JPEG q80, and
// stores the image under a fresh key. Returns the public URL.
func (s *uploadService) Upload(ctx context.Context, contentType string, size int64, r io.Reader) (string, error) {
	if s.store == nil {
		return "", errors.New("image storage is not configured")
	}
	if !allowedImageTypes[contentType] {
		return "", apperrors.NewValidationError("file", "invalid file type")
	}
	if size > maxUploadBytes {
		return "", apperrors.NewValidationError("file", "file too large")
	}

	src, _, err := image.Decode(io.LimitReader(r, maxUploadBytes))
	if err != nil {
		return "", apperrors.NewValidationError("file", "unreadable image data")
	}

	resized := resizeToWidth(src, targetWidth)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", fmt.Errorf("encode jpeg: %w", err)
	}

	key := uuid.New().String() + ".jpg"
	if err := s.store.Put(ctx, key, &buf, int64(buf.Len()), "image/jpeg"); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	return s.store.URL(key), nil
}

// resizeToWidth scales the image down to the given width, preserving aspect
// ratio. Images already narrower are left alone.
func resizeToWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= width {
		return src
	}

	height := bounds.Dy() * width / bounds.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
