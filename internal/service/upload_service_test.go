package service

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "canopy/internal/errors"
)

// memoryStorage keeps uploaded objects in a map for assertions.
type memoryStorage struct {
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (s *memoryStorage) EnsureBucket(ctx context.Context) error { return nil }

func (s *memoryStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) URL(key string) string {
	return "https://images.example.com/" + key
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestUploadService_Upload(t *testing.T) {
	store := newMemoryStorage()
	svc := NewUploadService(store)

	data := encodePNG(t, 1600, 1200)
	url, err := svc.Upload(context.Background(), "image/png", int64(len(data)), bytes.NewReader(data))

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://images.example.com/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))
	assert.Len(t, store.objects, 1)

	// Stored image is re-encoded as JPEG and downscaled to 800px wide.
	for _, stored := range store.objects {
		img, err := jpeg.Decode(bytes.NewReader(stored))
		assert.NoError(t, err)
		assert.Equal(t, 800, img.Bounds().Dx())
		assert.Equal(t, 600, img.Bounds().Dy())
	}
}

func TestUploadService_Upload_SmallImageKeepsSize(t *testing.T) {
	store := newMemoryStorage()
	svc := NewUploadService(store)

	data := encodePNG(t, 400, 300)
	_, err := svc.Upload(context.Background(), "image/png", int64(len(data)), bytes.NewReader(data))
	assert.NoError(t, err)

	for _, stored := range store.objects {
		img, err := jpeg.Decode(bytes.NewReader(stored))
		assert.NoError(t, err)
		assert.Equal(t, 400, img.Bounds().Dx())
	}
}

func TestUploadService_Upload_Rejections(t *testing.T) {
	store := newMemoryStorage()
	svc := NewUploadService(store)
	valid := encodePNG(t, 10, 10)

	tests := []struct {
		name        string
		contentType string
		size        int64
		data        []byte
	}{
		{name: "unsupported type", contentType: "application/pdf", size: 100, data: valid},
		{name: "oversized file", contentType: "image/png", size: 11 * 1024 * 1024, data: valid},
		{name: "corrupt image data", contentType: "image/png", size: 9, data: []byte("not a png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.contentType, tt.size, bytes.NewReader(tt.data))
			var vErr *apperrors.ValidationError
			assert.ErrorAs(t, err, &vErr)
		})
	}
	assert.Empty(t, store.objects)
}
