package service

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"message_wall/internal/common"
	"message_wall/internal/platform/storage"
)

var (
	ErrNotAnImage   = fmt.Errorf("only image files may be uploaded: %w", common.ErrBadRequest)
	ErrFileTooLarge = fmt.Errorf("file too large: %w", common.ErrBadRequest)
)

type UploadService struct {
	store    storage.Storage
	maxBytes int64
}

func NewUploadService(store storage.Storage, maxBytes int64) *UploadService {
	return &UploadService{store: store, maxBytes: maxBytes}
}

type UploadResponse struct {
	URL string `json:"url"`
}

// UploadImage stores an image under a fresh random name that keeps the
// client's file extension.
func (s *UploadService) UploadImage(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*UploadResponse, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotAnImage
	}
	if s.maxBytes > 0 && size > s.maxBytes {
		return nil, common.Errorf("file exceeds %d bytes: %w", s.maxBytes, ErrFileTooLarge)
	}

	key := uuid.NewString() + "." + imageExtension(filename, contentType)
	url, err := s.store.Save(ctx, key, contentType, body, size)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	return &UploadResponse{URL: url}, nil
}

func imageExtension(filename, contentType string) string {
	if ext := slug.Make(strings.TrimPrefix(filepath.Ext(filename), ".")); ext != "" {
		return ext
	}
	if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	return "img"
}
