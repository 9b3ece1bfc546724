// Package storage presigns access to exercise demo videos held in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultPresignedURLExpiry = 15 * time.Minute

var ErrUnsupportedContentType = errors.New("unsupported video content type")

// MediaStorage hands out short-lived URLs so clients move video bytes
// directly to and from the bucket.
type MediaStorage interface {
	// PresignUpload returns a PUT url; the client must send the same Content-Type.
	PresignUpload(ctx context.Context, objectKey, contentType string) (string, error)
	PresignDownload(ctx context.Context, objectKey string) (string, error)
	DeleteObject(ctx context.Context, objectKey string) error
}

var videoExtensions = map[string]string{
	"video/mp4":       ".mp4",
	"video/quicktime": ".mov",
	"video/webm":      ".webm",
}

// VideoObjectKey builds a fresh object key for an exercise demo video.
func VideoObjectKey(exerciseID, contentType string) (string, error) {
	ext, ok := videoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedContentType, contentType)
	}
	id := strings.Trim(strings.ReplaceAll(exerciseID, "/", "-"), ".")
	if id == "" {
		id = "unassigned"
	}
	return path.Join("exercises", id, uuid.NewString()+ext), nil
}
