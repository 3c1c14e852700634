// Package storage keeps exercise media in an S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultPresignedURLExpiry bounds how long upload and download links stay valid.
const DefaultPresignedURLExpiry = 15 * time.Minute

const mediaRoot = "media"

// FileStorage hands out presigned links so clients move media bytes directly
// to and from the bucket; the API only ever sees object keys.
type FileStorage interface {
	// GeneratePresignedUploadURL returns a URL accepting one PUT of objectKey.
	// The client must send the same Content-Type header.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

// MediaPrefix is the key prefix of every object attached to an exercise.
func MediaPrefix(exerciseID string) string {
	return path.Join(mediaRoot, exerciseID) + "/"
}

// NewMediaKey returns a fresh key media/<exerciseId>/<uuid>.<subtype> for an
// upload of contentType, e.g. "video/mp4" gives a ".mp4" key.
func NewMediaKey(exerciseID, contentType string) string {
	ext := contentType
	if i := strings.Index(contentType, "/"); i >= 0 {
		ext = contentType[i+1:]
	}
	if i := strings.IndexByte(ext, ';'); i >= 0 {
		ext = ext[:i]
	}
	return MediaPrefix(exerciseID) + fmt.Sprintf("%s.%s", uuid.NewString(), strings.TrimSpace(ext))
}
