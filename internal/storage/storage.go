package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ObjectStore resolves opaque storage keys to time-limited URLs. Uploads are
// two-phase: the client obtains a one-time upload URL, transfers bytes
// directly to storage, then references the key from a task mutation. An
// upload whose task creation never happens leaves an orphaned object; nothing
// here cleans those up.
type ObjectStore interface {
	// PresignUpload returns a one-time URL the client PUTs the bytes to.
	PresignUpload(ctx context.Context, key, contentType string) (string, error)

	// PresignDownload returns a time-limited download URL for a stored object.
	PresignDownload(ctx context.Context, key string) (string, error)
}

// NewObjectKey generates a fresh storage key for an upload.
func NewObjectKey() string {
	return fmt.Sprintf("tasks/%s", uuid.New().String())
}
