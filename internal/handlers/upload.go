package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/taskforce-app/taskforce-api/internal/errors"
	"github.com/taskforce-app/taskforce-api/internal/storage"
)

// UploadHandler issues presigned upload URLs for task attachments.
type UploadHandler struct {
	store storage.ObjectStore
}

// NewUploadHandler creates a new UploadHandler. store may be nil when no
// object storage is configured.
func NewUploadHandler(store storage.ObjectStore) *UploadHandler {
	return &UploadHandler{
		store: store,
	}
}

// CreateUpload returns a fresh storage key and a presigned URL the client
// PUTs the bytes to. The key is only persisted once a task mutation
// references it.
func (h *UploadHandler) CreateUpload(c *gin.Context) {
	type CreateUploadRequest struct {
		ContentType string `json:"content_type"`
	}

	if h.store == nil {
		apierrors.ServiceUnavailable(c, "Uploads are not configured")
		return
	}

	var req CreateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	key := storage.NewObjectKey()
	uploadURL, err := h.store.PresignUpload(c.Request.Context(), key, req.ContentType)
	if err != nil {
		apierrors.InternalError(c, "Failed to create upload")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key":        key,
		"upload_url": uploadURL,
	})
}
